//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpserver "ko_lake_villa/internal/adapters/http_server"
	redisad "ko_lake_villa/internal/adapters/redis"
	"ko_lake_villa/internal/app"
	"ko_lake_villa/internal/domain"
	"ko_lake_villa/internal/pricing"
	mysqlrepo "ko_lake_villa/internal/storage/mysql"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=kolakevilla",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "kolakevilla")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := mysqlrepo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func TestHTTP_EndToEnd(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)

	mr := miniredis.RunT(t)
	cache := redisad.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	log := zerolog.Nop()
	policy := pricing.DefaultDirectPolicy()
	var engine *pricing.Engine
	avail := app.NewNextWeekdaysAvailability(repo, func() pricing.RuleTable { return engine.Rules() }, time.Second, time.UTC)
	engine = pricing.New(avail, pricing.WithLogger(log))
	quotes := app.NewQuoteService(engine, repo, cache, time.Minute, policy)

	srv := httpserver.New(log)
	srv.MountHandlers(&httpserver.Handlers{
		Quotes:   quotes,
		Gallery:  app.NewGalleryService(repo, cache, time.Minute, log),
		Bookings: app.NewBookingService(repo, quotes, log),
		Rates:    app.NewRateSyncService(nil, repo, cache, policy, log),
		Ready:    func(ctx context.Context) error { return db.PingContext(ctx) },
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// seeded rooms are served with their platform comparison
	res, err := http.Get(ts.URL + "/v1/rooms")
	if err != nil {
		t.Fatalf("GET rooms: %v", err)
	}
	defer res.Body.Close()
	var rooms []app.RoomOffer
	if err := json.NewDecoder(res.Body).Decode(&rooms); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	if len(rooms) != 4 || rooms[0].Code != "KNP" || rooms[0].DirectRate.IntPart() != 388 {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}

	// a weekend stay never gets an offer, whatever the availability
	res = post(t, ts.URL+"/v1/pricing/quote", `{"checkIn":"2025-03-08","checkOut":"2025-03-10","roomCategory":"room"}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("quote status %d", res.StatusCode)
	}
	var quote domain.PricingResult
	if err := json.NewDecoder(res.Body).Decode(&quote); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if quote.DiscountedTotal.StringFixed(2) != "126.00" || len(quote.AppliedOfferLabels) != 0 {
		t.Fatalf("unexpected quote: %+v", quote)
	}

	res = post(t, ts.URL+"/v1/bookings", `{"checkIn":"2025-03-08","checkOut":"2025-03-10","guests":3,"roomCategory":"room","name":"Ann","email":"ann@example.com"}`)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("booking status %d", res.StatusCode)
	}
	var inquiry domain.BookingInquiry
	if err := json.NewDecoder(res.Body).Decode(&inquiry); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if inquiry.ID == 0 || inquiry.QuotedTotal.StringFixed(2) != "126.00" {
		t.Fatalf("unexpected inquiry: %+v", inquiry)
	}

	for _, body := range []string{
		`{"url":"/uploads/WhatsApp Image 2024-05-01.jpeg","category":"koggala-lake","tags":"lake,boat"}`,
		`{"url":"/uploads/WhatsApp Image 2024-05-01.jpeg","category":"koggala-lake"}`,
		`{"url":"/uploads/dinner.jpg","title":"Dinner by the lake","category":"dining-area","featured":true}`,
	} {
		if res := post(t, ts.URL+"/v1/admin/gallery", body); res.StatusCode != http.StatusCreated {
			t.Fatalf("create media status %d", res.StatusCode)
		}
	}

	res, err = http.Get(ts.URL + "/v1/gallery")
	if err != nil {
		t.Fatalf("GET gallery: %v", err)
	}
	defer res.Body.Close()
	var gallery []domain.NormalizedMediaRecord
	if err := json.NewDecoder(res.Body).Decode(&gallery); err != nil {
		t.Fatalf("decode gallery: %v", err)
	}
	if len(gallery) != 2 || gallery[0].Title != "Dinner by the lake" || gallery[1].Title != "Koggala Lake" {
		t.Fatalf("unexpected gallery: %+v", gallery)
	}

	res, err = http.Get(ts.URL + "/healthz")
	if err != nil || res.StatusCode != http.StatusOK {
		t.Fatalf("healthz: %v", err)
	}
	res.Body.Close()
}
