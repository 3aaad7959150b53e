package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"ko_lake_villa/internal/app"
	"ko_lake_villa/internal/domain"
)

const maxPreviewBody = 4 << 20

type Handlers struct {
	Quotes   *app.QuoteService
	Gallery  *app.GalleryService
	Bookings *app.BookingService
	Rates    *app.RateSyncService

	// PublicRPS limits booking and contact submissions per client; zero disables it.
	PublicRPS float64
	// Ready reports dependency health for /healthz; nil means always ready.
	Ready func(ctx context.Context) error
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", h.healthz)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Post("/pricing/quote", h.quote)
		r.Post("/pricing/eligibility", h.eligibility)
		r.Get("/rooms", h.listRooms)
		r.Get("/gallery", h.listGallery)

		r.Group(func(r chi.Router) {
			if h.PublicRPS > 0 {
				r.Use(RateLimit(h.PublicRPS, int(h.PublicRPS*3), s.log))
			}
			r.Post("/bookings", h.createInquiry)
			r.Post("/contact", h.createContact)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/gallery", h.rawGallery)
			r.Post("/gallery", h.createMedia)
			r.Patch("/gallery/{id}", h.updateMedia)
			r.Delete("/gallery/{id}", h.deleteMedia)
			r.Post("/gallery/clean", h.cleanGallery)
			r.Post("/gallery/preview", h.previewGallery)

			r.Get("/bookings", h.listInquiries)
			r.Post("/bookings/{id}/processed", h.markProcessed)
			r.Get("/contacts", h.listContacts)
			r.Post("/contacts/{id}/read", h.markRead)

			r.Put("/rooms/{code}/rate", h.setRoomRate)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, fields []domain.FieldError) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Validation Failed", "request has invalid fields", ve.Items)
	case errors.Is(err, domain.ErrInvalidRange):
		writeProblem(w, http.StatusBadRequest, "Invalid Range", err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, http.StatusGatewayTimeout, "Timeout", "upstream took too long", nil)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "", nil)
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Malformed Body", "request body must be valid JSON", nil)
		return false
	}
	return true
}

func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number", nil)
		return 0, false
	}
	return id, true
}

func pageQuery(w http.ResponseWriter, r *http.Request) (domain.PageQuery, bool) {
	var pg domain.PageQuery
	for name, dst := range map[string]*int{"limit": &pg.Limit, "offset": &pg.Offset} {
		v := r.URL.Query().Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid "+name, name+" must be a non-negative integer", nil)
			return pg, false
		}
		*dst = n
	}
	return pg, true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil {
		if err := h.Ready(r.Context()); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Unavailable", err.Error(), nil)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	var in app.StayInput
	if !decode(w, r, &in) {
		return
	}
	q, err := in.Query()
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Quotes.Quote(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, res)
}

func (h *Handlers) eligibility(w http.ResponseWriter, r *http.Request) {
	var in app.StayInput
	if !decode(w, r, &in) {
		return
	}
	q, err := in.Query()
	if err != nil {
		writeError(w, r, err)
		return
	}
	adv, err := h.Quotes.Eligibility(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, adv)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	var checkIn *time.Time
	if v := r.URL.Query().Get("checkIn"); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid checkIn", "checkIn must be a date in YYYY-MM-DD format", nil)
			return
		}
		checkIn = &d
	}
	out, err := h.Quotes.Rooms(r.Context(), checkIn)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, out)
}

func (h *Handlers) listGallery(w http.ResponseWriter, r *http.Request) {
	out, err := h.Gallery.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write gallery body")
	}
}

func (h *Handlers) createInquiry(w http.ResponseWriter, r *http.Request) {
	var in app.InquiryInput
	if !decode(w, r, &in) {
		return
	}
	b, err := h.Bookings.CreateInquiry(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, b)
}

func (h *Handlers) createContact(w http.ResponseWriter, r *http.Request) {
	var in app.ContactInput
	if !decode(w, r, &in) {
		return
	}
	m, err := h.Bookings.CreateContact(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, m)
}

func (h *Handlers) rawGallery(w http.ResponseWriter, r *http.Request) {
	out, err := h.Gallery.Raw(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, out)
}

func (h *Handlers) createMedia(w http.ResponseWriter, r *http.Request) {
	var in app.MediaInput
	if !decode(w, r, &in) {
		return
	}
	m, err := h.Gallery.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, m)
}

func (h *Handlers) updateMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p app.MediaPatch
	if !decode(w, r, &p) {
		return
	}
	m, err := h.Gallery.Update(r.Context(), id, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, m)
}

func (h *Handlers) deleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Gallery.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) cleanGallery(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Gallery.Clean(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, rep)
}

func (h *Handlers) previewGallery(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPreviewBody))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeProblem(w, http.StatusRequestEntityTooLarge, "Payload Too Large",
				fmt.Sprintf("preview body is limited to %d bytes", tooBig.Limit), nil)
			return
		}
		writeProblem(w, http.StatusBadRequest, "Malformed Body", "could not read request body", nil)
		return
	}
	out, err := h.Gallery.Preview(data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, out)
}

func (h *Handlers) listInquiries(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	out, err := h.Bookings.Inquiries(r.Context(), pg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, out)
}

func (h *Handlers) markProcessed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Bookings.MarkProcessed(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listContacts(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	out, err := h.Bookings.Contacts(r.Context(), pg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, out)
}

func (h *Handlers) markRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Bookings.MarkRead(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type roomRateRequest struct {
	PlatformRate decimal.Decimal  `json:"platformRate"`
	DirectRate   *decimal.Decimal `json:"directRate,omitempty"`
}

type roomRateResponse struct {
	Code         string          `json:"code"`
	PlatformRate decimal.Decimal `json:"platformRate"`
	DirectRate   decimal.Decimal `json:"directRate"`
}

func (h *Handlers) setRoomRate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var req roomRateRequest
	if !decode(w, r, &req) {
		return
	}
	direct, err := h.Rates.SetPlatformRate(r.Context(), code, req.PlatformRate, req.DirectRate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, roomRateResponse{Code: code, PlatformRate: req.PlatformRate, DirectRate: direct})
}
