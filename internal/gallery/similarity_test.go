package gallery

import (
	"testing"

	"ko_lake_villa/internal/domain"
)

func TestBaseFilename(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"/uploads/gallery/Pool_Deck_large.JPG", "pool_deck"},
		{"/uploads/pool-1712345678901-3-view.png", "pool-view"},
		{"https://cdn.example/img/lake_800x600.webp", "lake"},
		{"/a/b/sunset.mp4", "sunset.mp4"},
	}
	for _, tt := range tests {
		if got := baseFilename(tt.url); got != tt.want {
			t.Errorf("baseFilename(%q) = %q; want %q", tt.url, got, tt.want)
		}
	}
}

func TestSimilarKeys(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"poolview", "poolview", true},
		{"poolview", "poolviewnight", true},
		{"poolview", "poolvew", true},
		{"poolview", "lakegarden", false},
		{"", "", false},
		{"", "pool", false},
	}
	for _, tt := range tests {
		if got := similarKeys(tt.a, tt.b); got != tt.want {
			t.Errorf("similarKeys(%q, %q) = %v; want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNormalize_NearDuplicatesOnlyWhenEnabled(t *testing.T) {
	in := []domain.RawMediaRecord{
		{ID: 1, URL: "/uploads/pool-view.jpg", Category: "pool-deck"},
		{ID: 2, URL: "/uploads/pool-view_thumb.jpg", Category: "pool-deck"},
		{ID: 3, URL: "/uploads/pool-1712345678901-2-view.jpg", Category: "pool-deck"},
		{ID: 4, URL: "/uploads/dining-room.jpg", Category: "dining-area"},
		{ID: 5, URL: "/uploads/20240101.jpg", Category: "events"},
		{ID: 6, URL: "/uploads/20240102.jpg", Category: "events"},
	}

	if got := len(Normalize(in)); got != 6 {
		t.Fatalf("default normalize kept %d records; want 6", got)
	}

	out := Normalize(in, WithNearDuplicateFilter())
	var ids []int64
	for _, r := range out {
		ids = append(ids, r.ID)
	}
	want := []int64{1, 4, 5, 6}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v; want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v; want %v", ids, want)
		}
	}
}
