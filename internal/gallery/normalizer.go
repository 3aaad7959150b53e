// Package gallery turns raw gallery rows into display-ready records: URL
// duplicates removed, filename-like titles and descriptions replaced,
// categories checked against the fixed set, and a stable display order.
package gallery

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"ko_lake_villa/internal/domain"
)

// Validation notes, in the order they are appended.
const (
	NoteTitleCleaned       = "Title cleaned from filename"
	NoteDescriptionFromCat = "Description generated from category"
	NoteInvalidCategory    = "Invalid category, using default"
	NoteTitleFilename      = "Original title was filename pattern"
	NoteMissingURL         = "Missing media URL"
)

const (
	maxTitleLen = 60
	minDescLen  = 10
	maxDescTags = 3
)

type config struct {
	nearDuplicates bool
	log            zerolog.Logger
}

type Option func(*config)

// WithNearDuplicateFilter also drops records whose filename is a resized or
// re-uploaded variant of an earlier record's filename.
func WithNearDuplicateFilter() Option {
	return func(c *config) { c.nearDuplicates = true }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = l }
}

// Normalize never fails on a bad record; problems are downgraded and listed in
// ValidationNotes. The input slice is not modified.
func Normalize(records []domain.RawMediaRecord, opts ...Option) []domain.NormalizedMediaRecord {
	cfg := config{log: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}

	unique := dedupeURLs(records)
	if cfg.nearDuplicates {
		unique = dropNearDuplicates(unique)
	}

	out := make([]domain.NormalizedMediaRecord, 0, len(unique))
	for _, r := range unique {
		out = append(out, normalizeOne(r))
	}
	slices.SortStableFunc(out, compareDisplay)

	cfg.log.Debug().
		Int("in", len(records)).
		Int("out", len(out)).
		Msg("gallery normalized")
	return out
}

// NormalizeJSON decodes a JSON array of raw records and normalizes it. Any
// other JSON value fails with domain.ErrInvalidInput.
func NormalizeJSON(data []byte, opts ...Option) ([]domain.NormalizedMediaRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: gallery payload must be a JSON array", domain.ErrInvalidInput)
	}
	var records []domain.RawMediaRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return Normalize(records, opts...), nil
}

// first occurrence wins
func dedupeURLs(records []domain.RawMediaRecord) []domain.RawMediaRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.RawMediaRecord, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

func normalizeOne(r domain.RawMediaRecord) domain.NormalizedMediaRecord {
	notes := []string{}
	valid := true

	category := r.Category
	known := IsKnownCategory(category)
	if !known {
		category = DefaultCategory
	}

	rawTitle := deref(r.Title)
	title := cleanTitle(rawTitle, category)
	if r.Title == nil || title != rawTitle {
		notes = append(notes, NoteTitleCleaned)
	}

	rawDesc := deref(r.Description)
	desc, generated := cleanDescription(rawDesc, category, r.Tags)
	if generated {
		notes = append(notes, NoteDescriptionFromCat)
	}

	if !known {
		notes = append(notes, NoteInvalidCategory)
		valid = false
	}
	if IsFilenameDerived(rawTitle) {
		notes = append(notes, NoteTitleFilename)
	}
	if strings.TrimSpace(r.URL) == "" {
		notes = append(notes, NoteMissingURL)
		valid = false
	}

	mt := r.MediaType
	if mt == "" {
		mt = domain.MediaImage
	}

	return domain.NormalizedMediaRecord{
		ID:              r.ID,
		URL:             r.URL,
		Title:           title,
		Description:     desc,
		Category:        category,
		MediaType:       mt,
		Tags:            r.Tags,
		Featured:        r.Featured,
		SortOrder:       r.SortOrder,
		IsValid:         valid,
		ValidationNotes: notes,
	}
}

func cleanTitle(title, category string) string {
	if !IsFilenameDerived(title) && utf8.RuneCountInString(title) < maxTitleLen {
		return title
	}
	return CategoryLabel(category)
}

// cleanDescription keeps an authored description; otherwise it builds one from
// the category and up to three tags.
func cleanDescription(desc, category string, tags *string) (string, bool) {
	if !IsFilenameDerived(desc) && utf8.RuneCountInString(desc) > minDescLen {
		return desc, false
	}
	base := CategoryDescription(category)
	if t := splitTags(tags); len(t) > 0 {
		return base + " featuring " + strings.Join(t, ", "), true
	}
	return base, true
}

func splitTags(tags *string) []string {
	if tags == nil {
		return nil
	}
	var out []string
	for _, t := range strings.Split(*tags, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == maxDescTags {
			break
		}
	}
	return out
}

func compareDisplay(a, b domain.NormalizedMediaRecord) int {
	if a.Featured != b.Featured {
		if a.Featured {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(CategoryPriority(a.Category), CategoryPriority(b.Category)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
