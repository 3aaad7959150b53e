package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ko_lake_villa/internal/adapters/observability"
	"ko_lake_villa/internal/domain"
	"ko_lake_villa/internal/gallery"
)

const galleryCacheKey = "gallery:v1"

// MediaInput is an admin-submitted gallery row.
type MediaInput struct {
	URL         string           `json:"url" validate:"required,max=512"`
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Category    string           `json:"category" validate:"required,max=64"`
	MediaType   domain.MediaType `json:"mediaType" validate:"omitempty,oneof=image video"`
	Tags        *string          `json:"tags" validate:"omitempty,max=512"`
	Featured    bool             `json:"featured"`
	SortOrder   int              `json:"sortOrder" validate:"gte=0"`
}

// MediaPatch changes only the fields that are set.
type MediaPatch struct {
	URL         *string           `json:"url" validate:"omitempty,min=1,max=512"`
	Title       *string           `json:"title" validate:"omitempty,max=255"`
	Description *string           `json:"description" validate:"omitempty,max=2000"`
	Category    *string           `json:"category" validate:"omitempty,min=1,max=64"`
	MediaType   *domain.MediaType `json:"mediaType" validate:"omitempty,oneof=image video"`
	Tags        *string           `json:"tags" validate:"omitempty,max=512"`
	Featured    *bool             `json:"featured"`
	SortOrder   *int              `json:"sortOrder" validate:"omitempty,gte=0"`
}

// CleanReport counts the rows a Clean pass rewrote and removed.
type CleanReport struct {
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

type GalleryService struct {
	repo     domain.GalleryRepository
	cache    domain.Cache
	cacheTTL time.Duration
	opts     []gallery.Option
	log      zerolog.Logger
}

func NewGalleryService(r domain.GalleryRepository, c domain.Cache, ttl time.Duration, l zerolog.Logger, opts ...gallery.Option) *GalleryService {
	opts = append([]gallery.Option{gallery.WithLogger(l)}, opts...)
	return &GalleryService{repo: r, cache: c, cacheTTL: ttl, opts: opts, log: l}
}

// List returns the normalized gallery, optionally narrowed to one category.
func (s *GalleryService) List(ctx context.Context, category string) ([]domain.NormalizedMediaRecord, error) {
	if category != "" && !gallery.IsKnownCategory(category) {
		return nil, fmt.Errorf("%w: unknown gallery category %q", domain.ErrInvalidInput, category)
	}

	var all []domain.NormalizedMediaRecord
	if ok, _ := s.cache.Get(ctx, galleryCacheKey, &all); !ok {
		raw, err := s.repo.ListMedia(ctx)
		if err != nil {
			return nil, err
		}
		all = gallery.Normalize(raw, s.opts...)
		for _, n := range all {
			observability.ObserveGalleryNotes(n.ValidationNotes)
		}
		_ = s.cache.Set(ctx, galleryCacheKey, all, int(s.cacheTTL.Seconds()))
	}

	if category == "" {
		return all, nil
	}
	out := make([]domain.NormalizedMediaRecord, 0, len(all))
	for _, n := range all {
		if n.Category == category {
			out = append(out, n)
		}
	}
	return out, nil
}

// Raw lists the stored rows as they are, for the admin screen.
func (s *GalleryService) Raw(ctx context.Context) ([]domain.RawMediaRecord, error) {
	return s.repo.ListMedia(ctx)
}

func (s *GalleryService) Get(ctx context.Context, id int64) (domain.RawMediaRecord, error) {
	return s.repo.GetMedia(ctx, id)
}

func (s *GalleryService) Create(ctx context.Context, in MediaInput) (domain.RawMediaRecord, error) {
	if err := validateStruct(in); err != nil {
		return domain.RawMediaRecord{}, err
	}
	m := domain.RawMediaRecord{
		URL:         in.URL,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		MediaType:   in.MediaType,
		Tags:        in.Tags,
		Featured:    in.Featured,
		SortOrder:   in.SortOrder,
	}
	if m.MediaType == "" {
		m.MediaType = domain.MediaImage
	}
	id, err := s.repo.CreateMedia(ctx, m)
	if err != nil {
		return domain.RawMediaRecord{}, err
	}
	m.ID = id
	s.invalidate(ctx)
	return m, nil
}

func (s *GalleryService) Update(ctx context.Context, id int64, p MediaPatch) (domain.RawMediaRecord, error) {
	if err := validateStruct(p); err != nil {
		return domain.RawMediaRecord{}, err
	}
	m, err := s.repo.GetMedia(ctx, id)
	if err != nil {
		return domain.RawMediaRecord{}, err
	}
	if p.URL != nil {
		m.URL = *p.URL
	}
	if p.Title != nil {
		m.Title = p.Title
	}
	if p.Description != nil {
		m.Description = p.Description
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.MediaType != nil {
		m.MediaType = *p.MediaType
	}
	if p.Tags != nil {
		m.Tags = p.Tags
	}
	if p.Featured != nil {
		m.Featured = *p.Featured
	}
	if p.SortOrder != nil {
		m.SortOrder = *p.SortOrder
	}
	if err := s.repo.UpdateMedia(ctx, m); err != nil {
		return domain.RawMediaRecord{}, err
	}
	s.invalidate(ctx)
	return m, nil
}

func (s *GalleryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMedia(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Preview normalizes a JSON array of raw rows without touching storage.
func (s *GalleryService) Preview(data []byte) ([]domain.NormalizedMediaRecord, error) {
	return gallery.NormalizeJSON(data, s.opts...)
}

// Clean writes the normalized titles, descriptions and categories back to
// storage and removes rows the normalizer dropped as duplicates.
func (s *GalleryService) Clean(ctx context.Context) (CleanReport, error) {
	raw, err := s.repo.ListMedia(ctx)
	if err != nil {
		return CleanReport{}, err
	}
	byID := make(map[int64]domain.RawMediaRecord, len(raw))
	for _, r := range raw {
		byID[r.ID] = r
	}

	var rep CleanReport
	defer func() {
		if rep.Updated+rep.Deleted > 0 {
			s.invalidate(ctx)
		}
	}()

	kept := make(map[int64]struct{}, len(raw))
	// only exact URL duplicates are ever deleted
	for _, n := range gallery.Normalize(raw, gallery.WithLogger(s.log)) {
		kept[n.ID] = struct{}{}
		if !mediaChanged(byID[n.ID], n) {
			continue
		}
		if err := s.repo.UpdateMedia(ctx, n.Raw()); err != nil {
			return rep, fmt.Errorf("clean media %d: %w", n.ID, err)
		}
		rep.Updated++
	}
	for _, r := range raw {
		if _, ok := kept[r.ID]; ok {
			continue
		}
		if err := s.repo.DeleteMedia(ctx, r.ID); err != nil {
			return rep, fmt.Errorf("drop duplicate media %d: %w", r.ID, err)
		}
		rep.Deleted++
	}

	s.log.Info().Int("updated", rep.Updated).Int("deleted", rep.Deleted).Msg("gallery cleaned")
	return rep, nil
}

func (s *GalleryService) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, galleryCacheKey); err != nil {
		s.log.Warn().Err(err).Msg("gallery cache not invalidated")
	}
}
