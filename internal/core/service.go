package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/JonMunkholm/materials/internal/config"
)

// ResetTimeout is the maximum duration for a catalog reset.
var ResetTimeout = 30 * time.Second

// Service provides the catalog operations behind the HTTP API.
type Service struct {
	store   Store
	clock   Clock
	limiter *ImportLimiter

	importCfg  config.ImportConfig
	pictureCfg config.PictureConfig
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService creates a new Service over store. A nil cfg uses the defaults.
func NewService(store Store, cfg *config.Config, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Service{
		store:      store,
		clock:      SystemClock{},
		limiter:    NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		importCfg:  cfg.Import,
		pictureCfg: cfg.Picture,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ImportLimiterStatus returns the current state of the import limiter.
func (s *Service) ImportLimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until every running import finishes or ctx ends.
// Used during graceful shutdown.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// PictureUpload is one picture received with a create or add request.
type PictureUpload struct {
	FileName    string
	ContentType string
	Data        []byte
	Description string
}

// validateUploads checks count, size and content type of uploads.
func (s *Service) validateUploads(uploads []PictureUpload) error {
	if limit := s.pictureCfg.MaxPerRequest; limit > 0 && len(uploads) > limit {
		return &ValidationError{Field: "pictures", Value: len(uploads),
			Reason: fmt.Sprintf("too many pictures, at most %d per request", limit)}
	}
	for _, u := range uploads {
		if len(u.Data) == 0 {
			return &ValidationError{Field: "pictures", Value: u.FileName, Reason: "picture is empty"}
		}
		if limit := s.pictureCfg.MaxSize; limit > 0 && int64(len(u.Data)) > limit {
			return &ValidationError{Field: "pictures", Value: u.FileName,
				Reason: fmt.Sprintf("picture too large, limit is %d bytes", limit)}
		}
		ct := strings.ToLower(strings.TrimSpace(u.ContentType))
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = strings.TrimSpace(ct[:i])
		}
		if len(s.pictureCfg.AllowedTypes) > 0 && !slices.Contains(s.pictureCfg.AllowedTypes, ct) {
			return &ValidationError{Field: "pictures", Value: u.ContentType,
				Reason: "unsupported picture type, allowed: " + strings.Join(s.pictureCfg.AllowedTypes, ", ")}
		}
	}
	return nil
}

// attachUploads adds uploads to the pictures of rec through store. The set
// is loaded from store so the first picture of an empty set becomes primary.
func (s *Service) attachUploads(ctx context.Context, store Store, rec *Record, uploads []PictureUpload) ([]Picture, error) {
	set, err := s.loadPictureSet(ctx, store, rec.ID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	added := make([]Picture, 0, len(uploads))
	for _, u := range uploads {
		desc := u.Description
		if desc == "" {
			desc = "Image for " + rec.Name
		}
		p := NewPicture(rec.ID, u.FileName, u.ContentType, u.Data, now, desc)
		if err := set.Attach(p); err != nil {
			return nil, err
		}
		saved, err := store.SavePicture(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("save picture %s: %w", u.FileName, err)
		}
		*p = *saved
		added = append(added, *saved)
	}
	return added, nil
}

func (s *Service) loadPictureSet(ctx context.Context, store PictureStore, materialID int64) (*PictureSet, error) {
	pics, err := store.FindPicturesByMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("load pictures: %w", err)
	}
	set, err := NewPictureSet(pics)
	if err != nil {
		return nil, fmt.Errorf("material %d: %w", materialID, err)
	}
	return set, nil
}
