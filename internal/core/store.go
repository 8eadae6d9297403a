package core

import (
	"context"
	"math"
	"time"

	"github.com/JonMunkholm/materials/internal/schema"
)

// Default and maximum page sizes for searches.
const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// MaxPage is the highest page index a search accepts. Page*Size stays within
// an int32 offset at any page size.
const MaxPage = math.MaxInt32 / MaxPageSize

// SearchFilter narrows a material search. Empty fields do not filter.
// Query matches name or notes as a case-insensitive substring.
type SearchFilter struct {
	Category  string
	Kind      schema.Kind
	Condition string
	Query     string
	Page      int // 0-based
	Size      int
}

// Normalize clamps paging to valid values.
func (f SearchFilter) Normalize() SearchFilter {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.Size <= 0 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
	return f
}

// Page is one page of search results, newest first.
type Page struct {
	Records    []*Record
	Page       int
	Size       int
	TotalCount int
}

// TotalPages returns the number of pages at the page's size.
func (p Page) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.TotalCount + p.Size - 1) / p.Size
}

// MaterialStore persists material records.
type MaterialStore interface {
	// SaveMaterial inserts rec when rec.ID is zero and updates it otherwise.
	// The returned record carries the assigned ID.
	SaveMaterial(ctx context.Context, rec *Record) (*Record, error)
	FindMaterial(ctx context.Context, id int64) (*Record, error)
	ListMaterials(ctx context.Context) ([]*Record, error)
	// DeleteMaterial removes the record and all of its pictures.
	DeleteMaterial(ctx context.Context, id int64) error
	SearchMaterials(ctx context.Context, filter SearchFilter) (Page, error)
}

// PictureStore persists pictures. FindPicturesByMaterial returns pictures in
// insertion order.
type PictureStore interface {
	SavePicture(ctx context.Context, p *Picture) (*Picture, error)
	FindPicture(ctx context.Context, id int64) (*Picture, error)
	FindPicturesByMaterial(ctx context.Context, materialID int64) ([]*Picture, error)
	DeletePicture(ctx context.Context, id int64) error
}

// AuditStore persists the activity trail.
type AuditStore interface {
	AppendAudit(ctx context.Context, entry AuditEntry) error
	ListAudit(ctx context.Context, filter AuditFilter) ([]AuditEntry, error)
	// PruneAudit deletes entries created before cutoff and reports how many.
	PruneAudit(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store is the full persistence contract of the service.
type Store interface {
	MaterialStore
	PictureStore
	AuditStore

	// WithMaterialLock runs fn with the material row locked against other
	// writers. fn receives a Store bound to the same transaction; changes
	// made through it commit together when fn returns nil.
	WithMaterialLock(ctx context.Context, materialID int64, fn func(Store) error) error

	// Reset deletes every material, picture and audit entry.
	Reset(ctx context.Context) error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
