package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/materials/internal/schema"
)

// SearchResult is one page of materials in transfer shape.
type SearchResult struct {
	Items      []MaterialDTO `json:"items"`
	Page       int           `json:"page"`
	Size       int           `json:"size"`
	TotalCount int           `json:"totalCount"`
	TotalPages int           `json:"totalPages"`
}

// SearchParams are the raw query parameters of a search. Type must be empty
// or name a kind exactly.
type SearchParams struct {
	Category  string
	Type      string
	Condition string
	Query     string
	Page      int
	Size      int
}

// KindInfo describes one material kind and its variant fields.
type KindInfo struct {
	Kind   schema.Kind `json:"kind"`
	Fields []FieldInfo `json:"fields"`
}

// FieldInfo describes one variant field of a kind.
type FieldInfo struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Required   bool     `json:"required"`
	EnumValues []string `json:"enumValues,omitempty"`
}

// ListKinds returns every kind with its field layout, in declaration order.
func (s *Service) ListKinds() []KindInfo {
	return DescribeKinds()
}

// DescribeKinds returns every kind with its field layout, in declaration
// order.
func DescribeKinds() []KindInfo {
	kinds := schema.Kinds()
	out := make([]KindInfo, 0, len(kinds))
	for _, k := range kinds {
		specs, _ := schema.FieldsFor(k)
		info := KindInfo{Kind: k, Fields: make([]FieldInfo, 0, len(specs))}
		for _, spec := range specs {
			info.Fields = append(info.Fields, FieldInfo{
				Name:       spec.Name,
				Type:       spec.Type.String(),
				Required:   spec.Required,
				EnumValues: spec.EnumValues,
			})
		}
		out = append(out, info)
	}
	return out
}

// GetMaterial returns material id with its picture metadata.
func (s *Service) GetMaterial(ctx context.Context, id int64) (MaterialDTO, error) {
	rec, err := s.store.FindMaterial(ctx, id)
	if err != nil {
		return MaterialDTO{}, err
	}
	pics, err := s.store.FindPicturesByMaterial(ctx, id)
	if err != nil {
		return MaterialDTO{}, fmt.Errorf("load pictures: %w", err)
	}
	return ToDTO(rec, derefPictures(pics)...), nil
}

// SearchMaterials returns one page of materials matching params, newest
// first. Each item carries its picture metadata.
func (s *Service) SearchMaterials(ctx context.Context, params SearchParams) (SearchResult, error) {
	filter := SearchFilter{
		Category:  strings.TrimSpace(params.Category),
		Condition: strings.TrimSpace(params.Condition),
		Query:     strings.TrimSpace(params.Query),
		Page:      params.Page,
		Size:      params.Size,
	}.Normalize()
	if t := strings.TrimSpace(params.Type); t != "" {
		kind, err := schema.ParseKind(t)
		if err != nil {
			return SearchResult{}, err
		}
		filter.Kind = kind
	}

	page, err := s.store.SearchMaterials(ctx, filter)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search materials: %w", err)
	}

	result := SearchResult{
		Items:      make([]MaterialDTO, 0, len(page.Records)),
		Page:       page.Page,
		Size:       page.Size,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages(),
	}
	for _, rec := range page.Records {
		pics, err := s.store.FindPicturesByMaterial(ctx, rec.ID)
		if err != nil {
			return SearchResult{}, fmt.Errorf("load pictures: %w", err)
		}
		result.Items = append(result.Items, ToDTO(rec, derefPictures(pics)...))
	}
	return result, nil
}

// Stats summarizes the whole catalog.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	recs, err := s.store.ListMaterials(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list materials: %w", err)
	}
	return ComputeStats(recs, s.clock.Now()), nil
}

// Picture returns one picture including its data.
func (s *Service) Picture(ctx context.Context, id int64) (*Picture, error) {
	return s.store.FindPicture(ctx, id)
}

// PictureThumbnail returns a JPEG thumbnail of picture id. A width of zero
// uses the configured default.
func (s *Service) PictureThumbnail(ctx context.Context, id int64, width int) ([]byte, error) {
	if width == 0 {
		width = s.pictureCfg.ThumbnailWidth
	}
	if width < 0 || width > MaxThumbnailWidth {
		return nil, &ValidationError{Field: "width", Value: width,
			Reason: fmt.Sprintf("must be between 1 and %d", MaxThumbnailWidth)}
	}
	p, err := s.store.FindPicture(ctx, id)
	if err != nil {
		return nil, err
	}
	return Thumbnail(p.Data, width)
}
