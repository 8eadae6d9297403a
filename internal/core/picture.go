package core

import (
	"fmt"
	"time"
)

// Picture is one image attached to a material.
type Picture struct {
	ID          int64
	MaterialID  int64
	Data        []byte
	FileName    string
	ContentType string
	FileSize    int64
	UploadDate  time.Time
	IsPrimary   bool
	Description string
}

// NewPicture builds an unsaved picture for materialID. FileSize is derived
// from data.
func NewPicture(materialID int64, fileName, contentType string, data []byte, uploaded time.Time, description string) *Picture {
	return &Picture{
		MaterialID:  materialID,
		Data:        data,
		FileName:    fileName,
		ContentType: contentType,
		FileSize:    int64(len(data)),
		UploadDate:  uploaded,
		Description: description,
	}
}

// PictureSet is the ordered collection of one material's pictures. Every
// mutation keeps exactly one primary picture while the set is non-empty.
type PictureSet struct {
	pics []*Picture
}

// NewPictureSet wraps pictures loaded from storage, in insertion order.
// It fails with ErrPictureInvariant if the loaded state already breaks the
// primary rule.
func NewPictureSet(pics []*Picture) (*PictureSet, error) {
	s := &PictureSet{pics: append([]*Picture(nil), pics...)}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// Attach appends p. It becomes primary if and only if the set was empty.
func (s *PictureSet) Attach(p *Picture) error {
	if p.FileSize != int64(len(p.Data)) {
		return &ValidationError{Field: "fileSize", Value: p.FileSize,
			Reason: fmt.Sprintf("does not match data length %d", len(p.Data))}
	}
	p.IsPrimary = len(s.pics) == 0
	s.pics = append(s.pics, p)
	return nil
}

// Remove drops the picture with id. When the removed picture was primary and
// others remain, the earliest remaining picture by upload date (ties by
// insertion order) is promoted and returned as promoted.
func (s *PictureSet) Remove(id int64) (removed, promoted *Picture, err error) {
	idx := s.index(id)
	if idx < 0 {
		return nil, nil, &NotFoundError{Entity: "picture", ID: id}
	}
	removed = s.pics[idx]
	s.pics = append(s.pics[:idx:idx], s.pics[idx+1:]...)

	if removed.IsPrimary && len(s.pics) > 0 {
		promoted = s.pics[0]
		for _, p := range s.pics[1:] {
			if p.UploadDate.Before(promoted.UploadDate) {
				promoted = p
			}
		}
		promoted.IsPrimary = true
	}
	return removed, promoted, nil
}

// SetPrimary makes the picture with id the only primary. It returns the
// pictures whose flag changed, which is empty if id was already primary.
func (s *PictureSet) SetPrimary(id int64) ([]*Picture, error) {
	if s.index(id) < 0 {
		return nil, &NotFoundError{Entity: "picture", ID: id}
	}
	var changed []*Picture
	for _, p := range s.pics {
		want := p.ID == id
		if p.IsPrimary != want {
			p.IsPrimary = want
			changed = append(changed, p)
		}
	}
	return changed, nil
}

// Primary returns the primary picture, if any.
func (s *PictureSet) Primary() (*Picture, bool) {
	for _, p := range s.pics {
		if p.IsPrimary {
			return p, true
		}
	}
	return nil, false
}

// All returns copies of the pictures in insertion order.
func (s *PictureSet) All() []Picture {
	out := make([]Picture, len(s.pics))
	for i, p := range s.pics {
		out[i] = *p
	}
	return out
}

// Len returns the number of pictures.
func (s *PictureSet) Len() int { return len(s.pics) }

func (s *PictureSet) index(id int64) int {
	for i, p := range s.pics {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *PictureSet) check() error {
	primaries := 0
	for _, p := range s.pics {
		if p.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 || (len(s.pics) > 0 && primaries == 0) {
		return fmt.Errorf("%w: %d primaries among %d pictures", ErrPictureInvariant, primaries, len(s.pics))
	}
	return nil
}
