package core

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/JonMunkholm/materials/internal/logging"
	"github.com/JonMunkholm/materials/internal/schema"
)

// CreateMaterial validates dto, saves it as a new material and attaches
// uploads in order. The first picture becomes primary. Any ID or DateAdded
// in dto is ignored. If a picture cannot be saved the material is removed
// again and the error returned.
func (s *Service) CreateMaterial(ctx context.Context, dto MaterialDTO, uploads []PictureUpload) (MaterialDTO, error) {
	if err := s.validateUploads(uploads); err != nil {
		return MaterialDTO{}, err
	}

	dto.ID = 0
	dto.DateAdded = nil
	rec, err := FromDTO(dto, s.clock.Now())
	if err != nil {
		return MaterialDTO{}, err
	}

	saved, err := s.store.SaveMaterial(ctx, rec)
	if err != nil {
		return MaterialDTO{}, fmt.Errorf("save material: %w", err)
	}

	var pics []Picture
	err = s.store.WithMaterialLock(ctx, saved.ID, func(tx Store) error {
		if len(uploads) > 0 {
			added, err := s.attachUploads(ctx, tx, saved, uploads)
			if err != nil {
				return err
			}
			pics = added
		}
		s.recordAudit(ctx, tx, AuditEntry{
			Action:       ActionCreated,
			MaterialID:   saved.ID,
			MaterialName: saved.Name,
			Details:      fmt.Sprintf("Material created: %s (%s)", saved.Name, saved.Kind()),
		})
		return nil
	})
	if err != nil {
		s.rollbackCreate(ctx, saved.ID)
		return MaterialDTO{}, err
	}

	logging.WithFields(ctx,
		"material_id", saved.ID,
		"kind", saved.Kind(),
		"pictures", len(pics),
	).Info("material created")

	return ToDTO(saved, pics...), nil
}

// rollbackCreate removes a material whose creation did not complete.
func (s *Service) rollbackCreate(ctx context.Context, id int64) {
	if err := s.store.DeleteMaterial(context.WithoutCancel(ctx), id); err != nil {
		logging.WithFields(ctx, "material_id", id).
			Error("failed to roll back partially created material", "error", err)
	}
}

// UpdateMaterial applies a partial update to material id. Kind, ID and
// DateAdded never change; variant fields of another kind are ignored.
func (s *Service) UpdateMaterial(ctx context.Context, id int64, patch MaterialPatchDTO) (MaterialDTO, error) {
	var out MaterialDTO
	err := s.store.WithMaterialLock(ctx, id, func(tx Store) error {
		current, err := tx.FindMaterial(ctx, id)
		if err != nil {
			return err
		}
		common, vals, err := PatchFromDTO(current.Kind(), patch)
		if err != nil {
			return err
		}
		next, err := current.Update(common, vals)
		if err != nil {
			return err
		}
		saved, err := tx.SaveMaterial(ctx, next)
		if err != nil {
			return fmt.Errorf("save material: %w", err)
		}

		pics, err := tx.FindPicturesByMaterial(ctx, id)
		if err != nil {
			return fmt.Errorf("load pictures: %w", err)
		}

		changed := changedFields(current, saved)
		details := "No changes"
		if len(changed) > 0 {
			details = "Updated fields: " + strings.Join(changed, ", ")
		}
		s.recordAudit(ctx, tx, AuditEntry{
			Action:       ActionUpdated,
			MaterialID:   saved.ID,
			MaterialName: saved.Name,
			Details:      details,
		})

		out = ToDTO(saved, derefPictures(pics)...)
		return nil
	})
	if err != nil {
		return MaterialDTO{}, err
	}
	return out, nil
}

// DeleteMaterial removes material id and its pictures. Its audit history is
// kept.
func (s *Service) DeleteMaterial(ctx context.Context, id int64) error {
	return s.store.WithMaterialLock(ctx, id, func(tx Store) error {
		rec, err := tx.FindMaterial(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteMaterial(ctx, id); err != nil {
			return fmt.Errorf("delete material: %w", err)
		}
		s.recordAudit(ctx, tx, AuditEntry{
			Action:       ActionDeleted,
			MaterialID:   id,
			MaterialName: rec.Name,
			Details:      fmt.Sprintf("Material deleted: %s", rec.Name),
		})
		return nil
	})
}

// AddPictures attaches uploads to material id. If the material had no
// pictures, the first upload becomes primary.
func (s *Service) AddPictures(ctx context.Context, id int64, uploads []PictureUpload) ([]PictureDTO, error) {
	if len(uploads) == 0 {
		return nil, &ValidationError{Field: "pictures", Reason: "no pictures uploaded"}
	}
	if err := s.validateUploads(uploads); err != nil {
		return nil, err
	}

	var out []PictureDTO
	err := s.store.WithMaterialLock(ctx, id, func(tx Store) error {
		rec, err := tx.FindMaterial(ctx, id)
		if err != nil {
			return err
		}
		added, err := s.attachUploads(ctx, tx, rec, uploads)
		if err != nil {
			return err
		}
		for _, p := range added {
			out = append(out, PictureToDTO(p))
		}
		s.recordAudit(ctx, tx, AuditEntry{
			Action:       ActionPictureAdded,
			MaterialID:   rec.ID,
			MaterialName: rec.Name,
			Details:      fmt.Sprintf("Added %d picture(s)", len(added)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemovePicture deletes picture pictureID of material materialID. When the
// primary picture is removed, the earliest remaining picture is promoted.
func (s *Service) RemovePicture(ctx context.Context, materialID, pictureID int64) error {
	return s.store.WithMaterialLock(ctx, materialID, func(tx Store) error {
		rec, err := tx.FindMaterial(ctx, materialID)
		if err != nil {
			return err
		}
		set, err := s.loadPictureSet(ctx, tx, materialID)
		if err != nil {
			return err
		}
		removed, promoted, err := set.Remove(pictureID)
		if err != nil {
			return err
		}
		if err := tx.DeletePicture(ctx, removed.ID); err != nil {
			return fmt.Errorf("delete picture: %w", err)
		}

		details := fmt.Sprintf("Removed picture %s", removed.FileName)
		if promoted != nil {
			if _, err := tx.SavePicture(ctx, promoted); err != nil {
				return fmt.Errorf("promote picture: %w", err)
			}
			details += fmt.Sprintf(", %s is now primary", promoted.FileName)
		}
		s.recordAudit(ctx, tx, AuditEntry{
			Action:       ActionPictureRemoved,
			MaterialID:   rec.ID,
			MaterialName: rec.Name,
			Details:      details,
		})
		return nil
	})
}

// SetPrimaryPicture makes pictureID the only primary picture of materialID.
func (s *Service) SetPrimaryPicture(ctx context.Context, materialID, pictureID int64) ([]PictureDTO, error) {
	var out []PictureDTO
	err := s.store.WithMaterialLock(ctx, materialID, func(tx Store) error {
		rec, err := tx.FindMaterial(ctx, materialID)
		if err != nil {
			return err
		}
		set, err := s.loadPictureSet(ctx, tx, materialID)
		if err != nil {
			return err
		}
		changed, err := set.SetPrimary(pictureID)
		if err != nil {
			return err
		}
		for _, p := range changed {
			if _, err := tx.SavePicture(ctx, p); err != nil {
				return fmt.Errorf("save picture: %w", err)
			}
		}
		for _, p := range set.All() {
			out = append(out, PictureToDTO(p))
		}
		if len(changed) > 0 {
			s.recordAudit(ctx, tx, AuditEntry{
				Action:       ActionPrimaryChanged,
				MaterialID:   rec.ID,
				MaterialName: rec.Name,
				Details:      fmt.Sprintf("Primary picture set to %d", pictureID),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResetCatalog deletes every material, picture and audit entry, then records
// the reset itself as the first entry of the new trail.
func (s *Service) ResetCatalog(ctx context.Context) error {
	count := 0
	if recs, err := s.store.ListMaterials(ctx); err == nil {
		count = len(recs)
	}

	resetCtx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	if err := s.store.Reset(resetCtx); err != nil {
		return fmt.Errorf("reset catalog: %w", err)
	}

	s.recordAudit(ctx, s.store, AuditEntry{
		Action:  ActionCatalogReset,
		Details: fmt.Sprintf("Catalog reset, %d material(s) removed", count),
	})
	logging.WithFields(ctx, "materials_removed", count).Warn("catalog reset")
	return nil
}

// changedFields lists the fields whose value differs between a and b, in
// column order.
func changedFields(a, b *Record) []string {
	var changed []string
	ca, cb := a.common(), b.common()
	if ca.Name != cb.Name {
		changed = append(changed, schema.Name)
	}
	if ca.Category != cb.Category {
		changed = append(changed, schema.Category)
	}
	if ca.Condition != cb.Condition {
		changed = append(changed, schema.Condition)
	}
	if ca.Color != cb.Color {
		changed = append(changed, schema.Color)
	}
	if ca.Notes != cb.Notes {
		changed = append(changed, schema.Notes)
	}

	va, vb := a.VariantValues(), b.VariantValues()
	keys := make([]string, 0, len(vb))
	for k := range vb {
		keys = append(keys, k)
	}
	for k := range va {
		if _, ok := vb[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return schema.ColumnIndex(keys[i]) < schema.ColumnIndex(keys[j])
	})
	for _, k := range keys {
		if !reflect.DeepEqual(va[k], vb[k]) {
			changed = append(changed, k)
		}
	}
	return changed
}

func derefPictures(pics []*Picture) []Picture {
	out := make([]Picture, len(pics))
	for i, p := range pics {
		out[i] = *p
	}
	return out
}
