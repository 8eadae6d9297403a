package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/materials/internal/core"
	"github.com/JonMunkholm/materials/internal/schema"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newDoor(t *testing.T, name string, added time.Time) *core.Record {
	t.Helper()
	rec, err := core.NewRecord(schema.KindDoor, core.Common{
		Name:      name,
		Category:  "Interior Doors",
		Condition: "Good",
	}, core.Values{
		schema.Height:         210.0,
		schema.Width:          90.0,
		schema.SwingDirection: "RIGHT",
	}, added)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	return rec
}

func TestMemoryStore_SaveAssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a, err := s.SaveMaterial(ctx, newDoor(t, "A", t0))
	if err != nil {
		t.Fatalf("SaveMaterial() error = %v", err)
	}
	b, err := s.SaveMaterial(ctx, newDoor(t, "B", t0))
	if err != nil {
		t.Fatalf("SaveMaterial() error = %v", err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("IDs = %d, %d, want 1, 2", a.ID, b.ID)
	}

	got, err := s.FindMaterial(ctx, b.ID)
	if err != nil {
		t.Fatalf("FindMaterial() error = %v", err)
	}
	if got.Name != "B" {
		t.Errorf("Name = %q, want %q", got.Name, "B")
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	saved, _ := s.SaveMaterial(ctx, newDoor(t, "Original", t0))

	saved.Name = "Mutated"
	got, _ := s.FindMaterial(ctx, saved.ID)
	if got.Name != "Original" {
		t.Errorf("stored name changed through returned pointer: %q", got.Name)
	}
}

func TestMemoryStore_UpdateUnknown(t *testing.T) {
	rec := newDoor(t, "Ghost", t0)
	rec.ID = 42
	_, err := NewMemoryStore().SaveMaterial(context.Background(), rec)
	if !core.IsNotFound(err) {
		t.Errorf("SaveMaterial(unknown id) error = %v, want not found", err)
	}
}

func TestMemoryStore_DeleteCascadesPictures(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec, _ := s.SaveMaterial(ctx, newDoor(t, "Door", t0))

	pic, err := s.SavePicture(ctx, core.NewPicture(rec.ID, "a.jpg", "image/jpeg", []byte{1, 2, 3}, t0, ""))
	if err != nil {
		t.Fatalf("SavePicture() error = %v", err)
	}
	if err := s.DeleteMaterial(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteMaterial() error = %v", err)
	}
	if _, err := s.FindPicture(ctx, pic.ID); !core.IsNotFound(err) {
		t.Errorf("FindPicture() after delete error = %v, want not found", err)
	}
	if err := s.DeleteMaterial(ctx, rec.ID); !core.IsNotFound(err) {
		t.Errorf("second DeleteMaterial() error = %v, want not found", err)
	}
}

func TestMemoryStore_PictureNeedsMaterial(t *testing.T) {
	_, err := NewMemoryStore().SavePicture(context.Background(),
		core.NewPicture(7, "a.jpg", "image/jpeg", []byte{1}, t0, ""))
	if !core.IsNotFound(err) {
		t.Errorf("SavePicture(no material) error = %v, want not found", err)
	}
}

func TestMemoryStore_PicturesInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec, _ := s.SaveMaterial(ctx, newDoor(t, "Door", t0))
	for _, name := range []string{"1.jpg", "2.jpg", "3.jpg"} {
		if _, err := s.SavePicture(ctx, core.NewPicture(rec.ID, name, "image/jpeg", []byte{1}, t0, "")); err != nil {
			t.Fatalf("SavePicture(%s) error = %v", name, err)
		}
	}
	pics, _ := s.FindPicturesByMaterial(ctx, rec.ID)
	if len(pics) != 3 {
		t.Fatalf("len(pics) = %d, want 3", len(pics))
	}
	for i, want := range []string{"1.jpg", "2.jpg", "3.jpg"} {
		if pics[i].FileName != want {
			t.Errorf("pics[%d] = %q, want %q", i, pics[i].FileName, want)
		}
	}
}

func TestMemoryStore_Search(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i, name := range []string{"Oak door", "Pine door", "Glass door"} {
		if _, err := s.SaveMaterial(ctx, newDoor(t, name, t0.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		filter    core.SearchFilter
		wantTotal int
		wantFirst string
		wantLen   int
	}{
		{"all newest first", core.SearchFilter{}, 3, "Glass door", 3},
		{"query is case-insensitive", core.SearchFilter{Query: "PINE"}, 1, "Pine door", 1},
		{"kind filter", core.SearchFilter{Kind: schema.KindDesk}, 0, "", 0},
		{"second page", core.SearchFilter{Page: 1, Size: 2}, 3, "Oak door", 1},
		{"past the end", core.SearchFilter{Page: 5, Size: 2}, 3, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.SearchMaterials(ctx, tt.filter)
			if err != nil {
				t.Fatalf("SearchMaterials() error = %v", err)
			}
			if page.TotalCount != tt.wantTotal {
				t.Errorf("TotalCount = %d, want %d", page.TotalCount, tt.wantTotal)
			}
			if len(page.Records) != tt.wantLen {
				t.Fatalf("len(Records) = %d, want %d", len(page.Records), tt.wantLen)
			}
			if tt.wantLen > 0 && page.Records[0].Name != tt.wantFirst {
				t.Errorf("first = %q, want %q", page.Records[0].Name, tt.wantFirst)
			}
		})
	}
}

func TestMemoryStore_LockRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec, _ := s.SaveMaterial(ctx, newDoor(t, "Door", t0))

	boom := errors.New("boom")
	err := s.WithMaterialLock(ctx, rec.ID, func(tx core.Store) error {
		if _, err := tx.SavePicture(ctx, core.NewPicture(rec.ID, "a.jpg", "image/jpeg", []byte{1}, t0, "")); err != nil {
			return err
		}
		if err := tx.AppendAudit(ctx, core.AuditEntry{ID: "x", Action: core.ActionPictureAdded, CreatedAt: t0}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithMaterialLock() error = %v, want %v", err, boom)
	}

	pics, _ := s.FindPicturesByMaterial(ctx, rec.ID)
	if len(pics) != 0 {
		t.Errorf("pictures after rollback = %d, want 0", len(pics))
	}
	entries, _ := s.ListAudit(ctx, core.AuditFilter{})
	if len(entries) != 0 {
		t.Errorf("audit entries after rollback = %d, want 0", len(entries))
	}
}

func TestMemoryStore_LockUnknownMaterial(t *testing.T) {
	called := false
	err := NewMemoryStore().WithMaterialLock(context.Background(), 99, func(core.Store) error {
		called = true
		return nil
	})
	if !core.IsNotFound(err) {
		t.Errorf("WithMaterialLock() error = %v, want not found", err)
	}
	if called {
		t.Error("callback ran for unknown material")
	}
}

func TestMemoryStore_AuditFilterAndPrune(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	entries := []core.AuditEntry{
		{ID: "1", Action: core.ActionCreated, MaterialID: 1, UserName: "ann", CreatedAt: t0.AddDate(0, 0, -400)},
		{ID: "2", Action: core.ActionUpdated, MaterialID: 1, UserName: "bob", CreatedAt: t0.AddDate(0, 0, -10)},
		{ID: "3", Action: core.ActionCreated, MaterialID: 2, UserName: "ann", CreatedAt: t0},
	}
	for _, e := range entries {
		_ = s.AppendAudit(ctx, e)
	}

	got, _ := s.ListAudit(ctx, core.AuditFilter{MaterialID: 1})
	if len(got) != 2 || got[0].ID != "2" {
		t.Errorf("material 1 entries = %+v, want newest first [2 1]", got)
	}
	got, _ = s.ListAudit(ctx, core.AuditFilter{UserName: "ann", Limit: 1})
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("ann entries = %+v, want [3]", got)
	}

	pruned, _ := s.PruneAudit(ctx, t0.AddDate(0, 0, -365))
	if pruned != 1 {
		t.Errorf("PruneAudit() = %d, want 1", pruned)
	}
	got, _ = s.ListAudit(ctx, core.AuditFilter{})
	if len(got) != 2 {
		t.Errorf("entries after prune = %d, want 2", len(got))
	}
}

func TestMemoryStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec, _ := s.SaveMaterial(ctx, newDoor(t, "Door", t0))
	_, _ = s.SavePicture(ctx, core.NewPicture(rec.ID, "a.jpg", "image/jpeg", []byte{1}, t0, ""))
	_ = s.AppendAudit(ctx, core.AuditEntry{ID: "1", CreatedAt: t0})

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	recs, _ := s.ListMaterials(ctx)
	audit, _ := s.ListAudit(ctx, core.AuditFilter{})
	if len(recs) != 0 || len(audit) != 0 {
		t.Errorf("after reset: %d materials, %d audit entries, want 0 and 0", len(recs), len(audit))
	}
	again, _ := s.SaveMaterial(ctx, newDoor(t, "Door", t0))
	if again.ID != 1 {
		t.Errorf("ID after reset = %d, want 1", again.ID)
	}
}
