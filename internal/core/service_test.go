package core_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/materials/internal/config"
	"github.com/JonMunkholm/materials/internal/core"
	"github.com/JonMunkholm/materials/internal/schema"
	"github.com/JonMunkholm/materials/internal/store"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T, mutate ...func(*config.Config)) (*core.Service, *store.MemoryStore) {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Driver = config.DriverMemory
	for _, m := range mutate {
		m(cfg)
	}
	st := store.NewMemoryStore()
	svc, err := core.NewService(st, cfg, core.WithClock(core.ClockFunc(func() time.Time { return now })))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc, st
}

func fp(f float64) *float64 { return &f }
func sp(s string) *string   { return &s }

func doorDTO(name string) core.MaterialDTO {
	return core.MaterialDTO{
		Name:              name,
		Category:          "Interior Doors",
		MaterialType:      "Door",
		MaterialCondition: "Good",
		VariantSlots: core.VariantSlots{
			Height:         fp(210),
			Width:          fp(90),
			SwingDirection: sp("RIGHT"),
		},
	}
}

func jpeg(name string) core.PictureUpload {
	return core.PictureUpload{FileName: name, ContentType: "image/jpeg", Data: []byte(name)}
}

func actions(entries []core.AuditEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = string(e.Action)
	}
	return out
}

func TestNewService_RequiresStore(t *testing.T) {
	if _, err := core.NewService(nil, nil); err == nil {
		t.Error("NewService(nil) expected error")
	}
}

func TestCreateMaterial_WithPictures(t *testing.T) {
	svc, _ := newService(t)
	ctx := core.ContextWithUserName(context.Background(), "ann")

	dto, err := svc.CreateMaterial(ctx, doorDTO("Oak door"), []core.PictureUpload{jpeg("a.jpg"), jpeg("b.jpg"), jpeg("c.jpg")})
	if err != nil {
		t.Fatalf("CreateMaterial() error = %v", err)
	}
	if dto.ID == 0 || dto.DateAdded == nil || !dto.DateAdded.Equal(now) {
		t.Errorf("created = id %d date %v", dto.ID, dto.DateAdded)
	}
	if len(dto.Pictures) != 3 {
		t.Fatalf("pictures = %d, want 3", len(dto.Pictures))
	}
	for i, p := range dto.Pictures {
		if p.IsPrimary != (i == 0) {
			t.Errorf("pictures[%d].IsPrimary = %v", i, p.IsPrimary)
		}
		if p.Description != "Image for Oak door" {
			t.Errorf("pictures[%d].Description = %q", i, p.Description)
		}
	}

	entries, _ := svc.MaterialActivity(ctx, dto.ID, 0)
	if len(entries) != 1 || entries[0].Action != core.ActionCreated || entries[0].UserName != "ann" {
		t.Errorf("audit = %+v, want one CREATED entry by ann", entries)
	}
}

func TestCreateMaterial_Rejects(t *testing.T) {
	svc, st := newService(t, func(c *config.Config) { c.Picture.MaxPerRequest = 2 })
	ctx := context.Background()

	tests := []struct {
		name    string
		dto     core.MaterialDTO
		uploads []core.PictureUpload
	}{
		{"unknown kind", func() core.MaterialDTO { d := doorDTO("X"); d.MaterialType = "Shelf"; return d }(), nil},
		{"missing width", func() core.MaterialDTO { d := doorDTO("X"); d.Width = nil; return d }(), nil},
		{"too many pictures", doorDTO("X"), []core.PictureUpload{jpeg("1"), jpeg("2"), jpeg("3")}},
		{"wrong content type", doorDTO("X"), []core.PictureUpload{{FileName: "a.pdf", ContentType: "application/pdf", Data: []byte{1}}}},
		{"empty picture", doorDTO("X"), []core.PictureUpload{{FileName: "a.jpg", ContentType: "image/jpeg"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateMaterial(ctx, tt.dto, tt.uploads); err == nil {
				t.Error("CreateMaterial() expected error")
			}
		})
	}

	recs, _ := st.ListMaterials(ctx)
	if len(recs) != 0 {
		t.Errorf("materials after rejected creates = %d, want 0", len(recs))
	}
}

func TestCreateMaterial_ContentTypeParams(t *testing.T) {
	svc, _ := newService(t)
	up := core.PictureUpload{FileName: "a.png", ContentType: "IMAGE/PNG; charset=binary", Data: []byte{1}}
	if _, err := svc.CreateMaterial(context.Background(), doorDTO("Door"), []core.PictureUpload{up}); err != nil {
		t.Errorf("CreateMaterial() error = %v", err)
	}
}

func TestUpdateMaterial(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, _ := svc.CreateMaterial(ctx, doorDTO("Door"), nil)

	updated, err := svc.UpdateMaterial(ctx, created.ID, core.MaterialPatchDTO{
		Notes:        sp("Scratched"),
		VariantSlots: core.VariantSlots{Width: fp(80), HasWheels: func() *bool { b := true; return &b }()},
	})
	if err != nil {
		t.Fatalf("UpdateMaterial() error = %v", err)
	}
	if updated.Notes != "Scratched" || *updated.Width != 80 || *updated.Height != 210 {
		t.Errorf("updated = %+v", updated)
	}
	if updated.MaterialType != "Door" || updated.HasWheels != nil {
		t.Errorf("kind or foreign slot changed: %+v", updated)
	}

	entries, _ := svc.MaterialActivity(ctx, created.ID, 0)
	if len(entries) != 2 || entries[0].Details != "Updated fields: notes, width" {
		t.Errorf("audit = %+v", entries)
	}

	if _, err := svc.UpdateMaterial(ctx, 999, core.MaterialPatchDTO{}); !core.IsNotFound(err) {
		t.Errorf("UpdateMaterial(missing) error = %v, want not found", err)
	}
	if _, err := svc.UpdateMaterial(ctx, created.ID, core.MaterialPatchDTO{Name: sp(" ")}); !core.IsValidation(err) {
		t.Errorf("UpdateMaterial(blank name) error = %v, want validation", err)
	}
}

func TestDeleteMaterial_KeepsAudit(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	created, _ := svc.CreateMaterial(ctx, doorDTO("Door"), []core.PictureUpload{jpeg("a.jpg")})

	if err := svc.DeleteMaterial(ctx, created.ID); err != nil {
		t.Fatalf("DeleteMaterial() error = %v", err)
	}
	if _, err := svc.GetMaterial(ctx, created.ID); !core.IsNotFound(err) {
		t.Errorf("GetMaterial() after delete error = %v, want not found", err)
	}
	if _, err := st.FindPicture(ctx, created.Pictures[0].ID); !core.IsNotFound(err) {
		t.Errorf("picture survived delete: %v", err)
	}

	entries, _ := svc.MaterialActivity(ctx, created.ID, 0)
	if got := strings.Join(actions(entries), ","); got != "DELETED,CREATED" {
		t.Errorf("audit actions = %s, want DELETED,CREATED", got)
	}
	if entries[0].Severity != core.SeverityHigh {
		t.Errorf("delete severity = %s, want high", entries[0].Severity)
	}
}

func TestPictures_RemoveAndSetPrimary(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, _ := svc.CreateMaterial(ctx, doorDTO("Door"), []core.PictureUpload{jpeg("a.jpg"), jpeg("b.jpg")})
	first, second := created.Pictures[0].ID, created.Pictures[1].ID

	added, err := svc.AddPictures(ctx, created.ID, []core.PictureUpload{jpeg("c.jpg")})
	if err != nil || len(added) != 1 || added[0].IsPrimary {
		t.Fatalf("AddPictures() = %+v, %v", added, err)
	}

	pics, err := svc.SetPrimaryPicture(ctx, created.ID, second)
	if err != nil {
		t.Fatalf("SetPrimaryPicture() error = %v", err)
	}
	for _, p := range pics {
		if p.IsPrimary != (p.ID == second) {
			t.Errorf("picture %d IsPrimary = %v", p.ID, p.IsPrimary)
		}
	}

	if err := svc.RemovePicture(ctx, created.ID, second); err != nil {
		t.Fatalf("RemovePicture() error = %v", err)
	}
	got, _ := svc.GetMaterial(ctx, created.ID)
	if len(got.Pictures) != 2 || !got.Pictures[0].IsPrimary || got.Pictures[0].ID != first {
		t.Errorf("pictures after removing primary = %+v, want %d promoted", got.Pictures, first)
	}

	if err := svc.RemovePicture(ctx, created.ID, second); !core.IsNotFound(err) {
		t.Errorf("RemovePicture(again) error = %v, want not found", err)
	}
	if _, err := svc.AddPictures(ctx, created.ID, nil); !core.IsValidation(err) {
		t.Errorf("AddPictures(none) error = %v, want validation", err)
	}
}

func TestAddPictures_FirstBecomesPrimary(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, _ := svc.CreateMaterial(ctx, doorDTO("Door"), nil)

	added, err := svc.AddPictures(ctx, created.ID, []core.PictureUpload{jpeg("a.jpg"), jpeg("b.jpg")})
	if err != nil {
		t.Fatalf("AddPictures() error = %v", err)
	}
	if !added[0].IsPrimary || added[1].IsPrimary {
		t.Errorf("primary flags = %v %v, want true false", added[0].IsPrimary, added[1].IsPrimary)
	}
}

func TestSearchMaterials(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, name := range []string{"Oak door", "Pine door", "Birch door"} {
		if _, err := svc.CreateMaterial(ctx, doorDTO(name), nil); err != nil {
			t.Fatal(err)
		}
	}

	res, err := svc.SearchMaterials(ctx, core.SearchParams{Query: "pine"})
	if err != nil {
		t.Fatalf("SearchMaterials() error = %v", err)
	}
	if res.TotalCount != 1 || res.Items[0].Name != "Pine door" {
		t.Errorf("result = %+v", res)
	}

	res, _ = svc.SearchMaterials(ctx, core.SearchParams{Type: "Door", Size: 2})
	if res.TotalCount != 3 || res.TotalPages != 2 || len(res.Items) != 2 {
		t.Errorf("paged result = total %d pages %d items %d", res.TotalCount, res.TotalPages, len(res.Items))
	}

	var uk *core.UnknownKindError
	if _, err := svc.SearchMaterials(ctx, core.SearchParams{Type: "door"}); !errors.As(err, &uk) {
		t.Errorf("SearchMaterials(type=door) error = %v, want unknown kind", err)
	}
}

func TestImportMaterials_IsolatesBadRows(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	buf.WriteString(strings.Join(schema.Headers(), ",") + "\n")
	for i := 1; i <= 10; i++ {
		typ, width := "Door", "90"
		switch i {
		case 5:
			typ = "Shelf"
		case 8:
			width = "ninety"
		}
		buf.WriteString("Door " + string(rune('A'+i)) + ",Interior Doors," + typ + ",Good,,," + width + ",210,,,,,,,,RIGHT,\n")
	}

	res, err := svc.ImportMaterials(ctx, "doors.csv", &buf)
	if err != nil {
		t.Fatalf("ImportMaterials() error = %v", err)
	}
	if res.Format != core.FormatCSV || res.TotalRows != 10 || res.Created != 8 {
		t.Errorf("result = format %s total %d created %d", res.Format, res.TotalRows, res.Created)
	}
	if len(res.Failed) != 2 || res.Failed[0].Row != 5 || res.Failed[1].Row != 8 {
		t.Fatalf("failed = %+v, want rows 5 and 8", res.Failed)
	}
	if !strings.Contains(res.Failed[1].Message, "Width") {
		t.Errorf("row 8 message = %q", res.Failed[1].Message)
	}

	recs, _ := st.ListMaterials(ctx)
	if len(recs) != 8 {
		t.Errorf("stored = %d, want 8", len(recs))
	}
	entries, _ := svc.RecentActivity(ctx, 0, 0)
	if len(entries) != 1 || entries[0].Action != core.ActionImported || entries[0].BatchID != res.ID {
		t.Errorf("audit = %+v, want one IMPORTED entry", entries)
	}
}

// cancellingStore cancels the import context once `after` materials were saved.
type cancellingStore struct {
	*store.MemoryStore
	after  int
	saved  int
	cancel context.CancelFunc
}

func (c *cancellingStore) SaveMaterial(ctx context.Context, rec *core.Record) (*core.Record, error) {
	out, err := c.MemoryStore.SaveMaterial(ctx, rec)
	if err == nil {
		c.saved++
		if c.saved == c.after {
			c.cancel()
		}
	}
	return out, err
}

func TestImportMaterials_CancelledKeepsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := &cancellingStore{MemoryStore: store.NewMemoryStore(), after: 2, cancel: cancel}
	cfg := config.Default()
	cfg.Database.Driver = config.DriverMemory
	svc, err := core.NewService(st, cfg, core.WithClock(core.ClockFunc(func() time.Time { return now })))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(schema.Headers(), ",") + "\n")
	for i := 1; i <= 5; i++ {
		buf.WriteString("Door " + string(rune('A'+i)) + ",Interior Doors,Door,Good,,,90,210,,,,,,,,RIGHT,\n")
	}

	res, err := svc.ImportMaterials(ctx, "doors.csv", &buf)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ImportMaterials() error = %v, want context.Canceled", err)
	}
	if res == nil {
		t.Fatal("ImportMaterials() result = nil, want partial result")
	}
	if res.Created != 2 || len(res.CreatedIDs) != 2 {
		t.Errorf("created = %d %v, want 2", res.Created, res.CreatedIDs)
	}
	if len(res.Failed) != 3 || res.Failed[0].Row != 3 || res.Failed[2].Row != 5 {
		t.Fatalf("failed = %+v, want rows 3 to 5", res.Failed)
	}
	if !strings.Contains(res.Failed[0].Message, "not imported") {
		t.Errorf("failed message = %q", res.Failed[0].Message)
	}

	entries, err := svc.RecentActivity(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("RecentActivity() error = %v", err)
	}
	if got := actions(entries); len(got) != 1 || got[0] != string(core.ActionImported) {
		t.Errorf("audit actions = %v, want [IMPORTED]", got)
	}
}

func TestImportMaterials_FileErrors(t *testing.T) {
	svc, _ := newService(t, func(c *config.Config) {
		c.Import.MaxFileSize = 64
		c.Import.MaxRows = 1
	})
	ctx := context.Background()

	_, err := svc.ImportMaterials(ctx, "big.csv", strings.NewReader(strings.Repeat("x", 65)))
	if !errors.Is(err, core.ErrFileTooLarge) {
		t.Errorf("oversized file error = %v, want ErrFileTooLarge", err)
	}

	_, err = svc.ImportMaterials(ctx, "rows.csv", strings.NewReader("a\nb\nc\n"))
	if !errors.Is(err, core.ErrFileTooLarge) {
		t.Errorf("too many rows error = %v, want ErrFileTooLarge", err)
	}

	_, err = svc.ImportMaterials(ctx, "bad.csv", strings.NewReader("Name,Kind\n"))
	if err == nil || !strings.Contains(err.Error(), "column not found") {
		t.Errorf("bad header error = %v", err)
	}
}

func TestExportThenImport(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, _ = svc.CreateMaterial(ctx, doorDTO("Door one"), nil)
	_, _ = svc.CreateMaterial(ctx, doorDTO("Door two"), nil)

	var out bytes.Buffer
	if err := svc.ExportMaterials(ctx, &out, core.FormatXLSX); err != nil {
		t.Fatalf("ExportMaterials() error = %v", err)
	}

	other, _ := newService(t)
	res, err := other.ImportMaterials(ctx, "export", &out)
	if err != nil {
		t.Fatalf("ImportMaterials() error = %v", err)
	}
	if res.Format != core.FormatXLSX || res.Created != 2 || len(res.Failed) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestWriteTemplate_CSVImportsCleanlyExceptInstruction(t *testing.T) {
	svc, _ := newService(t)
	var buf bytes.Buffer
	if err := svc.WriteTemplate(&buf, core.FormatCSV); err != nil {
		t.Fatalf("WriteTemplate() error = %v", err)
	}
	res, err := svc.ImportMaterials(context.Background(), "template.csv", &buf)
	if err != nil {
		t.Fatalf("ImportMaterials() error = %v", err)
	}
	if res.Created != 5 || len(res.Failed) != 1 {
		t.Fatalf("result = created %d failed %+v, want 5 and the instruction row", res.Created, res.Failed)
	}
	if !strings.Contains(res.Failed[0].Message, "unknown material type") {
		t.Errorf("instruction row message = %q", res.Failed[0].Message)
	}
}

func TestStatsAndReset(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, _ = svc.CreateMaterial(ctx, doorDTO("A"), nil)
	_, _ = svc.CreateMaterial(ctx, doorDTO("B"), nil)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalCount != 2 || stats.KindCounts["Door"] != 2 || stats.RecentAdditionsCount != 2 {
		t.Errorf("stats = %+v", stats)
	}

	if err := svc.ResetCatalog(ctx); err != nil {
		t.Fatalf("ResetCatalog() error = %v", err)
	}
	stats, _ = svc.Stats(ctx)
	if stats.TotalCount != 0 {
		t.Errorf("TotalCount after reset = %d", stats.TotalCount)
	}
	entries, _ := svc.RecentActivity(ctx, 0, 0)
	if len(entries) != 1 || entries[0].Action != core.ActionCatalogReset || entries[0].Severity != core.SeverityCritical {
		t.Errorf("audit after reset = %+v", entries)
	}
}

func TestPruneAudit(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	_ = st.AppendAudit(ctx, core.AuditEntry{ID: "old", Action: core.ActionCreated, CreatedAt: now.AddDate(-2, 0, 0)})
	_ = st.AppendAudit(ctx, core.AuditEntry{ID: "new", Action: core.ActionCreated, CreatedAt: now})

	if n := svc.PruneAudit(ctx, 365); n != 1 {
		t.Errorf("PruneAudit() = %d, want 1", n)
	}
}

func TestPictureThumbnail_Width(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.PictureThumbnail(context.Background(), 1, 5000); !core.IsValidation(err) {
		t.Errorf("PictureThumbnail(5000) error = %v, want validation", err)
	}
	if _, err := svc.PictureThumbnail(context.Background(), 1, 100); !core.IsNotFound(err) {
		t.Errorf("PictureThumbnail(missing) error = %v, want not found", err)
	}
}

func TestListKinds(t *testing.T) {
	svc, _ := newService(t)
	kinds := svc.ListKinds()
	if len(kinds) != 5 || kinds[0].Kind != schema.KindDesk {
		t.Fatalf("kinds = %+v", kinds)
	}
	if len(kinds[0].Fields) != 5 || kinds[0].Fields[0].Name != schema.DeskType {
		t.Errorf("desk fields = %+v", kinds[0].Fields)
	}
}
