package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/materials/internal/core"
)

type memoryState struct {
	materials map[int64]*core.Record
	pictures  map[int64]*core.Picture
	audit     []core.AuditEntry

	nextMaterialID int64
	nextPictureID  int64
}

func newMemoryState() memoryState {
	return memoryState{
		materials:      map[int64]*core.Record{},
		pictures:       map[int64]*core.Picture{},
		nextMaterialID: 1,
		nextPictureID:  1,
	}
}

func (st memoryState) clone() memoryState {
	out := memoryState{
		materials:      make(map[int64]*core.Record, len(st.materials)),
		pictures:       make(map[int64]*core.Picture, len(st.pictures)),
		audit:          append([]core.AuditEntry(nil), st.audit...),
		nextMaterialID: st.nextMaterialID,
		nextPictureID:  st.nextPictureID,
	}
	for id, r := range st.materials {
		out.materials[id] = cloneRecord(r)
	}
	for id, p := range st.pictures {
		out.pictures[id] = clonePicture(p)
	}
	return out
}

// MemoryStore keeps the catalog in process memory. It is meant for tests
// and local runs; nothing survives a restart.
//
// WithMaterialLock holds the store's write lock for the whole callback and
// restores the previous state if the callback fails, so it behaves like a
// serializable transaction.
type MemoryStore struct {
	mu    sync.Mutex
	state memoryState
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

var _ core.Store = (*MemoryStore)(nil)

func (s *MemoryStore) WithMaterialLock(ctx context.Context, materialID int64, fn func(core.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.materials[materialID]; !ok {
		return &core.NotFoundError{Entity: "material", ID: materialID}
	}
	snapshot := s.state.clone()
	if err := fn(&memoryTx{state: &s.state}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = newMemoryState()
	return nil
}

func (s *MemoryStore) SaveMaterial(ctx context.Context, rec *core.Record) (*core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveMaterial(&s.state, rec)
}

func (s *MemoryStore) FindMaterial(ctx context.Context, id int64) (*core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findMaterial(&s.state, id)
}

func (s *MemoryStore) ListMaterials(ctx context.Context) ([]*core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listMaterials(&s.state), nil
}

func (s *MemoryStore) DeleteMaterial(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteMaterial(&s.state, id)
}

func (s *MemoryStore) SearchMaterials(ctx context.Context, filter core.SearchFilter) (core.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return searchMaterials(&s.state, filter), nil
}

func (s *MemoryStore) SavePicture(ctx context.Context, p *core.Picture) (*core.Picture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return savePicture(&s.state, p)
}

func (s *MemoryStore) FindPicture(ctx context.Context, id int64) (*core.Picture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findPicture(&s.state, id)
}

func (s *MemoryStore) FindPicturesByMaterial(ctx context.Context, materialID int64) ([]*core.Picture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return picturesByMaterial(&s.state, materialID), nil
}

func (s *MemoryStore) DeletePicture(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deletePicture(&s.state, id)
}

func (s *MemoryStore) AppendAudit(ctx context.Context, entry core.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.audit = append(s.state.audit, entry)
	return nil
}

func (s *MemoryStore) ListAudit(ctx context.Context, filter core.AuditFilter) ([]core.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listAudit(&s.state, filter), nil
}

func (s *MemoryStore) PruneAudit(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pruneAudit(&s.state, cutoff), nil
}

// memoryTx is the store handed to WithMaterialLock callbacks. The parent
// store's lock is already held, so it works on the state directly.
type memoryTx struct {
	state *memoryState
}

func (t *memoryTx) WithMaterialLock(ctx context.Context, materialID int64, fn func(core.Store) error) error {
	if _, ok := t.state.materials[materialID]; !ok {
		return &core.NotFoundError{Entity: "material", ID: materialID}
	}
	return fn(t)
}

func (t *memoryTx) Reset(ctx context.Context) error {
	return errors.New("reset cannot run inside a material lock")
}

func (t *memoryTx) SaveMaterial(ctx context.Context, rec *core.Record) (*core.Record, error) {
	return saveMaterial(t.state, rec)
}

func (t *memoryTx) FindMaterial(ctx context.Context, id int64) (*core.Record, error) {
	return findMaterial(t.state, id)
}

func (t *memoryTx) ListMaterials(ctx context.Context) ([]*core.Record, error) {
	return listMaterials(t.state), nil
}

func (t *memoryTx) DeleteMaterial(ctx context.Context, id int64) error {
	return deleteMaterial(t.state, id)
}

func (t *memoryTx) SearchMaterials(ctx context.Context, filter core.SearchFilter) (core.Page, error) {
	return searchMaterials(t.state, filter), nil
}

func (t *memoryTx) SavePicture(ctx context.Context, p *core.Picture) (*core.Picture, error) {
	return savePicture(t.state, p)
}

func (t *memoryTx) FindPicture(ctx context.Context, id int64) (*core.Picture, error) {
	return findPicture(t.state, id)
}

func (t *memoryTx) FindPicturesByMaterial(ctx context.Context, materialID int64) ([]*core.Picture, error) {
	return picturesByMaterial(t.state, materialID), nil
}

func (t *memoryTx) DeletePicture(ctx context.Context, id int64) error {
	return deletePicture(t.state, id)
}

func (t *memoryTx) AppendAudit(ctx context.Context, entry core.AuditEntry) error {
	t.state.audit = append(t.state.audit, entry)
	return nil
}

func (t *memoryTx) ListAudit(ctx context.Context, filter core.AuditFilter) ([]core.AuditEntry, error) {
	return listAudit(t.state, filter), nil
}

func (t *memoryTx) PruneAudit(ctx context.Context, cutoff time.Time) (int64, error) {
	return pruneAudit(t.state, cutoff), nil
}

// --- state operations, callers hold the lock ---

func saveMaterial(st *memoryState, rec *core.Record) (*core.Record, error) {
	stored := cloneRecord(rec)
	if stored.ID == 0 {
		stored.ID = st.nextMaterialID
		st.nextMaterialID++
	} else {
		prev, ok := st.materials[stored.ID]
		if !ok {
			return nil, &core.NotFoundError{Entity: "material", ID: stored.ID}
		}
		stored.DateAdded = prev.DateAdded
	}
	st.materials[stored.ID] = stored
	return cloneRecord(stored), nil
}

func findMaterial(st *memoryState, id int64) (*core.Record, error) {
	r, ok := st.materials[id]
	if !ok {
		return nil, &core.NotFoundError{Entity: "material", ID: id}
	}
	return cloneRecord(r), nil
}

func listMaterials(st *memoryState) []*core.Record {
	out := make([]*core.Record, 0, len(st.materials))
	for _, r := range st.materials {
		out = append(out, cloneRecord(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func deleteMaterial(st *memoryState, id int64) error {
	if _, ok := st.materials[id]; !ok {
		return &core.NotFoundError{Entity: "material", ID: id}
	}
	delete(st.materials, id)
	for pid, p := range st.pictures {
		if p.MaterialID == id {
			delete(st.pictures, pid)
		}
	}
	return nil
}

func searchMaterials(st *memoryState, filter core.SearchFilter) core.Page {
	filter = filter.Normalize()
	query := strings.ToLower(filter.Query)

	var matches []*core.Record
	for _, r := range st.materials {
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		if filter.Kind != "" && r.Kind() != filter.Kind {
			continue
		}
		if filter.Condition != "" && r.Condition != filter.Condition {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(r.Name), query) &&
			!strings.Contains(strings.ToLower(r.Notes), query) {
			continue
		}
		matches = append(matches, r)
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].DateAdded.Equal(matches[j].DateAdded) {
			return matches[i].DateAdded.After(matches[j].DateAdded)
		}
		return matches[i].ID > matches[j].ID
	})

	page := core.Page{Page: filter.Page, Size: filter.Size, TotalCount: len(matches)}
	start := filter.Page * filter.Size
	if start >= len(matches) {
		page.Records = []*core.Record{}
		return page
	}
	end := min(start+filter.Size, len(matches))
	page.Records = make([]*core.Record, 0, end-start)
	for _, r := range matches[start:end] {
		page.Records = append(page.Records, cloneRecord(r))
	}
	return page
}

func savePicture(st *memoryState, p *core.Picture) (*core.Picture, error) {
	if _, ok := st.materials[p.MaterialID]; !ok {
		return nil, &core.NotFoundError{Entity: "material", ID: p.MaterialID}
	}
	stored := clonePicture(p)
	if stored.ID == 0 {
		stored.ID = st.nextPictureID
		st.nextPictureID++
	} else {
		prev, ok := st.pictures[stored.ID]
		if !ok {
			return nil, &core.NotFoundError{Entity: "picture", ID: stored.ID}
		}
		prev.IsPrimary = stored.IsPrimary
		prev.Description = stored.Description
		return clonePicture(prev), nil
	}
	st.pictures[stored.ID] = stored
	return clonePicture(stored), nil
}

func findPicture(st *memoryState, id int64) (*core.Picture, error) {
	p, ok := st.pictures[id]
	if !ok {
		return nil, &core.NotFoundError{Entity: "picture", ID: id}
	}
	return clonePicture(p), nil
}

func picturesByMaterial(st *memoryState, materialID int64) []*core.Picture {
	var out []*core.Picture
	for _, p := range st.pictures {
		if p.MaterialID == materialID {
			out = append(out, clonePicture(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func deletePicture(st *memoryState, id int64) error {
	if _, ok := st.pictures[id]; !ok {
		return &core.NotFoundError{Entity: "picture", ID: id}
	}
	delete(st.pictures, id)
	return nil
}

func listAudit(st *memoryState, filter core.AuditFilter) []core.AuditEntry {
	var out []core.AuditEntry
	for i := len(st.audit) - 1; i >= 0; i-- {
		e := st.audit[i]
		if filter.MaterialID != 0 && e.MaterialID != filter.MaterialID {
			continue
		}
		if filter.UserName != "" && e.UserName != filter.UserName {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if !filter.Since.IsZero() && e.CreatedAt.Before(filter.Since) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if filter.Offset >= len(out) {
		return []core.AuditEntry{}
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func pruneAudit(st *memoryState, cutoff time.Time) int64 {
	kept := st.audit[:0]
	var pruned int64
	for _, e := range st.audit {
		if e.CreatedAt.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, e)
	}
	st.audit = kept
	return pruned
}

// cloneRecord copies r. Variant bodies are immutable values, so a shallow
// copy is enough.
func cloneRecord(r *core.Record) *core.Record {
	c := *r
	return &c
}

func clonePicture(p *core.Picture) *core.Picture {
	c := *p
	c.Data = append([]byte(nil), p.Data...)
	return &c
}
