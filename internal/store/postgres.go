// Package store implements core.Store over PostgreSQL and over memory.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/materials/internal/core"
	"github.com/JonMunkholm/materials/internal/database"
	"github.com/JonMunkholm/materials/internal/schema"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgForeignKeyViolation is the SQLSTATE of a foreign key violation.
const pgForeignKeyViolation = "23503"

// PostgresStore persists the catalog in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool // nil when bound to a transaction
	q    *database.Queries
}

// NewPostgresStore returns a store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, q: database.New(pool)}
}

var _ core.Store = (*PostgresStore)(nil)

// WithMaterialLock opens a transaction, locks the material row with
// SELECT ... FOR UPDATE and runs fn on a store bound to that transaction.
// Called on an already transaction-bound store, it locks within the same
// transaction.
func (s *PostgresStore) WithMaterialLock(ctx context.Context, materialID int64, fn func(core.Store) error) error {
	if s.pool == nil {
		if err := s.lock(ctx, s.q, materialID); err != nil {
			return err
		}
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		q := s.q.WithTx(tx)
		if err := s.lock(ctx, q, materialID); err != nil {
			return err
		}
		return fn(&PostgresStore{q: q})
	})
}

func (s *PostgresStore) lock(ctx context.Context, q *database.Queries, materialID int64) error {
	if _, err := q.LockMaterial(ctx, materialID); err != nil {
		return notFound(err, "material", materialID)
	}
	return nil
}

// Reset truncates pictures, materials and the audit trail in one
// transaction.
func (s *PostgresStore) Reset(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("reset cannot run inside a material lock")
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		q := s.q.WithTx(tx)
		if err := q.ResetMaterials(ctx); err != nil {
			return fmt.Errorf("truncate materials: %w", err)
		}
		if err := q.ResetAudit(ctx); err != nil {
			return fmt.Errorf("truncate audit trail: %w", err)
		}
		return nil
	})
}

// --- materials ---

func (s *PostgresStore) SaveMaterial(ctx context.Context, rec *core.Record) (*core.Record, error) {
	vals := rec.VariantValues()
	if rec.ID == 0 {
		row, err := s.q.InsertMaterial(ctx, database.InsertMaterialParams{
			Name:              rec.Name,
			Category:          rec.Category,
			MaterialType:      string(rec.Kind()),
			MaterialCondition: rec.Condition,
			Color:             toPgText(rec.Color),
			Notes:             toPgText(rec.Notes),
			DateAdded:         toPgTimestamptz(rec.DateAdded),
			Height:            valueFloat8(vals, schema.Height),
			Width:             valueFloat8(vals, schema.Width),
			Depth:             valueFloat8(vals, schema.Depth),
			UValue:            valueFloat8(vals, schema.UValue),
			MaximumHeight:     valueFloat8(vals, schema.MaximumHeight),
			OpeningType:       valueText(vals, schema.OpeningType),
			HingeSide:         valueText(vals, schema.HingeSide),
			SwingDirection:    valueText(vals, schema.SwingDirection),
			DeskType:          valueText(vals, schema.DeskType),
			HeightAdjustable:  valueBool(vals, schema.HeightAdjustable),
			HasWheels:         valueBool(vals, schema.HasWheels),
		})
		if err != nil {
			return nil, fmt.Errorf("insert material: %w", err)
		}
		return recordFromRow(row)
	}

	row, err := s.q.UpdateMaterial(ctx, database.UpdateMaterialParams{
		ID:                rec.ID,
		Name:              rec.Name,
		Category:          rec.Category,
		MaterialCondition: rec.Condition,
		Color:             toPgText(rec.Color),
		Notes:             toPgText(rec.Notes),
		Height:            valueFloat8(vals, schema.Height),
		Width:             valueFloat8(vals, schema.Width),
		Depth:             valueFloat8(vals, schema.Depth),
		UValue:            valueFloat8(vals, schema.UValue),
		MaximumHeight:     valueFloat8(vals, schema.MaximumHeight),
		OpeningType:       valueText(vals, schema.OpeningType),
		HingeSide:         valueText(vals, schema.HingeSide),
		SwingDirection:    valueText(vals, schema.SwingDirection),
		DeskType:          valueText(vals, schema.DeskType),
		HeightAdjustable:  valueBool(vals, schema.HeightAdjustable),
		HasWheels:         valueBool(vals, schema.HasWheels),
	})
	if err != nil {
		return nil, notFound(err, "material", rec.ID)
	}
	return recordFromRow(row)
}

func (s *PostgresStore) FindMaterial(ctx context.Context, id int64) (*core.Record, error) {
	row, err := s.q.GetMaterial(ctx, id)
	if err != nil {
		return nil, notFound(err, "material", id)
	}
	return recordFromRow(row)
}

func (s *PostgresStore) ListMaterials(ctx context.Context) ([]*core.Record, error) {
	rows, err := s.q.ListMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return recordsFromRows(rows)
}

func (s *PostgresStore) DeleteMaterial(ctx context.Context, id int64) error {
	n, err := s.q.DeleteMaterial(ctx, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if n == 0 {
		return &core.NotFoundError{Entity: "material", ID: id}
	}
	return nil
}

func (s *PostgresStore) SearchMaterials(ctx context.Context, filter core.SearchFilter) (core.Page, error) {
	filter = filter.Normalize()
	count, err := s.q.CountSearchMaterials(ctx, database.CountSearchMaterialsParams{
		Category:     filter.Category,
		MaterialType: string(filter.Kind),
		Condition:    filter.Condition,
		Query:        filter.Query,
	})
	if err != nil {
		return core.Page{}, fmt.Errorf("count materials: %w", err)
	}

	rows, err := s.q.SearchMaterials(ctx, database.SearchMaterialsParams{
		Category:     filter.Category,
		MaterialType: string(filter.Kind),
		Condition:    filter.Condition,
		Query:        filter.Query,
		Limit:        int32(filter.Size),
		Offset:       int32(filter.Page * filter.Size),
	})
	if err != nil {
		return core.Page{}, fmt.Errorf("search materials: %w", err)
	}
	recs, err := recordsFromRows(rows)
	if err != nil {
		return core.Page{}, err
	}
	return core.Page{
		Records:    recs,
		Page:       filter.Page,
		Size:       filter.Size,
		TotalCount: int(count),
	}, nil
}

// --- pictures ---

func (s *PostgresStore) SavePicture(ctx context.Context, p *core.Picture) (*core.Picture, error) {
	if p.ID == 0 {
		row, err := s.q.InsertPicture(ctx, database.InsertPictureParams{
			MaterialID:  p.MaterialID,
			Data:        p.Data,
			FileName:    p.FileName,
			ContentType: p.ContentType,
			FileSize:    p.FileSize,
			UploadDate:  toPgTimestamptz(p.UploadDate),
			IsPrimary:   p.IsPrimary,
			Description: toPgText(p.Description),
		})
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
				return nil, &core.NotFoundError{Entity: "material", ID: p.MaterialID}
			}
			return nil, fmt.Errorf("insert picture: %w", err)
		}
		return pictureFromRow(row), nil
	}

	n, err := s.q.UpdatePictureMeta(ctx, database.UpdatePictureMetaParams{
		ID:          p.ID,
		IsPrimary:   p.IsPrimary,
		Description: toPgText(p.Description),
	})
	if err != nil {
		return nil, fmt.Errorf("update picture: %w", err)
	}
	if n == 0 {
		return nil, &core.NotFoundError{Entity: "picture", ID: p.ID}
	}
	saved := *p
	return &saved, nil
}

func (s *PostgresStore) FindPicture(ctx context.Context, id int64) (*core.Picture, error) {
	row, err := s.q.GetPicture(ctx, id)
	if err != nil {
		return nil, notFound(err, "picture", id)
	}
	return pictureFromRow(row), nil
}

func (s *PostgresStore) FindPicturesByMaterial(ctx context.Context, materialID int64) ([]*core.Picture, error) {
	rows, err := s.q.ListPicturesByMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("list pictures: %w", err)
	}
	pics := make([]*core.Picture, len(rows))
	for i, row := range rows {
		pics[i] = pictureFromRow(row)
	}
	return pics, nil
}

func (s *PostgresStore) DeletePicture(ctx context.Context, id int64) error {
	n, err := s.q.DeletePicture(ctx, id)
	if err != nil {
		return fmt.Errorf("delete picture: %w", err)
	}
	if n == 0 {
		return &core.NotFoundError{Entity: "picture", ID: id}
	}
	return nil
}

// --- audit ---

func (s *PostgresStore) AppendAudit(ctx context.Context, entry core.AuditEntry) error {
	var id pgtype.UUID
	if err := id.Scan(entry.ID); err != nil {
		return fmt.Errorf("audit id %q: %w", entry.ID, err)
	}
	err := s.q.InsertAudit(ctx, database.InsertAuditParams{
		ID:           id,
		Action:       string(entry.Action),
		Severity:     string(entry.Severity),
		MaterialID:   toPgInt8(entry.MaterialID),
		MaterialName: toPgText(entry.MaterialName),
		Details:      toPgText(entry.Details),
		UserName:     entry.UserName,
		IpAddress:    toPgText(entry.IPAddress),
		UserAgent:    toPgText(entry.UserAgent),
		BatchID:      toPgText(entry.BatchID),
		CreatedAt:    toPgTimestamptz(entry.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAudit(ctx context.Context, filter core.AuditFilter) ([]core.AuditEntry, error) {
	rows, err := s.q.ListAudit(ctx, database.ListAuditParams{
		MaterialID: filter.MaterialID,
		UserName:   filter.UserName,
		Action:     string(filter.Action),
		Since:      toPgTimestamptz(filter.Since),
		Limit:      int32(filter.Limit),
		Offset:     int32(filter.Offset),
	})
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	entries := make([]core.AuditEntry, len(rows))
	for i, row := range rows {
		entries[i] = core.AuditEntry{
			ID:           uuid.UUID(row.ID.Bytes).String(),
			Action:       core.AuditAction(row.Action),
			Severity:     core.AuditSeverity(row.Severity),
			MaterialID:   row.MaterialID.Int64,
			MaterialName: fromPgText(row.MaterialName),
			Details:      fromPgText(row.Details),
			UserName:     row.UserName,
			IPAddress:    fromPgText(row.IpAddress),
			UserAgent:    fromPgText(row.UserAgent),
			BatchID:      fromPgText(row.BatchID),
			CreatedAt:    fromPgTimestamptz(row.CreatedAt),
		}
	}
	return entries, nil
}

func (s *PostgresStore) PruneAudit(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.q.PruneAudit(ctx, toPgTimestamptz(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune audit entries: %w", err)
	}
	return n, nil
}

// --- conversion ---

// recordFromRow rebuilds a record through the same validation as user
// input, so a row that breaks the variant rules fails to load.
func recordFromRow(row database.MaterialRecord) (*core.Record, error) {
	added := fromPgTimestamptz(row.DateAdded)
	dto := core.MaterialDTO{
		ID:                row.ID,
		Name:              row.Name,
		Category:          row.Category,
		MaterialType:      row.MaterialType,
		MaterialCondition: row.MaterialCondition,
		Color:             fromPgText(row.Color),
		Notes:             fromPgText(row.Notes),
		DateAdded:         &added,
		VariantSlots: core.VariantSlots{
			Height:           fromPgFloat8(row.Height),
			Width:            fromPgFloat8(row.Width),
			Depth:            fromPgFloat8(row.Depth),
			UValue:           fromPgFloat8(row.UValue),
			MaximumHeight:    fromPgFloat8(row.MaximumHeight),
			OpeningType:      fromPgTextPtr(row.OpeningType),
			HingeSide:        fromPgTextPtr(row.HingeSide),
			SwingDirection:   fromPgTextPtr(row.SwingDirection),
			DeskType:         fromPgTextPtr(row.DeskType),
			HeightAdjustable: fromPgBool(row.HeightAdjustable),
			HasWheels:        fromPgBool(row.HasWheels),
		},
	}
	rec, err := core.FromDTO(dto, added)
	if err != nil {
		return nil, fmt.Errorf("load material %d: %w", row.ID, err)
	}
	return rec, nil
}

func recordsFromRows(rows []database.MaterialRecord) ([]*core.Record, error) {
	recs := make([]*core.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func pictureFromRow(row database.MaterialPicture) *core.Picture {
	return &core.Picture{
		ID:          row.ID,
		MaterialID:  row.MaterialID,
		Data:        row.Data,
		FileName:    row.FileName,
		ContentType: row.ContentType,
		FileSize:    row.FileSize,
		UploadDate:  fromPgTimestamptz(row.UploadDate),
		IsPrimary:   row.IsPrimary,
		Description: fromPgText(row.Description),
	}
}

// notFound converts pgx.ErrNoRows into a *core.NotFoundError.
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &core.NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("query %s %d: %w", entity, id, err)
}
