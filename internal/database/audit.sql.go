package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertAudit = `-- name: InsertAudit :exec
INSERT INTO audit_trails (
    id, action, severity, material_id, material_name, details,
    user_name, ip_address, user_agent, batch_id, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

type InsertAuditParams struct {
	ID           pgtype.UUID
	Action       string
	Severity     string
	MaterialID   pgtype.Int8
	MaterialName pgtype.Text
	Details      pgtype.Text
	UserName     string
	IpAddress    pgtype.Text
	UserAgent    pgtype.Text
	BatchID      pgtype.Text
	CreatedAt    pgtype.Timestamptz
}

func (q *Queries) InsertAudit(ctx context.Context, arg InsertAuditParams) error {
	_, err := q.db.Exec(ctx, insertAudit,
		arg.ID,
		arg.Action,
		arg.Severity,
		arg.MaterialID,
		arg.MaterialName,
		arg.Details,
		arg.UserName,
		arg.IpAddress,
		arg.UserAgent,
		arg.BatchID,
		arg.CreatedAt,
	)
	return err
}

const listAudit = `-- name: ListAudit :many
SELECT id, action, severity, material_id, material_name, details,
       user_name, ip_address, user_agent, batch_id, created_at
FROM audit_trails
WHERE ($1::bigint = 0 OR material_id = $1)
  AND ($2::text = '' OR user_name = $2)
  AND ($3::text = '' OR action = $3)
  AND ($4::timestamptz IS NULL OR created_at >= $4)
ORDER BY created_at DESC, id
LIMIT $5 OFFSET $6`

type ListAuditParams struct {
	MaterialID int64
	UserName   string
	Action     string
	Since      pgtype.Timestamptz
	Limit      int32
	Offset     int32
}

func (q *Queries) ListAudit(ctx context.Context, arg ListAuditParams) ([]AuditTrail, error) {
	rows, err := q.db.Query(ctx, listAudit,
		arg.MaterialID,
		arg.UserName,
		arg.Action,
		arg.Since,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AuditTrail
	for rows.Next() {
		var i AuditTrail
		if err := rows.Scan(
			&i.ID,
			&i.Action,
			&i.Severity,
			&i.MaterialID,
			&i.MaterialName,
			&i.Details,
			&i.UserName,
			&i.IpAddress,
			&i.UserAgent,
			&i.BatchID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const pruneAudit = `-- name: PruneAudit :execrows
DELETE FROM audit_trails WHERE created_at < $1`

func (q *Queries) PruneAudit(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	result, err := q.db.Exec(ctx, pruneAudit, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const resetAudit = `-- name: ResetAudit :exec
TRUNCATE audit_trails`

func (q *Queries) ResetAudit(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetAudit)
	return err
}
