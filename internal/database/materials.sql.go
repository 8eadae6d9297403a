package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const materialColumns = `id, name, category, material_type, material_condition, color, notes, date_added,
    height, width, depth, u_value, maximum_height, opening_type, hinge_side, swing_direction,
    desk_type, height_adjustable, has_wheels`

func scanMaterial(row pgx.Row) (MaterialRecord, error) {
	var i MaterialRecord
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Category,
		&i.MaterialType,
		&i.MaterialCondition,
		&i.Color,
		&i.Notes,
		&i.DateAdded,
		&i.Height,
		&i.Width,
		&i.Depth,
		&i.UValue,
		&i.MaximumHeight,
		&i.OpeningType,
		&i.HingeSide,
		&i.SwingDirection,
		&i.DeskType,
		&i.HeightAdjustable,
		&i.HasWheels,
	)
	return i, err
}

func collectMaterials(rows pgx.Rows) ([]MaterialRecord, error) {
	defer rows.Close()
	var items []MaterialRecord
	for rows.Next() {
		i, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertMaterial = `-- name: InsertMaterial :one
INSERT INTO material_records (
    name, category, material_type, material_condition, color, notes, date_added,
    height, width, depth, u_value, maximum_height, opening_type, hinge_side, swing_direction,
    desk_type, height_adjustable, has_wheels
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
)
RETURNING ` + materialColumns

type InsertMaterialParams struct {
	Name              string
	Category          string
	MaterialType      string
	MaterialCondition string
	Color             pgtype.Text
	Notes             pgtype.Text
	DateAdded         pgtype.Timestamptz
	Height            pgtype.Float8
	Width             pgtype.Float8
	Depth             pgtype.Float8
	UValue            pgtype.Float8
	MaximumHeight     pgtype.Float8
	OpeningType       pgtype.Text
	HingeSide         pgtype.Text
	SwingDirection    pgtype.Text
	DeskType          pgtype.Text
	HeightAdjustable  pgtype.Bool
	HasWheels         pgtype.Bool
}

func (q *Queries) InsertMaterial(ctx context.Context, arg InsertMaterialParams) (MaterialRecord, error) {
	row := q.db.QueryRow(ctx, insertMaterial,
		arg.Name,
		arg.Category,
		arg.MaterialType,
		arg.MaterialCondition,
		arg.Color,
		arg.Notes,
		arg.DateAdded,
		arg.Height,
		arg.Width,
		arg.Depth,
		arg.UValue,
		arg.MaximumHeight,
		arg.OpeningType,
		arg.HingeSide,
		arg.SwingDirection,
		arg.DeskType,
		arg.HeightAdjustable,
		arg.HasWheels,
	)
	return scanMaterial(row)
}

const updateMaterial = `-- name: UpdateMaterial :one
UPDATE material_records SET
    name = $2, category = $3, material_condition = $4, color = $5, notes = $6,
    height = $7, width = $8, depth = $9, u_value = $10, maximum_height = $11,
    opening_type = $12, hinge_side = $13, swing_direction = $14, desk_type = $15,
    height_adjustable = $16, has_wheels = $17
WHERE id = $1
RETURNING ` + materialColumns

type UpdateMaterialParams struct {
	ID                int64
	Name              string
	Category          string
	MaterialCondition string
	Color             pgtype.Text
	Notes             pgtype.Text
	Height            pgtype.Float8
	Width             pgtype.Float8
	Depth             pgtype.Float8
	UValue            pgtype.Float8
	MaximumHeight     pgtype.Float8
	OpeningType       pgtype.Text
	HingeSide         pgtype.Text
	SwingDirection    pgtype.Text
	DeskType          pgtype.Text
	HeightAdjustable  pgtype.Bool
	HasWheels         pgtype.Bool
}

// UpdateMaterial never changes material_type or date_added.
func (q *Queries) UpdateMaterial(ctx context.Context, arg UpdateMaterialParams) (MaterialRecord, error) {
	row := q.db.QueryRow(ctx, updateMaterial,
		arg.ID,
		arg.Name,
		arg.Category,
		arg.MaterialCondition,
		arg.Color,
		arg.Notes,
		arg.Height,
		arg.Width,
		arg.Depth,
		arg.UValue,
		arg.MaximumHeight,
		arg.OpeningType,
		arg.HingeSide,
		arg.SwingDirection,
		arg.DeskType,
		arg.HeightAdjustable,
		arg.HasWheels,
	)
	return scanMaterial(row)
}

const getMaterial = `-- name: GetMaterial :one
SELECT ` + materialColumns + ` FROM material_records WHERE id = $1`

func (q *Queries) GetMaterial(ctx context.Context, id int64) (MaterialRecord, error) {
	return scanMaterial(q.db.QueryRow(ctx, getMaterial, id))
}

const lockMaterial = `-- name: LockMaterial :one
SELECT id FROM material_records WHERE id = $1 FOR UPDATE`

// LockMaterial row-locks the material until the surrounding transaction ends.
func (q *Queries) LockMaterial(ctx context.Context, id int64) (int64, error) {
	var locked int64
	err := q.db.QueryRow(ctx, lockMaterial, id).Scan(&locked)
	return locked, err
}

const listMaterials = `-- name: ListMaterials :many
SELECT ` + materialColumns + ` FROM material_records ORDER BY id`

func (q *Queries) ListMaterials(ctx context.Context) ([]MaterialRecord, error) {
	rows, err := q.db.Query(ctx, listMaterials)
	if err != nil {
		return nil, err
	}
	return collectMaterials(rows)
}

const searchFilter = `
WHERE ($1::text = '' OR category = $1)
  AND ($2::text = '' OR material_type = $2)
  AND ($3::text = '' OR material_condition = $3)
  AND ($4::text = '' OR name ILIKE '%' || $4 || '%' OR notes ILIKE '%' || $4 || '%')`

const searchMaterials = `-- name: SearchMaterials :many
SELECT ` + materialColumns + ` FROM material_records` + searchFilter + `
ORDER BY date_added DESC, id DESC
LIMIT $5 OFFSET $6`

type SearchMaterialsParams struct {
	Category     string
	MaterialType string
	Condition    string
	Query        string
	Limit        int32
	Offset       int32
}

func (q *Queries) SearchMaterials(ctx context.Context, arg SearchMaterialsParams) ([]MaterialRecord, error) {
	rows, err := q.db.Query(ctx, searchMaterials,
		arg.Category,
		arg.MaterialType,
		arg.Condition,
		arg.Query,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	return collectMaterials(rows)
}

const countSearchMaterials = `-- name: CountSearchMaterials :one
SELECT count(*) FROM material_records` + searchFilter

type CountSearchMaterialsParams struct {
	Category     string
	MaterialType string
	Condition    string
	Query        string
}

func (q *Queries) CountSearchMaterials(ctx context.Context, arg CountSearchMaterialsParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countSearchMaterials,
		arg.Category,
		arg.MaterialType,
		arg.Condition,
		arg.Query,
	).Scan(&count)
	return count, err
}

const deleteMaterial = `-- name: DeleteMaterial :execrows
DELETE FROM material_records WHERE id = $1`

// DeleteMaterial cascades to the material's pictures.
func (q *Queries) DeleteMaterial(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteMaterial, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const resetMaterials = `-- name: ResetMaterials :exec
TRUNCATE material_pictures, material_records RESTART IDENTITY CASCADE`

func (q *Queries) ResetMaterials(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetMaterials)
	return err
}
