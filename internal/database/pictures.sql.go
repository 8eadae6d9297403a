package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const pictureColumns = `id, material_id, data, file_name, content_type, file_size, upload_date, is_primary, description`

func scanPicture(row pgx.Row) (MaterialPicture, error) {
	var i MaterialPicture
	err := row.Scan(
		&i.ID,
		&i.MaterialID,
		&i.Data,
		&i.FileName,
		&i.ContentType,
		&i.FileSize,
		&i.UploadDate,
		&i.IsPrimary,
		&i.Description,
	)
	return i, err
}

const insertPicture = `-- name: InsertPicture :one
INSERT INTO material_pictures (
    material_id, data, file_name, content_type, file_size, upload_date, is_primary, description
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + pictureColumns

type InsertPictureParams struct {
	MaterialID  int64
	Data        []byte
	FileName    string
	ContentType string
	FileSize    int64
	UploadDate  pgtype.Timestamptz
	IsPrimary   bool
	Description pgtype.Text
}

func (q *Queries) InsertPicture(ctx context.Context, arg InsertPictureParams) (MaterialPicture, error) {
	row := q.db.QueryRow(ctx, insertPicture,
		arg.MaterialID,
		arg.Data,
		arg.FileName,
		arg.ContentType,
		arg.FileSize,
		arg.UploadDate,
		arg.IsPrimary,
		arg.Description,
	)
	return scanPicture(row)
}

const updatePictureMeta = `-- name: UpdatePictureMeta :execrows
UPDATE material_pictures SET is_primary = $2, description = $3 WHERE id = $1`

type UpdatePictureMetaParams struct {
	ID          int64
	IsPrimary   bool
	Description pgtype.Text
}

// UpdatePictureMeta changes the mutable fields of a picture. Data and file
// attributes are fixed at upload.
func (q *Queries) UpdatePictureMeta(ctx context.Context, arg UpdatePictureMetaParams) (int64, error) {
	result, err := q.db.Exec(ctx, updatePictureMeta, arg.ID, arg.IsPrimary, arg.Description)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getPicture = `-- name: GetPicture :one
SELECT ` + pictureColumns + ` FROM material_pictures WHERE id = $1`

func (q *Queries) GetPicture(ctx context.Context, id int64) (MaterialPicture, error) {
	return scanPicture(q.db.QueryRow(ctx, getPicture, id))
}

const listPicturesByMaterial = `-- name: ListPicturesByMaterial :many
SELECT ` + pictureColumns + ` FROM material_pictures WHERE material_id = $1 ORDER BY id`

func (q *Queries) ListPicturesByMaterial(ctx context.Context, materialID int64) ([]MaterialPicture, error) {
	rows, err := q.db.Query(ctx, listPicturesByMaterial, materialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MaterialPicture
	for rows.Next() {
		i, err := scanPicture(rows)
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

const deletePicture = `-- name: DeletePicture :execrows
DELETE FROM material_pictures WHERE id = $1`

func (q *Queries) DeletePicture(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deletePicture, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
