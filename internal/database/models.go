package database

import "github.com/jackc/pgx/v5/pgtype"

type MaterialRecord struct {
	ID                int64
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

type MaterialPicture struct {
	ID          int64
	MaterialID  int64
	Data        []byte
	FileName    string
	ContentType string
	FileSize    int64
	UploadDate  pgtype.Timestamptz
	IsPrimary   bool
	Description pgtype.Text
}

type AuditTrail struct {
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
