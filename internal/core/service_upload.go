package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/JonMunkholm/materials/internal/logging"
	"github.com/google/uuid"
)

// ErrFileTooLarge is returned when an import exceeds the configured size or
// row limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrInvalidFile wraps failures that reject an import file as a whole: an
// unreadable workbook or csv, or a header that does not match the layout.
var ErrInvalidFile = errors.New("invalid file")

// ImportFailure describes one rejected row of an import.
type ImportFailure struct {
	Row     int      `json:"row"`
	Message string   `json:"message"`
	Data    []string `json:"data,omitempty"`
}

// ImportResult summarizes a finished import.
type ImportResult struct {
	ID         string          `json:"id"`
	FileName   string          `json:"fileName"`
	Format     Format          `json:"format"`
	TotalRows  int             `json:"totalRows"`
	Created    int             `json:"created"`
	CreatedIDs []int64         `json:"createdIds"`
	Blank      int             `json:"blankRows"`
	Failed     []ImportFailure `json:"failed"`
	DurationMs int64           `json:"durationMs"`
}

// ImportMaterials reads a spreadsheet and creates one material per valid
// row. Invalid rows are reported in the result and do not stop the import.
// A bad header, an unreadable file or an oversized file fails the whole call
// before anything is saved.
//
// When ctx ends mid-import, the result is returned together with the error.
// Rows saved so far stay saved and every unsaved row is listed in Failed.
//
// Returns ErrTooManyImports if no import slot frees up in time.
func (s *Service) ImportMaterials(ctx context.Context, fileName string, r io.Reader) (*ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	if s.importCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.importCfg.Timeout)
		defer cancel()
	}

	importID := uuid.NewString()
	ctx = logging.ContextWith(ctx, "import_id", importID, "file", fileName)

	start := time.Now()
	data, err := s.readImportFile(r)
	if err != nil {
		return nil, err
	}

	format := DetectFormat(fileName, data)
	rows, err := ReadRows(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if limit := s.importCfg.MaxRows; limit > 0 && len(rows)-1 > limit {
		return nil, fmt.Errorf("%w: %d data rows, limit is %d", ErrFileTooLarge, len(rows)-1, limit)
	}

	batch, err := ImportRows(rows, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	result := &ImportResult{
		ID:         importID,
		FileName:   fileName,
		Format:     format,
		TotalRows:  batch.Total(),
		Blank:      batch.Blank,
		CreatedIDs: make([]int64, 0, len(batch.Records)),
	}
	rowErrs := append([]RowError(nil), batch.Errors...)

	var stopErr error
	for i, rec := range batch.Records {
		if err := ctx.Err(); err != nil {
			stopErr = fmt.Errorf("import cancelled after %d rows: %w", result.Created, err)
			for j := i; j < len(batch.Records); j++ {
				rowErrs = append(rowErrs, RowError{
					Row:   batch.Rows[j],
					Cause: fmt.Errorf("not imported: %w", err),
					Data:  ExportRow(batch.Records[j]),
				})
			}
			break
		}
		saved, err := s.store.SaveMaterial(ctx, rec)
		if err != nil {
			logging.WithFields(ctx, "row", batch.Rows[i]).Warn("import row not saved", "error", err)
			rowErrs = append(rowErrs, RowError{Row: batch.Rows[i], Cause: err, Data: ExportRow(rec)})
			continue
		}
		result.Created++
		result.CreatedIDs = append(result.CreatedIDs, saved.ID)
	}

	sort.SliceStable(rowErrs, func(i, j int) bool { return rowErrs[i].Row < rowErrs[j].Row })
	result.Failed = make([]ImportFailure, 0, len(rowErrs))
	for _, re := range rowErrs {
		logging.WithFields(ctx, "row", re.Row).Debug("import row rejected", "error", re.Cause)
		result.Failed = append(result.Failed, ImportFailure{
			Row:     re.Row,
			Message: re.Cause.Error(),
			Data:    re.Data,
		})
	}
	result.DurationMs = time.Since(start).Milliseconds()

	// Rows saved before a cancellation are still recorded.
	s.recordAudit(context.WithoutCancel(ctx), s.store, AuditEntry{
		Action:  ActionImported,
		BatchID: result.ID,
		Details: fmt.Sprintf("Imported %d of %d rows from %s, %d failed",
			result.Created, result.TotalRows, fileName, len(result.Failed)),
	})

	logging.WithFields(ctx,
		"format", format,
		"created", result.Created,
		"failed", len(result.Failed),
		"blank", result.Blank,
		"duration_ms", result.DurationMs,
	).Info("import completed")

	if stopErr != nil {
		return result, stopErr
	}
	return result, nil
}

// readImportFile reads r fully, failing once it passes the size limit.
func (s *Service) readImportFile(r io.Reader) ([]byte, error) {
	limit := s.importCfg.MaxFileSize
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}

// ExportMaterials writes every material to w in format, one row each, in
// ID order.
func (s *Service) ExportMaterials(ctx context.Context, w io.Writer, format Format) error {
	recs, err := s.store.ListMaterials(ctx)
	if err != nil {
		return fmt.Errorf("list materials: %w", err)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })

	if err := WriteRows(w, ExportRows(recs), format); err != nil {
		return err
	}
	logging.WithFields(ctx, "format", format, "rows", len(recs)).Debug("materials exported")
	return nil
}

// WriteTemplate writes the import template in format.
func (s *Service) WriteTemplate(w io.Writer, format Format) error {
	return WriteImportTemplate(w, format)
}

// WriteImportTemplate writes the import template in format. The csv form
// carries the same rows without comments, styling or drop-down lists.
func WriteImportTemplate(w io.Writer, format Format) error {
	t := GenerateTemplate()
	if format == FormatCSV {
		return WriteCSV(w, t.Rows())
	}
	return WriteTemplateWorkbook(w, t)
}
