// Package core provides the business logic of the reclaimed materials catalog.
//
// The package holds all domain logic independent of any transport or storage
// layer. It can be used by web handlers, CLI tools, or tests without
// modification; persistence is reached only through the [Store] interface.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Records: a [Record] carries the fields every material shares plus one
//     kind-specific [Variant] body (Desk, Door, Window, DrawerUnit,
//     OfficeCabinet). Field layout per kind lives in the schema package.
//   - Pictures: a [PictureSet] keeps exactly one primary picture while it is
//     non-empty.
//   - Transfer shape: [MaterialDTO] is the flat JSON form; [ToDTO] and
//     [FromDTO] convert without loss.
//   - Spreadsheets: [ImportRows] and [ExportRows] map records to the fixed
//     17-column layout; workbook.go reads and writes .xlsx and .csv.
//   - Service: the main entry point for all operations (create, update,
//     pictures, search, stats, import, export, audit).
//
// # Import
//
// Imports are row-isolated. A bad header, an unreadable file or an oversized
// file fails the whole call; a bad row is reported in [ImportResult.Failed]
// and the remaining rows are still saved. Parallel imports are bounded by an
// [ImportLimiter].
//
//	res, err := svc.ImportMaterials(ctx, "materials.xlsx", file)
//	// res.Created == 10, res.Failed[0].Row == 5
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DB001-DB007: Database errors (duplicates, constraints, connections)
//   - VAL001-VAL009: Validation errors (numbers, enums, required fields)
//   - MAT001-MAT002: Unknown material types and missing records
//   - PIC001-PIC006: Picture errors (type, size, primary rule)
//   - FILE001-FILE006: File errors (size, format, empty)
//   - IMP001-IMP004: Import errors (cancelled, busy, timeout)
//
// # Audit Logging
//
// Every change is recorded in the activity trail with a severity level:
//
//   - Low: Primary picture changes
//   - Medium: Creates, updates, picture uploads and removals
//   - High: Deletions and imports
//   - Critical: Catalog resets
//
// Entries outlive the materials they describe. Old entries are pruned by
// [Service.StartAuditPruner] based on the configured retention period.
package core
