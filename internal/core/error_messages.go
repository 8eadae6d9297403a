// Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this ID already exists
//	        Patterns: "duplicate key"
//	DB002 - Unique constraint: This value must be unique but already exists
//	        Patterns: "unique constraint", "violates unique"
//	DB003 - Foreign key: Referenced material does not exist
//	        Patterns: "foreign key constraint", "violates foreign key"
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout"
//	DB007 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid number       Patterns: "invalid number"
//	VAL002 - Invalid yes/no value Patterns: "invalid boolean"
//	VAL003 - Required field       Patterns: "required field"
//	VAL004 - Missing column       Patterns: "missing required column"
//	VAL005 - Column not found     Patterns: "column not found"
//	VAL006 - Invalid enum         Patterns: "invalid enum"
//	VAL007 - Out of range         Patterns: "must be greater than zero", "must not be negative"
//	VAL008 - Text too long        Patterns: "name exceeds", "notes exceed"
//	VAL009 - Field not applicable Patterns: "is not applicable to"
//
// # Material Errors (MAT001-MAT099)
//
//	MAT001 - Unknown material type  Patterns: "unknown material type"
//	MAT002 - Not found              Patterns: "not found"
//
// # Picture Errors (PIC001-PIC099)
//
//	PIC001 - Primary picture rule broken  Patterns: "picture invariant"
//	PIC002 - Unsupported picture type     Patterns: "unsupported picture type"
//	PIC003 - Picture too large            Patterns: "picture too large"
//	PIC004 - Too many pictures            Patterns: "too many pictures"
//	PIC005 - Picture is empty             Patterns: "picture is empty", "no pictures uploaded"
//	PIC006 - Unreadable image             Patterns: "decode image"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large      Patterns: "file too large"
//	FILE002 - Invalid CSV         Patterns: "invalid csv"
//	FILE003 - Invalid workbook    Patterns: "open workbook"
//	FILE004 - No file             Patterns: "no file provided"
//	FILE005 - Empty file          Patterns: "empty file"
//	FILE006 - Unknown format      Patterns: "invalid format"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Import cancelled     Patterns: "import cancelled"
//	IMP002 - System busy          Patterns: "too many imports"
//	IMP003 - Request cancelled    Patterns: "context canceled"
//	IMP004 - Request timeout      Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited        Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones. Multiple patterns can map to the same code
// (e.g., DB002 matches both "unique constraint" and "violates unique").
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, check application logs for the original technical error

package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Constraint Errors (DB001-DB003)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Refresh the page and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate entries",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Review your data for duplicate values",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "Referenced material does not exist",
			Action:  "The material may have been deleted. Refresh and try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced material does not exist",
			Action:  "The material may have been deleted. Refresh and try again",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Import Process Errors (IMP001-IMP004)
	// Checked before DB006 so cancelled imports are not reported as timeouts.
	// =========================================================================
	{
		pattern: "import cancelled",
		msg: UserMessage{
			Message: "The import was stopped before it finished",
			Action:  "Rows saved before the stop were kept. Check the catalog and import the rest",
			Code:    "IMP001",
		},
	},
	{
		pattern: "too many imports",
		msg: UserMessage{
			Message: "Too many imports in progress",
			Action:  "Please wait a moment and try again",
			Code:    "IMP002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try importing a smaller file or check your connection",
			Code:    "IMP004",
		},
	},

	// =========================================================================
	// Database Connection Errors (DB004-DB007)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL009)
	// =========================================================================
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Use plain decimal numbers such as 120 or 75.5",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid boolean",
		msg: UserMessage{
			Message: "Invalid yes/no value detected",
			Action:  "Use true or false",
			Code:    "VAL002",
		},
	},
	{
		pattern: "required field",
		msg: UserMessage{
			Message: "Required field is empty",
			Action:  "Fill in Name, Category, Material Type, Condition and the fields the type requires",
			Code:    "VAL003",
		},
	},
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Required column is missing from the file",
			Action:  "Start from the downloaded template and keep all 17 columns",
			Code:    "VAL004",
		},
	},
	{
		pattern: "column not found",
		msg: UserMessage{
			Message: "Expected column not found",
			Action:  "Verify column headers match the template exactly",
			Code:    "VAL005",
		},
	},
	{
		pattern: "invalid enum",
		msg: UserMessage{
			Message: "Value is not in the allowed list",
			Action:  "Pick one of the values offered in the template",
			Code:    "VAL006",
		},
	},
	{
		pattern: "must be greater than zero",
		msg: UserMessage{
			Message: "Dimensions must be greater than zero",
			Action:  "Enter measurements in centimetres",
			Code:    "VAL007",
		},
	},
	{
		pattern: "must not be negative",
		msg: UserMessage{
			Message: "U-value must not be negative",
			Action:  "Enter a U-value of zero or more",
			Code:    "VAL007",
		},
	},
	{
		pattern: "name exceeds",
		msg: UserMessage{
			Message: "Name is too long",
			Action:  "Use at most 100 characters",
			Code:    "VAL008",
		},
	},
	{
		pattern: "notes exceed",
		msg: UserMessage{
			Message: "Notes are too long",
			Action:  "Use at most 500 characters",
			Code:    "VAL008",
		},
	},
	{
		pattern: "is not applicable to",
		msg: UserMessage{
			Message: "This field does not apply to the material type",
			Action:  "Remove the field or change the material type",
			Code:    "VAL009",
		},
	},

	// =========================================================================
	// Material Errors (MAT001-MAT002)
	// =========================================================================
	{
		pattern: "unknown material type",
		msg: UserMessage{
			Message: "Unknown material type",
			Action:  "Use Desk, Door, Window, DrawerUnit or OfficeCabinet",
			Code:    "MAT001",
		},
	},

	// =========================================================================
	// Picture Errors (PIC001-PIC006)
	// =========================================================================
	{
		pattern: "picture invariant",
		msg: UserMessage{
			Message: "The material's pictures are in an inconsistent state",
			Action:  "Set a primary picture again or contact support",
			Code:    "PIC001",
		},
	},
	{
		pattern: "unsupported picture type",
		msg: UserMessage{
			Message: "Unsupported picture type",
			Action:  "Upload JPEG, PNG, GIF or WebP images",
			Code:    "PIC002",
		},
	},
	{
		pattern: "picture too large",
		msg: UserMessage{
			Message: "Picture exceeds the maximum size",
			Action:  "Resize the image and try again",
			Code:    "PIC003",
		},
	},
	{
		pattern: "too many pictures",
		msg: UserMessage{
			Message: "Too many pictures in one request",
			Action:  "Upload the pictures in smaller groups",
			Code:    "PIC004",
		},
	},
	{
		pattern: "picture is empty",
		msg: UserMessage{
			Message: "The uploaded picture is empty",
			Action:  "Select a valid image file",
			Code:    "PIC005",
		},
	},
	{
		pattern: "no pictures uploaded",
		msg: UserMessage{
			Message: "No pictures were uploaded",
			Action:  "Select at least one image file",
			Code:    "PIC005",
		},
	},
	{
		pattern: "decode image",
		msg: UserMessage{
			Message: "The picture could not be read as an image",
			Action:  "Upload a valid image file",
			Code:    "PIC006",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE006)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size or row limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated",
			Code:    "FILE002",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "File is not a valid Excel workbook",
			Action:  "Save the file as .xlsx and try again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to import",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with a header row and data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid format",
		msg: UserMessage{
			Message: "Unknown file format",
			Action:  "Use xlsx or csv",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Generic Not Found (MAT002)
	// Kept after the column and picture patterns that also say "not found".
	// =========================================================================
	{
		pattern: "not found",
		msg: UserMessage{
			Message: "The requested item was not found",
			Action:  "It may have been deleted. Refresh and try again",
			Code:    "MAT002",
		},
	},

	// =========================================================================
	// Rate Limiting Errors (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := errors.New("duplicate key violation")
//	msg := MapError(err)
//	// msg.Code == "DB001"
//	// msg.Message == "A record with this ID already exists"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders the mapped message of err as
// "Message (Code: XXX). Action", or "" for a nil error.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
