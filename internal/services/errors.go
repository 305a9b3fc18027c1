package services

import "errors"

// Gradebook service errors
var (
	// Lookup errors
	ErrStudentNotFound    = errors.New("student not found in grade table")
	ErrAssignmentNotFound = errors.New("assignment not found in grade table")

	// Export errors
	ErrNoAssignments  = errors.New("no assignments match the requested prefix")
	ErrExportDisabled = errors.New("spreadsheet export is not configured")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
