// Package api contains API contract definitions for the grade
// reconciliation service. Version v1 represents the current stable API
// version.
package api

// Lookup API Requests

// GradeLookupRequest asks for one student's grade on one assignment
type GradeLookupRequest struct {
	Student    string `json:"student" query:"student" validate:"required,min=1"`
	Assignment string `json:"assignment" query:"assignment" validate:"required,min=1"`
}

// StudentGradesRequest asks for every grade a student has
type StudentGradesRequest struct {
	Student string `json:"student" param:"name" validate:"required,min=1"`
}

// AssignmentGradesRequest asks for every student's grade on one assignment
type AssignmentGradesRequest struct {
	Assignment string `json:"assignment" query:"name" validate:"required,min=1"`
}

// Export API Requests

// ExportAssignmentRequest requests a spreadsheet export of one assignment
type ExportAssignmentRequest struct {
	Assignment string `json:"assignment" validate:"required,min=1"`
}

// ExportSubchapterRequest requests a bulk spreadsheet export of every
// assignment sharing a sub-chapter prefix
type ExportSubchapterRequest struct {
	Prefix string `json:"prefix" validate:"required,min=1"`
}

// Export API Responses

// ExportResponse carries the location reference returned by the sink
type ExportResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	ExportID string `json:"export_id"`
	Label    string `json:"label"`
}
