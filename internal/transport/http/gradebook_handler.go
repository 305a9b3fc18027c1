package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/Alexico1969/project-stem-grader/internal/errors"
	appmw "github.com/Alexico1969/project-stem-grader/internal/middleware"
	"github.com/Alexico1969/project-stem-grader/internal/services"
	v1 "github.com/Alexico1969/project-stem-grader/pkg/contracts/api/v1"
)

// GradebookHandler handles grade lookup and export HTTP requests
type GradebookHandler struct {
	service      GradebookServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewGradebookHandler creates a new gradebook handler
func NewGradebookHandler(service GradebookServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *GradebookHandler {
	return &GradebookHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "gradebook_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the gradebook routes with proper Chi patterns
func (h *GradebookHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Use render for consistent JSON responses
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/assignments", h.GetAssignments)
	r.Get("/subchapters", h.GetSubChapters)
	r.Get("/students", h.GetStudents)

	r.Route("/grades", func(r chi.Router) {
		r.Get("/student/{name}", h.GetStudentGrades)
		r.Get("/assignment", h.GetAssignmentGrades)
		r.Get("/lookup", h.LookupGrade)
	})

	r.Route("/exports", func(r chi.Router) {
		r.Post("/assignment", h.ExportAssignment)
		r.Post("/subchapter", h.ExportSubchapter)
	})

	return r
}

// GetAssignments handles GET /api/assignments
func (h *GradebookHandler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"assignments": h.service.Assignments(),
	})
}

// GetSubChapters handles GET /api/subchapters
func (h *GradebookHandler) GetSubChapters(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"subchapters": h.service.SubChapters(),
	})
}

// GetStudents handles GET /api/students
func (h *GradebookHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"students": h.service.Students(),
	})
}

// GetStudentGrades handles GET /api/grades/student/{name}
func (h *GradebookHandler) GetStudentGrades(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := chi.URLParam(r, "name")
	if name == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Student name is required"))
		return
	}

	result, err := h.service.StudentGrades(ctx, name)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "student grades served",
		slog.String("student", result.Student),
		slog.String("request_id", appmw.GetReqID(ctx)))

	render.JSON(w, r, result)
}

// GetAssignmentGrades handles GET /api/grades/assignment?name=
func (h *GradebookHandler) GetAssignmentGrades(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := v1.AssignmentGradesRequest{Assignment: r.URL.Query().Get("name")}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Assignment name is required"))
		return
	}

	result, err := h.service.AssignmentGrades(ctx, req.Assignment)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// LookupGrade handles GET /api/grades/lookup?student=&assignment=
func (h *GradebookHandler) LookupGrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := v1.GradeLookupRequest{
		Student:    r.URL.Query().Get("student"),
		Assignment: r.URL.Query().Get("assignment"),
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r,
			apierrors.ErrValidation("student, assignment", "Both student and assignment are required"))
		return
	}

	result, err := h.service.LookupGrade(ctx, req.Student, req.Assignment)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// ExportAssignment handles POST /api/exports/assignment
func (h *GradebookHandler) ExportAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req v1.ExportAssignmentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("assignment", "Assignment name is required"))
		return
	}

	result, err := h.service.ExportAssignment(ctx, req.Assignment)
	appmw.RecordExport("assignment", err)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "assignment export complete",
		slog.String("assignment", req.Assignment),
		slog.String("export_id", result.ExportID),
		slog.String("request_id", appmw.GetReqID(ctx)))

	render.JSON(w, r, toExportResponse(result))
}

// ExportSubchapter handles POST /api/exports/subchapter
func (h *GradebookHandler) ExportSubchapter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req v1.ExportSubchapterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("prefix", "Sub-chapter prefix is required"))
		return
	}

	result, err := h.service.ExportSubchapter(ctx, req.Prefix)
	appmw.RecordExport("subchapter", err)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "subchapter export complete",
		slog.String("prefix", req.Prefix),
		slog.String("export_id", result.ExportID),
		slog.String("request_id", appmw.GetReqID(ctx)))

	render.JSON(w, r, toExportResponse(result))
}

// handleServiceError maps service sentinel errors onto API errors
func (h *GradebookHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrStudentNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ErrStudentNotFound)
	case errors.Is(err, services.ErrAssignmentNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ErrAssignmentNotFound)
	case errors.Is(err, services.ErrNoAssignments):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("prefix", "No assignments match the given prefix"))
	case errors.Is(err, services.ErrExportDisabled):
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusServiceUnavailable, "EXPORT_DISABLED", "Spreadsheet export is not configured"))
	case errors.Is(err, services.ErrInvalidInput):
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

func toExportResponse(result *services.ExportResult) *v1.ExportResponse {
	return &v1.ExportResponse{
		Success:  true,
		URL:      result.URL,
		ExportID: result.ExportID,
		Label:    result.Label,
	}
}
