package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/lorrc/employee-identifier/internal/adapters/primary/validation"
	"github.com/lorrc/employee-identifier/internal/core/domain"
	apperrors "github.com/lorrc/employee-identifier/internal/core/errors"
	"github.com/lorrc/employee-identifier/internal/core/ports"
)

const (
	defaultFormField      = "file"
	defaultMaxUploadBytes = 10 << 20
	multipartMemoryBytes  = 1 << 20
	requiredFileExtension = ".csv"
)

// UploadConfig controls how uploaded files are accepted.
type UploadConfig struct {
	FormField      string
	MaxUploadBytes int64
}

// CollaborationHandler serves the employee collaboration analysis endpoint.
type CollaborationHandler struct {
	service      ports.CollaborationService
	errorHandler *ErrorHandler
	logger       *slog.Logger
	upload       UploadConfig
}

func NewCollaborationHandler(service ports.CollaborationService, upload UploadConfig, errorHandler *ErrorHandler, logger *slog.Logger) *CollaborationHandler {
	if upload.FormField == "" {
		upload.FormField = defaultFormField
	}
	if upload.MaxUploadBytes <= 0 {
		upload.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &CollaborationHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "collaboration"),
		upload:       upload,
	}
}

func (h *CollaborationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/collaboration", h.HandleAnalyzeCollaboration)
}

// ProjectDetailDTO is one shared project of the winning pair.
type ProjectDetailDTO struct {
	ProjectID          int    `json:"projectId"`
	DaysWorkedTogether int    `json:"daysWorkedTogether"`
	OverlapStart       string `json:"overlapStart"`
	OverlapEnd         string `json:"overlapEnd"`
}

// CollaborationResponse is the body returned for a successful analysis.
type CollaborationResponse struct {
	EmployeeFirstID    int                `json:"employeeFirstId"`
	EmployeeSecondID   int                `json:"employeeSecondId"`
	DaysWorkedTogether int                `json:"daysWorkedTogether"`
	ProjectDetails     []ProjectDetailDTO `json:"projectDetails"`
}

// HandleAnalyzeCollaboration handles POST /employees/collaboration
func (h *CollaborationHandler) HandleAnalyzeCollaboration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, header, err := h.openUpload(w, r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if file != nil {
		defer file.Close()
	}

	v := validation.NewValidator().UploadedFile(h.upload.FormField, header, requiredFileExtension)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	h.logger.InfoContext(ctx, "processing employee collaboration file",
		"file_name", header.Filename,
		"size", humanize.Bytes(uint64(header.Size)),
	)

	result, err := h.service.AnalyzeCollaborations(ctx, file)
	if err != nil {
		h.errorHandler.Handle(w, r, classifyAnalysisError(err))
		return
	}

	h.logger.InfoContext(ctx, "found longest collaboration",
		"employee_first_id", result.Pair.FirstID,
		"employee_second_id", result.Pair.SecondID,
		"days", result.TotalDaysTogether,
	)

	WriteJSON(w, http.StatusOK, toCollaborationResponse(result))
}

// openUpload reads the multipart form and returns the uploaded file. A missing
// file is not an error here: header comes back nil and validation reports it.
func (h *CollaborationHandler) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if r.ContentLength > h.upload.MaxUploadBytes {
		return nil, nil, h.tooLarge()
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.upload.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, nil, h.tooLarge()
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, nil, apperrors.ErrInvalidFormData
		default:
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidFormData, err)
		}
	}

	file, header, err := r.FormFile(h.upload.FormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open uploaded file: %w", err)
	}
	return file, header, nil
}

func (h *CollaborationHandler) tooLarge() error {
	return apperrors.NewPayloadTooLargeError(apperrors.ErrFileTooLarge,
		fmt.Sprintf("File exceeds the maximum upload size of %s", humanize.Bytes(uint64(h.upload.MaxUploadBytes))))
}

// classifyAnalysisError reports an upload without usable or overlapping rows
// as a validation error and anything else as an internal error carrying the
// processing failure message. Both empty outcomes read the same to the client.
func classifyAnalysisError(err error) error {
	if errors.Is(err, apperrors.ErrNoRecords) || errors.Is(err, apperrors.ErrNoCollaborationsFound) {
		return apperrors.NewValidationError(err, MsgNoCollaborationsFound, nil)
	}
	appErr := apperrors.NewInternalError(err)
	appErr.Message = MsgErrorProcessingFile
	return appErr
}

func toCollaborationResponse(result *domain.CollaborationResult) CollaborationResponse {
	details := make([]ProjectDetailDTO, 0, len(result.Projects))
	for _, p := range result.Projects {
		details = append(details, ProjectDetailDTO{
			ProjectID:          p.ProjectID,
			DaysWorkedTogether: p.DaysOverlapped,
			OverlapStart:       p.OverlapStart.Format(domain.DateLayout),
			OverlapEnd:         p.OverlapEnd.Format(domain.DateLayout),
		})
	}

	return CollaborationResponse{
		EmployeeFirstID:    result.Pair.FirstID,
		EmployeeSecondID:   result.Pair.SecondID,
		DaysWorkedTogether: result.TotalDaysTogether,
		ProjectDetails:     details,
	}
}
