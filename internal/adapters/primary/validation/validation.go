package validation

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	apperrors "github.com/lorrc/employee-identifier/internal/core/errors"
)

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Extension validates that a file name ends in ext, ignoring case.
// Nothing is reported for an empty name.
func (v *Validator) Extension(field, fileName, ext, message string) *Validator {
	if fileName != "" && !strings.EqualFold(filepath.Ext(fileName), ext) {
		v.errors.Add(field, message)
	}
	return v
}

// UploadedFile validates a multipart upload: it must exist, be non-empty and
// carry the given extension. Checks stop at the first failure so the message
// describes the most basic problem.
func (v *Validator) UploadedFile(field string, header *multipart.FileHeader, ext string) *Validator {
	if header == nil || header.Size == 0 {
		v.errors.Add(field, "No file uploaded")
		return v
	}
	return v.Extension(field, header.Filename, ext, "File must be a "+strings.ToUpper(strings.TrimPrefix(ext, "."))+" file")
}
