package validation_test

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lorrc/employee-identifier/internal/adapters/primary/validation"
)

func TestValidator_UploadedFile(t *testing.T) {
	tests := []struct {
		name    string
		header  *multipart.FileHeader
		wantErr string
	}{
		{"missing file", nil, "No file uploaded"},
		{"empty file", &multipart.FileHeader{Filename: "empty.csv", Size: 0}, "No file uploaded"},
		{"text file", &multipart.FileHeader{Filename: "document.txt", Size: 10}, "File must be a CSV file"},
		{"no extension", &multipart.FileHeader{Filename: "employees", Size: 10}, "File must be a CSV file"},
		{"csv in the middle", &multipart.FileHeader{Filename: "data.csv.exe", Size: 10}, "File must be a CSV file"},
		{"lower case", &multipart.FileHeader{Filename: "test.csv", Size: 10}, ""},
		{"upper case", &multipart.FileHeader{Filename: "TEST.CSV", Size: 10}, ""},
		{"mixed case", &multipart.FileHeader{Filename: "Test.CsV", Size: 10}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validation.NewValidator().UploadedFile("file", tt.header, ".csv")

			if tt.wantErr == "" {
				assert.False(t, v.HasErrors())
				return
			}
			assert.True(t, v.HasErrors())
			assert.Equal(t, tt.wantErr, v.Errors().First())
			assert.Len(t, v.Errors().Errors["file"], 1)
		})
	}
}

func TestValidator_Chaining(t *testing.T) {
	v := validation.NewValidator().
		Extension("report", "summary.txt", ".csv", "Report must be a CSV file").
		Extension("file", "", ".csv", "File must be a CSV file").
		UploadedFile("attachment", nil, ".csv")

	assert.True(t, v.HasErrors())
	assert.Equal(t, "Report must be a CSV file", v.Errors().First())
	assert.Equal(t, []string{"No file uploaded"}, v.Errors().Errors["attachment"])
	assert.NotContains(t, v.Errors().Errors, "file")
}
