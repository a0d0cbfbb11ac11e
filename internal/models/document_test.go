package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		mediaType string
		want      bool
	}{
		{"pdf extension and media type", "resume.pdf", "application/pdf", true},
		{"extension only", "resume.pdf", "application/octet-stream", true},
		{"upper case extension", "RESUME.PDF", "", true},
		{"mixed case extension", "Job.Pdf", "", true},
		{"media type only", "resume", "application/pdf", true},
		{"neither", "resume.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", false},
		{"pdf inside name", "resume.pdf.txt", "text/plain", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPDF(tt.file, tt.mediaType))
		})
	}
}
