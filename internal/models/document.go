package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const PDFMediaType = "application/pdf"

type DocumentType string

const (
	DocumentTypeJob    DocumentType = "job"
	DocumentTypeResume DocumentType = "resume"
)

type Document struct {
	ID               uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string       `gorm:"type:text" json:"filename"`
	OriginalFileName string       `gorm:"type:text" json:"original_filename"`
	FileType         DocumentType `gorm:"type:text" json:"file_type"`
	MediaType        string       `gorm:"type:text" json:"media_type"`
	Size             int64        `json:"size"`
	FilePath         string       `gorm:"type:text" json:"file_path"`
	CreatedAt        time.Time    `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}

// IsPDF reports whether a file is acceptable as a PDF. Either a declared
// application/pdf media type or a ".pdf" name suffix (any case) is enough;
// the content itself is never inspected.
func IsPDF(name, mediaType string) bool {
	if mediaType == PDFMediaType {
		return true
	}
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
