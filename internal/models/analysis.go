package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

type Analysis struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobDocumentID    uuid.UUID      `gorm:"type:uuid;not null" json:"job_document_id"`
	ResumeDocumentID uuid.UUID      `gorm:"type:uuid;not null" json:"resume_document_id"`
	Prompt           string         `gorm:"type:text" json:"prompt"`
	Model            string         `gorm:"type:text" json:"model"`
	Status           AnalysisStatus `gorm:"not null;default:'processing'" json:"status"`
	Output           *string        `gorm:"type:text" json:"output,omitempty"`
	ErrorMessage     *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	JobDocument    Document `gorm:"foreignKey:JobDocumentID" json:"-"`
	ResumeDocument Document `gorm:"foreignKey:ResumeDocumentID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
