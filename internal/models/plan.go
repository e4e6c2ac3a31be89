package models

import (
	"time"

	"github.com/google/uuid"
)

type PlanDocument struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	CoverImageURL *string       `json:"cover_image_url"`
	ProjectID     uuid.NullUUID `json:"project_id"`
	ProjectTitle  *string       `json:"project_title,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type PlanDocumentPatch struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	ProjectID     OptionalID `json:"project_id"`
}

type PlanFile struct {
	ID             uuid.UUID `json:"id"`
	PlanDocumentID uuid.UUID `json:"plan_document_id"`
	FileURL        string    `json:"file_url"`
	FileKind       string    `json:"file_kind"`
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

type PlanFilePatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}
