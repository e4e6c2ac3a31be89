package models

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartDate     Date      `json:"start_date"`
	CoverImageURL *string   `json:"cover_image_url"`
	ClaseCount    int       `json:"clase_count"`
	ImagenCount   int       `json:"imagen_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProjectPatch is a coalesce update: nil or empty fields keep the stored value.
type ProjectPatch struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	StartDate     *Date   `json:"start_date,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
}

type ClassLogEntry struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Date         Date          `json:"date"`
	ProjectID    uuid.NullUUID `json:"project_id"`
	ProjectTitle *string       `json:"project_title,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type ClassLogPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Date        *Date      `json:"date,omitempty"`
	ProjectID   OptionalID `json:"project_id"`
}
