package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	return k == MediaKindImage || k == MediaKindVideo
}

// MediaKindFromContentType returns video for video/* types and image otherwise.
func MediaKindFromContentType(contentType string) MediaKind {
	if strings.HasPrefix(strings.ToLower(contentType), "video/") {
		return MediaKindVideo
	}
	return MediaKindImage
}

type MediaAsset struct {
	ID            uuid.UUID     `json:"id"`
	MediaURL      string        `json:"media_url"`
	Title         *string       `json:"title"`
	Description   string        `json:"description"`
	Kind          MediaKind     `json:"kind"`
	ProjectID     uuid.NullUUID `json:"project_id"`
	ClassLogID    uuid.NullUUID `json:"class_log_id"`
	ProjectTitle  *string       `json:"project_title,omitempty"`
	ClassLogTitle *string       `json:"class_log_title,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

type MediaPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// MediaFilter narrows ListMediaAssets. Zero value lists everything.
type MediaFilter struct {
	ProjectID  uuid.NullUUID
	ClassLogID uuid.NullUUID
}

func (f MediaFilter) Matches(m MediaAsset) bool {
	if f.ProjectID.Valid && m.ProjectID != f.ProjectID {
		return false
	}
	if f.ClassLogID.Valid && m.ClassLogID != f.ClassLogID {
		return false
	}
	return true
}
