package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ProjectListResponse struct {
	Projects []Project `json:"projects"`
}

type ClassLogListResponse struct {
	Entries []ClassLogEntry `json:"entries"`
}

type MediaListResponse struct {
	Media []MediaAsset `json:"media"`
}

type PlanListResponse struct {
	Plans []PlanDocument `json:"plans"`
}

type PlanFileListResponse struct {
	Files []PlanFile `json:"files"`
}

// ProjectCreated is the result of a multi-upload project creation. The
// project is the unit of success; Media lists only the children that were
// persisted before the first failure.
type ProjectCreated struct {
	Project    *Project     `json:"project"`
	Media      []MediaAsset `json:"media"`
	Incomplete bool         `json:"incomplete"`
	FailedFile string       `json:"failed_file,omitempty"`
	Error      string       `json:"error,omitempty"`
}

type LoginResponse struct {
	Identity  Identity  `json:"identity"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
