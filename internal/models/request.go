package models

// Request bodies double as orchestrator inputs; validate tags are checked by
// the services layer, not by gin binding.

type CreateProjectRequest struct {
	Title         string `json:"title" form:"title" validate:"required,max=200"`
	Description   string `json:"description" form:"description"`
	StartDate     string `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02"`
	CoverImageURL string `json:"cover_image_url" form:"cover_image_url" validate:"omitempty,url"`
}

type CreateClassLogRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	ProjectID   string `json:"project_id" validate:"omitempty,uuid"`
}

// CreateMediaRequest links a media row to exactly one of a project or a
// class-log entry. MediaURL may be empty when a payload is uploaded instead.
type CreateMediaRequest struct {
	MediaURL    string `json:"media_url" form:"media_url" validate:"omitempty,url"`
	Title       string `json:"title" form:"title" validate:"max=200"`
	Description string `json:"description" form:"description"`
	Kind        string `json:"kind" form:"kind" validate:"omitempty,oneof=image video"`
	ProjectID   string `json:"project_id" form:"project_id" validate:"omitempty,uuid"`
	ClassLogID  string `json:"class_log_id" form:"class_log_id" validate:"omitempty,uuid"`
}

type CreatePlanDocumentRequest struct {
	Title         string `json:"title" form:"title" validate:"required,max=200"`
	Description   string `json:"description" form:"description"`
	CoverImageURL string `json:"cover_image_url" form:"cover_image_url" validate:"omitempty,url"`
	ProjectID     string `json:"project_id" form:"project_id" validate:"omitempty,uuid"`
}

type CreatePlanFileRequest struct {
	FileURL     string `json:"file_url" form:"file_url" validate:"omitempty,url"`
	FileKind    string `json:"file_kind" form:"file_kind" validate:"max=50"`
	Title       string `json:"title" form:"title" validate:"max=200"`
	Description string `json:"description" form:"description"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Confirm  string `json:"confirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}
