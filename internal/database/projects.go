package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"bitacora-backend/internal/models"
)

const projectColumns = `id, title, description, start_date, cover_image_url, clase_count, imagen_count, created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }, p *models.Project) error {
	return row.Scan(
		&p.ID, &p.Title, &p.Description, &p.StartDate, &p.CoverImageURL,
		&p.ClaseCount, &p.ImagenCount, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (q *queries) CreateProject(ctx context.Context, in *models.Project) (*models.Project, error) {
	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var project models.Project
	err := scanProject(q.db.QueryRowContext(ctx, `
		INSERT INTO projects (id, title, description, start_date, cover_image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+projectColumns,
		id, in.Title, in.Description, in.StartDate, nullString(in.CoverImageURL),
	), &project)
	if err != nil {
		return nil, classify(err, "project", "create")
	}

	return &project, nil
}

func (q *queries) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := scanProject(q.db.QueryRowContext(ctx, q.forUpdate(`
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1`), id), &project)
	if err != nil {
		return nil, classify(err, "project", "get")
	}
	return &project, nil
}

func (q *queries) UpdateProject(ctx context.Context, id uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	var startDate sql.NullString
	if patch.StartDate != nil && !patch.StartDate.IsZero() {
		startDate = sql.NullString{String: patch.StartDate.String(), Valid: true}
	}

	var project models.Project
	err := scanProject(q.db.QueryRowContext(ctx, `
		UPDATE projects
		SET title = COALESCE(NULLIF($2, ''), title),
			description = COALESCE(NULLIF($3, ''), description),
			start_date = COALESCE($4::date, start_date),
			cover_image_url = COALESCE(NULLIF($5, ''), cover_image_url),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+projectColumns,
		id, patchText(patch.Title), patchText(patch.Description), startDate, patchText(patch.CoverImageURL),
	), &project)
	if err != nil {
		return nil, classify(err, "project", "update")
	}
	return &project, nil
}

func (q *queries) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY start_date DESC, title ASC
	`)
	if err != nil {
		return nil, classify(err, "projects", "list")
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		var project models.Project
		if err := scanProject(rows, &project); err != nil {
			return nil, classify(err, "project", "scan")
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "projects", "list")
	}

	return projects, nil
}

func (q *queries) CountClassLogEntries(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM class_logs WHERE project_id = $1
	`, projectID).Scan(&count)
	if err != nil {
		return 0, classify(err, "class log entries", "count")
	}
	return count, nil
}

func (q *queries) CountMediaAssets(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM media_assets WHERE project_id = $1
	`, projectID).Scan(&count)
	if err != nil {
		return 0, classify(err, "media assets", "count")
	}
	return count, nil
}

func (q *queries) SetProjectCounts(ctx context.Context, id uuid.UUID, claseCount, imagenCount int) (*models.Project, error) {
	var project models.Project
	err := scanProject(q.db.QueryRowContext(ctx, `
		UPDATE projects
		SET clase_count = $2, imagen_count = $3
		WHERE id = $1
		RETURNING `+projectColumns,
		id, claseCount, imagenCount,
	), &project)
	if err != nil {
		return nil, classify(err, "project", "recount")
	}
	return &project, nil
}
