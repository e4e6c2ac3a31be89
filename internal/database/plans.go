package database

import (
	"context"

	"github.com/google/uuid"
	"bitacora-backend/internal/models"
)

const planColumns = `id, title, description, cover_image_url, project_id, created_at, updated_at`

func scanPlan(row interface{ Scan(...interface{}) error }, d *models.PlanDocument) error {
	return row.Scan(&d.ID, &d.Title, &d.Description, &d.CoverImageURL, &d.ProjectID, &d.CreatedAt, &d.UpdatedAt)
}

func (q *queries) CreatePlanDocument(ctx context.Context, in *models.PlanDocument) (*models.PlanDocument, error) {
	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var doc models.PlanDocument
	err := scanPlan(q.db.QueryRowContext(ctx, `
		INSERT INTO plan_documents (id, title, description, cover_image_url, project_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+planColumns,
		id, in.Title, in.Description, nullString(in.CoverImageURL), in.ProjectID,
	), &doc)
	if err != nil {
		return nil, classify(err, "plan document", "create")
	}
	return &doc, nil
}

func (q *queries) GetPlanDocument(ctx context.Context, id uuid.UUID) (*models.PlanDocument, error) {
	var doc models.PlanDocument
	err := scanPlan(q.db.QueryRowContext(ctx, `
		SELECT `+planColumns+`
		FROM plan_documents
		WHERE id = $1
	`, id), &doc)
	if err != nil {
		return nil, classify(err, "plan document", "get")
	}
	return &doc, nil
}

func (q *queries) UpdatePlanDocument(ctx context.Context, id uuid.UUID, patch models.PlanDocumentPatch) (*models.PlanDocument, error) {
	var doc models.PlanDocument
	err := scanPlan(q.db.QueryRowContext(ctx, `
		UPDATE plan_documents
		SET title = COALESCE(NULLIF($2, ''), title),
			description = COALESCE(NULLIF($3, ''), description),
			cover_image_url = COALESCE(NULLIF($4, ''), cover_image_url),
			project_id = CASE WHEN $5::boolean THEN $6::uuid ELSE project_id END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+planColumns,
		id, patchText(patch.Title), patchText(patch.Description), patchText(patch.CoverImageURL),
		patch.ProjectID.Set, patch.ProjectID.ID,
	), &doc)
	if err != nil {
		return nil, classify(err, "plan document", "update")
	}
	return &doc, nil
}

func (q *queries) ListPlanDocuments(ctx context.Context) ([]models.PlanDocument, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT d.id, d.title, d.description, d.cover_image_url, d.project_id, p.title, d.created_at, d.updated_at
		FROM plan_documents d
		LEFT JOIN projects p ON p.id = d.project_id
		ORDER BY d.created_at DESC
	`)
	if err != nil {
		return nil, classify(err, "plan documents", "list")
	}
	defer rows.Close()

	docs := make([]models.PlanDocument, 0)
	for rows.Next() {
		var d models.PlanDocument
		err := rows.Scan(&d.ID, &d.Title, &d.Description, &d.CoverImageURL, &d.ProjectID, &d.ProjectTitle, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, classify(err, "plan document", "scan")
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "plan documents", "list")
	}
	return docs, nil
}

const planFileColumns = `id, plan_document_id, file_url, file_kind, title, description, created_at`

func scanPlanFile(row interface{ Scan(...interface{}) error }, f *models.PlanFile) error {
	return row.Scan(&f.ID, &f.PlanDocumentID, &f.FileURL, &f.FileKind, &f.Title, &f.Description, &f.CreatedAt)
}

func (q *queries) CreatePlanFile(ctx context.Context, in *models.PlanFile) (*models.PlanFile, error) {
	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var file models.PlanFile
	err := scanPlanFile(q.db.QueryRowContext(ctx, `
		INSERT INTO plan_files (id, plan_document_id, file_url, file_kind, title, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+planFileColumns,
		id, in.PlanDocumentID, in.FileURL, in.FileKind, nullString(in.Title), nullString(in.Description),
	), &file)
	if err != nil {
		return nil, classify(err, "plan file", "create")
	}
	return &file, nil
}

func (q *queries) UpdatePlanFileMetadata(ctx context.Context, id uuid.UUID, patch models.PlanFilePatch) (*models.PlanFile, error) {
	var file models.PlanFile
	err := scanPlanFile(q.db.QueryRowContext(ctx, `
		UPDATE plan_files
		SET title = COALESCE(NULLIF($2, ''), title),
			description = COALESCE(NULLIF($3, ''), description)
		WHERE id = $1
		RETURNING `+planFileColumns,
		id, patchText(patch.Title), patchText(patch.Description),
	), &file)
	if err != nil {
		return nil, classify(err, "plan file", "update")
	}
	return &file, nil
}

func (q *queries) ListPlanFiles(ctx context.Context, planDocumentID uuid.UUID) ([]models.PlanFile, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+planFileColumns+`
		FROM plan_files
		WHERE plan_document_id = $1
		ORDER BY created_at ASC
	`, planDocumentID)
	if err != nil {
		return nil, classify(err, "plan files", "list")
	}
	defer rows.Close()

	files := make([]models.PlanFile, 0)
	for rows.Next() {
		var f models.PlanFile
		if err := scanPlanFile(rows, &f); err != nil {
			return nil, classify(err, "plan file", "scan")
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "plan files", "list")
	}
	return files, nil
}
