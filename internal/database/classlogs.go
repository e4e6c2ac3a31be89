package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"bitacora-backend/internal/models"
)

const classLogColumns = `id, title, description, date, project_id, created_at, updated_at`

func scanClassLog(row interface{ Scan(...interface{}) error }, e *models.ClassLogEntry) error {
	return row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.ProjectID, &e.CreatedAt, &e.UpdatedAt)
}

func (q *queries) CreateClassLogEntry(ctx context.Context, in *models.ClassLogEntry) (*models.ClassLogEntry, error) {
	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var entry models.ClassLogEntry
	err := scanClassLog(q.db.QueryRowContext(ctx, `
		INSERT INTO class_logs (id, title, description, date, project_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+classLogColumns,
		id, in.Title, in.Description, in.Date, in.ProjectID,
	), &entry)
	if err != nil {
		return nil, classify(err, "class log entry", "create")
	}
	return &entry, nil
}

func (q *queries) GetClassLogEntry(ctx context.Context, id uuid.UUID) (*models.ClassLogEntry, error) {
	var entry models.ClassLogEntry
	err := scanClassLog(q.db.QueryRowContext(ctx, q.forUpdate(`
		SELECT `+classLogColumns+`
		FROM class_logs
		WHERE id = $1`), id), &entry)
	if err != nil {
		return nil, classify(err, "class log entry", "get")
	}
	return &entry, nil
}

func (q *queries) UpdateClassLogEntry(ctx context.Context, id uuid.UUID, patch models.ClassLogPatch) (*models.ClassLogEntry, error) {
	var date sql.NullString
	if patch.Date != nil && !patch.Date.IsZero() {
		date = sql.NullString{String: patch.Date.String(), Valid: true}
	}

	var entry models.ClassLogEntry
	err := scanClassLog(q.db.QueryRowContext(ctx, `
		UPDATE class_logs
		SET title = COALESCE(NULLIF($2, ''), title),
			description = COALESCE(NULLIF($3, ''), description),
			date = COALESCE($4::date, date),
			project_id = CASE WHEN $5::boolean THEN $6::uuid ELSE project_id END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+classLogColumns,
		id, patchText(patch.Title), patchText(patch.Description), date, patch.ProjectID.Set, patch.ProjectID.ID,
	), &entry)
	if err != nil {
		return nil, classify(err, "class log entry", "update")
	}
	return &entry, nil
}

func (q *queries) ListClassLogEntries(ctx context.Context) ([]models.ClassLogEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, c.title, c.description, c.date, c.project_id, p.title, c.created_at, c.updated_at
		FROM class_logs c
		LEFT JOIN projects p ON p.id = c.project_id
		ORDER BY c.date DESC, c.created_at DESC
	`)
	if err != nil {
		return nil, classify(err, "class log entries", "list")
	}
	defer rows.Close()

	entries := make([]models.ClassLogEntry, 0)
	for rows.Next() {
		var e models.ClassLogEntry
		err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.ProjectID, &e.ProjectTitle, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, classify(err, "class log entry", "scan")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "class log entries", "list")
	}
	return entries, nil
}
