package database

import (
	"context"

	"github.com/google/uuid"
	"bitacora-backend/internal/models"
)

const mediaColumns = `id, media_url, title, description, kind, project_id, class_log_id, created_at`

func scanMedia(row interface{ Scan(...interface{}) error }, m *models.MediaAsset) error {
	return row.Scan(&m.ID, &m.MediaURL, &m.Title, &m.Description, &m.Kind, &m.ProjectID, &m.ClassLogID, &m.CreatedAt)
}

func (q *queries) CreateMediaAsset(ctx context.Context, in *models.MediaAsset) (*models.MediaAsset, error) {
	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var media models.MediaAsset
	err := scanMedia(q.db.QueryRowContext(ctx, `
		INSERT INTO media_assets (id, media_url, title, description, kind, project_id, class_log_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+mediaColumns,
		id, in.MediaURL, nullString(in.Title), in.Description, string(in.Kind), in.ProjectID, in.ClassLogID,
	), &media)
	if err != nil {
		return nil, classify(err, "media asset", "create")
	}
	return &media, nil
}

func (q *queries) GetMediaAsset(ctx context.Context, id uuid.UUID) (*models.MediaAsset, error) {
	var media models.MediaAsset
	err := scanMedia(q.db.QueryRowContext(ctx, `
		SELECT `+mediaColumns+`
		FROM media_assets
		WHERE id = $1
	`, id), &media)
	if err != nil {
		return nil, classify(err, "media asset", "get")
	}
	return &media, nil
}

func (q *queries) UpdateMediaAssetMetadata(ctx context.Context, id uuid.UUID, patch models.MediaPatch) (*models.MediaAsset, error) {
	var media models.MediaAsset
	err := scanMedia(q.db.QueryRowContext(ctx, `
		UPDATE media_assets
		SET title = COALESCE(NULLIF($2, ''), title),
			description = COALESCE(NULLIF($3, ''), description)
		WHERE id = $1
		RETURNING `+mediaColumns,
		id, patchText(patch.Title), patchText(patch.Description),
	), &media)
	if err != nil {
		return nil, classify(err, "media asset", "update")
	}
	return &media, nil
}

func (q *queries) ListMediaAssets(ctx context.Context, filter models.MediaFilter) ([]models.MediaAsset, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT m.id, m.media_url, m.title, m.description, m.kind, m.project_id, m.class_log_id,
			p.title, c.title, m.created_at
		FROM media_assets m
		LEFT JOIN projects p ON p.id = m.project_id
		LEFT JOIN class_logs c ON c.id = m.class_log_id
		WHERE ($1::uuid IS NULL OR m.project_id = $1::uuid)
			AND ($2::uuid IS NULL OR m.class_log_id = $2::uuid)
		ORDER BY m.created_at ASC
	`, filter.ProjectID, filter.ClassLogID)
	if err != nil {
		return nil, classify(err, "media assets", "list")
	}
	defer rows.Close()

	media := make([]models.MediaAsset, 0)
	for rows.Next() {
		var m models.MediaAsset
		err := rows.Scan(
			&m.ID, &m.MediaURL, &m.Title, &m.Description, &m.Kind, &m.ProjectID, &m.ClassLogID,
			&m.ProjectTitle, &m.ClassLogTitle, &m.CreatedAt,
		)
		if err != nil {
			return nil, classify(err, "media asset", "scan")
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "media assets", "list")
	}
	return media, nil
}
