package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"bitacora-backend/internal/models"
)

func (q *queries) CreateUser(ctx context.Context, in *models.User) (*models.User, error) {
	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var user models.User
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, password_hash, role, created_at
	`, id, in.Name, in.PasswordHash, string(in.Role)).Scan(
		&user.ID, &user.Name, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		return nil, classify(err, "user", "create")
	}
	return &user, nil
}

func (q *queries) EnsureUser(ctx context.Context, in *models.User) (bool, error) {
	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var inserted uuid.UUID
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`, id, in.Name, in.PasswordHash, string(in.Role)).Scan(&inserted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, classify(err, "user", "seed")
	}
	return true, nil
}

func (q *queries) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := q.db.QueryRowContext(ctx, `
		SELECT id, name, password_hash, role, created_at
		FROM users
		WHERE name = $1
	`, name).Scan(&user.ID, &user.Name, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, classify(err, "user", "get")
	}
	return &user, nil
}
