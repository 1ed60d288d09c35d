package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coreapi/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, google_id, email, name, picture, roles, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		nullString(user.GoogleID),
		user.Email,
		user.Name,
		user.Picture,
		stringList(&user.Roles),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to create user")
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	user := &domain.User{}
	var googleID sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&googleID,
		&user.Email,
		&user.Name,
		&user.Picture,
		stringList(&user.Roles),
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.GoogleID = googleID.String
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
        UPDATE users
        SET name = $2, picture = $3, google_id = $4, roles = $5, updated_at = $6
        WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Picture, nullString(user.GoogleID), stringList(&user.Roles), user.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to update user")
		return fmt.Errorf("update user: %w", err)
	}
	return checkRowsAffected(result, "update user")
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{
		String: value,
		Valid:  true,
	}
}

func checkRowsAffected(result sql.Result, operation string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error().Err(err).Msgf("failed to get rows affected for %s", operation)
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
