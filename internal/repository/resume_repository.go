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

type resumeRepository struct {
	db *sql.DB
}

func NewResumeRepository(db *sql.DB) domain.ResumeRepository {
	return &resumeRepository{db: db}
}

const resumeColumns = `id, user_id, title, summary, contact, created_at, updated_at`

func scanResume(row rowScanner) (*domain.Resume, error) {
	r := &domain.Resume{}
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Summary, asJSON(&r.Contact), &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (r *resumeRepository) Create(ctx context.Context, resume *domain.Resume) error {
	query := `INSERT INTO resumes (` + resumeColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		resume.ID, resume.UserID, resume.Title, resume.Summary, asJSON(&resume.Contact),
		resume.CreatedAt, resume.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to create resume")
		return fmt.Errorf("create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resume, error) {
	resume, err := scanResume(r.db.QueryRowContext(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get resume: %w", err)
	}
	return resume, nil
}

// List returns the resumes of userID, or every resume when all is set.
func (r *resumeRepository) List(ctx context.Context, userID string, all bool) ([]*domain.Resume, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if all {
		rows, err = r.db.QueryContext(ctx, `SELECT `+resumeColumns+` FROM resumes ORDER BY updated_at DESC`)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query resumes: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Resume, 0)
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		out = append(out, resume)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

func (r *resumeRepository) Update(ctx context.Context, resume *domain.Resume) error {
	query := `UPDATE resumes SET title = $1, summary = $2, contact = $3, updated_at = $4 WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		resume.Title, resume.Summary, asJSON(&resume.Contact), resume.UpdatedAt, resume.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to update resume")
		return fmt.Errorf("update resume: %w", err)
	}
	return checkRowsAffected(result, "update resume")
}

// Delete removes the resume; section rows cascade.
func (r *resumeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete resume")
		return fmt.Errorf("delete resume: %w", err)
	}
	return checkRowsAffected(result, "delete resume")
}
