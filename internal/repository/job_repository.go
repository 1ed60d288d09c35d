package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coreapi/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type postgresJobRepository struct {
	db *sql.DB
}

func NewJobApplicationRepository(db *sql.DB) domain.JobApplicationRepository {
	return &postgresJobRepository{db: db}
}

const jobColumns = `id, user_id, company, role, status, applied_date, city, notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*domain.JobApplication, error) {
	job := &domain.JobApplication{}
	err := row.Scan(
		&job.ID, &job.UserID, &job.Company, &job.Role, &job.Status,
		&job.AppliedDate, &job.City, &job.Notes, &job.CreatedAt, &job.UpdatedAt,
	)
	return job, err
}

func (j *postgresJobRepository) Create(ctx context.Context, job *domain.JobApplication) error {
	query := `INSERT INTO job_applications (` + jobColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := j.db.ExecContext(ctx, query,
		job.ID, job.UserID, job.Company, job.Role, job.Status,
		job.AppliedDate, job.City, job.Notes, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to create job application")
		return fmt.Errorf("create job application: %w", err)
	}
	return nil
}

func (j *postgresJobRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.JobApplication, error) {
	query := `SELECT ` + jobColumns + ` FROM job_applications WHERE id = $1 AND user_id = $2`

	job, err := scanJob(j.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job application: %w", err)
	}
	return job, nil
}

func (j *postgresJobRepository) ListByUser(ctx context.Context, userID string) ([]*domain.JobApplication, error) {
	query := `SELECT ` + jobColumns + `
        FROM job_applications
        WHERE user_id = $1
        ORDER BY applied_date DESC`

	rows, err := j.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query job applications: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.JobApplication, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job application: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return jobs, nil
}

func (j *postgresJobRepository) Update(ctx context.Context, job *domain.JobApplication) error {
	query := `UPDATE job_applications
	SET company = $1, role = $2, status = $3, applied_date = $4, city = $5, notes = $6, updated_at = $7
	WHERE id = $8 AND user_id = $9`

	result, err := j.db.ExecContext(ctx, query,
		job.Company, job.Role, job.Status, job.AppliedDate, job.City, job.Notes, job.UpdatedAt,
		job.ID, job.UserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to update job application")
		return fmt.Errorf("update job application: %w", err)
	}
	return checkRowsAffected(result, "update job application")
}

func (j *postgresJobRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM job_applications WHERE id = $1 AND user_id = $2`

	result, err := j.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete job application")
		return fmt.Errorf("delete job application: %w", err)
	}
	return checkRowsAffected(result, "delete job application")
}

// Touch bumps updated_at after a milestone of the job changed.
func (j *postgresJobRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := j.db.ExecContext(ctx, `UPDATE job_applications SET updated_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to touch job application")
		return fmt.Errorf("touch job application: %w", err)
	}
	return checkRowsAffected(result, "touch job application")
}
