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

type milestoneRepository struct {
	db *sql.DB
}

func NewMilestoneRepository(db *sql.DB) domain.MilestoneRepository {
	return &milestoneRepository{db: db}
}

const milestoneColumns = `m.id, m.job_application_id, m.type, m.title, m.description, m.date, m.status,
	m.notes, m.attachments, m.reminder_date, m.is_completed, m.completed_date, m.color, m.icon,
	m.created_at, m.updated_at`

func scanMilestone(row rowScanner) (*domain.TimelineMilestone, error) {
	m := &domain.TimelineMilestone{}
	err := row.Scan(
		&m.ID, &m.JobApplicationID, &m.Type, &m.Title, &m.Description, &m.Date, &m.Status,
		&m.Notes, &m.Attachments, &m.ReminderDate, &m.IsCompleted, &m.CompletedDate, &m.Color, &m.Icon,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *milestoneRepository) Create(ctx context.Context, m *domain.TimelineMilestone) error {
	query := `INSERT INTO timeline_milestones (
		id, job_application_id, type, title, description, date, status, notes, attachments,
		reminder_date, is_completed, completed_date, color, icon, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.JobApplicationID, m.Type, m.Title, m.Description, m.Date, m.Status, m.Notes, m.Attachments,
		m.ReminderDate, m.IsCompleted, m.CompletedDate, m.Color, m.Icon, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to create timeline milestone")
		return fmt.Errorf("create milestone: %w", err)
	}
	return nil
}

// GetForUser resolves a milestone through its parent job so that other
// users' milestones read as missing.
func (r *milestoneRepository) GetForUser(ctx context.Context, userID string, id uuid.UUID) (*domain.TimelineMilestone, error) {
	query := `SELECT ` + milestoneColumns + `
	FROM timeline_milestones m
	JOIN job_applications j ON j.id = m.job_application_id
	WHERE m.id = $1 AND j.user_id = $2`

	m, err := scanMilestone(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get milestone: %w", err)
	}
	return m, nil
}

func (r *milestoneRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*domain.TimelineMilestone, error) {
	query := `SELECT ` + milestoneColumns + `
	FROM timeline_milestones m
	WHERE m.job_application_id = $1
	ORDER BY m.date ASC`
	return r.list(ctx, query, jobID)
}

func (r *milestoneRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TimelineMilestone, error) {
	query := `SELECT ` + milestoneColumns + `
	FROM timeline_milestones m
	JOIN job_applications j ON j.id = m.job_application_id
	WHERE j.user_id = $1
	ORDER BY m.date ASC`
	return r.list(ctx, query, userID)
}

func (r *milestoneRepository) list(ctx context.Context, query string, arg interface{}) ([]*domain.TimelineMilestone, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.TimelineMilestone, 0)
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		out = append(out, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

func (r *milestoneRepository) Update(ctx context.Context, m *domain.TimelineMilestone) error {
	query := `UPDATE timeline_milestones
	SET type = $1, title = $2, description = $3, date = $4, status = $5, notes = $6, attachments = $7,
		reminder_date = $8, is_completed = $9, completed_date = $10, color = $11, icon = $12, updated_at = $13
	WHERE id = $14`

	result, err := r.db.ExecContext(ctx, query,
		m.Type, m.Title, m.Description, m.Date, m.Status, m.Notes, m.Attachments,
		m.ReminderDate, m.IsCompleted, m.CompletedDate, m.Color, m.Icon, m.UpdatedAt, m.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to update timeline milestone")
		return fmt.Errorf("update milestone: %w", err)
	}
	return checkRowsAffected(result, "update milestone")
}

func (r *milestoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM timeline_milestones WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete timeline milestone")
		return fmt.Errorf("delete milestone: %w", err)
	}
	return checkRowsAffected(result, "delete milestone")
}
