package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Migration is one idempotent schema step.
type Migration struct {
	Name string
	Up   func(ctx context.Context, db *sql.DB) error
}

func execMigration(query string) func(ctx context.Context, db *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, query)
		return err
	}
}

// Migrations lists every schema step in apply order.
func Migrations() []Migration {
	return []Migration{
		{Name: "create_users", Up: execMigration(`
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	google_id TEXT UNIQUE,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL DEFAULT '',
	picture TEXT NOT NULL DEFAULT '',
	roles JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);`)},
		{Name: "create_job_applications", Up: execMigration(`
CREATE TABLE IF NOT EXISTS job_applications (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	company VARCHAR(200) NOT NULL,
	role VARCHAR(200) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'Applied',
	applied_date TIMESTAMPTZ NOT NULL,
	city VARCHAR(100) NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NULL
);
CREATE INDEX IF NOT EXISTS idx_job_applications_user ON job_applications (user_id);`)},
		{Name: "create_timeline_milestones", Up: execMigration(`
CREATE TABLE IF NOT EXISTS timeline_milestones (
	id UUID PRIMARY KEY,
	job_application_id UUID NOT NULL REFERENCES job_applications(id) ON DELETE CASCADE,
	type VARCHAR(50) NOT NULL,
	title VARCHAR(200) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	date TIMESTAMPTZ NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	notes TEXT NOT NULL DEFAULT '',
	attachments TEXT NOT NULL DEFAULT '',
	reminder_date TIMESTAMPTZ NULL,
	is_completed BOOLEAN NOT NULL DEFAULT FALSE,
	completed_date TIMESTAMPTZ NULL,
	color VARCHAR(20) NOT NULL DEFAULT '',
	icon VARCHAR(20) NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NULL
);
CREATE INDEX IF NOT EXISTS idx_timeline_milestones_job ON timeline_milestones (job_application_id);`)},
		{Name: "create_resumes", Up: execMigration(`
CREATE TABLE IF NOT EXISTS resumes (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	title VARCHAR(250) NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	contact JSONB NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes (user_id);`)},
		{Name: "create_resume_sections", Up: execMigration(resumeSectionsDDL)},
	}
}

const sectionColumns = `
	id UUID PRIMARY KEY,
	resume_id UUID NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,`

var resumeSectionsDDL = `
CREATE TABLE IF NOT EXISTS work_experiences (` + sectionColumns + `
	job_title VARCHAR(100) NOT NULL,
	company_name VARCHAR(100) NOT NULL,
	location VARCHAR(100) NOT NULL DEFAULT '',
	start_date TIMESTAMPTZ NOT NULL,
	end_date TIMESTAMPTZ NULL,
	is_current BOOLEAN NOT NULL DEFAULT FALSE,
	description TEXT NOT NULL DEFAULT '',
	achievements JSONB NOT NULL DEFAULT '[]'::jsonb,
	sort_order INT NOT NULL DEFAULT 0,
	highlighted BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS skills (` + sectionColumns + `
	name VARCHAR(100) NOT NULL,
	category VARCHAR(20) NOT NULL DEFAULT 'other',
	level INT NOT NULL DEFAULT 0,
	rating INT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS educations (` + sectionColumns + `
	institution VARCHAR(200) NOT NULL,
	degree VARCHAR(100) NOT NULL,
	field_of_study VARCHAR(100) NOT NULL DEFAULT '',
	start_date TIMESTAMPTZ NOT NULL,
	end_date TIMESTAMPTZ NULL,
	description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS certificates (` + sectionColumns + `
	name VARCHAR(200) NOT NULL,
	issuer VARCHAR(200) NOT NULL,
	issue_date TIMESTAMPTZ NOT NULL,
	expiry_date TIMESTAMPTZ NULL,
	credential_id VARCHAR(100) NOT NULL DEFAULT '',
	credential_url VARCHAR(500) NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS projects (` + sectionColumns + `
	name VARCHAR(200) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	link VARCHAR(500) NOT NULL DEFAULT '',
	technologies JSONB NOT NULL DEFAULT '[]'::jsonb
);
CREATE TABLE IF NOT EXISTS social_links (` + sectionColumns + `
	platform VARCHAR(50) NOT NULL,
	url VARCHAR(500) NOT NULL
);
CREATE TABLE IF NOT EXISTS languages (` + sectionColumns + `
	name VARCHAR(50) NOT NULL,
	level INT NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS awards (` + sectionColumns + `
	title VARCHAR(200) NOT NULL,
	issuer VARCHAR(200) NOT NULL,
	awarded_date TIMESTAMPTZ NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS resume_references (` + sectionColumns + `
	name VARCHAR(100) NOT NULL,
	relationship VARCHAR(100) NOT NULL,
	contact_info VARCHAR(200) NOT NULL
);`

// RunMigrations applies every migration in order and stops at the first
// failure.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	log.Info().Msg("Starting database migrations")

	for _, m := range Migrations() {
		if err := m.Up(ctx, db); err != nil {
			log.Error().Err(err).Str("name", m.Name).Msg("Migration failed")
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		log.Debug().Str("name", m.Name).Msg("Migration completed")
	}

	log.Info().Msg("All migrations completed successfully")
	return nil
}
