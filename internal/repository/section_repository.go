package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"coreapi/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// sectionTable describes how one section type maps onto its table. Columns
// exclude the shared id, resume_id, created_at and updated_at.
type sectionTable[T any, P domain.SectionPtr[T]] struct {
	name    string
	columns []string
	orderBy string
	// fields returns pointers to the type's own fields in column order;
	// they serve both as insert arguments and scan targets.
	fields func(P) []interface{}
}

type sectionRepository[T any, P domain.SectionPtr[T]] struct {
	db    *sql.DB
	table sectionTable[T, P]

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
}

func newSectionRepository[T any, P domain.SectionPtr[T]](db *sql.DB, table sectionTable[T, P]) *sectionRepository[T, P] {
	r := &sectionRepository[T, P]{db: db, table: table}

	all := append([]string{"id", "resume_id", "created_at", "updated_at"}, table.columns...)
	r.selectSQL = fmt.Sprintf("SELECT %s FROM %s", strings.Join(all, ", "), table.name)
	r.insertSQL = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table.name, strings.Join(all, ", "), placeholders(1, len(all)))

	sets := []string{"updated_at = $1"}
	for i, col := range table.columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+2))
	}
	n := len(table.columns) + 2
	r.updateSQL = fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND resume_id = $%d",
		table.name, strings.Join(sets, ", "), n, n+1)
	r.deleteSQL = fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND resume_id = $2", table.name)
	return r
}

func placeholders(from, count int) string {
	ph := make([]string, count)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ph, ", ")
}

func (r *sectionRepository[T, P]) scan(row rowScanner) (P, error) {
	section := P(new(T))
	base := section.Base()
	dest := append([]interface{}{&base.ID, &base.ResumeID, &base.CreatedAt, &base.UpdatedAt}, r.table.fields(section)...)
	return section, row.Scan(dest...)
}

func (r *sectionRepository[T, P]) List(ctx context.Context, resumeID uuid.UUID) ([]P, error) {
	query := r.selectSQL + " WHERE resume_id = $1 ORDER BY " + r.table.orderBy
	rows, err := r.db.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table.name, err)
	}
	defer rows.Close()

	out := make([]P, 0)
	for rows.Next() {
		section, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.table.name, err)
		}
		out = append(out, section)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

func (r *sectionRepository[T, P]) Get(ctx context.Context, resumeID, id uuid.UUID) (P, error) {
	query := r.selectSQL + " WHERE id = $1 AND resume_id = $2"
	section, err := r.scan(r.db.QueryRowContext(ctx, query, id, resumeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.table.name, err)
	}
	return section, nil
}

func (r *sectionRepository[T, P]) Create(ctx context.Context, section P) error {
	base := section.Base()
	args := append([]interface{}{base.ID, base.ResumeID, base.CreatedAt, base.UpdatedAt}, r.table.fields(section)...)
	if _, err := r.db.ExecContext(ctx, r.insertSQL, args...); err != nil {
		log.Error().Err(err).Str("table", r.table.name).Msg("failed to create resume section")
		return fmt.Errorf("create %s: %w", r.table.name, err)
	}
	return nil
}

func (r *sectionRepository[T, P]) Update(ctx context.Context, section P) error {
	base := section.Base()
	args := append([]interface{}{base.UpdatedAt}, r.table.fields(section)...)
	args = append(args, base.ID, base.ResumeID)

	result, err := r.db.ExecContext(ctx, r.updateSQL, args...)
	if err != nil {
		log.Error().Err(err).Str("table", r.table.name).Msg("failed to update resume section")
		return fmt.Errorf("update %s: %w", r.table.name, err)
	}
	return checkRowsAffected(result, "update "+r.table.name)
}

func (r *sectionRepository[T, P]) Delete(ctx context.Context, resumeID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, r.deleteSQL, id, resumeID)
	if err != nil {
		log.Error().Err(err).Str("table", r.table.name).Msg("failed to delete resume section")
		return fmt.Errorf("delete %s: %w", r.table.name, err)
	}
	return checkRowsAffected(result, "delete "+r.table.name)
}
