// Package postgres provides PostgreSQL implementation of the roster repository.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/domain"
)

const selectEntries = `
	SELECT id, nome, cidade, data_entrada, entrada, data_saida, saida, tipo
	FROM pessoas_sobreaviso
`

// Repository implements the roster.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListAll retrieves all entries ordered by entry date, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]domain.RosterEntry, error) {
	rows, err := r.db.Query(ctx, selectEntries+` ORDER BY data_entrada DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}
	return collectEntries(rows)
}

// ListByMonth retrieves entries whose entry date is in the given month of any year.
func (r *Repository) ListByMonth(ctx context.Context, month time.Month) ([]domain.RosterEntry, error) {
	query := selectEntries + `
		WHERE EXTRACT(MONTH FROM data_entrada) = $1
		ORDER BY data_entrada ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, int(month))
	if err != nil {
		return nil, fmt.Errorf("list roster entries by month: %w", err)
	}
	return collectEntries(rows)
}

// ListByDateRange retrieves entries whose entry date is within [start, end].
func (r *Repository) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.RosterEntry, error) {
	query := selectEntries + `
		WHERE data_entrada >= $1 AND data_entrada <= $2
		ORDER BY data_entrada ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query,
		pgtype.Date{Time: start, Valid: true},
		pgtype.Date{Time: end, Valid: true},
	)
	if err != nil {
		return nil, fmt.Errorf("list roster entries by date range: %w", err)
	}
	return collectEntries(rows)
}

// Create inserts a new entry. Date and time fields are cast by the database;
// empty times are stored as NULL.
func (r *Repository) Create(ctx context.Context, entry *domain.NewRosterEntry) (int64, error) {
	query := `
		INSERT INTO pessoas_sobreaviso (nome, cidade, data_entrada, entrada, data_saida, saida, tipo)
		VALUES ($1, $2, $3::text::date, NULLIF($4::text, '')::time, $5::text::date, NULLIF($6::text, '')::time, $7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		entry.Name,
		entry.City,
		entry.EntryDate,
		entry.EntryTime,
		entry.ExitDate,
		entry.ExitTime,
		entry.Kind,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert roster entry: %w", err)
	}
	return id, nil
}

// Delete removes an entry by ID.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM pessoas_sobreaviso WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete roster entry: %w", err)
	}
	return result.RowsAffected(), nil
}

func collectEntries(rows pgx.Rows) ([]domain.RosterEntry, error) {
	defer rows.Close()

	entries := make([]domain.RosterEntry, 0)
	for rows.Next() {
		var (
			e                   domain.RosterEntry
			entryTime, exitTime pgtype.Time
		)
		err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.City,
			&e.EntryDate,
			&entryTime,
			&e.ExitDate,
			&exitTime,
			&e.Kind,
		)
		if err != nil {
			return nil, fmt.Errorf("scan roster entry: %w", err)
		}
		e.EntryTime = toTimeOfDay(entryTime)
		e.ExitTime = toTimeOfDay(exitTime)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roster entries: %w", err)
	}
	return entries, nil
}

func toTimeOfDay(t pgtype.Time) domain.TimeOfDay {
	if !t.Valid {
		return domain.TimeOfDay{}
	}
	secs := t.Microseconds / 1_000_000
	return domain.TimeOfDay{
		Hour:   int(secs / 3600),
		Minute: int(secs % 3600 / 60),
		Second: int(secs % 60),
		Valid:  true,
	}
}
