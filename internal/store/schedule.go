// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kreatifsayfa/pubmed-health-importer/pkg/types"
)

// SaveScheduledSearch inserts the search when its ID is zero, otherwise
// updates the existing row. The ID and timestamps are written back into s.
func (st *Store) SaveScheduledSearch(ctx context.Context, s *types.ScheduledSearch) error {
	now := time.Now().UTC()

	if s.ID == 0 {
		res, err := st.db.ExecContext(ctx,
			`INSERT INTO scheduled_searches
				(name, description, query, result_count, date_range, schedule, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.Name, s.Description, s.Params.Query, s.Params.Count,
			string(s.Params.DateRange), string(s.Schedule),
			now.Format(time.RFC3339), now.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting scheduled search: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading scheduled search id: %w", err)
		}
		s.ID = id
		s.CreatedAt = now
		s.UpdatedAt = now
		return nil
	}

	res, err := st.db.ExecContext(ctx,
		`UPDATE scheduled_searches SET
			name = ?, description = ?, query = ?, result_count = ?,
			date_range = ?, schedule = ?, updated_at = ?
		 WHERE id = ?`,
		s.Name, s.Description, s.Params.Query, s.Params.Count,
		string(s.Params.DateRange), string(s.Schedule),
		now.Format(time.RFC3339), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating scheduled search %d: %w", s.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating scheduled search %d: %w", s.ID, sql.ErrNoRows)
	}
	s.UpdatedAt = now
	return nil
}

// GetScheduledSearch loads one scheduled search by ID.
func (st *Store) GetScheduledSearch(ctx context.Context, id int64) (types.ScheduledSearch, error) {
	row := st.db.QueryRowContext(ctx,
		`SELECT id, name, description, query, result_count, date_range, schedule,
			last_run, created_at, updated_at
		 FROM scheduled_searches WHERE id = ?`, id)

	s, err := scanScheduledSearch(row)
	if err == sql.ErrNoRows {
		return types.ScheduledSearch{}, fmt.Errorf("scheduled search %d: %w", id, err)
	}
	if err != nil {
		return types.ScheduledSearch{}, fmt.Errorf("loading scheduled search %d: %w", id, err)
	}
	return s, nil
}

// ListScheduledSearches returns all saved searches ordered by ID.
func (st *Store) ListScheduledSearches(ctx context.Context) ([]types.ScheduledSearch, error) {
	rows, err := st.db.QueryContext(ctx,
		`SELECT id, name, description, query, result_count, date_range, schedule,
			last_run, created_at, updated_at
		 FROM scheduled_searches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing scheduled searches: %w", err)
	}
	defer rows.Close()

	var searches []types.ScheduledSearch
	for rows.Next() {
		s, err := scanScheduledSearch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scheduled search: %w", err)
		}
		searches = append(searches, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading scheduled searches: %w", err)
	}
	return searches, nil
}

// DeleteScheduledSearch removes one saved search. Deleting an absent ID
// returns sql.ErrNoRows wrapped with context.
func (st *Store) DeleteScheduledSearch(ctx context.Context, id int64) error {
	res, err := st.db.ExecContext(ctx,
		`DELETE FROM scheduled_searches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting scheduled search %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting scheduled search %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// UpdateLastRun stamps the search's last execution time.
func (st *Store) UpdateLastRun(ctx context.Context, id int64, t time.Time) error {
	_, err := st.db.ExecContext(ctx,
		`UPDATE scheduled_searches SET last_run = ? WHERE id = ?`,
		t.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating last run for %d: %w", id, err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduledSearch(row rowScanner) (types.ScheduledSearch, error) {
	var s types.ScheduledSearch
	var dateRange, schedule, createdAt, updatedAt string
	var lastRun sql.NullString

	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Params.Query, &s.Params.Count,
		&dateRange, &schedule, &lastRun, &createdAt, &updatedAt)
	if err != nil {
		return types.ScheduledSearch{}, err
	}

	s.Params.DateRange = types.DateRange(dateRange)
	s.Schedule = types.Recurrence(schedule)
	if lastRun.Valid {
		if t, err := time.Parse(time.RFC3339, lastRun.String); err == nil {
			s.LastRun = &t
		}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		s.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		s.UpdatedAt = t
	}
	return s, nil
}
