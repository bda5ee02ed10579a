// Package store manages all SQLite persistence for chain.
//
// Everything lives in one database file under the data directory. WAL
// mode plus a generous busy timeout lets a shell alias record a check-in
// while a cron job runs a status query against the same file without
// either one failing.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/madsen/datetimex-seinfeld/pkg/model"

	_ "modernc.org/sqlite"
)

// timeKey is the fixed-width UTC layout check-in instants are stored in.
// Unlike RFC3339Nano it never trims fractional zeros, so lexicographic
// order on the column is chronological order and ORDER BY occurred_at
// yields the sorted sequence chain scans require.
const timeKey = "2006-01-02T15:04:05.000000000Z"

// ErrNoHabit is returned when an operation names a habit that was never
// tracked.
var ErrNoHabit = errors.New("no such habit")

// Store manages all SQLite operations with WAL mode for concurrent access.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// retryOnContention wraps withBackoff from retry.go with the default
// policy. All store write operations use this to ride out transient
// SQLite errors (BUSY, LOCKED, short WAL reads) under concurrent access.
func retryOnContention(fn func() error) error {
	return withBackoff(writeBackoff, fn)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS habits (
		name       TEXT PRIMARY KEY,
		start      TEXT NOT NULL,
		period     TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		habit       TEXT NOT NULL REFERENCES habits(name),
		occurred_at TEXT NOT NULL,
		note        TEXT,
		created_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_habit_time ON events(habit, occurred_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ---------------------------------------------------------------------------
// Habits
// ---------------------------------------------------------------------------

// TrackHabit registers a habit. Idempotent via ON CONFLICT: tracking an
// existing name leaves the stored anchor and period untouched and
// returns them as-is.
func (s *Store) TrackHabit(name string, start time.Time, period time.Duration) (*model.Habit, error) {
	h := model.Habit{Name: name, Start: start, Period: period}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := retryOnContention(func() error {
		_, err := s.db.Exec(
			`INSERT INTO habits (name, start, period, created_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(name) DO NOTHING`,
			name, start.UTC().Format(timeKey), period.String(), now,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetHabit(name)
}

// GetHabit retrieves a habit by name. Returns an error wrapping
// ErrNoHabit when the name was never tracked.
func (s *Store) GetHabit(name string) (*model.Habit, error) {
	row := s.db.QueryRow(
		`SELECT name, start, period, created_at FROM habits WHERE name = ?`, name,
	)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("habit %q: %w", name, ErrNoHabit)
	}
	return h, err
}

// ListHabits returns all tracked habits ordered by name.
func (s *Store) ListHabits() ([]model.Habit, error) {
	rows, err := s.db.Query(
		`SELECT name, start, period, created_at FROM habits ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		var h model.Habit
		var startStr, periodStr, createdStr string
		if err := rows.Scan(&h.Name, &startStr, &periodStr, &createdStr); err != nil {
			return nil, err
		}
		if err := fillHabit(&h, startStr, periodStr, createdStr); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// RemoveHabit deletes a habit and every event recorded against it. The
// two deletes run in one transaction so a failure cannot orphan events.
func (s *Store) RemoveHabit(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(`DELETE FROM events WHERE habit = ?`, name); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM habits WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("habit %q: %w", name, ErrNoHabit)
	}
	return tx.Commit()
}

func scanHabit(row *sql.Row) (*model.Habit, error) {
	var h model.Habit
	var startStr, periodStr, createdStr string
	if err := row.Scan(&h.Name, &startStr, &periodStr, &createdStr); err != nil {
		return nil, err
	}
	if err := fillHabit(&h, startStr, periodStr, createdStr); err != nil {
		return nil, err
	}
	return &h, nil
}

func fillHabit(h *model.Habit, startStr, periodStr, createdStr string) error {
	var err error
	h.Start, err = time.Parse(time.RFC3339Nano, startStr)
	if err != nil {
		return fmt.Errorf("parse start for habit %s: %w", h.Name, err)
	}
	h.Period, err = time.ParseDuration(periodStr)
	if err != nil {
		return fmt.Errorf("parse period for habit %s: %w", h.Name, err)
	}
	h.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return fmt.Errorf("parse created_at for habit %s: %w", h.Name, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

// InsertEvent records a check-in. Returns the auto-generated row ID.
// A zero CreatedAt is filled with the current time.
func (s *Store) InsertEvent(e *model.Event) (int64, error) {
	if e.Habit == "" {
		return 0, errors.New("event habit must be set")
	}
	if e.OccurredAt.IsZero() {
		return 0, errors.New("event occurred_at must be set")
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	var lastID int64
	err := retryOnContention(func() error {
		res, err := s.db.Exec(
			`INSERT INTO events (habit, occurred_at, note, created_at)
			 VALUES (?, ?, ?, ?)`,
			e.Habit, e.OccurredAt.UTC().Format(timeKey), e.Note,
			created.Format(time.RFC3339Nano),
		)
		if err != nil {
			return err
		}
		lastID, err = res.LastInsertId()
		return err
	})
	return lastID, err
}

// InsertEvents records a batch of check-ins in one transaction: either
// every event lands or none do, so a failed bulk load never leaves a
// partial history behind. Row IDs are assigned to the events in place;
// zero CreatedAt fields are filled with one shared current time.
func (s *Store) InsertEvents(events []*model.Event) error {
	now := time.Now().UTC()
	for _, e := range events {
		if e.Habit == "" {
			return errors.New("event habit must be set")
		}
		if e.OccurredAt.IsZero() {
			return errors.New("event occurred_at must be set")
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, e := range events {
		res, err := tx.Exec(
			`INSERT INTO events (habit, occurred_at, note, created_at)
			 VALUES (?, ?, ?, ?)`,
			e.Habit, e.OccurredAt.UTC().Format(timeKey), e.Note,
			e.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert event at %s: %w", e.OccurredAt.UTC().Format(timeKey), err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		e.ID = id
	}
	return tx.Commit()
}

// ListEvents returns events for a habit ordered by occurrence, oldest
// first. A non-zero since drops events before it; limit <= 0 means 100.
func (s *Store) ListEvents(habit string, since time.Time, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT id, habit, occurred_at, COALESCE(note,''), created_at
	      FROM events WHERE habit = ?`
	args := []interface{}{habit}
	if !since.IsZero() {
		q += ` AND occurred_at >= ?`
		args = append(args, since.UTC().Format(timeKey))
	}
	q += ` ORDER BY occurred_at ASC, id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// EventTimes returns every check-in instant for a habit in ascending
// order — the sequence chain scans consume.
func (s *Store) EventTimes(habit string) ([]time.Time, error) {
	rows, err := s.db.Query(
		`SELECT occurred_at FROM events WHERE habit = ?
		 ORDER BY occurred_at ASC, id ASC`, habit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var ts string
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", ts, err)
		}
		times = append(times, parsed)
	}
	return times, rows.Err()
}

// LastEvent returns the most recent check-in for a habit, or (nil, nil)
// when none have been recorded.
func (s *Store) LastEvent(habit string) (*model.Event, error) {
	row := s.db.QueryRow(
		`SELECT id, habit, occurred_at, COALESCE(note,''), created_at
		 FROM events WHERE habit = ?
		 ORDER BY occurred_at DESC, id DESC LIMIT 1`, habit,
	)
	var e model.Event
	var occStr, createdStr string
	err := row.Scan(&e.ID, &e.Habit, &occStr, &e.Note, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := fillEvent(&e, occStr, createdStr); err != nil {
		return nil, err
	}
	return &e, nil
}

// CountEvents returns the number of check-ins recorded for a habit.
func (s *Store) CountEvents(habit string) int64 {
	var count int64
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM events WHERE habit = ?`, habit,
	).Scan(&count); err != nil {
		return 0
	}
	return count
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		var e model.Event
		var occStr, createdStr string
		if err := rows.Scan(&e.ID, &e.Habit, &occStr, &e.Note, &createdStr); err != nil {
			return nil, err
		}
		if err := fillEvent(&e, occStr, createdStr); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func fillEvent(e *model.Event, occStr, createdStr string) error {
	var err error
	e.OccurredAt, err = time.Parse(time.RFC3339Nano, occStr)
	if err != nil {
		return fmt.Errorf("parse occurred_at for event %d: %w", e.ID, err)
	}
	e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return fmt.Errorf("parse created_at for event %d: %w", e.ID, err)
	}
	return nil
}
