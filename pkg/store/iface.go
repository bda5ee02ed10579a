// iface.go defines the StoreInterface for dependency injection and testing.
//
// The concrete *Store type satisfies this interface. Code that depends on
// the store (the cmd layer above all) can accept StoreInterface instead
// of *Store, enabling mock injection in tests.
package store

import (
	"time"

	"github.com/madsen/datetimex-seinfeld/pkg/model"
)

// StoreInterface defines the full set of store operations.
// The concrete *Store type implements this interface.
type StoreInterface interface {
	// Close closes the database connection.
	Close() error

	// --- Habits ---

	// TrackHabit registers a habit. Idempotent.
	TrackHabit(name string, start time.Time, period time.Duration) (*model.Habit, error)

	// GetHabit retrieves a habit by name.
	GetHabit(name string) (*model.Habit, error)

	// ListHabits returns all tracked habits ordered by name.
	ListHabits() ([]model.Habit, error)

	// RemoveHabit deletes a habit and all its events.
	RemoveHabit(name string) error

	// --- Events ---

	// InsertEvent records a check-in. Returns the row ID.
	InsertEvent(e *model.Event) (int64, error)

	// InsertEvents records a batch of check-ins in one transaction.
	InsertEvents(events []*model.Event) error

	// ListEvents returns a habit's events, oldest first.
	ListEvents(habit string, since time.Time, limit int) ([]model.Event, error)

	// EventTimes returns a habit's check-in instants in ascending order.
	EventTimes(habit string) ([]time.Time, error)

	// LastEvent returns the most recent check-in, or nil when none exist.
	LastEvent(habit string) (*model.Event, error)

	// CountEvents returns the number of check-ins for a habit.
	CountEvents(habit string) int64
}

// Compile-time check that *Store implements StoreInterface.
var _ StoreInterface = (*Store)(nil)
