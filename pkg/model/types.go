// Package model defines the stored domain types for chain tracking.
//
// A Habit fixes the period grid for one tracked activity: the anchor
// instant its periods count from and the length of each period. Events
// are the individual check-ins recorded against a habit; their occurrence
// instants are what the chain scanner consumes. Both types mirror rows in
// the store and marshal directly to the CLI's JSON output.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// A Habit is one tracked activity together with the period grid its
// chains are computed on. Start anchors the grid and Period is the
// increment between period boundaries; both feed the scanner unchanged.
type Habit struct {
	Name      string        `json:"name"`
	Start     time.Time     `json:"start"`
	Period    time.Duration `json:"period"`
	CreatedAt time.Time     `json:"created_at"`
}

// Validate reports whether the habit can anchor a chain scan: a
// non-blank name, a set start instant, and a positive period.
func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return errors.New("habit name must not be empty")
	}
	if h.Start.IsZero() {
		return errors.New("habit start must be set")
	}
	if h.Period <= 0 {
		return fmt.Errorf("habit period must be positive, got %v", h.Period)
	}
	return nil
}

// An Event is a single check-in. OccurredAt is the instant the activity
// happened and is what chain scans see; CreatedAt is when the row was
// written. ID is assigned by the store.
type Event struct {
	ID         int64     `json:"id"`
	Habit      string    `json:"habit"`
	OccurredAt time.Time `json:"occurred_at"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
