// Package config provides hierarchical configuration loading for chain.
// Precedence: defaults < YAML file < environment variables.
//
// Period and instant parsing also lives here, so that everything read
// from files, flags, and the environment goes through one pair of
// parsers before it reaches the scanner.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/madsen/datetimex-seinfeld/pkg/schedule"
)

// Config holds the resolved runtime configuration.
type Config struct {
	DB            string                 // SQLite database path
	DefaultPeriod time.Duration          // period for habits tracked without --every
	Skip          *schedule.Rules        // global exclusions, may be nil
	Habits        map[string]HabitConfig // per-habit seeds, keyed by name
}

// HabitConfig seeds a habit before it is tracked: the anchor and period
// to use when the track command gets no flags, plus habit-only exclusion
// rules. Zero fields mean "not configured".
type HabitConfig struct {
	Start  time.Time
	Period time.Duration
	Skip   *schedule.Rules
}

// RulesFor returns the exclusion rules in force for habit: the global
// rules merged with the habit's own. The result is never nil; compile it
// with Skip to get the scanner predicate (nil when nothing is excluded).
func (c *Config) RulesFor(habit string) *schedule.Rules {
	hc := c.Habits[habit]
	return schedule.Merge(c.Skip, hc.Skip)
}

// DataDir returns the directory chain keeps its files in: ~/.chain, or
// ./.chain when the home directory cannot be determined.
func DataDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".chain")
	}
	return ".chain"
}

// DefaultDBPath returns the default SQLite database location.
func DefaultDBPath() string { return filepath.Join(DataDir(), "chain.db") }

// DefaultConfigPath returns the default YAML configuration location.
func DefaultConfigPath() string { return filepath.Join(DataDir(), "chain.yaml") }

// Defaults returns the built-in configuration: the database in the data
// directory and daily periods.
func Defaults() Config {
	return Config{
		DB:            DefaultDBPath(),
		DefaultPeriod: 24 * time.Hour,
		Habits:        map[string]HabitConfig{},
	}
}

const day = 24 * time.Hour

// ParsePeriod parses a period length. It accepts everything
// time.ParseDuration does plus whole day and week counts ("1d", "2w").
// The result is always positive.
func ParsePeriod(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("period must not be empty")
	}
	switch s[len(s)-1] {
	case 'd', 'w':
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("bad period %q: want a positive count like 1d or 2w", s)
		}
		d := time.Duration(n) * day
		if s[len(s)-1] == 'w' {
			d *= 7
		}
		return d, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("bad period %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("period %q must be positive", s)
	}
	return d, nil
}

// FormatPeriod renders a period the way ParsePeriod reads it, preferring
// whole week and day units over the raw duration form.
func FormatPeriod(d time.Duration) string {
	if d > 0 && d%(7*day) == 0 {
		return fmt.Sprintf("%dw", d/(7*day))
	}
	if d > 0 && d%day == 0 {
		return fmt.Sprintf("%dd", d/day)
	}
	return d.String()
}

// ParseWhen parses an instant. It accepts a bare date ("2006-01-02",
// taken as midnight UTC) or an RFC 3339 timestamp; either way the result
// is normalized to UTC.
func ParseWhen(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad time %q: want 2006-01-02 or RFC 3339", s)
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(s string) (time.Weekday, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayNames[k]; ok {
		return wd, nil
	}
	for name, wd := range weekdayNames {
		if len(k) == 3 && strings.HasPrefix(name, k) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("bad weekday %q", s)
}
