package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/madsen/datetimex-seinfeld/pkg/config"
	"github.com/madsen/datetimex-seinfeld/pkg/model"
	"github.com/madsen/datetimex-seinfeld/pkg/seinfeld"
	"github.com/madsen/datetimex-seinfeld/pkg/store"
)

// app holds the shared state every subcommand needs: resolved config
// and an open store.
type app struct {
	cfg   *config.Config
	store *store.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// Only auto-create the default data dir. A custom CHAIN_DB pointing
	// at a missing directory is the user's to fix.
	if cfg.DB == config.DefaultDBPath() {
		if err := os.MkdirAll(config.DataDir(), 0o755); err != nil {
			return nil, fmt.Errorf("cannot create %s: %w", config.DataDir(), err)
		}
	}
	s, err := store.New(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %s: %w", cfg.DB, err)
	}
	return &app{cfg: cfg, store: s}, nil
}

func (a *app) Close() {
	a.store.Close()
}

// getHabit loads a habit and turns the not-found case into a hint the
// user can act on.
func (a *app) getHabit(name string) (*model.Habit, error) {
	h, err := a.store.GetHabit(name)
	if errors.Is(err, store.ErrNoHabit) {
		return nil, fmt.Errorf("no habit %q (run 'chain track %s' first)", name, name)
	}
	return h, err
}

// analyzerFor builds the chain scanner for a habit: its stored period
// grid plus whatever exclusion rules the config declares for it.
func (a *app) analyzerFor(h *model.Habit) (*seinfeld.Analyzer, error) {
	return seinfeld.New(h.Start, h.Period, a.cfg.RulesFor(h.Name).Skip())
}

// scanHabit runs a full chain scan over a habit's recorded check-ins.
func (a *app) scanHabit(h *model.Habit) (*seinfeld.Analyzer, *seinfeld.Result, error) {
	an, err := a.analyzerFor(h)
	if err != nil {
		return nil, nil, err
	}
	times, err := a.store.EventTimes(h.Name)
	if err != nil {
		return nil, nil, err
	}
	res, err := an.FindChains(times)
	if err != nil {
		return nil, nil, err
	}
	return an, res, nil
}

// midnightUTC truncates t to the start of its UTC day.
func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v) //nolint:errcheck // stdout write
}
