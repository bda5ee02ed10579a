package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/madsen/datetimex-seinfeld/pkg/config"
	"github.com/madsen/datetimex-seinfeld/pkg/model"
)

func (a *app) cmdMark(args []string) int {
	flags := flag.NewFlagSet("mark", flag.ContinueOnError)
	atStr := flags.String("at", "", "check-in instant (default: now)")
	note := flags.String("note", "", "free-form note stored with the check-in")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	name := flags.Arg(0)
	if name == "" {
		fmt.Fprintln(os.Stderr, "chain: mark: habit name required")
		return 1
	}

	h, err := a.getHabit(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: mark: %v\n", err)
		return 1
	}

	now := time.Now().UTC()
	at := now
	if *atStr != "" {
		t, err := config.ParseWhen(*atStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chain: mark: %v\n", err)
			return 1
		}
		at = t
	}
	// Check-ins before the anchor have no period to land in.
	if at.Before(h.Start) {
		fmt.Fprintf(os.Stderr, "chain: mark: %s predates the start of %q (%s)\n",
			at.Format("2006-01-02"), name, h.Start.Format("2006-01-02"))
		return 1
	}

	id, err := a.store.InsertEvent(&model.Event{
		Habit:      name,
		OccurredAt: at,
		Note:       *note,
		CreatedAt:  now,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: mark: %v\n", err)
		return 1
	}

	// Immediate feedback on the run is best-effort; the check-in is
	// already saved.
	run := 0
	if an, res, err := a.scanHabit(h); err == nil {
		run = runLength(res, habitState(an, res, now))
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"id":          id,
			"habit":       name,
			"occurred_at": at,
			"note":        *note,
			"run":         run,
		})
		return 0
	}
	fmt.Printf("marked %q at %s (run: %d)\n", name, at.Format("2006-01-02 15:04"), run)
	return 0
}
