package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/madsen/datetimex-seinfeld/pkg/config"
)

func (a *app) cmdTrack(args []string) int {
	flags := flag.NewFlagSet("track", flag.ContinueOnError)
	startStr := flags.String("start", "", "anchor for period boundaries (default: configured seed, or today)")
	everyStr := flags.String("every", "", "period length, e.g. 1d, 2w, 36h (default: configured)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	name := flags.Arg(0)
	if name == "" {
		fmt.Fprintln(os.Stderr, "chain: track: habit name required")
		return 1
	}

	// Resolution order for both knobs: flag, then config seed, then the
	// built-in default.
	seed := a.cfg.Habits[name]

	start := seed.Start
	if *startStr != "" {
		t, err := config.ParseWhen(*startStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chain: track: %v\n", err)
			return 1
		}
		start = t
	}
	if start.IsZero() {
		start = midnightUTC(time.Now())
	}

	period := seed.Period
	if *everyStr != "" {
		p, err := config.ParsePeriod(*everyStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chain: track: %v\n", err)
			return 1
		}
		period = p
	}
	if period == 0 {
		period = a.cfg.DefaultPeriod
	}

	h, err := a.store.TrackHabit(name, start, period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: track: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(h)
		return 0
	}
	// h is whatever the store holds. If the habit already existed, that
	// is the original grid, not the flags from this invocation.
	fmt.Printf("tracking %q: every %s from %s\n",
		h.Name, config.FormatPeriod(h.Period), h.Start.Format("2006-01-02"))
	return 0
}
