package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/madsen/datetimex-seinfeld/pkg/config"
	"github.com/madsen/datetimex-seinfeld/pkg/seinfeld"
)

func (a *app) cmdChains(args []string) int {
	flags := flag.NewFlagSet("chains", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	name := flags.Arg(0)
	if name == "" {
		fmt.Fprintln(os.Stderr, "chain: chains: habit name required")
		return 1
	}

	h, err := a.getHabit(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: chains: %v\n", err)
		return 1
	}
	an, res, err := a.scanHabit(h)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: chains: %v\n", err)
		return 1
	}

	now := time.Now().UTC()
	state := habitState(an, res, now)
	run := runLength(res, state)

	if *jsonOut {
		printJSON(map[string]interface{}{
			"habit":          h.Name,
			"start":          h.Start,
			"period":         config.FormatPeriod(h.Period),
			"longest":        res.Longest,
			"latest":         res.Last,
			"total_periods":  res.TotalPeriods,
			"marked_periods": res.MarkedPeriods,
			"state":          state,
			"run":            run,
		})
		return 0
	}

	fmt.Printf("%s: every %s since %s\n", h.Name, config.FormatPeriod(h.Period), h.Start.Format("2006-01-02"))
	if res.Last == nil {
		fmt.Printf("  no check-ins yet; run 'chain mark %s'\n", name)
		return 0
	}
	fmt.Printf("  longest:  %s\n", chainLine(res.Longest))
	if res.Last == res.Longest {
		fmt.Println("  latest:   same chain")
	} else {
		fmt.Printf("  latest:   %s\n", chainLine(res.Last))
	}
	fmt.Printf("  periods:  %d marked / %d elapsed\n", res.MarkedPeriods, res.TotalPeriods)
	if run > 0 {
		fmt.Printf("  run:      %d, last marked %s\n", run, humanize.Time(res.Last.EndEvent))
	} else {
		fmt.Printf("  run:      broken, last marked %s\n", humanize.Time(res.Last.EndEvent))
	}
	return 0
}

// chainLine renders one chain for text output.
func chainLine(c *seinfeld.Chain) string {
	return fmt.Sprintf("%d period(s)  %s -> %s  (%d check-ins)",
		c.Length,
		c.StartEvent.Format("2006-01-02"),
		c.EndEvent.Format("2006-01-02"),
		c.NumEvents)
}
