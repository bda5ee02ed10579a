package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/madsen/datetimex-seinfeld/pkg/config"
)

// cmdPeriod prints the start of the period a given instant is counted
// in, on the habit's grid. With exclusions the reported start can fall
// after the instant itself: check-ins in an excluded period count
// toward the next eligible one.
func (a *app) cmdPeriod(args []string) int {
	flags := flag.NewFlagSet("period", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	name := flags.Arg(0)
	if name == "" {
		fmt.Fprintln(os.Stderr, "chain: period: habit name required")
		return 1
	}

	h, err := a.getHabit(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: period: %v\n", err)
		return 1
	}
	an, err := a.analyzerFor(h)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: period: %v\n", err)
		return 1
	}

	when := time.Now().UTC()
	if arg := flags.Arg(1); arg != "" {
		t, err := config.ParseWhen(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chain: period: %v\n", err)
			return 1
		}
		when = t
	}
	if when.Before(h.Start) {
		fmt.Fprintf(os.Stderr, "chain: period: %s predates the start of %q (%s)\n",
			when.Format("2006-01-02"), name, h.Start.Format("2006-01-02"))
		return 1
	}

	start := an.PeriodContaining(when)

	if *jsonOut {
		printJSON(map[string]interface{}{
			"habit":        name,
			"when":         when,
			"period_start": start,
			"period_end":   start.Add(h.Period),
		})
		return 0
	}
	fmt.Println(start.Format(time.RFC3339))
	return 0
}
