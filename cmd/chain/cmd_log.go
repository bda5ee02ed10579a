package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/madsen/datetimex-seinfeld/pkg/config"
)

func (a *app) cmdLog(args []string) int {
	flags := flag.NewFlagSet("log", flag.ContinueOnError)
	sinceStr := flags.String("since", "", "only check-ins at or after this date/time")
	limit := flags.Int("limit", 50, "maximum check-ins to list")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	name := flags.Arg(0)
	if name == "" {
		fmt.Fprintln(os.Stderr, "chain: log: habit name required")
		return 1
	}

	if _, err := a.getHabit(name); err != nil {
		fmt.Fprintf(os.Stderr, "chain: log: %v\n", err)
		return 1
	}

	var since time.Time
	if *sinceStr != "" {
		t, err := config.ParseWhen(*sinceStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chain: log: %v\n", err)
			return 1
		}
		since = t
	}

	events, err := a.store.ListEvents(name, since, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: log: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"habit":  name,
			"count":  len(events),
			"events": events,
		})
		return 0
	}

	if len(events) == 0 {
		fmt.Printf("no check-ins for %q\n", name)
		return 0
	}
	for _, e := range events {
		line := fmt.Sprintf("#%-4d %s", e.ID, e.OccurredAt.Format("2006-01-02 15:04"))
		if e.Note != "" {
			line += "  " + e.Note
		}
		fmt.Println(line)
	}
	return 0
}
