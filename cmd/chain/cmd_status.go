package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/madsen/datetimex-seinfeld/pkg/config"
	"github.com/madsen/datetimex-seinfeld/pkg/model"
	"github.com/madsen/datetimex-seinfeld/pkg/seinfeld"
)

type habitStatus struct {
	Habit   string    `json:"habit"`
	Period  string    `json:"period"`
	State   string    `json:"state"`
	Run     int       `json:"run"`
	Longest int       `json:"longest"`
	Marked  int       `json:"marked_periods"`
	Total   int       `json:"total_periods"`
	LastAt  time.Time `json:"last_at"`
}

func (a *app) cmdStatus(args []string) int {
	flags := flag.NewFlagSet("status", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	var habits []model.Habit
	if name := flags.Arg(0); name != "" {
		h, err := a.getHabit(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chain: status: %v\n", err)
			return 1
		}
		habits = []model.Habit{*h}
	} else {
		all, err := a.store.ListHabits()
		if err != nil {
			fmt.Fprintf(os.Stderr, "chain: status: %v\n", err)
			return 1
		}
		habits = all
	}

	now := time.Now().UTC()
	rows := make([]habitStatus, 0, len(habits))
	for i := range habits {
		h := &habits[i]
		an, res, err := a.scanHabit(h)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chain: status: %s: %v\n", h.Name, err)
			return 1
		}
		state := habitState(an, res, now)
		row := habitStatus{
			Habit:  h.Name,
			Period: config.FormatPeriod(h.Period),
			State:  state,
			Run:    runLength(res, state),
			Marked: res.MarkedPeriods,
			Total:  res.TotalPeriods,
		}
		if res.Longest != nil {
			row.Longest = res.Longest.Length
		}
		if res.Last != nil {
			row.LastAt = res.Last.EndEvent
		}
		rows = append(rows, row)
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"habits": rows,
			"count":  len(rows),
		})
		return 0
	}

	if len(rows) == 0 {
		fmt.Println("no habits tracked; run 'chain track <habit>'")
		return 0
	}
	for _, row := range rows {
		if row.State == "idle" {
			fmt.Printf("%s %-14s every %-4s no check-ins yet\n",
				stateIndicator(row.State), row.Habit, row.Period)
			continue
		}
		fmt.Printf("%s %-14s every %-4s run=%-4d longest=%-4d marked=%d/%d, last %s\n",
			stateIndicator(row.State), row.Habit, row.Period,
			row.Run, row.Longest, row.Marked, row.Total, humanize.Time(row.LastAt))
	}
	return 0
}

// habitState classifies where a habit stands at now:
//
//	done   - the period containing now already has a check-in
//	due    - the chain is alive but the current period is still unmarked
//	broken - at least one eligible period passed with no check-in
//	idle   - no check-ins recorded at all
//
// The boundary count between the latest check-in and now decides it: 0
// means same period, 1 means the very next one (nothing missed yet),
// more means an eligible period went empty in between.
func habitState(an *seinfeld.Analyzer, res *seinfeld.Result, now time.Time) string {
	if res.Last == nil {
		return "idle"
	}
	switch gap := an.PeriodsBetween(res.Last.EndEvent, now); {
	case gap == 0:
		return "done"
	case gap == 1:
		return "due"
	default:
		return "broken"
	}
}

// runLength is the length of the chain still alive at the state's
// reference time, 0 when broken or idle.
func runLength(res *seinfeld.Result, state string) int {
	if state == "done" || state == "due" {
		return res.Last.Length
	}
	return 0
}

func stateIndicator(state string) string {
	switch state {
	case "done":
		return "[+]"
	case "due":
		return "[~]"
	case "idle":
		return "[ ]"
	default:
		return "[-]"
	}
}
