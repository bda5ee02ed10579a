package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
)

// cmdCheck is the scripting gate: exit 0 while the chain is alive, 2
// once it broke. A habit with no check-ins gates as broken.
func (a *app) cmdCheck(args []string) int {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)
	quiet := flags.Bool("quiet", false, "suppress output, exit code only")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	name := flags.Arg(0)
	if name == "" {
		fmt.Fprintln(os.Stderr, "chain: check: habit name required")
		return 1
	}

	h, err := a.getHabit(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: check: %v\n", err)
		return 1
	}
	an, res, err := a.scanHabit(h)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: check: %v\n", err)
		return 1
	}

	now := time.Now().UTC()
	state := habitState(an, res, now)
	run := runLength(res, state)
	alive := state == "done" || state == "due"

	code := 0
	if !alive {
		code = 2
	}

	if *quiet {
		return code
	}
	if *jsonOut {
		printJSON(map[string]interface{}{
			"habit": name,
			"state": state,
			"run":   run,
			"alive": alive,
		})
		return code
	}

	switch state {
	case "done":
		fmt.Printf("%s: alive, run %d, current period marked\n", name, run)
	case "due":
		fmt.Printf("%s: alive, run %d, current period still unmarked\n", name, run)
	case "idle":
		fmt.Printf("%s: no check-ins yet\n", name)
	default:
		fmt.Printf("%s: broken, last marked %s\n", name, humanize.Time(res.Last.EndEvent))
	}
	return code
}
