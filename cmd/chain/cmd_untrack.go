package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/madsen/datetimex-seinfeld/pkg/store"
)

func (a *app) cmdUntrack(args []string) int {
	flags := flag.NewFlagSet("untrack", flag.ContinueOnError)
	force := flags.Bool("force", false, "confirm deletion of the habit and its history")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	name := flags.Arg(0)
	if name == "" {
		fmt.Fprintln(os.Stderr, "chain: untrack: habit name required")
		return 1
	}

	if _, err := a.getHabit(name); err != nil {
		fmt.Fprintf(os.Stderr, "chain: untrack: %v\n", err)
		return 1
	}

	if !*force {
		n := a.store.CountEvents(name)
		fmt.Fprintf(os.Stderr, "chain: untrack: would delete %q and its %d check-in(s); re-run with --force\n", name, n)
		return 1
	}

	if err := a.store.RemoveHabit(name); err != nil {
		if errors.Is(err, store.ErrNoHabit) {
			fmt.Fprintf(os.Stderr, "chain: untrack: no habit %q\n", name)
		} else {
			fmt.Fprintf(os.Stderr, "chain: untrack: %v\n", err)
		}
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{"removed": name})
		return 0
	}
	fmt.Printf("untracked %q\n", name)
	return 0
}
