package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/madsen/datetimex-seinfeld/pkg/config"
	"github.com/madsen/datetimex-seinfeld/pkg/model"
)

func (a *app) cmdImport(args []string) int {
	flags := flag.NewFlagSet("import", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	name := flags.Arg(0)
	if name == "" {
		fmt.Fprintln(os.Stderr, "chain: import: habit name required")
		return 1
	}

	h, err := a.getHabit(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: import: %v\n", err)
		return 1
	}

	var r io.Reader = os.Stdin
	src := "stdin"
	if file := flags.Arg(1); file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chain: import: %v\n", err)
			return 1
		}
		defer f.Close()
		r = f
		src = file
	}

	// Parse and validate every line before touching the store, so a bad
	// line aborts the whole import instead of leaving half of it behind.
	times, err := readTimes(r, src, h.Start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: import: %v\n", err)
		return 1
	}

	// The batch goes in as one transaction: a store error mid-import
	// rolls the whole load back, so a re-run cannot duplicate rows.
	now := time.Now().UTC()
	events := make([]*model.Event, len(times))
	for i, t := range times {
		events[i] = &model.Event{Habit: name, OccurredAt: t, CreatedAt: now}
	}
	if err := a.store.InsertEvents(events); err != nil {
		fmt.Fprintf(os.Stderr, "chain: import: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"habit":    name,
			"source":   src,
			"imported": len(times),
		})
		return 0
	}
	fmt.Printf("imported %d check-in(s) into %q\n", len(times), name)
	return 0
}

// readTimes parses one timestamp per line. Blank lines and #-comments
// are skipped; anything before the habit anchor is an error.
func readTimes(r io.Reader, src string, anchor time.Time) ([]time.Time, error) {
	var times []time.Time
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := trimLine(sc.Text())
		if text == "" {
			continue
		}
		t, err := config.ParseWhen(text)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %v", src, line, err)
		}
		if t.Before(anchor) {
			return nil, fmt.Errorf("%s line %d: %s predates the habit start (%s)",
				src, line, t.Format("2006-01-02"), anchor.Format("2006-01-02"))
		}
		times = append(times, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %v", src, err)
	}
	return times, nil
}

func trimLine(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
