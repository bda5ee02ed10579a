// Command chain is the don't-break-the-chain CLI — habit streaks over
// fixed periods, with rule-based period exclusions.
package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Println("chain", version)
		return
	}

	a, err := newApp()
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	switch os.Args[1] {
	// Setup
	case "init":
		os.Exit(a.cmdInit(os.Args[2:]))
	case "track":
		os.Exit(a.cmdTrack(os.Args[2:]))
	case "untrack":
		os.Exit(a.cmdUntrack(os.Args[2:]))

	// Recording
	case "mark", "did":
		os.Exit(a.cmdMark(os.Args[2:]))
	case "import":
		os.Exit(a.cmdImport(os.Args[2:]))

	// Reporting
	case "log":
		os.Exit(a.cmdLog(os.Args[2:]))
	case "chains":
		os.Exit(a.cmdChains(os.Args[2:]))
	case "status":
		os.Exit(a.cmdStatus(os.Args[2:]))
	case "check":
		os.Exit(a.cmdCheck(os.Args[2:]))
	case "period":
		os.Exit(a.cmdPeriod(os.Args[2:]))

	default:
		fmt.Fprintf(os.Stderr, "chain: unknown command %q\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Run 'chain --help' for usage.")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`chain — don't break the chain, for any habit and any period

Each habit divides time into fixed periods from its start date. A period
with at least one check-in is marked; consecutive marked periods form a
chain. Periods excluded by rule (weekends, holidays, vacations) never
break a chain. Everything lives in one SQLite file, so aliases, scripts,
and cron jobs stay in sync.

Usage:
  chain <command> [flags]

Setup:
  init                       Create the data directory and a starter config
  track <habit> [flags]      Start tracking a habit (--start, --every)
  untrack <habit> --force    Remove a habit and all of its check-ins

Recording:
  mark <habit> [flags]       Record a check-in (--at, --note)
  import <habit> [file]      Bulk-load check-ins, one timestamp per line

Reporting:
  log <habit> [flags]        List check-ins, oldest first
  chains <habit>             Full report: longest chain, latest, totals
  status [habit]             One line per habit: state, run, longest
  check <habit>              Script gate: exit 0 while the chain is alive
  period <habit> [WHEN]      Print the period start WHEN is counted in

Aliases:
  did = mark

Environment:
  CHAIN_DB        SQLite database path (default: ~/.chain/chain.db)
  CHAIN_CONFIG    YAML config path (default: ~/.chain/chain.yaml)
  CHAIN_PERIOD    Period for habits tracked without --every (default: 1d)

All commands support --json for machine-readable output.
Dates are 2006-01-02 (midnight UTC) or RFC 3339; periods are 1d, 2w, 36h.

Exit codes:
  0  success
  1  error
  2  chain broken (check)
`)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "chain: "+format+"\n", args...)
	os.Exit(1)
}
