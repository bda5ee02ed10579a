package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/madsen/datetimex-seinfeld/pkg/config"
)

const configTemplate = `# chain configuration (YAML). Flags and environment variables win over
# anything set here.
#
# db: /path/to/chain.db
# default_period: 1d
#
# Exclusion rules apply to period starts; the kinds OR together. An
# excluded period never breaks a chain and never counts toward one.
# skip:
#   weekdays: [saturday, sunday]
#   dates: ["2026-12-25"]
#   ranges:
#     - from: "2026-07-01"
#       until: "2026-07-15"
#
# Per-habit seeds for 'chain track' and per-habit rules (merged with the
# global skip block above):
# habits:
#   pushups:
#     start: "2026-01-01"
#     period: 1d
#     skip:
#       weekdays: [sunday]
`

func (a *app) cmdInit(args []string) int {
	flags := flag.NewFlagSet("init", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	if err := os.MkdirAll(config.DataDir(), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "chain: init: %v\n", err)
		return 1
	}

	cfgPath := envOr("CHAIN_CONFIG", config.DefaultConfigPath())
	created, err := scaffoldConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: init: %v\n", err)
		return 1
	}

	habits, err := a.store.ListHabits()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chain: init: database error: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"db":             a.cfg.DB,
			"config":         cfgPath,
			"config_created": created,
			"habits":         len(habits),
		})
		return 0
	}

	fmt.Printf("initialized chain (db: %s)\n", a.cfg.DB)
	if created {
		fmt.Printf("  created %s\n", cfgPath)
	} else {
		fmt.Printf("  config already present: %s\n", cfgPath)
	}
	if len(habits) > 0 {
		fmt.Printf("  tracking %d habit(s)\n", len(habits))
	}
	fmt.Println()
	fmt.Println("next steps:")
	fmt.Println("  chain track <habit>     # start a chain")
	fmt.Println("  chain mark <habit>      # record today's check-in")
	fmt.Println("  chain status            # see where you stand")
	return 0
}

// scaffoldConfig writes the commented starter config unless the file
// already exists. Reports whether it wrote anything.
func scaffoldConfig(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if _, err := f.WriteString(configTemplate); err != nil {
		return false, err
	}
	return true, nil
}
