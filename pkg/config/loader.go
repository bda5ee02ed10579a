package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/madsen/datetimex-seinfeld/pkg/schedule"
)

// fileConfig mirrors chain.yaml. Periods, instants, and weekdays are
// strings here and resolved by LoadFrom.
type fileConfig struct {
	DB            string               `yaml:"db"`
	DefaultPeriod string               `yaml:"default_period"`
	Skip          *fileRules           `yaml:"skip"`
	Habits        map[string]fileHabit `yaml:"habits"`
}

type fileHabit struct {
	Start  string     `yaml:"start"`
	Period string     `yaml:"period"`
	Skip   *fileRules `yaml:"skip"`
}

type fileRules struct {
	Weekdays []string    `yaml:"weekdays"`
	Dates    []string    `yaml:"dates"`
	Ranges   []fileRange `yaml:"ranges"`
}

type fileRange struct {
	From  string `yaml:"from"`
	Until string `yaml:"until"`
}

// Load returns the configuration using the hierarchy: defaults < YAML <
// ENV. The YAML path comes from CHAIN_CONFIG, falling back to chain.yaml
// in the data directory; a missing file is not an error.
func Load() (*Config, error) {
	path := os.Getenv("CHAIN_CONFIG")
	if path == "" {
		path = DefaultConfigPath()
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit YAML path.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	var raw fileConfig
	if err := loadYAML(&raw, path); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}
	if err := resolve(&cfg, &raw); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}
	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it into raw.
// Returns nil if the file does not exist.
func loadYAML(raw *fileConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// resolve converts the string fields of raw into cfg's typed ones.
// Fields left empty in the file keep their defaults.
func resolve(cfg *Config, raw *fileConfig) error {
	if raw.DB != "" {
		cfg.DB = raw.DB
	}
	if raw.DefaultPeriod != "" {
		p, err := ParsePeriod(raw.DefaultPeriod)
		if err != nil {
			return fmt.Errorf("default_period: %w", err)
		}
		cfg.DefaultPeriod = p
	}

	rules, err := resolveRules(raw.Skip)
	if err != nil {
		return fmt.Errorf("skip: %w", err)
	}
	cfg.Skip = rules

	for name, fh := range raw.Habits {
		hc := HabitConfig{}
		if fh.Start != "" {
			t, err := ParseWhen(fh.Start)
			if err != nil {
				return fmt.Errorf("habits.%s.start: %w", name, err)
			}
			hc.Start = t
		}
		if fh.Period != "" {
			p, err := ParsePeriod(fh.Period)
			if err != nil {
				return fmt.Errorf("habits.%s.period: %w", name, err)
			}
			hc.Period = p
		}
		r, err := resolveRules(fh.Skip)
		if err != nil {
			return fmt.Errorf("habits.%s.skip: %w", name, err)
		}
		hc.Skip = r
		cfg.Habits[name] = hc
	}
	return nil
}

func resolveRules(fr *fileRules) (*schedule.Rules, error) {
	if fr == nil {
		return nil, nil
	}
	r := &schedule.Rules{}
	for _, w := range fr.Weekdays {
		wd, err := parseWeekday(w)
		if err != nil {
			return nil, err
		}
		r.Weekdays = append(r.Weekdays, wd)
	}
	for _, ds := range fr.Dates {
		t, err := ParseWhen(ds)
		if err != nil {
			return nil, fmt.Errorf("dates: %w", err)
		}
		r.Dates = append(r.Dates, t)
	}
	for _, rg := range fr.Ranges {
		from, err := ParseWhen(rg.From)
		if err != nil {
			return nil, fmt.Errorf("ranges.from: %w", err)
		}
		until, err := ParseWhen(rg.Until)
		if err != nil {
			return nil, fmt.Errorf("ranges.until: %w", err)
		}
		if !until.After(from) {
			return nil, fmt.Errorf("range until %s must be after from %s", rg.Until, rg.From)
		}
		r.Ranges = append(r.Ranges, schedule.Range{From: from, Until: until})
	}
	return r, nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.DB, "CHAIN_DB")
	setPeriod(&cfg.DefaultPeriod, "CHAIN_PERIOD")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.DB == "" {
		return errors.New("db path is required")
	}
	if cfg.DefaultPeriod <= 0 {
		return errors.New("default_period must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setPeriod(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if p, err := ParsePeriod(v); err == nil {
			*dst = p
		}
	}
}
