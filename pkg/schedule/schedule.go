// Package schedule builds period-exclusion predicates from declarative
// rules.
//
// The chain scanner takes exclusion as an opaque predicate over period
// starts; this package is where such predicates come from when they are
// configured rather than hand-written. A Rules value names weekdays,
// single dates, and half-open ranges to exclude, and Skip compiles it
// into a predicate the scanner accepts. Rule kinds OR-combine: a period
// start is excluded when any rule matches it.
//
// Compiled predicates are pure and cheap. The scanner requires that
// infinitely many period starts stay eligible, so a rule set covering
// every future period (all seven weekdays, an unbounded range) must not
// be handed to it; Skip does not police this.
package schedule

import (
	"time"

	"github.com/madsen/datetimex-seinfeld/pkg/seinfeld"
)

const dateLayout = "2006-01-02"

// A Range excludes the half-open interval [From, Until). A range with
// Until at or before From matches nothing.
type Range struct {
	From  time.Time `json:"from"`
	Until time.Time `json:"until"`
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.Until)
}

// Rules is a declarative set of period exclusions. Weekdays match the
// weekday of a period start, Dates match period starts on the same UTC
// calendar day, Ranges match by interval. An empty Rules excludes
// nothing.
type Rules struct {
	Weekdays []time.Weekday `json:"weekdays,omitempty"`
	Dates    []time.Time    `json:"dates,omitempty"`
	Ranges   []Range        `json:"ranges,omitempty"`
}

// Empty reports whether no rule is set. A nil Rules is empty.
func (r *Rules) Empty() bool {
	return r == nil || len(r.Weekdays) == 0 && len(r.Dates) == 0 && len(r.Ranges) == 0
}

// Skip compiles the rule set into a predicate over period starts. An
// empty set compiles to nil, which the scanner treats as no exclusions.
// The predicate snapshots the rules at compile time; later mutation of
// the Rules value does not affect it.
func (r *Rules) Skip() seinfeld.SkipFunc {
	if r.Empty() {
		return nil
	}

	weekdays := make(map[time.Weekday]bool, len(r.Weekdays))
	for _, wd := range r.Weekdays {
		weekdays[wd] = true
	}
	dates := make(map[string]bool, len(r.Dates))
	for _, d := range r.Dates {
		dates[d.UTC().Format(dateLayout)] = true
	}
	ranges := append([]Range(nil), r.Ranges...)

	return func(periodStart time.Time) bool {
		if weekdays[periodStart.Weekday()] {
			return true
		}
		if len(dates) > 0 && dates[periodStart.UTC().Format(dateLayout)] {
			return true
		}
		for _, rg := range ranges {
			if rg.Contains(periodStart) {
				return true
			}
		}
		return false
	}
}

// Merge returns the union of two rule sets. Either argument may be nil;
// the result is freshly allocated and shares no slices with its inputs.
func Merge(a, b *Rules) *Rules {
	m := &Rules{}
	for _, r := range []*Rules{a, b} {
		if r == nil {
			continue
		}
		m.Weekdays = append(m.Weekdays, r.Weekdays...)
		m.Dates = append(m.Dates, r.Dates...)
		m.Ranges = append(m.Ranges, r.Ranges...)
	}
	return m
}
