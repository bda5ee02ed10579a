// Package seinfeld computes "don't break the chain" statistics over a
// sorted sequence of event timestamps.
//
// The name refers to Jerry Seinfeld's calendar method: do the thing, mark
// the day, and never break the run of marked days. This package
// generalizes "day" to any fixed increment. Time from a start instant
// onward is partitioned into half-open periods
//
//	[start + k*increment, start + (k+1)*increment)
//
// and an event marks the period containing it. A chain is a maximal run
// of consecutive marked periods. Periods may be excluded by a skip
// predicate; events in an excluded period roll forward into the next
// eligible period, and excluded periods never break a chain.
//
// The package is pure bookkeeping over caller-supplied instants: it never
// reads the clock, parses dates, or stores anything. A scan visits every
// period between consecutive events, so its cost grows with elapsed time
// divided by increment — a very small increment over a long span is
// expensive.
package seinfeld

import (
	"errors"
	"fmt"
	"time"
)

// A SkipFunc reports whether the period beginning at periodStart is
// excluded from chain accounting. Events in an excluded period roll
// forward into the next eligible period, and excluded periods do not
// break chains. A nil SkipFunc excludes nothing.
//
// The predicate must be pure: no side effects, no dependence on call
// order. It may be consulted for period starts past the last event.
// Callers must leave infinitely many periods eligible — a predicate that
// excludes every period from some point on makes the scan diverge.
type SkipFunc func(periodStart time.Time) bool

// Construction errors returned by New.
var (
	ErrZeroStart    = errors.New("start date must be set")
	ErrBadIncrement = errors.New("increment must be positive")
)

// A PrecedenceError reports an event sequence whose first event precedes
// the analyzer's start date — unsorted or mis-anchored input.
type PrecedenceError struct {
	Event time.Time // the offending first event
	Start time.Time // the configured start date
}

func (e *PrecedenceError) Error() string {
	return fmt.Sprintf("event %s precedes start date %s",
		e.Event.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

// An Analyzer holds the period grid: a start instant anchoring period
// boundaries, the increment between boundaries, and an optional skip
// predicate. The zero value is not usable; construct with New.
type Analyzer struct {
	start     time.Time
	increment time.Duration
	skip      SkipFunc
}

// New returns an Analyzer for the grid anchored at start with periods of
// length increment. A zero start yields ErrZeroStart and a zero or
// negative increment yields ErrBadIncrement; skip may be nil.
func New(start time.Time, increment time.Duration, skip SkipFunc) (*Analyzer, error) {
	if start.IsZero() {
		return nil, ErrZeroStart
	}
	if increment <= 0 {
		return nil, ErrBadIncrement
	}
	return &Analyzer{start: start, increment: increment, skip: skip}, nil
}

// Start returns the configured anchor instant.
func (a *Analyzer) Start() time.Time { return a.start }

// Increment returns the configured period length.
func (a *Analyzer) Increment() time.Duration { return a.increment }

// A Chain describes one unbroken run of marked periods.
//
// StartPeriod is the start of the period holding the chain's first event;
// EndPeriod is the start of the period following the last marked period —
// where the chain broke, or would break next. Length counts periods and
// NumEvents counts events, so NumEvents >= Length always.
type Chain struct {
	StartPeriod time.Time `json:"start_period"`
	EndPeriod   time.Time `json:"end_period"`
	StartEvent  time.Time `json:"start_event"`
	EndEvent    time.Time `json:"end_event"`
	Length      int       `json:"length"`
	NumEvents   int       `json:"num_events"`
}

// A Result summarizes a full scan. TotalPeriods counts eligible periods
// from the start date through the end of the last chain; MarkedPeriods
// counts those holding at least one event.
//
// Last is the most recent chain and Longest the first chain of maximal
// length; both are nil for an empty event sequence. When the most recent
// chain is also the longest, the two fields alias the same Chain.
type Result struct {
	TotalPeriods  int    `json:"total_periods"`
	MarkedPeriods int    `json:"marked_periods"`
	Last          *Chain `json:"last,omitempty"`
	Longest       *Chain `json:"longest,omitempty"`
}

// advance steps cursor forward by whole increments until it passes
// target, returning the new cursor and the number of eligible periods
// stepped over. The skip predicate is consulted on each period start
// before the step, so it always sees the start of the period being closed
// out.
//
// A run of excluded periods is drained without counting and without
// re-checking target; the next eligible period is then stepped and
// counted even when that carries the cursor past target. This is what
// rolls events in excluded periods forward into the next eligible period.
func (a *Analyzer) advance(cursor, target time.Time) (time.Time, int) {
	count := 0
	for !cursor.After(target) {
		if a.skip != nil {
			for a.skip(cursor) {
				cursor = cursor.Add(a.increment)
			}
		}
		cursor = cursor.Add(a.increment)
		count++
	}
	return cursor, count
}

// FindChains scans events, which must be sorted ascending, and returns
// chain statistics. Only the first event is checked against the start
// date: a first event before the start date yields a *PrecedenceError and
// no partial result. An empty events slice yields an empty Result.
//
// The scan is a single forward pass. For each event the cursor is
// advanced past the event's period, and the number of newly crossed
// eligible periods decides what the event did: 1 marks the next period
// (chain continues), 0 lands in an already-marked period (only the event
// count grows), >1 means an eligible period in between stayed empty (the
// chain broke; a fresh one starts here).
func (a *Analyzer) FindChains(events []time.Time) (*Result, error) {
	res := &Result{}
	if len(events) == 0 {
		return res, nil
	}
	if events[0].Before(a.start) {
		return nil, &PrecedenceError{Event: events[0], Start: a.start}
	}

	cursor := a.start
	var last, longest *Chain
	for _, d := range events {
		var crossed int
		cursor, crossed = a.advance(cursor, d)

		if crossed > 1 {
			last = nil
		}
		if last == nil {
			last = &Chain{
				StartPeriod: cursor.Add(-a.increment),
				StartEvent:  d,
			}
		}
		last.NumEvents++
		if crossed > 0 {
			last.Length++
			res.MarkedPeriods++
			res.TotalPeriods += crossed
		}
		last.EndEvent = d
		last.EndPeriod = cursor

		// Strictly less: on a tie the first chain to reach the length
		// keeps the title.
		if longest == nil || longest.Length < last.Length {
			longest = last
		}
	}
	res.Last = last
	res.Longest = longest
	return res, nil
}

// PeriodContaining returns the start of the period an event at t would be
// attributed to. For t inside an excluded period this is the start of the
// next eligible period, which lies after t; otherwise it is at or before
// t. t should not precede the start date.
func (a *Analyzer) PeriodContaining(t time.Time) time.Time {
	cursor, _ := a.advance(a.start, t)
	return cursor.Add(-a.increment)
}

// PeriodsBetween returns the count the scanner would see for an event at
// to following one at from: 0 when both fall in the same period, 1 when
// to falls in the next eligible period, and >1 when at least one eligible
// period between them stayed empty — a chain spanning from..to is broken.
// to must not precede from, and neither should precede the start date.
func (a *Analyzer) PeriodsBetween(from, to time.Time) int {
	cursor, _ := a.advance(a.start, from)
	_, crossed := a.advance(cursor, to)
	return crossed
}
