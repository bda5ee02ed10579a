package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/madsen/datetimex-seinfeld/pkg/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func day(dom int) time.Time {
	return time.Date(2024, time.January, dom, 0, 0, 0, 0, time.UTC)
}

func mustTrack(t *testing.T, s *Store, name string) *model.Habit {
	t.Helper()
	h, err := s.TrackHabit(name, day(1), 24*time.Hour)
	if err != nil {
		t.Fatalf("TrackHabit(%q): %v", name, err)
	}
	return h
}

func mustInsert(t *testing.T, s *Store, habit string, at time.Time) int64 {
	t.Helper()
	id, err := s.InsertEvent(&model.Event{Habit: habit, OccurredAt: at})
	if err != nil {
		t.Fatalf("InsertEvent(%q, %v): %v", habit, at, err)
	}
	return id
}

// --- Habit tests ---

func TestTrackHabit(t *testing.T) {
	s := newTestStore(t)
	h, err := s.TrackHabit("reading", day(1), 24*time.Hour)
	if err != nil {
		t.Fatalf("TrackHabit: %v", err)
	}
	if h.Name != "reading" {
		t.Fatalf("got name %q, want reading", h.Name)
	}
	if !h.Start.Equal(day(1)) {
		t.Fatalf("Start = %v, want %v", h.Start, day(1))
	}
	if h.Period != 24*time.Hour {
		t.Fatalf("Period = %v, want 24h", h.Period)
	}
	if h.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
}

func TestTrackHabit_Idempotent(t *testing.T) {
	s := newTestStore(t)
	first, err := s.TrackHabit("reading", day(1), 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	// A second track with different values must not clobber the first.
	again, err := s.TrackHabit("reading", day(15), 7*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Start.Equal(first.Start) || again.Period != first.Period {
		t.Fatalf("retrack changed habit: %+v vs %+v", again, first)
	}
}

func TestTrackHabit_Invalid(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.TrackHabit("", day(1), 24*time.Hour); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := s.TrackHabit("x", time.Time{}, 24*time.Hour); err == nil {
		t.Fatal("expected error for zero start")
	}
	if _, err := s.TrackHabit("x", day(1), 0); err == nil {
		t.Fatal("expected error for zero period")
	}
}

func TestGetHabit_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetHabit("nonexistent")
	if !errors.Is(err, ErrNoHabit) {
		t.Fatalf("err = %v, want ErrNoHabit", err)
	}
}

func TestListHabits_Ordered(t *testing.T) {
	s := newTestStore(t)
	mustTrack(t, s, "cycling")
	mustTrack(t, s, "arabic")
	mustTrack(t, s, "bouldering")

	habits, err := s.ListHabits()
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 3 {
		t.Fatalf("got %d habits, want 3", len(habits))
	}
	if habits[0].Name != "arabic" || habits[1].Name != "bouldering" || habits[2].Name != "cycling" {
		t.Fatalf("habits not ordered: %v",
			[]string{habits[0].Name, habits[1].Name, habits[2].Name})
	}
}

func TestRemoveHabit(t *testing.T) {
	s := newTestStore(t)
	mustTrack(t, s, "reading")
	mustInsert(t, s, "reading", day(1).Add(9*time.Hour))
	mustInsert(t, s, "reading", day(2).Add(9*time.Hour))

	if err := s.RemoveHabit("reading"); err != nil {
		t.Fatalf("RemoveHabit: %v", err)
	}
	if _, err := s.GetHabit("reading"); !errors.Is(err, ErrNoHabit) {
		t.Fatalf("habit still present after remove: %v", err)
	}
	if n := s.CountEvents("reading"); n != 0 {
		t.Fatalf("events still present after remove: %d", n)
	}
}

func TestRemoveHabit_NotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.RemoveHabit("nonexistent"); !errors.Is(err, ErrNoHabit) {
		t.Fatalf("err = %v, want ErrNoHabit", err)
	}
}

// --- Event tests ---

func TestInsertAndListEvents(t *testing.T) {
	s := newTestStore(t)
	mustTrack(t, s, "reading")

	at := time.Date(2024, time.January, 3, 7, 30, 0, 123456789, time.UTC)
	id, err := s.InsertEvent(&model.Event{Habit: "reading", OccurredAt: at, Note: "ch. 4"})
	if err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}
	if id <= 0 {
		t.Fatalf("InsertEvent returned id %d, want > 0", id)
	}

	events, err := s.ListEvents("reading", time.Time{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.ID != id || e.Habit != "reading" || e.Note != "ch. 4" {
		t.Fatalf("event = %+v", e)
	}
	if !e.OccurredAt.Equal(at) {
		t.Fatalf("OccurredAt = %v, want %v (nanoseconds must survive)", e.OccurredAt, at)
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should default to now")
	}
}

func TestInsertEvent_Invalid(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.InsertEvent(&model.Event{OccurredAt: day(1)}); err == nil {
		t.Fatal("expected error for missing habit")
	}
	if _, err := s.InsertEvent(&model.Event{Habit: "x"}); err == nil {
		t.Fatal("expected error for zero occurred_at")
	}
}

func TestInsertEvents_Batch(t *testing.T) {
	s := newTestStore(t)
	mustTrack(t, s, "reading")

	batch := []*model.Event{
		{Habit: "reading", OccurredAt: day(1), Note: "ch. 1"},
		{Habit: "reading", OccurredAt: day(2)},
		{Habit: "reading", OccurredAt: day(3)},
	}
	if err := s.InsertEvents(batch); err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}
	for i, e := range batch {
		if e.ID <= 0 {
			t.Fatalf("batch[%d].ID = %d, want > 0", i, e.ID)
		}
		if i > 0 && e.ID <= batch[i-1].ID {
			t.Fatalf("batch IDs not ascending: %d then %d", batch[i-1].ID, e.ID)
		}
		if e.CreatedAt.IsZero() {
			t.Fatalf("batch[%d].CreatedAt should be filled", i)
		}
	}
	if !batch[0].CreatedAt.Equal(batch[2].CreatedAt) {
		t.Fatal("batch should share one CreatedAt")
	}

	events, err := s.ListEvents("reading", time.Time{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 || events[0].Note != "ch. 1" {
		t.Fatalf("got %d events, first note %q", len(events), events[0].Note)
	}

	if err := s.InsertEvents(nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
}

func TestInsertEvents_NothingOnBadEvent(t *testing.T) {
	s := newTestStore(t)
	mustTrack(t, s, "reading")

	// The zero instant in the last slot must sink the whole batch; a
	// failed bulk load leaves no rows for a re-run to duplicate.
	err := s.InsertEvents([]*model.Event{
		{Habit: "reading", OccurredAt: day(1)},
		{Habit: "reading", OccurredAt: day(2)},
		{Habit: "reading"},
	})
	if err == nil {
		t.Fatal("expected error for zero occurred_at")
	}
	if n := s.CountEvents("reading"); n != 0 {
		t.Fatalf("partial batch persisted: %d events, want 0", n)
	}
}

func TestListEvents_OrderAndSince(t *testing.T) {
	s := newTestStore(t)
	mustTrack(t, s, "reading")

	// Insertion order deliberately scrambled.
	mustInsert(t, s, "reading", day(3))
	mustInsert(t, s, "reading", day(1))
	mustInsert(t, s, "reading", day(2))

	events, err := s.ListEvents("reading", time.Time{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, want := range []time.Time{day(1), day(2), day(3)} {
		if !events[i].OccurredAt.Equal(want) {
			t.Fatalf("events[%d] = %v, want %v", i, events[i].OccurredAt, want)
		}
	}

	since, err := s.ListEvents("reading", day(2), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(since) != 2 || !since[0].OccurredAt.Equal(day(2)) {
		t.Fatalf("since filter returned %d events", len(since))
	}
}

func TestListEvents_Limit(t *testing.T) {
	s := newTestStore(t)
	mustTrack(t, s, "reading")
	for dom := 1; dom <= 5; dom++ {
		mustInsert(t, s, "reading", day(dom))
	}
	events, err := s.ListEvents("reading", time.Time{}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 || !events[2].OccurredAt.Equal(day(3)) {
		t.Fatalf("limit returned %d events ending %v", len(events), events[len(events)-1].OccurredAt)
	}
}

func TestEventTimes_Ascending(t *testing.T) {
	s := newTestStore(t)
	mustTrack(t, s, "reading")

	// The fractional instant must sort after the whole second it follows;
	// this is what the fixed-width storage layout guarantees.
	half := time.Date(2024, time.January, 1, 10, 0, 5, 500_000_000, time.UTC)
	whole := time.Date(2024, time.January, 1, 10, 0, 5, 0, time.UTC)
	mustInsert(t, s, "reading", half)
	mustInsert(t, s, "reading", whole)
	mustInsert(t, s, "reading", day(2))

	times, err := s.EventTimes("reading")
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 3 {
		t.Fatalf("got %d times, want 3", len(times))
	}
	for _, want := range [][2]time.Time{{times[0], whole}, {times[1], half}, {times[2], day(2)}} {
		if !want[0].Equal(want[1]) {
			t.Fatalf("times = %v, want [%v %v %v]", times, whole, half, day(2))
		}
	}
}

func TestLastEvent(t *testing.T) {
	s := newTestStore(t)
	mustTrack(t, s, "reading")

	e, err := s.LastEvent("reading")
	if err != nil {
		t.Fatal(err)
	}
	if e != nil {
		t.Fatalf("LastEvent on empty habit = %+v, want nil", e)
	}

	mustInsert(t, s, "reading", day(1))
	mustInsert(t, s, "reading", day(5))
	mustInsert(t, s, "reading", day(3))

	e, err = s.LastEvent("reading")
	if err != nil {
		t.Fatal(err)
	}
	if e == nil || !e.OccurredAt.Equal(day(5)) {
		t.Fatalf("LastEvent = %+v, want day 5", e)
	}
}

func TestCountEvents_PerHabit(t *testing.T) {
	s := newTestStore(t)
	mustTrack(t, s, "reading")
	mustTrack(t, s, "running")
	mustInsert(t, s, "reading", day(1))
	mustInsert(t, s, "reading", day(2))
	mustInsert(t, s, "running", day(1))

	if n := s.CountEvents("reading"); n != 2 {
		t.Fatalf("CountEvents(reading) = %d, want 2", n)
	}
	if n := s.CountEvents("running"); n != 1 {
		t.Fatalf("CountEvents(running) = %d, want 1", n)
	}
	if n := s.CountEvents("absent"); n != 0 {
		t.Fatalf("CountEvents(absent) = %d, want 0", n)
	}
}
