package model

import (
	"testing"
	"time"
)

func validHabit() Habit {
	return Habit{
		Name:   "reading",
		Start:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Period: 24 * time.Hour,
	}
}

func TestHabit_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Habit)
		ok     bool
	}{
		{"valid", func(h *Habit) {}, true},
		{"empty name", func(h *Habit) { h.Name = "" }, false},
		{"blank name", func(h *Habit) { h.Name = "   " }, false},
		{"zero start", func(h *Habit) { h.Start = time.Time{} }, false},
		{"zero period", func(h *Habit) { h.Period = 0 }, false},
		{"negative period", func(h *Habit) { h.Period = -time.Hour }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := validHabit()
			tc.mutate(&h)
			err := h.Validate()
			if tc.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("Validate() = nil, want error")
			}
		})
	}
}
