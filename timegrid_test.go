package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTimeGridExcludesMonday1300(t *testing.T) {
	cfg := DefaultConfig()
	grid := GenerateTimeGrid(cfg)

	for _, slot := range grid {
		if slot.Day == Monday {
			assert.NotEqual(t, 13, slot.StartHour, "Monday 13:00 must never appear in the time grid")
		}
	}
}

func TestGenerateTimeGridOnlyWorkingDays(t *testing.T) {
	cfg := DefaultConfig()
	grid := GenerateTimeGrid(cfg)

	working := map[Day]bool{Sunday: true, Monday: true, Tuesday: true, Wednesday: true, Thursday: true}
	for _, slot := range grid {
		assert.True(t, working[slot.Day], "unexpected non-working day %s in grid", slot.Day)
	}
}

func TestGenerateTimeGridSlotsWithinDayWindow(t *testing.T) {
	cfg := DefaultConfig()
	grid := GenerateTimeGrid(cfg)
	for _, slot := range grid {
		assert.GreaterOrEqual(t, slot.StartHour, cfg.DayStart)
		assert.LessOrEqual(t, slot.EndHour, cfg.DayEnd)
	}
}
