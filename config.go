package main

import "time"

// Config is the explicit, immutable parameter record threaded into the
// resource manager and the scheduling engine. Nothing in this package
// reads process-wide state; every tunable lives here.
type Config struct {
	WorkingDays       []Day
	DayStart          int // hour, 24h clock
	DayEnd            int // hour, 24h clock
	SlotDurationHours int
	ExcludedSlots     []ExcludedSlot

	MaxAttempts            int
	PreferredCapacityRatio float64

	WeightLecturerPreference float64
	WeightTAPreference       float64
	WeightGapMinimization    float64
	WeightRoomUtilization    float64

	EarlyStopScore float64

	SubmissionRetries int
	SubmissionTimeout time.Duration
}

// ExcludedSlot names a (day, hour) pair that is never part of the
// working time grid, e.g. the Monday prayer/lunch break.
type ExcludedSlot struct {
	Day  Day
	Hour int
}

// DefaultConfig matches spec.md §6's time-grid default: Sunday-Thursday
// working days, 09:00-19:00, two-hour slots, Monday 13:00 excluded.
func DefaultConfig() Config {
	return Config{
		WorkingDays:            []Day{Sunday, Monday, Tuesday, Wednesday, Thursday},
		DayStart:               9,
		DayEnd:                 19,
		SlotDurationHours:      2,
		ExcludedSlots:          []ExcludedSlot{{Day: Monday, Hour: 13}},
		MaxAttempts:            100,
		PreferredCapacityRatio: 0.8,

		WeightLecturerPreference: 5.0,
		WeightTAPreference:       3.0,
		WeightGapMinimization:    2.0,
		WeightRoomUtilization:    1.5,

		EarlyStopScore: 0.95,

		SubmissionRetries: 3,
		SubmissionTimeout: 30 * time.Second,
	}
}

func (c Config) isExcluded(day Day, hour int) bool {
	for _, ex := range c.ExcludedSlots {
		if ex.Day == day && ex.Hour == hour {
			return true
		}
	}
	return false
}
