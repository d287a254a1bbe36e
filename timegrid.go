package main

// GenerateTimeGrid enumerates every legal working slot for a week
// given cfg: working days x [DayStart, DayEnd) in SlotDurationHours
// increments, minus any ExcludedSlots (spec.md §4.1, §6). Rooms and
// staff availabilities are built from this grid.
func GenerateTimeGrid(cfg Config) []TimeSlot {
	var slots []TimeSlot
	for _, day := range cfg.WorkingDays {
		for hour := cfg.DayStart; hour+cfg.SlotDurationHours <= cfg.DayEnd; hour += cfg.SlotDurationHours {
			if cfg.isExcluded(day, hour) {
				continue
			}
			slots = append(slots, TimeSlot{Day: day, StartHour: hour, EndHour: hour + cfg.SlotDurationHours})
		}
	}
	return slots
}

// FullAvailability returns the complete time grid, suitable as a
// room's or staff member's default availability/preference set.
func FullAvailability(cfg Config) []TimeSlot {
	return GenerateTimeGrid(cfg)
}
