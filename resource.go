package main

import "sort"

// ResourceManager catalogues rooms and staff and answers pure,
// stateless questions about which (room, slot) pairs are worth
// trying for a block. It never mutates scheduler state; the
// constraint manager is the sole owner of that (spec.md §4.1, §5).
type ResourceManager struct {
	cfg   Config
	halls []*Hall
	labs  []*Lab

	// informational only (spec.md SPEC_FULL §6 supplemented features):
	// usage counters never affect candidate ordering, only reporting.
	roomUsage     map[RoomKey]int
	staffWorkload map[int]int
}

// NewResourceManager builds a resource manager over the given
// catalogues. Rooms and staff availabilities are expected to already
// be seeded from GenerateTimeGrid(cfg) or a subset of it.
func NewResourceManager(cfg Config, halls []*Hall, labs []*Lab) *ResourceManager {
	return &ResourceManager{
		cfg:           cfg,
		halls:         halls,
		labs:          labs,
		roomUsage:     make(map[RoomKey]int),
		staffWorkload: make(map[int]int),
	}
}

// CandidateRooms filters and orders the catalogue for a block per
// spec.md §4.1: kind match, preferred_rooms restriction (or the
// general-lab pool for unrestricted lab blocks), capacity gate at
// PreferredCapacityRatio, then ascending by |capacity - student_count|.
func (rm *ResourceManager) CandidateRooms(block *Block) []Room {
	var pool []Room
	switch block.RequiredRoomKind {
	case RoomKindLab:
		if len(block.PreferredRooms) > 0 {
			pool = append(pool, block.PreferredRooms...)
		} else {
			for _, lab := range rm.labs {
				if lab.UsedInNonSpecialistCourses {
					pool = append(pool, lab)
				}
			}
		}
	case RoomKindHall:
		if len(block.PreferredRooms) > 0 {
			pool = append(pool, block.PreferredRooms...)
		} else {
			for _, hall := range rm.halls {
				pool = append(pool, hall)
			}
		}
	}

	required := float64(block.StudentCount) * rm.cfg.PreferredCapacityRatio
	var suitable []Room
	for _, r := range pool {
		if r.Kind() == block.RequiredRoomKind && float64(r.RoomCapacity()) >= required {
			suitable = append(suitable, r)
		}
	}

	sort.SliceStable(suitable, func(i, j int) bool {
		return absInt(suitable[i].RoomCapacity()-block.StudentCount) < absInt(suitable[j].RoomCapacity()-block.StudentCount)
	})
	return suitable
}

// CandidateSlots returns the time slots worth trying for (block,
// room) given the live assignment map, per spec.md §4.1: start from
// room availability, remove already-booked slots in that room,
// strictly intersect with lecturer preferences or soft-sort by TA
// preference.
func (rm *ResourceManager) CandidateSlots(block *Block, room Room, live map[string]*Assignment) []TimeSlot {
	used := make(map[TimeSlot]bool)
	key := roomKeyOf(room)
	for _, a := range live {
		if roomKeyOf(a.Room) == key {
			used[normalizeSlot(a.TimeSlot)] = true
		}
	}

	var base []TimeSlot
	for _, slot := range room.RoomAvailability() {
		norm := normalizeSlot(slot)
		if used[norm] {
			continue
		}
		base = append(base, TimeSlot{Day: norm.Day, StartHour: norm.StartHour, EndHour: norm.StartHour + rm.cfg.SlotDurationHours})
	}

	if _, isLecturer := block.Staff.(*Lecturer); isLecturer {
		prefs := make(map[TimeSlot]bool)
		for _, p := range block.Staff.TimingPreferences() {
			prefs[normalizeSlot(p)] = true
		}
		var filtered []TimeSlot
		for _, slot := range base {
			if prefs[normalizeSlot(slot)] {
				filtered = append(filtered, slot)
			}
		}
		return filtered
	}

	// Teaching assistant: soft preference, stable sort preferred-first.
	prefs := make(map[TimeSlot]bool)
	for _, p := range block.Staff.TimingPreferences() {
		prefs[normalizeSlot(p)] = true
	}
	sort.SliceStable(base, func(i, j int) bool {
		pi, pj := prefs[normalizeSlot(base[i])], prefs[normalizeSlot(base[j])]
		return pi && !pj
	})
	return base
}

// normalizeSlot strips EndHour so slots can be compared by (day,
// start) identity regardless of how EndHour was computed.
func normalizeSlot(t TimeSlot) TimeSlot {
	return TimeSlot{Day: t.Day, StartHour: t.StartHour}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// RecordUsage updates the informational usage counters after a
// commit. Never consulted by CandidateRooms/CandidateSlots.
func (rm *ResourceManager) RecordUsage(a *Assignment) {
	rm.roomUsage[roomKeyOf(a.Room)]++
	rm.staffWorkload[a.Block.Staff.StaffID()]++
}

// ResetUsage clears the informational counters; called alongside the
// constraint manager's Reset() at the start of each attempt.
func (rm *ResourceManager) ResetUsage() {
	rm.roomUsage = make(map[RoomKey]int)
	rm.staffWorkload = make(map[int]int)
}

// ResourceStats is the informational snapshot the CLI logs at info
// level after every run (SPEC_FULL.md §6). MinRoomsHint is keyed by
// staff id and is reported but never consulted by placement.
type ResourceStats struct {
	RoomUsage     map[RoomKey]int
	StaffWorkload map[int]int
	MinRoomsHint  map[int]int
}

// Stats returns a copy of the current usage counters plus a freshly
// computed MinRoomsHint over blocks.
func (rm *ResourceManager) Stats(blocks []*Block) ResourceStats {
	ru := make(map[RoomKey]int, len(rm.roomUsage))
	for k, v := range rm.roomUsage {
		ru[k] = v
	}
	sw := make(map[int]int, len(rm.staffWorkload))
	for k, v := range rm.staffWorkload {
		sw[k] = v
	}
	return ResourceStats{RoomUsage: ru, StaffWorkload: sw, MinRoomsHint: rm.MinRoomsHint(blocks)}
}

// MinRoomsHint computes, for each staff member appearing in blocks,
// the minimum number of distinct candidate rooms that together cover
// every one of that staff member's blocks (teacher's findMinRooms in
// search.go, informational only: never consulted by
// CandidateRooms/CandidateSlots or scoring).
func (rm *ResourceManager) MinRoomsHint(blocks []*Block) map[int]int {
	byStaff := make(map[int][]*Block)
	for _, b := range blocks {
		staffID := b.Staff.StaffID()
		byStaff[staffID] = append(byStaff[staffID], b)
	}
	hints := make(map[int]int, len(byStaff))
	for staffID, staffBlocks := range byStaff {
		hints[staffID] = rm.minRoomsForBlocks(staffBlocks)
	}
	return hints
}

// minRoomsForBlocks finds the smallest k such that some k-subset of
// the union of candidate rooms across blocks hits every block's
// candidate set, a minimum hitting-set search over a small pool.
func (rm *ResourceManager) minRoomsForBlocks(blocks []*Block) int {
	roomSet := make(map[RoomKey]bool)
	blockRooms := make([]map[RoomKey]bool, len(blocks))
	for i, b := range blocks {
		set := make(map[RoomKey]bool)
		for _, r := range rm.CandidateRooms(b) {
			key := roomKeyOf(r)
			roomSet[key] = true
			set[key] = true
		}
		blockRooms[i] = set
	}
	keys := make([]RoomKey, 0, len(roomSet))
	for k := range roomSet {
		keys = append(keys, k)
	}
	for k := 1; k <= len(keys); k++ {
		if canCoverWithK(keys, blockRooms, k) {
			return k
		}
	}
	return len(keys)
}

// canCoverWithK reports whether some k-element subset of keys hits
// every set in blockRooms, via recursive backtracking over
// combinations (teacher's nChooseKInit/nChooseKNext pattern in
// search.go).
func canCoverWithK(keys []RoomKey, blockRooms []map[RoomKey]bool, k int) bool {
	n := len(keys)
	if k >= n {
		return true
	}
	combo := make([]int, k)
	var try func(start, depth int) bool
	try = func(start, depth int) bool {
		if depth == k {
			return coversAll(keys, combo, blockRooms)
		}
		for i := start; i < n; i++ {
			combo[depth] = i
			if try(i+1, depth+1) {
				return true
			}
		}
		return false
	}
	return try(0, 0)
}

func coversAll(keys []RoomKey, combo []int, blockRooms []map[RoomKey]bool) bool {
	for _, set := range blockRooms {
		covered := false
		for _, idx := range combo {
			if set[keys[idx]] {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}
