package main

import (
	"fmt"
	"sort"
)

type levelKey struct {
	AcademicList string
	Level        int
}

type studyPlanKey struct {
	AcademicList string
	Level        int
	Day          Day
	StartHour    int
}

// schedulerState holds the five indices from spec.md §3 as plain
// maps rather than a persistent/copy-on-write structure. Reset
// replaces them with fresh empty maps; MakeAssignment deep-copies the
// whole state via clone() before every commit.
type schedulerState struct {
	roomBookings   map[RoomKey]map[TimeSlot]string // (kind,id) -> (day,start) -> block id
	staffBookings  map[int]map[TimeSlot]string     // staff id -> (day,start) -> block id
	courseSlots    map[string]map[TimeSlot]int     // course code -> (day,start) -> count
	levelSlots     map[levelKey]map[Day][]int      // (list,level) -> day -> sorted start hours
	studyPlanSlots map[studyPlanKey][]string       // (list,level,day,start) -> block ids
}

func newSchedulerState() *schedulerState {
	return &schedulerState{
		roomBookings:   make(map[RoomKey]map[TimeSlot]string),
		staffBookings:  make(map[int]map[TimeSlot]string),
		courseSlots:    make(map[string]map[TimeSlot]int),
		levelSlots:     make(map[levelKey]map[Day][]int),
		studyPlanSlots: make(map[studyPlanKey][]string),
	}
}

// clone deep-copies the state for snapshot/rollback (spec.md §4.2.1
// step 2, §9).
func (s *schedulerState) clone() *schedulerState {
	out := newSchedulerState()
	for rk, m := range s.roomBookings {
		mm := make(map[TimeSlot]string, len(m))
		for k, v := range m {
			mm[k] = v
		}
		out.roomBookings[rk] = mm
	}
	for sid, m := range s.staffBookings {
		mm := make(map[TimeSlot]string, len(m))
		for k, v := range m {
			mm[k] = v
		}
		out.staffBookings[sid] = mm
	}
	for cc, m := range s.courseSlots {
		mm := make(map[TimeSlot]int, len(m))
		for k, v := range m {
			mm[k] = v
		}
		out.courseSlots[cc] = mm
	}
	for lk, m := range s.levelSlots {
		mm := make(map[Day][]int, len(m))
		for k, v := range m {
			cp := make([]int, len(v))
			copy(cp, v)
			mm[k] = cp
		}
		out.levelSlots[lk] = mm
	}
	for spk, v := range s.studyPlanSlots {
		cp := make([]string, len(v))
		copy(cp, v)
		out.studyPlanSlots[spk] = cp
	}
	return out
}

// ConstraintManager owns the booking state and the assignment map. It
// is the single source of truth the engine mutates through
// MakeAssignment/Reset; all other components treat it as read-only
// (spec.md §4.2, §5).
type ConstraintManager struct {
	cfg         Config
	state       *schedulerState
	assignments map[string]*Assignment
	sink        ProgressSink
}

// NewConstraintManager builds an empty constraint manager.
func NewConstraintManager(cfg Config, sink ProgressSink) *ConstraintManager {
	if sink == nil {
		sink = NewNoopSink()
	}
	return &ConstraintManager{
		cfg:         cfg,
		state:       newSchedulerState(),
		assignments: make(map[string]*Assignment),
		sink:        sink,
	}
}

// Reset wipes all five indices and the assignment map. Called at the
// start of every attempt; outside an attempt no state persists
// (spec.md §3 Lifecycle).
func (cm *ConstraintManager) Reset() {
	cm.state = newSchedulerState()
	cm.assignments = make(map[string]*Assignment)
}

// Assignments returns a read-only copy for the engine.
func (cm *ConstraintManager) Assignments() map[string]*Assignment {
	out := make(map[string]*Assignment, len(cm.assignments))
	for k, v := range cm.assignments {
		out[k] = v
	}
	return out
}

// CanAssign runs every hard constraint in order and returns the first
// violation description, or ok (spec.md §4.2.1, §4.2.2). It never
// mutates state.
func (cm *ConstraintManager) CanAssign(block *Block, slot TimeSlot, room Room) (bool, string) {
	norm := normalizeSlot(slot)

	// H1: no double room booking.
	if booked, ok := cm.state.roomBookings[roomKeyOf(room)]; ok {
		if _, taken := booked[norm]; taken {
			return false, "room double-book"
		}
	}

	// H2: no double staff booking.
	if booked, ok := cm.state.staffBookings[block.Staff.StaffID()]; ok {
		if _, taken := booked[norm]; taken {
			return false, "staff double-book"
		}
	}

	// H3: room availability window covers the slot.
	if !cm.roomCoversSlot(room, slot) {
		return false, "room unavailable"
	}

	// H4: single-group cohort conflict.
	if !cm.singleGroupOK(block, norm) {
		return false, "cohort collision"
	}

	// H5: lab/hall matching and specialization.
	if !cm.roomKindOK(block, room) {
		return false, "wrong room class"
	}

	return true, ""
}

func (cm *ConstraintManager) roomCoversSlot(room Room, slot TimeSlot) bool {
	for _, av := range room.RoomAvailability() {
		if av.Day == slot.Day && av.StartHour <= slot.StartHour && av.EndHour >= slot.EndHour {
			return true
		}
	}
	return false
}

func (cm *ConstraintManager) singleGroupOK(block *Block, norm TimeSlot) bool {
	key := studyPlanKey{AcademicList: block.AcademicList, Level: block.AcademicLevel, Day: norm.Day, StartHour: norm.StartHour}
	existingIDs, ok := cm.state.studyPlanSlots[key]
	if !ok || len(existingIDs) == 0 {
		return true
	}

	if block.IsSingleGroupCourse {
		return false
	}

	for _, id := range existingIDs {
		a, ok := cm.assignments[id]
		if !ok {
			continue
		}
		other := a.Block
		if other.IsSingleGroupCourse {
			return false
		}
		if other.CourseCode == block.CourseCode {
			if block.TotalGroups == 1 || other.TotalGroups == 1 {
				return false
			}
		}
	}
	return true
}

func (cm *ConstraintManager) roomKindOK(block *Block, room Room) bool {
	switch block.RequiredRoomKind {
	case RoomKindLab:
		lab, ok := room.(*Lab)
		if !ok {
			return false
		}
		if len(block.PreferredRooms) > 0 {
			for _, pr := range block.PreferredRooms {
				if roomKeyOf(pr) == roomKeyOf(room) {
					return true
				}
			}
			return false
		}
		return lab.UsedInNonSpecialistCourses
	case RoomKindHall:
		_, ok := room.(*Hall)
		return ok
	}
	return false
}

// MakeAssignment atomically checks and commits an assignment
// (spec.md §4.2.1): snapshot, re-verify against stored assignments,
// apply to every index, and roll back on any failure.
func (cm *ConstraintManager) MakeAssignment(blockID string, a *Assignment) bool {
	if _, exists := cm.assignments[blockID]; exists {
		cm.sink.OnLog(LogWarn, "block already assigned, skipping", map[string]interface{}{"block_id": blockID})
		return false
	}

	stateSnapshot := cm.state.clone()
	assignmentsSnapshot := make(map[string]*Assignment, len(cm.assignments))
	for k, v := range cm.assignments {
		assignmentsSnapshot[k] = v
	}

	if err := cm.applyAssignment(blockID, a); err != nil {
		cm.state = stateSnapshot
		cm.assignments = assignmentsSnapshot
		cm.sink.OnLog(LogError, "assignment failed, rolled back", map[string]interface{}{"block_id": blockID, "error": err.Error()})
		return false
	}
	return true
}

// applyAssignment is the unrolled-back half of MakeAssignment; any
// error here triggers the caller's rollback.
func (cm *ConstraintManager) applyAssignment(blockID string, a *Assignment) error {
	norm := normalizeSlot(a.TimeSlot)
	rk := roomKeyOf(a.Room)
	staffID := a.Block.Staff.StaffID()

	// defensive re-check against stale CanAssign results.
	for id, existing := range cm.assignments {
		if normalizeSlot(existing.TimeSlot) != norm {
			continue
		}
		if roomKeyOf(existing.Room) == rk {
			return fmt.Errorf("room %s already booked at %s (block %s)", a.Room.RoomName(), norm, id)
		}
		if existing.Block.Staff.StaffID() == staffID {
			return fmt.Errorf("staff %s already booked at %s (block %s)", a.Block.Staff.StaffName(), norm, id)
		}
	}

	if _, exists := cm.assignments[blockID]; exists {
		return fmt.Errorf("block %s already assigned", blockID)
	}

	cm.assignments[blockID] = a

	if cm.state.roomBookings[rk] == nil {
		cm.state.roomBookings[rk] = make(map[TimeSlot]string)
	}
	if existing, ok := cm.state.roomBookings[rk][norm]; ok {
		return fmt.Errorf("room conflict: %s at %s already has %s", rk, norm, existing)
	}
	cm.state.roomBookings[rk][norm] = blockID

	if cm.state.staffBookings[staffID] == nil {
		cm.state.staffBookings[staffID] = make(map[TimeSlot]string)
	}
	if existing, ok := cm.state.staffBookings[staffID][norm]; ok {
		return fmt.Errorf("staff conflict: %d at %s already has %s", staffID, norm, existing)
	}
	cm.state.staffBookings[staffID][norm] = blockID

	if cm.state.courseSlots[a.Block.CourseCode] == nil {
		cm.state.courseSlots[a.Block.CourseCode] = make(map[TimeSlot]int)
	}
	cm.state.courseSlots[a.Block.CourseCode][norm]++

	lk := levelKey{AcademicList: a.Block.AcademicList, Level: a.Block.AcademicLevel}
	if cm.state.levelSlots[lk] == nil {
		cm.state.levelSlots[lk] = make(map[Day][]int)
	}
	cm.state.levelSlots[lk][norm.Day] = append(cm.state.levelSlots[lk][norm.Day], norm.StartHour)
	sort.Ints(cm.state.levelSlots[lk][norm.Day])

	spk := studyPlanKey{AcademicList: a.Block.AcademicList, Level: a.Block.AcademicLevel, Day: norm.Day, StartHour: norm.StartHour}
	cm.state.studyPlanSlots[spk] = append(cm.state.studyPlanSlots[spk], blockID)

	return nil
}

// SoftScore is the weighted sum of S1-S4 (spec.md §4.2.3).
func (cm *ConstraintManager) SoftScore(block *Block, slot TimeSlot, room Room) float64 {
	total := 0.0
	total += cm.cfg.WeightLecturerPreference * cm.scoreLecturerPreference(block, slot)
	total += cm.cfg.WeightTAPreference * cm.scoreTAPreference(block, slot)
	total += cm.cfg.WeightGapMinimization * cm.scoreGaps(block, slot)
	total += cm.cfg.WeightRoomUtilization * cm.scoreRoomUtilization(block, room)
	return total
}

func (cm *ConstraintManager) scoreLecturerPreference(block *Block, slot TimeSlot) float64 {
	if _, ok := block.Staff.(*Lecturer); !ok {
		return 0.0
	}
	norm := normalizeSlot(slot)
	for _, p := range block.Staff.TimingPreferences() {
		if normalizeSlot(p) == norm {
			return 1.0
		}
	}
	return 0.0
}

func (cm *ConstraintManager) scoreTAPreference(block *Block, slot TimeSlot) float64 {
	if _, ok := block.Staff.(*TeachingAssistant); !ok {
		return 0.0
	}
	norm := normalizeSlot(slot)
	for _, p := range block.Staff.TimingPreferences() {
		if normalizeSlot(p) == norm {
			return 1.0
		}
	}
	return 0.0
}

// scoreGaps reproduces the source's gap computation verbatim,
// including its mild bias against placing a solitary new slot far
// from existing ones (spec.md §9 Open Questions).
func (cm *ConstraintManager) scoreGaps(block *Block, slot TimeSlot) float64 {
	lk := levelKey{AcademicList: block.AcademicList, Level: block.AcademicLevel}
	daySlots, ok := cm.state.levelSlots[lk]
	if !ok {
		return 1.0
	}
	hours, ok := daySlots[slot.Day]
	if !ok || len(hours) == 0 {
		return 1.0
	}

	sorted := make([]int, len(hours))
	copy(sorted, hours)
	sort.Ints(sorted)

	maxGap := 0
	for i := 0; i+1 < len(sorted); i++ {
		if gap := sorted[i+1] - sorted[i]; gap > maxGap {
			maxGap = gap
		}
	}

	minH, maxH := sorted[0], sorted[len(sorted)-1]
	if beforeGap := absInt(slot.StartHour - minH); beforeGap > maxGap {
		maxGap = beforeGap
	}
	if afterGap := absInt(slot.StartHour - maxH); afterGap > maxGap {
		maxGap = afterGap
	}

	switch {
	case maxGap <= 2:
		return 1.0
	case maxGap <= 4:
		return 0.5
	default:
		return 0.0
	}
}

func (cm *ConstraintManager) scoreRoomUtilization(block *Block, room Room) float64 {
	u := float64(block.StudentCount) / float64(room.RoomCapacity())
	switch {
	case u > 1.0:
		return 0.0
	case u >= 0.5 && u <= 0.9:
		return 1.0
	case u >= 0.3 && u < 0.5:
		return 0.7
	case u > 0.9 && u <= 1.0:
		return 0.7
	default: // u < 0.3
		return 0.3
	}
}

// studentScheduleConflict is the stricter, stateless cohort check
// from the original source's check_student_schedule_conflict, used
// only by the post-hoc validator (SPEC_FULL.md §6 supplemented
// features) — distinct from the stateful H4 used during placement.
func studentScheduleConflict(block *Block, slot TimeSlot, assignments map[string]*Assignment) bool {
	norm := normalizeSlot(slot)
	for _, existing := range assignments {
		other := existing.Block
		if other.AcademicList != block.AcademicList || other.AcademicLevel != block.AcademicLevel {
			continue
		}
		if normalizeSlot(existing.TimeSlot) != norm {
			continue
		}
		if other.CourseCode != block.CourseCode {
			return true
		}
		if other.Type != block.Type {
			return true
		}
		if other.GroupNumber == block.GroupNumber {
			return true
		}
	}
	return false
}
