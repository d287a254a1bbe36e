package main

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// SchedulingEngine expands course assignments into blocks and runs
// the priority-ordered greedy placement loop with multi-attempt
// restart (spec.md §4.3).
type SchedulingEngine struct {
	cfg  Config
	rm   *ResourceManager
	cm   *ConstraintManager
	sink ProgressSink
}

// NewSchedulingEngine wires a resource manager and constraint manager
// together under a shared config and progress sink.
func NewSchedulingEngine(cfg Config, rm *ResourceManager, cm *ConstraintManager, sink ProgressSink) *SchedulingEngine {
	if sink == nil {
		sink = NewNoopSink()
	}
	return &SchedulingEngine{cfg: cfg, rm: rm, cm: cm, sink: sink}
}

// RunResult is what a completed scheduling run hands back to the
// caller: the best assignment map found, its run id, and bookkeeping
// about how many attempts it took and which blocks never placed.
type RunResult struct {
	RunID       string
	Assignments map[string]*Assignment
	Attempts    int
	TotalBlocks int
	PlacedCount int
	BestScore   float64
	Unplaced    []string
}

// ExpandBlocks converts every study plan's course assignments into
// atomic blocks (spec.md §4.3.1): one per lecture group per
// lecturer-portion, one per lab group per TA-portion.
func ExpandBlocks(plans []StudyPlan) []*Block {
	var blocks []*Block
	for pi := range plans {
		plan := &plans[pi]
		for ci := range plan.CourseAssignments {
			ca := &plan.CourseAssignments[ci]
			blocks = append(blocks, expandCourseAssignment(plan, ca)...)
		}
	}
	return blocks
}

func expandCourseAssignment(plan *StudyPlan, ca *CourseAssignment) []*Block {
	var blocks []*Block

	lectureStudentCount := 0
	if ca.LectureGroups > 0 {
		lectureStudentCount = plan.ExpectedStudents / ca.LectureGroups
	}
	group := 0
	for _, portion := range ca.Lecturers {
		for i := 0; i < portion.NumOfGroups; i++ {
			group++
			requiredKind := RoomKindHall
			blocks = append(blocks, &Block{
				ID:                  fmt.Sprintf("L_%s_%d_%d", ca.Course.Code, portion.Staff.StaffID(), group),
				CourseCode:          ca.Course.Code,
				CourseAssignment:    ca,
				Type:                BlockLecture,
				Staff:               portion.Staff,
				StudentCount:        lectureStudentCount,
				RequiredRoomKind:    requiredKind,
				GroupNumber:         group,
				TotalGroups:         ca.LectureGroups,
				IsSingleGroupCourse: ca.LectureGroups == 1,
				AcademicList:        plan.AcademicList,
				AcademicLevel:       plan.AcademicLevel,
				Department:          plan.Department,
				PreferredRooms:      ca.PreferredRooms,
			})
		}
	}

	if ca.LabGroups <= 0 {
		return blocks
	}

	labStudentCount := plan.ExpectedStudents / ca.LabGroups
	requiredKind := RoomKindLab
	if !ca.PracticalInLab {
		requiredKind = RoomKindHall
	}
	labGroup := 0
	for _, portion := range ca.TeachingAssistants {
		for i := 0; i < portion.NumOfGroups; i++ {
			labGroup++
			blocks = append(blocks, &Block{
				ID:                  fmt.Sprintf("P_%s_%d_%d", ca.Course.Code, portion.Staff.StaffID(), labGroup),
				CourseCode:          ca.Course.Code,
				CourseAssignment:    ca,
				Type:                BlockLab,
				Staff:               portion.Staff,
				StudentCount:        labStudentCount,
				RequiredRoomKind:    requiredKind,
				GroupNumber:         labGroup,
				TotalGroups:         ca.LabGroups,
				IsSingleGroupCourse: ca.LabGroups == 1,
				AcademicList:        plan.AcademicList,
				AcademicLevel:       plan.AcademicLevel,
				Department:          plan.Department,
				PreferredRooms:      ca.PreferredRooms,
			})
		}
	}
	return blocks
}

type blockPriority struct {
	block      *Block
	numRooms   int
	totalSlots int
	heuristic  float64
}

// priorityOrder sorts blocks descending by the key in spec.md §4.3.2
// so the most-constrained blocks are placed first. It is computed
// fresh at the start of every attempt against the (freshly reset,
// therefore empty) constraint manager state.
func (e *SchedulingEngine) priorityOrder(blocks []*Block) []*Block {
	priorities := make([]blockPriority, len(blocks))
	emptyAssignments := map[string]*Assignment{}
	for i, b := range blocks {
		rooms := e.rm.CandidateRooms(b)
		total := 0
		for _, r := range rooms {
			total += len(e.rm.CandidateSlots(b, r, emptyAssignments))
		}
		priorities[i] = blockPriority{
			block:      b,
			numRooms:   len(rooms),
			totalSlots: total,
			heuristic:  heuristicScore(b),
		}
	}

	sort.SliceStable(priorities, func(i, j int) bool {
		a, bb := priorities[i], priorities[j]
		if a.block.IsSingleGroupCourse != bb.block.IsSingleGroupCourse {
			return a.block.IsSingleGroupCourse
		}
		if a.numRooms != bb.numRooms {
			return a.numRooms < bb.numRooms
		}
		if a.totalSlots != bb.totalSlots {
			return a.totalSlots < bb.totalSlots
		}
		return a.heuristic > bb.heuristic
	})

	out := make([]*Block, len(priorities))
	for i, p := range priorities {
		out[i] = p.block
	}
	return out
}

func heuristicScore(b *Block) float64 {
	score := 0.0
	if b.IsSingleGroupCourse {
		score += 20
	}
	if _, ok := b.Staff.(*Lecturer); ok {
		score += 15
	}
	if len(b.PreferredRooms) > 0 {
		score += 10
	}
	if b.RequiredRoomKind == RoomKindLab {
		score += 8
	}
	score += float64(b.StudentCount) / 100.0
	return score
}

// Run executes the priority-ordered greedy placement loop with
// restart (spec.md §4.3.3) and final verification (§4.3.4).
func (e *SchedulingEngine) Run(plans []StudyPlan) (*RunResult, error) {
	blocks := ExpandBlocks(plans)
	total := len(blocks)
	runID := uuid.NewString()

	e.sink.OnProgress(0, total, "initializing", 0)

	var best map[string]*Assignment
	bestScore := 0.0
	bestCount := 0
	attemptsRun := 0
	var bestUnplaced []string

	for attempt := 0; attempt < e.cfg.MaxAttempts; attempt++ {
		attemptsRun = attempt + 1
		e.cm.Reset()
		e.rm.ResetUsage()

		ordered := e.priorityOrder(blocks)

		placed := 0
		var unplaced []string
		corrupted := false
		for _, block := range ordered {
			assignment, ok := e.placeSingleBlock(block)
			if !ok {
				unplaced = append(unplaced, block.ID)
				e.sink.OnLog(LogWarn, "block unplaceable this attempt", map[string]interface{}{"block_id": block.ID, "attempt": attemptsRun})
				continue
			}
			if e.cm.MakeAssignment(block.ID, assignment) {
				placed++
				e.rm.RecordUsage(assignment)
				e.sink.OnProgress(placed, total, "scheduling", attemptsRun)
			} else {
				e.sink.OnLog(LogError, "state corruption committing block, abandoning attempt", map[string]interface{}{"block_id": block.ID, "attempt": attemptsRun})
				corrupted = true
				break
			}
		}
		if corrupted {
			continue
		}

		current := e.cm.Assignments()
		score := meanSoftScore(e.cm, current)

		if placed > bestCount || (placed == bestCount && score > bestScore) {
			best = current
			bestScore = score
			bestCount = placed
			bestUnplaced = unplaced
			e.sink.OnLog(LogInfo, "new best attempt", map[string]interface{}{"attempt": attemptsRun, "placed": placed, "score": score})
		}

		if placed == total && score >= e.cfg.EarlyStopScore {
			e.sink.OnProgress(placed, total, "completed", attemptsRun)
			break
		}
	}

	if best == nil {
		return nil, &NoSchedule{Attempts: attemptsRun}
	}

	if !e.verifyFinalSchedule(best) {
		e.sink.OnLog(LogError, "final verification found a double-booking", map[string]interface{}{"run_id": runID})
	}

	return &RunResult{
		RunID:       runID,
		Assignments: best,
		Attempts:    attemptsRun,
		TotalBlocks: total,
		PlacedCount: bestCount,
		BestScore:   bestScore,
		Unplaced:    bestUnplaced,
	}, nil
}

func (e *SchedulingEngine) placeSingleBlock(block *Block) (*Assignment, bool) {
	live := e.cm.Assignments()
	for _, room := range e.rm.CandidateRooms(block) {
		for _, slot := range e.rm.CandidateSlots(block, room, live) {
			if ok, _ := e.cm.CanAssign(block, slot, room); ok {
				return &Assignment{Block: block, TimeSlot: slot, Room: room}, true
			}
		}
	}
	return nil, false
}

func meanSoftScore(cm *ConstraintManager, assignments map[string]*Assignment) float64 {
	if len(assignments) == 0 {
		return 0.0
	}
	total := 0.0
	for _, a := range assignments {
		total += cm.SoftScore(a.Block, a.TimeSlot, a.Room)
	}
	return total / float64(len(assignments))
}

// verifyFinalSchedule re-walks every assignment rebuilding per-slot
// room and staff sets from scratch (spec.md §4.3.4). A failure here
// is a programming error (I7 violated), logged but not fatal to the
// returned map.
func (e *SchedulingEngine) verifyFinalSchedule(assignments map[string]*Assignment) bool {
	type slotKey struct {
		Day       Day
		StartHour int
	}
	roomsUsed := make(map[slotKey]map[RoomKey]bool)
	staffUsed := make(map[slotKey]map[int]bool)

	ok := true
	for id, a := range assignments {
		norm := normalizeSlot(a.TimeSlot)
		sk := slotKey{Day: norm.Day, StartHour: norm.StartHour}
		rk := roomKeyOf(a.Room)
		staffID := a.Block.Staff.StaffID()

		if roomsUsed[sk] == nil {
			roomsUsed[sk] = make(map[RoomKey]bool)
		}
		if roomsUsed[sk][rk] {
			e.sink.OnLog(LogError, "room double-booking detected in final verification", map[string]interface{}{"block_id": id, "room": rk.String()})
			ok = false
		}
		roomsUsed[sk][rk] = true

		if staffUsed[sk] == nil {
			staffUsed[sk] = make(map[int]bool)
		}
		if staffUsed[sk][staffID] {
			e.sink.OnLog(LogError, "staff double-booking detected in final verification", map[string]interface{}{"block_id": id, "staff_id": staffID})
			ok = false
		}
		staffUsed[sk][staffID] = true
	}
	return ok
}
