package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

// studyPlanDTO mirrors StudyPlan with validator struct tags so the
// numeric invariants from spec.md §3 (expected_students > 0,
// academic_level >= 1, capacity > 0, non-empty availability) are
// enforced declaratively rather than by hand, matching the pack's
// go-playground/validator convention (noah-isme-sma-adp-api).
type studyPlanDTO struct {
	Name             string `validate:"required"`
	AcademicList     string `validate:"required"`
	AcademicLevel    int    `validate:"min=1"`
	ExpectedStudents int    `validate:"min=1"`
}

type roomDTO struct {
	ID           int `validate:"min=0"`
	Capacity     int `validate:"min=1"`
	Availability int `validate:"min=1"` // length of the availability slice
}

type staffDTO struct {
	ID         int `validate:"min=0"`
	DegreeID   int `validate:"min=1"`
}

var structValidator = validator.New()

// ValidateInput is the pure predicate over the study-plan tree from
// spec.md §1 ("Input-data validation"): the scheduler assumes its
// inputs are already well-formed, so this runs once before the
// engine is ever entered. It folds declarative validator-tag checks
// and the group-sum / degree-id rules the tags cannot express into a
// single InputError.
func ValidateInput(plans []StudyPlan, halls []*Hall, labs []*Lab) error {
	for _, plan := range plans {
		dto := studyPlanDTO{
			Name:             plan.Name,
			AcademicList:     plan.AcademicList,
			AcademicLevel:    plan.AcademicLevel,
			ExpectedStudents: plan.ExpectedStudents,
		}
		if err := structValidator.Struct(dto); err != nil {
			return &InputError{Reason: fmt.Sprintf("study plan %q: %v", plan.Name, err)}
		}
		if len(plan.CourseAssignments) == 0 {
			return &InputError{Reason: fmt.Sprintf("study plan %q has no course assignments", plan.Name)}
		}
		for _, ca := range plan.CourseAssignments {
			if err := validateCourseAssignment(ca); err != nil {
				return err
			}
		}
	}

	for _, h := range halls {
		dto := roomDTO{ID: h.ID, Capacity: h.Capacity, Availability: len(h.Availability)}
		if err := structValidator.Struct(dto); err != nil {
			return &InputError{Reason: fmt.Sprintf("hall %q: %v", h.Name, err)}
		}
	}
	for _, l := range labs {
		dto := roomDTO{ID: l.ID, Capacity: l.Capacity, Availability: len(l.Availability)}
		if err := structValidator.Struct(dto); err != nil {
			return &InputError{Reason: fmt.Sprintf("lab %q: %v", l.Name, err)}
		}
	}

	return nil
}

func validateCourseAssignment(ca CourseAssignment) error {
	if ca.LectureGroups <= 0 {
		return &InputError{Reason: fmt.Sprintf("course %s must have at least one lecture group", ca.Course.Code)}
	}
	if len(ca.Lecturers) == 0 {
		return &InputError{Reason: fmt.Sprintf("course %s must have at least one lecturer assigned", ca.Course.Code)}
	}

	lecturerTotal := 0
	for _, portion := range ca.Lecturers {
		if err := validateStaffDegree(portion.Staff); err != nil {
			return err
		}
		lecturerTotal += portion.NumOfGroups
	}
	if lecturerTotal != ca.LectureGroups {
		return &InputError{Reason: fmt.Sprintf("course %s: lecturer group sum (%d) must equal lecture_groups (%d)", ca.Course.Code, lecturerTotal, ca.LectureGroups)}
	}

	if ca.LabGroups > 0 {
		if len(ca.TeachingAssistants) == 0 {
			return &InputError{Reason: fmt.Sprintf("course %s must assign teaching assistants if lab groups exist", ca.Course.Code)}
		}
		taTotal := 0
		for _, portion := range ca.TeachingAssistants {
			if err := validateStaffDegree(portion.Staff); err != nil {
				return err
			}
			taTotal += portion.NumOfGroups
		}
		if taTotal != ca.LabGroups {
			return &InputError{Reason: fmt.Sprintf("course %s: TA group sum (%d) must equal lab_groups (%d)", ca.Course.Code, taTotal, ca.LabGroups)}
		}
	}

	return nil
}

func validateStaffDegree(s StaffMember) error {
	dto := staffDTO{ID: s.StaffID(), DegreeID: s.Degree().ID}
	if err := structValidator.Struct(dto); err != nil {
		return &InputError{Reason: fmt.Sprintf("staff %s: %v", s.StaffName(), err)}
	}
	return ValidateDegree(s)
}

// ConflictReport is the post-hoc validator's output (spec.md §4.4).
type ConflictReport struct {
	RoomConflicts             []string
	StaffConflicts            []string
	StudentConflicts          []string
	RoomAvailabilityConflicts []string
	CapacityViolations        []string
}

// Empty reports whether no conflicts of any kind were found.
func (r *ConflictReport) Empty() bool {
	return len(r.RoomConflicts) == 0 && len(r.StaffConflicts) == 0 &&
		len(r.StudentConflicts) == 0 && len(r.RoomAvailabilityConflicts) == 0 &&
		len(r.CapacityViolations) == 0
}

// AsError folds every finding into one aggregated error via
// go-multierror (pack: aws-karpenter-provider-aws), or nil if the
// report is empty.
func (r *ConflictReport) AsError() error {
	if r.Empty() {
		return nil
	}
	var result *multierror.Error
	for _, c := range r.RoomConflicts {
		result = multierror.Append(result, fmt.Errorf("ROOM_CONFLICT: %s", c))
	}
	for _, c := range r.StaffConflicts {
		result = multierror.Append(result, fmt.Errorf("STAFF_CONFLICT: %s", c))
	}
	for _, c := range r.StudentConflicts {
		result = multierror.Append(result, fmt.Errorf("STUDENT_CONFLICT: %s", c))
	}
	for _, c := range r.RoomAvailabilityConflicts {
		result = multierror.Append(result, fmt.Errorf("ROOM_AVAILABILITY_CONFLICT: %s", c))
	}
	for _, c := range r.CapacityViolations {
		result = multierror.Append(result, fmt.Errorf("CAPACITY_VIOLATION: %s", c))
	}
	return result.ErrorOrNil()
}

// ValidateSchedule reports every conflict category from spec.md §4.4
// against a final assignment map, independent of whatever the
// constraint manager already enforced during placement.
func ValidateSchedule(assignments map[string]*Assignment) *ConflictReport {
	report := &ConflictReport{}

	type slotKey struct {
		Day       Day
		StartHour int
	}
	roomSeen := make(map[slotKey]map[RoomKey]string)
	staffSeen := make(map[slotKey]map[int]string)

	for id, a := range assignments {
		norm := normalizeSlot(a.TimeSlot)
		sk := slotKey{Day: norm.Day, StartHour: norm.StartHour}
		rk := roomKeyOf(a.Room)
		staffID := a.Block.Staff.StaffID()

		if roomSeen[sk] == nil {
			roomSeen[sk] = make(map[RoomKey]string)
		}
		if other, seen := roomSeen[sk][rk]; seen {
			report.RoomConflicts = append(report.RoomConflicts, fmt.Sprintf("%s and %s both use room %s at %s", id, other, rk, a.TimeSlot))
		} else {
			roomSeen[sk][rk] = id
		}

		if staffSeen[sk] == nil {
			staffSeen[sk] = make(map[int]string)
		}
		if other, seen := staffSeen[sk][staffID]; seen {
			report.StaffConflicts = append(report.StaffConflicts, fmt.Sprintf("%s and %s both use staff %d at %s", id, other, staffID, a.TimeSlot))
		} else {
			staffSeen[sk][staffID] = id
		}

		others := make(map[string]*Assignment, len(assignments)-1)
		for oid, oa := range assignments {
			if oid != id {
				others[oid] = oa
			}
		}
		if studentScheduleConflict(a.Block, a.TimeSlot, others) {
			report.StudentConflicts = append(report.StudentConflicts, fmt.Sprintf("%s conflicts with another block in cohort %s level %d at %s", id, a.Block.AcademicList, a.Block.AcademicLevel, a.TimeSlot))
		}

		if !roomCoversSlotStatic(a.Room, a.TimeSlot) {
			report.RoomAvailabilityConflicts = append(report.RoomAvailabilityConflicts, fmt.Sprintf("%s placed at %s outside room %s availability", id, a.TimeSlot, a.Room.RoomName()))
		}

		if a.Block.StudentCount > a.Room.RoomCapacity() {
			report.CapacityViolations = append(report.CapacityViolations, fmt.Sprintf("%s needs %d seats but room %s has capacity %d", id, a.Block.StudentCount, a.Room.RoomName(), a.Room.RoomCapacity()))
		}
	}

	return report
}

func roomCoversSlotStatic(room Room, slot TimeSlot) bool {
	for _, av := range room.RoomAvailability() {
		if av.Day == slot.Day && av.StartHour <= slot.StartHour && av.EndHour >= slot.EndHour {
			return true
		}
	}
	return false
}
