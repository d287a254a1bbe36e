package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// scheduleMetadata is the "metadata" block of the rendered JSON
// (spec.md §6).
type scheduleMetadata struct {
	TotalSessions      int    `json:"total_sessions"`
	TotalCourses       int    `json:"total_courses"`
	TotalRooms         int    `json:"total_rooms"`
	TotalStaff         int    `json:"total_staff"`
	GenerationTimestamp string `json:"generation_timestamp"`
}

type roomJSON struct {
	CompositeID                string  `json:"composite_id"`
	ID                         int     `json:"id"`
	Name                       string  `json:"name"`
	Capacity                   int     `json:"capacity"`
	Type                       string  `json:"type"`
	LabType                    *string `json:"lab_type,omitempty"`
	UsedInNonSpecialistCourses *bool   `json:"used_in_non_specialist_courses,omitempty"`
}

type staffJSON struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Department     string `json:"department"`
	AcademicDegree string `json:"academic_degree"`
	IsPermanent    bool   `json:"is_permanent"`
}

type groupInfoJSON struct {
	GroupNumber int `json:"group_number"`
	TotalGroups int `json:"total_groups"`
}

type timeSlotJSON struct {
	Day       string `json:"day"`
	DayIndex  int    `json:"day_index"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type scheduleEntryJSON struct {
	BlockID       string        `json:"block_id"`
	CourseCode    string        `json:"course_code"`
	SessionType   string        `json:"session_type"`
	GroupInfo     groupInfoJSON `json:"group_info"`
	Room          roomJSON      `json:"room"`
	Staff         staffJSON     `json:"staff"`
	TimeSlot      timeSlotJSON  `json:"time_slot"`
	StudentCount  int           `json:"student_count"`
	AcademicList  string        `json:"academic_list"`
	AcademicLevel int           `json:"academic_level"`
}

type scheduleJSON struct {
	Metadata scheduleMetadata    `json:"metadata"`
	Schedule []scheduleEntryJSON `json:"schedule"`
}

// hourString renders an integer hour as "HH:MM".
func hourString(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func roomToJSON(r Room) roomJSON {
	rk := roomKeyOf(r)
	out := roomJSON{
		CompositeID: rk.compositeID(),
		ID:          r.RoomID(),
		Name:        r.RoomName(),
		Capacity:    r.RoomCapacity(),
		Type:        rk.Kind.String(),
	}
	if lab, ok := r.(*Lab); ok {
		lt := lab.LabType.String()
		out.LabType = &lt
		used := lab.UsedInNonSpecialistCourses
		out.UsedInNonSpecialistCourses = &used
	}
	return out
}

func staffToJSON(s StaffMember) staffJSON {
	return staffJSON{
		ID:             s.StaffID(),
		Name:           s.StaffName(),
		Department:     s.StaffDepartment(),
		AcademicDegree: s.Degree().Name,
		IsPermanent:    s.Permanent(),
	}
}

// RenderScheduleJSON produces the JSON structure from spec.md §6 for
// the final assignment map.
func RenderScheduleJSON(assignments map[string]*Assignment, totalRooms, totalStaff int, now time.Time) ([]byte, error) {
	courseSet := make(map[string]bool)
	entries := make([]scheduleEntryJSON, 0, len(assignments))
	for _, a := range assignments {
		courseSet[a.Block.CourseCode] = true
		entries = append(entries, scheduleEntryJSON{
			BlockID:     a.Block.ID,
			CourseCode:  a.Block.CourseCode,
			SessionType: a.Block.Type.String(),
			GroupInfo: groupInfoJSON{
				GroupNumber: a.Block.GroupNumber,
				TotalGroups: a.Block.TotalGroups,
			},
			Room:  roomToJSON(a.Room),
			Staff: staffToJSON(a.Block.Staff),
			TimeSlot: timeSlotJSON{
				Day:       a.TimeSlot.Day.String(),
				DayIndex:  int(a.TimeSlot.Day),
				StartTime: hourString(a.TimeSlot.StartHour),
				EndTime:   hourString(a.TimeSlot.EndHour),
			},
			StudentCount:  a.Block.StudentCount,
			AcademicList:  a.Block.AcademicList,
			AcademicLevel: a.Block.AcademicLevel,
		})
	}

	doc := scheduleJSON{
		Metadata: scheduleMetadata{
			TotalSessions:       len(entries),
			TotalCourses:        len(courseSet),
			TotalRooms:          totalRooms,
			TotalStaff:          totalStaff,
			GenerationTimestamp: now.UTC().Format(time.RFC3339),
		},
		Schedule: entries,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// submissionTimeSlot is the upstream submission format's nested
// time_slot (spec.md §6): day is lowercased there, unlike the report
// rendering above.
type submissionTimeSlot struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type submissionGroupInfo struct {
	GroupNumber int `json:"group_number"`
	TotalGroups int `json:"total_groups"`
}

type submissionEntry struct {
	CourseID      int                 `json:"course_id"`
	SessionType   string              `json:"session_type"`
	GroupInfo     submissionGroupInfo `json:"group_info"`
	HallID        *int                `json:"hall_id,omitempty"`
	LabID         *int                `json:"lab_id,omitempty"`
	LecturerID    int                 `json:"lecturer_id"`
	TimeSlot      submissionTimeSlot  `json:"time_slot"`
	StudentCount  int                 `json:"student_count"`
	AcademicID    int                 `json:"academic_id"`
	AcademicLevel int                 `json:"academic_level"`
	DepartmentID  int                 `json:"department_id"`
}

// SubmissionPayload is the wrapper the upstream REST service expects
// (spec.md §6).
type SubmissionPayload struct {
	NameEn   string            `json:"nameEn"`
	NameAr   string            `json:"nameAr"`
	Schedule []submissionEntry `json:"schedule"`
}

// BuildSubmissionPayload maps the final assignment map to the
// upstream submission format. academicID is looked up by the caller's
// academic-list id table since that id is not carried on the
// in-memory domain types (the scheduler only needs the list's name
// internally). department_id, by contrast, comes straight off the
// block: it is the owning academic list's department
// (original_source/utils/api_schedule.py:
// `block.academic_list_object.department.id`), not the staff member's
// department, so Block.Department (flattened from StudyPlan.Department
// at block-expansion time) is authoritative.
func BuildSubmissionPayload(nameEn, nameAr string, assignments map[string]*Assignment, academicID func(academicList string) int) SubmissionPayload {
	entries := make([]submissionEntry, 0, len(assignments))
	for _, a := range assignments {
		entry := submissionEntry{
			CourseID:    a.Block.CourseAssignment.Course.ID,
			SessionType: a.Block.Type.String(),
			GroupInfo: submissionGroupInfo{
				GroupNumber: a.Block.GroupNumber,
				TotalGroups: a.Block.TotalGroups,
			},
			LecturerID: a.Block.Staff.StaffID(),
			TimeSlot: submissionTimeSlot{
				Day:       strings.ToLower(a.TimeSlot.Day.String()),
				StartTime: hourString(a.TimeSlot.StartHour),
				EndTime:   hourString(a.TimeSlot.EndHour),
			},
			StudentCount:  a.Block.StudentCount,
			AcademicID:    academicID(a.Block.AcademicList),
			AcademicLevel: a.Block.AcademicLevel,
			DepartmentID:  a.Block.Department.ID,
		}
		switch a.Block.RequiredRoomKind {
		case RoomKindHall:
			id := a.Room.RoomID()
			entry.HallID = &id
		case RoomKindLab:
			id := a.Room.RoomID()
			entry.LabID = &id
		}
		entries = append(entries, entry)
	}
	return SubmissionPayload{NameEn: nameEn, NameAr: nameAr, Schedule: entries}
}
