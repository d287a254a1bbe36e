package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderScheduleJSONStructure(t *testing.T) {
	slot := TimeSlot{Day: Sunday, StartHour: 9, EndHour: 11}
	room := sampleHall(1, 30, []TimeSlot{slot})
	lec := NewLecturer(1, "Dr. A", "CS", nil, AcademicDegree{ID: 1, Name: "Professor"}, true)
	block := &Block{
		ID: "L_CS101_1_1", CourseCode: "CS101", Type: BlockLecture, Staff: lec,
		StudentCount: 20, RequiredRoomKind: RoomKindHall, GroupNumber: 1, TotalGroups: 1,
		AcademicList: "SWE", AcademicLevel: 1,
	}
	assignments := map[string]*Assignment{"L_CS101_1_1": {Block: block, TimeSlot: slot, Room: room}}

	doc, err := RenderScheduleJSON(assignments, 1, 1, time.Unix(0, 0))
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(doc, &parsed))

	metadata := parsed["metadata"].(map[string]interface{})
	assert.Equal(t, float64(1), metadata["total_sessions"])
	assert.Equal(t, float64(1), metadata["total_courses"])

	schedule := parsed["schedule"].([]interface{})
	require.Len(t, schedule, 1)
	entry := schedule[0].(map[string]interface{})
	assert.Equal(t, "CS101", entry["course_code"])
	assert.Equal(t, "lecture", entry["session_type"])

	roomJSON := entry["room"].(map[string]interface{})
	assert.Equal(t, "hall_1", roomJSON["composite_id"])

	ts := entry["time_slot"].(map[string]interface{})
	assert.Equal(t, "SUNDAY", ts["day"])
	assert.Equal(t, "09:00", ts["start_time"])
}

func TestBuildSubmissionPayloadLowercasesDay(t *testing.T) {
	slot := TimeSlot{Day: Monday, StartHour: 11, EndHour: 13}
	lab := &Lab{ID: 407, Name: "L407", Capacity: 20, LabType: LabTypeSpecialist}
	ta := NewTeachingAssistant(2, "B", "CS", nil, AcademicDegree{ID: 4}, false)
	block := &Block{
		ID: "P_CS101_2_1", CourseCode: "CS101", Type: BlockLab, Staff: ta,
		StudentCount: 15, RequiredRoomKind: RoomKindLab, GroupNumber: 1, TotalGroups: 1,
		AcademicList: "SWE", AcademicLevel: 1, Department: Department{ID: 2, Name: "CS"},
		CourseAssignment: &CourseAssignment{Course: Course{ID: 9}},
	}
	assignments := map[string]*Assignment{"P_CS101_2_1": {Block: block, TimeSlot: slot, Room: lab}}

	payload := BuildSubmissionPayload("Fall 2026", "خريف 2026", assignments, func(string) int { return 1 })
	require.Len(t, payload.Schedule, 1)
	entry := payload.Schedule[0]
	assert.Equal(t, "monday", entry.TimeSlot.Day)
	require.NotNil(t, entry.LabID)
	assert.Equal(t, 407, *entry.LabID)
	assert.Nil(t, entry.HallID)
	assert.Equal(t, 9, entry.CourseID)
	assert.Equal(t, 2, entry.DepartmentID)
}
