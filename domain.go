package main

import "fmt"

// Day is a weekday; only Sunday-Thursday are working days in this
// university's calendar.
type Day int

const (
	Sunday Day = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func (d Day) String() string {
	switch d {
	case Sunday:
		return "SUNDAY"
	case Monday:
		return "MONDAY"
	case Tuesday:
		return "TUESDAY"
	case Wednesday:
		return "WEDNESDAY"
	case Thursday:
		return "THURSDAY"
	case Friday:
		return "FRIDAY"
	case Saturday:
		return "SATURDAY"
	default:
		return "UNKNOWN"
	}
}

// TimeSlot is a (day, start, end) triple. Identity is (day, start);
// end is implied by the configured slot duration but carried for
// convenience and for availability-window checks.
type TimeSlot struct {
	Day       Day
	StartHour int
	EndHour   int
}

func (t TimeSlot) String() string {
	return fmt.Sprintf("%s %02d:00-%02d:00", t.Day, t.StartHour, t.EndHour)
}

// RoomKind distinguishes the two room variants without letting a Hall
// id and a Lab id collide in any index.
type RoomKind int

const (
	RoomKindHall RoomKind = iota
	RoomKindLab
)

func (k RoomKind) String() string {
	if k == RoomKindHall {
		return "hall"
	}
	return "lab"
}

// Room is implemented by Hall and Lab. Downstream constraints dispatch
// on Kind() and, for labs, on the concrete type for lab-specific rules.
type Room interface {
	RoomID() int
	RoomName() string
	RoomCapacity() int
	RoomAvailability() []TimeSlot
	Kind() RoomKind
}

// Hall is a lecture room. Capacity and availability are its only
// scheduling-relevant attributes.
type Hall struct {
	ID           int
	Name         string
	Capacity     int
	Availability []TimeSlot
}

func (h *Hall) RoomID() int                  { return h.ID }
func (h *Hall) RoomName() string             { return h.Name }
func (h *Hall) RoomCapacity() int            { return h.Capacity }
func (h *Hall) RoomAvailability() []TimeSlot { return h.Availability }
func (h *Hall) Kind() RoomKind               { return RoomKindHall }

// LabType marks whether a lab can host courses outside its specialty.
type LabType int

const (
	LabTypeGeneral LabType = iota
	LabTypeSpecialist
)

func (t LabType) String() string {
	if t == LabTypeGeneral {
		return "general"
	}
	return "specialist"
}

// Lab is a laboratory room. A specialist lab with
// UsedInNonSpecialistCourses=false may only serve the course(s) it
// was built for (expressed upstream via Block.PreferredRooms).
type Lab struct {
	ID                         int
	Name                       string
	Capacity                   int
	Availability               []TimeSlot
	LabType                    LabType
	UsedInNonSpecialistCourses bool
}

func (l *Lab) RoomID() int                  { return l.ID }
func (l *Lab) RoomName() string             { return l.Name }
func (l *Lab) RoomCapacity() int            { return l.Capacity }
func (l *Lab) RoomAvailability() []TimeSlot { return l.Availability }
func (l *Lab) Kind() RoomKind               { return RoomKindLab }

// AcademicDegree constrains which staff kind may hold it: lecturers
// carry ids 1-3, teaching assistants carry ids 4-5 (spec.md §3).
type AcademicDegree struct {
	ID   int
	Name string
}

var lecturerDegrees = map[int]bool{1: true, 2: true, 3: true}
var taDegrees = map[int]bool{4: true, 5: true}

// StaffMember is implemented by Lecturer and TeachingAssistant.
// Lecturer timing preferences are a hard constraint on candidate
// slots; TA preferences are only a soft ordering hint (spec.md §4.1,
// §9 Open Questions).
type StaffMember interface {
	StaffID() int
	StaffName() string
	StaffDepartment() string
	TimingPreferences() []TimeSlot
	Degree() AcademicDegree
	Permanent() bool
	staffKind() staffKind
}

type staffKind int

const (
	staffKindLecturer staffKind = iota
	staffKindTA
)

// staffCommon holds the fields shared by both staff variants.
type staffCommon struct {
	ID         int
	Name       string
	Department string
	Timing     []TimeSlot
	Degree_    AcademicDegree
	Permanent_ bool
}

func (s *staffCommon) StaffID() int                 { return s.ID }
func (s *staffCommon) StaffName() string             { return s.Name }
func (s *staffCommon) StaffDepartment() string       { return s.Department }
func (s *staffCommon) TimingPreferences() []TimeSlot { return s.Timing }
func (s *staffCommon) Degree() AcademicDegree        { return s.Degree_ }
func (s *staffCommon) Permanent() bool               { return s.Permanent_ }

// Lecturer is a staff member whose timing preferences are a strict
// filter on candidate_slots.
type Lecturer struct {
	staffCommon
}

func (l *Lecturer) staffKind() staffKind { return staffKindLecturer }

// NewLecturer builds a Lecturer from its common fields.
func NewLecturer(id int, name, department string, timing []TimeSlot, degree AcademicDegree, permanent bool) *Lecturer {
	return &Lecturer{staffCommon{ID: id, Name: name, Department: department, Timing: timing, Degree_: degree, Permanent_: permanent}}
}

// TeachingAssistant is a staff member whose timing preferences are
// only a soft ordering hint on candidate_slots.
type TeachingAssistant struct {
	staffCommon
}

func (t *TeachingAssistant) staffKind() staffKind { return staffKindTA }

// NewTeachingAssistant builds a TeachingAssistant from its common fields.
func NewTeachingAssistant(id int, name, department string, timing []TimeSlot, degree AcademicDegree, permanent bool) *TeachingAssistant {
	return &TeachingAssistant{staffCommon{ID: id, Name: name, Department: department, Timing: timing, Degree_: degree, Permanent_: permanent}}
}

// ValidateDegree enforces the lecturer/TA degree-id ranges. A
// violation is an input error, never a scheduling decision.
func ValidateDegree(s StaffMember) error {
	id := s.Degree().ID
	switch s.staffKind() {
	case staffKindLecturer:
		if !lecturerDegrees[id] {
			return &InputError{Reason: fmt.Sprintf("lecturer %s has invalid academic degree id %d, must be 1-3", s.StaffName(), id)}
		}
	case staffKindTA:
		if !taDegrees[id] {
			return &InputError{Reason: fmt.Sprintf("teaching assistant %s has invalid academic degree id %d, must be 4-5", s.StaffName(), id)}
		}
	}
	return nil
}

// Course identifies a course within an academic list.
type Course struct {
	ID   int
	Code string
	Name string
}

// Department owns an academic list (original_source:
// models/department.py). It is a distinct entity from a staff
// member's department: the submission payload's department_id is
// grounded by the academic list's department
// (original_source/utils/api_schedule.py: `block.academic_list_object.department.id`),
// not by the staff member teaching the block.
type Department struct {
	ID   int
	Name string
}

// StaffPortion is the typed record replacing the source's
// string-keyed "lecturer"/"teaching_assistant" maps (spec.md §9): a
// staff member plus the number of groups they cover.
type StaffPortion struct {
	Staff       StaffMember
	NumOfGroups int
}

// CourseAssignment is one course's staffing plan within a study plan.
type CourseAssignment struct {
	Course             Course
	LectureGroups      int
	Lecturers          []StaffPortion
	LabGroups          int
	TeachingAssistants []StaffPortion
	PracticalInLab     bool
	PreferredRooms     []Room
}

// StudyPlan is a cohort's full set of course assignments for a term.
// Department is the academic list's owning department (original_source:
// models/academic_list.py's AcademicList.department), carried here
// rather than on the academic list itself since this model already
// flattens the academic list down to its name (AcademicList).
type StudyPlan struct {
	Name              string
	AcademicList      string
	AcademicLevel     int
	ExpectedStudents  int
	Department        Department
	CourseAssignments []CourseAssignment
}

// BlockType distinguishes lecture blocks from lab blocks.
type BlockType int

const (
	BlockLecture BlockType = iota
	BlockLab
)

func (b BlockType) String() string {
	if b == BlockLecture {
		return "lecture"
	}
	return "lab"
}

// Block is the atomic scheduling unit: one lecture group for one
// lecturer-portion, or one lab group for one TA-portion.
type Block struct {
	ID                  string
	CourseCode          string
	CourseAssignment    *CourseAssignment
	Type                BlockType
	Staff               StaffMember
	StudentCount        int
	RequiredRoomKind    RoomKind
	GroupNumber         int
	TotalGroups         int
	IsSingleGroupCourse bool
	AcademicList        string
	AcademicLevel       int
	Department          Department
	PreferredRooms      []Room
}

// Assignment is a placed block: its chosen time slot and room.
type Assignment struct {
	Block    *Block
	TimeSlot TimeSlot
	Room     Room
}
