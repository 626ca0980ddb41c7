package models

import "time"

// Weekday is the day-of-week tag carried by meeting occurrences.
type Weekday string

const (
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
	Saturday  Weekday = "SAT"
	Sunday    Weekday = "SUN"
)

var weekdayIndex = map[Weekday]int{
	Monday:    1,
	Tuesday:   2,
	Wednesday: 3,
	Thursday:  4,
	Friday:    5,
	Saturday:  6,
	Sunday:    7,
}

// Index returns the 1-based position of the day within the week, 0 for an
// unknown tag.
func (d Weekday) Index() int {
	return weekdayIndex[d]
}

// Valid reports whether the tag is one of the seven known days.
func (d Weekday) Valid() bool {
	return weekdayIndex[d] != 0
}

// SectionKind labels the instructional format of a section. It is
// informational only; conflict analysis never branches on it.
type SectionKind string

const (
	KindLecture  SectionKind = "LECTURE"
	KindLab      SectionKind = "LAB"
	KindSeminar  SectionKind = "SEMINAR"
	KindCombined SectionKind = "COMBINED"
	KindOnline   SectionKind = "ONLINE"
	KindOther    SectionKind = "OTHER"
)

// MeetingOccurrence is one weekly scheduled slot belonging to a section.
// Times are wall-clock "HH:MM" values. A nil RoomID means the slot has no
// physical room (online or unassigned) and is skipped by room analysis.
type MeetingOccurrence struct {
	ID        string  `db:"id" json:"id"`
	SectionID string  `db:"section_id" json:"section_id"`
	Day       Weekday `db:"day_of_week" json:"day_of_week"`
	StartTime string  `db:"start_time" json:"start_time"`
	EndTime   string  `db:"end_time" json:"end_time"`
	RoomID    *string `db:"room_id" json:"room_id,omitempty"`
}

// Section is one offered class instance within a scenario. A section with no
// meetings (fully asynchronous) still counts as offered for pathway checks.
type Section struct {
	ID           string              `db:"id" json:"id"`
	ScenarioID   string              `db:"scenario_id" json:"scenario_id"`
	CourseCode   string              `db:"course_code" json:"course_code"`
	Title        string              `db:"title" json:"title"`
	Label        string              `db:"label" json:"label"`
	Kind         SectionKind         `db:"kind" json:"kind"`
	Modality     string              `db:"modality" json:"modality"`
	InstructorID string              `db:"instructor_id" json:"instructor_id"`
	Meetings     []MeetingOccurrence `db:"-" json:"meetings"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

// SectionFilter describes query params for listing sections.
type SectionFilter struct {
	ScenarioID   string
	CourseCode   string
	InstructorID string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
