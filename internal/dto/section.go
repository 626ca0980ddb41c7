package dto

// MeetingOccurrenceRequest describes one weekly meeting block.
type MeetingOccurrenceRequest struct {
	Day       string  `json:"day" validate:"required,oneof=MON TUE WED THU FRI SAT SUN"`
	StartTime string  `json:"startTime" validate:"required,len=5"`
	EndTime   string  `json:"endTime" validate:"required,len=5"`
	RoomID    *string `json:"roomId" validate:"omitempty,uuid4"`
}

// CreateSectionRequest adds a section to a scenario.
type CreateSectionRequest struct {
	CourseCode   string                     `json:"courseCode" validate:"required,max=40"`
	Title        string                     `json:"title" validate:"required,max=200"`
	Label        string                     `json:"label" validate:"omitempty,max=20"`
	Kind         string                     `json:"kind" validate:"omitempty,oneof=LECTURE LAB SEMINAR COMBINED ONLINE OTHER"`
	Modality     string                     `json:"modality" validate:"omitempty,max=40"`
	InstructorID string                     `json:"instructorId" validate:"omitempty,uuid4"`
	Meetings     []MeetingOccurrenceRequest `json:"meetings" validate:"omitempty,dive"`
}

// UpdateSectionRequest applies partial changes to a section. A non-nil
// Meetings slice replaces the section's meeting set wholesale.
type UpdateSectionRequest struct {
	CourseCode   *string                     `json:"courseCode" validate:"omitempty,max=40"`
	Title        *string                     `json:"title" validate:"omitempty,max=200"`
	Label        *string                     `json:"label" validate:"omitempty,max=20"`
	Kind         *string                     `json:"kind" validate:"omitempty,oneof=LECTURE LAB SEMINAR COMBINED ONLINE OTHER"`
	Modality     *string                     `json:"modality" validate:"omitempty,max=40"`
	InstructorID *string                     `json:"instructorId" validate:"omitempty"`
	Meetings     *[]MeetingOccurrenceRequest `json:"meetings" validate:"omitempty,dive"`
}

// SectionQuery filters the section listing within a scenario.
type SectionQuery struct {
	CourseCode   string `form:"courseCode"`
	InstructorID string `form:"instructorId"`
	Kind         string `form:"kind"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// SectionImportRow is one line of a bulk CSV upload. Each row carries a
// single meeting block; rows sharing course_code and label merge into one
// section with multiple meetings.
type SectionImportRow struct {
	CourseCode     string `csv:"course_code"`
	Title          string `csv:"title"`
	Label          string `csv:"label"`
	Kind           string `csv:"kind"`
	InstructorName string `csv:"instructor"`
	Day            string `csv:"day"`
	StartTime      string `csv:"start_time"`
	EndTime        string `csv:"end_time"`
	RoomName       string `csv:"room"`
}

// ImportRowError points at a rejected CSV line.
type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportSectionsResult summarises a bulk upload.
type ImportSectionsResult struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
}
