package models

import "time"

// Instructor is a member of the teaching roster. Sections reference
// instructors by id; the analysis engine resolves the display name and falls
// back to the raw id when the reference is unknown.
type Instructor struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InstructorFilter captures filtering criteria for listing instructors.
type InstructorFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
