package models

import (
	"time"

	"github.com/lib/pq"
)

// Pathway is a named bundle of course codes that students on a track must be
// able to take concurrently. The course list order is preserved for stable
// reporting but does not affect analysis results.
type Pathway struct {
	ID              string         `db:"id" json:"id"`
	Name            string         `db:"name" json:"name"`
	RequiredCourses pq.StringArray `db:"required_courses" json:"required_courses"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// PathwayFilter captures filtering criteria for listing pathways.
type PathwayFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
