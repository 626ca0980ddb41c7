package models

import "time"

// Scenario is one self-contained draft of a semester's offerings. Sections
// belong to exactly one scenario; analysis always operates on a single
// scenario's snapshot.
type Scenario struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TermLabel string    `db:"term_label" json:"term_label"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScenarioFilter captures filtering criteria for listing scenarios.
type ScenarioFilter struct {
	TermLabel string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
