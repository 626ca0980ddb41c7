package dto

// CreateScenarioRequest opens a new draft schedule for a term.
type CreateScenarioRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	TermLabel string `json:"termLabel" validate:"required,max=40"`
}

// UpdateScenarioRequest applies partial changes to a scenario.
type UpdateScenarioRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=120"`
	TermLabel *string `json:"termLabel" validate:"omitempty,max=40"`
}

// ScenarioQuery filters the scenario listing.
type ScenarioQuery struct {
	Term     string `form:"term"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
