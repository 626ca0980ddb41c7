package dto

// CreatePathwayRequest registers a program requirement group.
type CreatePathwayRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=160"`
	RequiredCourses []string `json:"requiredCourses" validate:"required,min=1,dive,required,max=40"`
}

// UpdatePathwayRequest applies partial changes to a pathway. A non-nil
// RequiredCourses slice replaces the course list wholesale.
type UpdatePathwayRequest struct {
	Name            *string   `json:"name" validate:"omitempty,min=2,max=160"`
	RequiredCourses *[]string `json:"requiredCourses" validate:"omitempty,min=1,dive,required,max=40"`
}

// PathwayQuery filters the pathway listing.
type PathwayQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
