package dto

// CreateInstructorRequest registers a teaching staff member.
type CreateInstructorRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=160"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// UpdateInstructorRequest applies partial changes to an instructor.
type UpdateInstructorRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=2,max=160"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// InstructorQuery filters the instructor listing.
type InstructorQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
