package dto

// CreateRoomRequest registers a bookable room.
type CreateRoomRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
	Type string `json:"type" validate:"required,oneof=CLASSROOM LAB SEMINAR_ROOM AUDITORIUM"`
}

// UpdateRoomRequest applies partial changes to a room.
type UpdateRoomRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=120"`
	Type *string `json:"type" validate:"omitempty,oneof=CLASSROOM LAB SEMINAR_ROOM AUDITORIUM"`
}

// RoomQuery filters the room listing.
type RoomQuery struct {
	Type     string `form:"type"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
