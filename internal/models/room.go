package models

import "time"

// RoomType classifies a room. Types listed in turnaroundTypes need idle
// minutes between consecutive bookings (reset/setup time).
type RoomType string

const (
	RoomClassroom  RoomType = "CLASSROOM"
	RoomLab        RoomType = "LAB"
	RoomSeminar    RoomType = "SEMINAR_ROOM"
	RoomAuditorium RoomType = "AUDITORIUM"
)

var turnaroundTypes = map[RoomType]bool{
	RoomLab: true,
}

// RequiresTurnaround reports whether rooms of this type are subject to the
// buffer rule between consecutive bookings.
func (t RoomType) RequiresTurnaround() bool {
	return turnaroundTypes[t]
}

// Room is a physical space referenced by meeting occurrences.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      RoomType  `db:"room_type" json:"room_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures filtering criteria for listing rooms.
type RoomFilter struct {
	Type      string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
