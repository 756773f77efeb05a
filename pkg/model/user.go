package model

import "time"

const (
	RoleStudent  = "student"
	RoleLecturer = "lecturer"
	RoleAdmin    = "admin"
)

type User struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"omitempty,user_id"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Role      string    `json:"role" bson:"role" validate:"required,oneof=student lecturer admin"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type UserRoleUpdate struct {
	Role string `json:"role" validate:"required,oneof=student lecturer admin"`
}

// ActiveUser is one row of the most-active-users report: a user together
// with the number of events they attended.
type ActiveUser struct {
	Name                string `json:"name" bson:"name"`
	Email               string `json:"email" bson:"email"`
	AttendedEventsCount int64  `json:"attended_events_count" bson:"attended_events_count"`
}
