package model

import "time"

const (
	NotificationReservationExpired = "reservation_expired"
	NotificationCourseRegistered   = "course_registered"
	NotificationGeneral            = "general"
)

type Notification struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required,user_id"`
	Kind      string    `json:"kind" bson:"kind" validate:"required,oneof=reservation_expired course_registered general"`
	Message   string    `json:"message" bson:"message" validate:"required,min=1,max=500"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
