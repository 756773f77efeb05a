package model

import "time"

type Event struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title       string    `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Date        time.Time `json:"date" bson:"date" validate:"required"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Organizer   string    `json:"organizer" bson:"organizer" validate:"required,user_id"`
	Attendees   []string  `json:"attendees" bson:"attendees" validate:"omitempty,dive,user_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
