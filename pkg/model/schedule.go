package model

import "time"

const (
	ScheduleEntryClass      = "class"
	ScheduleEntryExam       = "exam"
	ScheduleEntryAssignment = "assignment"
	ScheduleEntryOther      = "other"
)

// ScheduleEntry is one embedded item in a student's personal schedule.
type ScheduleEntry struct {
	ID          string    `json:"id" bson:"_id" validate:"omitempty"`
	Title       string    `json:"title" bson:"title" validate:"required,min=1,max=200"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Date        time.Time `json:"date" bson:"date" validate:"required"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Type        string    `json:"type" bson:"type" validate:"required,oneof=class exam assignment other"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ScheduleEntryUpdate struct {
	Title       string     `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Date        *time.Time `json:"date,omitempty"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	Type        string     `json:"type,omitempty" validate:"omitempty,oneof=class exam assignment other"`
}

type Schedule struct {
	ID        string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StudentID string          `json:"student_id" bson:"student_id" validate:"required,user_id"`
	Entries   []ScheduleEntry `json:"entries" bson:"entries" validate:"omitempty,dive"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at" validate:"omitempty"`
}
