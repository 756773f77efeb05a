package model

import "time"

// CourseSlot is the weekly meeting slot of a course, times in HH:MM.
type CourseSlot struct {
	Day       string `json:"day" bson:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   string `json:"end_time" bson:"end_time" validate:"required"`
}

type Course struct {
	ID               string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name             string     `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Code             string     `json:"code" bson:"code" validate:"required,min=2,max=20"`
	Description      string     `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Slot             CourseSlot `json:"slot" bson:"slot" validate:"required"`
	Instructor       string     `json:"instructor" bson:"instructor" validate:"required,user_id"`
	Students         []string   `json:"students" bson:"students" validate:"omitempty,dive,user_id"`
	LectureMaterials []string   `json:"lecture_materials" bson:"lecture_materials"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type CourseUpdate struct {
	Name             string      `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description      *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Slot             *CourseSlot `json:"slot,omitempty" validate:"omitempty"`
	LectureMaterials []string    `json:"lecture_materials,omitempty"`
}
