package model

import "time"

const (
	ResourceTypeRoom      = "room"
	ResourceTypeEquipment = "equipment"
	ResourceTypeLab       = "lab"
)

const (
	ResourceStatusAvailable = "available"
	ResourceStatusReserved  = "reserved"
)

// Resource is a reservable campus asset. The reservation fields move
// together: a reserved resource has all three set, an available one has
// all three nil.
type Resource struct {
	ID                string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name              string     `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Type              string     `json:"type" bson:"type" validate:"required,oneof=room equipment lab"`
	Availability      bool       `json:"availability" bson:"availability"`
	ReservedBy        *string    `json:"reserved_by,omitempty" bson:"reserved_by,omitempty"`
	ReservationDate   *time.Time `json:"reservation_date,omitempty" bson:"reservation_date,omitempty"`
	ReservationExpiry *time.Time `json:"reservation_expiry,omitempty" bson:"reservation_expiry,omitempty"`
	CreatedAt         time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Reserved reports whether the resource currently carries a reservation.
func (r *Resource) Reserved() bool {
	return !r.Availability
}

// TypeCount is one row of the reserved-by-type breakdown.
type TypeCount struct {
	Type  string `json:"type" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// Usage is the aggregate utilization snapshot served by the analytics
// endpoint and broadcast after reservation state changes.
type Usage struct {
	TotalResources         int64       `json:"total_resources"`
	TotalReservedResources int64       `json:"total_reserved_resources"`
	MostReservedResources  []TypeCount `json:"most_reserved_resources"`
	ResourceUtilization    string      `json:"resource_utilization"`
}
