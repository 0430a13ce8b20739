package model

import "time"

// Car is a rentable vehicle owned by exactly one owner. Soft-deleted cars
// keep their document for historical bookings but lose the owner reference
// and are never listed again.
type Car struct {
	ID              string    `json:"_id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID         string    `json:"owner,omitempty" bson:"owner_id,omitempty" validate:"omitempty,mongodb"`
	Brand           string    `json:"brand" bson:"brand" validate:"required,min=1,max=60"`
	Model           string    `json:"model" bson:"model" validate:"required,min=1,max=60"`
	Year            int       `json:"year" bson:"year" validate:"required,min=1950,max=2100"`
	Category        string    `json:"category" bson:"category" validate:"required,min=2,max=40"`
	Transmission    string    `json:"transmission" bson:"transmission" validate:"required,oneof=Automatic Manual Semi-Automatic"`
	FuelType        string    `json:"fuel_type" bson:"fuel_type" validate:"required,min=2,max=20"`
	SeatingCapacity int       `json:"seating_capacity" bson:"seating_capacity" validate:"required,min=1,max=20"`
	PricePerDay     float64   `json:"pricePerDay" bson:"price_per_day" validate:"required,gt=0"`
	Location        string    `json:"location" bson:"location" validate:"required,min=2,max=80"`
	Description     string    `json:"description" bson:"description" validate:"max=2000"`
	Image           string    `json:"image" bson:"image"`
	IsAvailable     bool      `json:"isAvailable" bson:"is_available"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
}
