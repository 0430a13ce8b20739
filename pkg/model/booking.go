package model

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking reserves a car for a renter over an inclusive whole-day date range.
// The owner reference is denormalized from the car at creation time so
// owner-scoped listings need no join through the cars collection.
// Immutable after creation except for Status.
type Booking struct {
	ID         string    `json:"_id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CarID      string    `json:"carId" bson:"car_id" validate:"required,mongodb"`
	UserID     string    `json:"userId" bson:"user_id" validate:"required,mongodb"`
	OwnerID    string    `json:"ownerId" bson:"owner_id" validate:"required,mongodb"`
	PickupDate time.Time `json:"pickupDate" bson:"pickup_date" validate:"required"`
	ReturnDate time.Time `json:"returnDate" bson:"return_date" validate:"required,gtfield=PickupDate"`
	Price      float64   `json:"price" bson:"price" validate:"gte=0"`
	Status     string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

// BookingDetail is a booking with its referenced documents joined for
// listing responses. Renter is only populated for owner-facing listings.
type BookingDetail struct {
	Booking
	Car    *Car  `json:"car,omitempty" bson:"-"`
	Renter *User `json:"user,omitempty" bson:"-"`
}

// BookingLock is an advisory lock serializing booking creation per car.
// Its _id is derived from the car so a concurrent insert for the same car
// fails with a duplicate key error. The TTL index on expires_at clears
// locks abandoned by crashed requests.
type BookingLock struct {
	ID        string    `json:"id" bson:"_id"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
