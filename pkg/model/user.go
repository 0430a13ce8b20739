package model

import "time"

const (
	RoleUser  = "user"
	RoleOwner = "owner"
)

// User is a marketplace identity. Role decides what the account may do:
// renters create bookings, owners list cars and manage bookings against them.
// Owner-specific profile fields stay empty for renters.
type User struct {
	ID            string     `json:"_id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name          string     `json:"name" bson:"name" validate:"required,min=3,max=60"`
	Email         string     `json:"email" bson:"email" validate:"required,email"`
	Password      string     `json:"-" bson:"password" validate:"required"`
	Role          string     `json:"role" bson:"role" validate:"required,oneof=user owner"`
	Image         string     `json:"image,omitempty" bson:"image,omitempty"`
	IsApproved    bool       `json:"isApproved" bson:"is_approved"`
	ApprovalToken string     `json:"-" bson:"approval_token,omitempty"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty" bson:"approved_at,omitempty"`

	BusinessName string `json:"businessName,omitempty" bson:"business_name,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty" bson:"phone_number,omitempty"`
	Address      string `json:"address,omitempty" bson:"address,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// PendingUser stages a registration until the email link is followed.
// The TTL index on expires_at removes abandoned records.
type PendingUser struct {
	ID                string    `json:"_id,omitempty" bson:"_id,omitempty"`
	Name              string    `json:"name" bson:"name" validate:"required,min=3,max=60"`
	Email             string    `json:"email" bson:"email" validate:"required,email"`
	Password          string    `json:"-" bson:"password" validate:"required"`
	Role              string    `json:"role" bson:"role" validate:"required,oneof=user owner"`
	VerificationToken string    `json:"-" bson:"verification_token"`
	ExpiresAt         time.Time `json:"expiresAt" bson:"expires_at"`
	CreatedAt         time.Time `json:"createdAt" bson:"created_at"`
}
