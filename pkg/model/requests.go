package model

// Request payloads for the public API. Field names mirror what the web
// client sends.

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=user owner"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CheckAvailabilityRequest searches a location for cars free over a date
// range. Dates arrive as YYYY-MM-DD strings and are normalized server side.
type CheckAvailabilityRequest struct {
	Location   string `json:"location" validate:"required,min=2,max=80"`
	PickupDate string `json:"pickupDate" validate:"required"`
	ReturnDate string `json:"returnDate" validate:"required"`
}

type CreateBookingRequest struct {
	Car        string `json:"car" validate:"required,mongodb"`
	PickupDate string `json:"pickupDate" validate:"required"`
	ReturnDate string `json:"returnDate" validate:"required"`
}

type UpdateBookingStatusRequest struct {
	BookingID string `json:"bookingId" validate:"required,mongodb"`
	Status    string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

type CarIDRequest struct {
	CarID string `json:"carId" validate:"required,mongodb"`
}

// DashboardData aggregates an owner's fleet and booking activity for the
// owner console landing page.
type DashboardData struct {
	TotalCars         int              `json:"totalCars"`
	TotalBookings     int              `json:"totalBookings"`
	PendingBookings   int              `json:"pendingBookings"`
	CompletedBookings int              `json:"completedBookings"`
	RecentBookings    []*BookingDetail `json:"recentBookings"`
	MonthlyRevenue    float64          `json:"monthlyRevenue"`
}
