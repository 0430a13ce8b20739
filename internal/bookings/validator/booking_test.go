package validator

import (
	"testing"
	"time"

	"rentwheels/pkg/logger"
	"rentwheels/pkg/model"
)

func testValidator() *BookingValidator {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingValidator(log)
}

func validBooking() *model.Booking {
	pickup := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return &model.Booking{
		CarID:      "64a0f1e2b3c4d5e6f7a8b9c0",
		UserID:     "64a0f1e2b3c4d5e6f7a8b9c1",
		OwnerID:    "64a0f1e2b3c4d5e6f7a8b9c2",
		PickupDate: pickup,
		ReturnDate: pickup.AddDate(0, 0, 2),
		Price:      100,
		Status:     model.BookingPending,
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	if err := testValidator().Validate(validBooking()); err != nil {
		t.Errorf("expected valid booking to pass, got %v", err)
	}
}

func TestValidate_MalformedCarID(t *testing.T) {
	booking := validBooking()
	booking.CarID = "not-an-object-id"

	if err := testValidator().Validate(booking); err == nil {
		t.Error("expected malformed car id to fail validation")
	}
}

func TestValidate_UnknownStatus(t *testing.T) {
	booking := validBooking()
	booking.Status = "finished"

	if err := testValidator().Validate(booking); err == nil {
		t.Error("expected unknown status to fail validation")
	}
}

func TestValidate_ReturnNotAfterPickup(t *testing.T) {
	booking := validBooking()
	booking.ReturnDate = booking.PickupDate

	if err := testValidator().Validate(booking); err == nil {
		t.Error("expected return date at pickup to fail validation")
	}
}

func TestValidateCreate_MissingFields(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name string
		req  *model.CreateBookingRequest
	}{
		{"missing car", &model.CreateBookingRequest{PickupDate: "2026-09-10", ReturnDate: "2026-09-12"}},
		{"missing pickup", &model.CreateBookingRequest{Car: "64a0f1e2b3c4d5e6f7a8b9c0", ReturnDate: "2026-09-12"}},
		{"missing return", &model.CreateBookingRequest{Car: "64a0f1e2b3c4d5e6f7a8b9c0", PickupDate: "2026-09-10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.ValidateCreate(tt.req); err == nil {
				t.Error("expected missing field to fail validation")
			}
		})
	}
}

func TestValidateStatusUpdate(t *testing.T) {
	v := testValidator()

	valid := &model.UpdateBookingStatusRequest{
		BookingID: "64a0f1e2b3c4d5e6f7a8b9c0",
		Status:    model.BookingCancelled,
	}
	if err := v.ValidateStatusUpdate(valid); err != nil {
		t.Errorf("expected valid update to pass, got %v", err)
	}

	invalid := &model.UpdateBookingStatusRequest{
		BookingID: "64a0f1e2b3c4d5e6f7a8b9c0",
		Status:    "done",
	}
	if err := v.ValidateStatusUpdate(invalid); err == nil {
		t.Error("expected unknown status to fail validation")
	}
}
