package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "rentwheels/internal/bookings/errors"
	"rentwheels/internal/bookings/repository"
	"rentwheels/internal/bookings/validator"
	carserrors "rentwheels/internal/cars/errors"
	carrepo "rentwheels/internal/cars/repository"
	identityrepo "rentwheels/internal/identity/repository"
	"rentwheels/pkg/config"
	"rentwheels/pkg/dates"
	apperrors "rentwheels/pkg/errors"
	"rentwheels/pkg/model"
	"rentwheels/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

const lockTTL = 10 * time.Second

type BookingService interface {
	CheckAvailability(ctx context.Context, req *model.CheckAvailabilityRequest) ([]*model.Car, error)
	IsAvailable(ctx context.Context, carID string, pickup, ret time.Time) (bool, error)
	Create(ctx context.Context, user *model.User, req *model.CreateBookingRequest) error
	UserBookings(ctx context.Context, userID string) ([]*model.BookingDetail, error)
	OwnerBookings(ctx context.Context, ownerID string) ([]*model.BookingDetail, error)
	UpdateStatus(ctx context.Context, ownerID string, req *model.UpdateBookingStatusRequest) error
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	carRepo   carrepo.CarRepository
	userRepo  identityrepo.UserRepository
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	carRepo carrepo.CarRepository,
	userRepo identityrepo.UserRepository,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		carRepo:   carRepo,
		userRepo:  userRepo,
		validator: validator,
		cfg:       cfg,
	}
}

// CheckAvailability lists a location's cars that are free over the
// requested range. One batch query over overlapping bookings covers the
// whole candidate set.
func (s *bookingService) CheckAvailability(ctx context.Context, req *model.CheckAvailabilityRequest) ([]*model.Car, error) {
	req.Location = sanitizer.NormalizeLocation(req.Location)
	if err := s.validator.ValidateAvailability(req); err != nil {
		return nil, apperrors.Validation("Invalid availability request", map[string]any{"error": err.Error()})
	}

	pickup, ret, err := dates.ParseRange(req.PickupDate, req.ReturnDate)
	if err != nil {
		if errors.Is(err, dates.ErrEmptyRange) {
			return nil, apperrors.InvalidInput("Return date must be after pickup date")
		}
		return nil, apperrors.InvalidInput("Dates must be in YYYY-MM-DD format")
	}

	cars, err := s.carRepo.FindAvailable(ctx, req.Location)
	if err != nil {
		s.cfg.Log.Error("Failed to list cars for availability check", "location", req.Location, "error", err)
		return nil, apperrors.Internal("Failed to retrieve cars", err)
	}

	bookedCarIDs, err := s.repo.FindOverlappingCarIDs(ctx, pickup, ret)
	if err != nil {
		s.cfg.Log.Error("Failed to find overlapping bookings", "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	available := make([]*model.Car, 0, len(cars))
	for _, car := range cars {
		if _, booked := bookedCarIDs[car.ID]; !booked {
			available = append(available, car)
		}
	}

	s.cfg.Log.Debug("Availability check completed",
		"location", req.Location,
		"candidates", len(cars),
		"available", len(available),
	)
	return available, nil
}

// Create books a car for a renter. An advisory lock serializes requests
// per car and the overlap re-check runs inside a transaction with the
// insert, so two racing requests for the same range cannot both land.
func (s *bookingService) Create(ctx context.Context, user *model.User, req *model.CreateBookingRequest) error {
	if user.IsOwner() {
		return apperrors.Forbidden("Owners cannot book cars. Only regular users can make bookings.")
	}

	if err := s.validator.ValidateCreate(req); err != nil {
		return apperrors.InvalidInput("Please provide all required fields")
	}

	pickup, ret, err := dates.ParseRange(req.PickupDate, req.ReturnDate)
	if err != nil {
		if errors.Is(err, dates.ErrEmptyRange) {
			return apperrors.InvalidInput("Return date must be after pickup date")
		}
		return apperrors.InvalidInput("Dates must be in YYYY-MM-DD format")
	}

	car, err := s.carRepo.FindByID(ctx, req.Car)
	if err != nil {
		if errors.Is(err, carserrors.ErrNotFound) {
			return apperrors.NotFound("Car not found")
		}
		if errors.Is(err, carserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid car ID format")
		}
		return apperrors.Internal("Failed to retrieve car", err)
	}

	if !car.IsAvailable {
		return apperrors.Conflict("Car is not currently available")
	}

	booking := &model.Booking{
		CarID:      car.ID,
		UserID:     user.ID,
		OwnerID:    car.OwnerID,
		PickupDate: pickup,
		ReturnDate: ret,
		Price:      float64(dates.Days(pickup, ret)) * car.PricePerDay,
		Status:     model.BookingPending,
	}

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	lockID, err := s.acquireCarLock(ctx, car.ID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseCarLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "car_id", car.ID, "user_id", user.ID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"car_id", car.ID,
		"user_id", user.ID,
		"pickup_date", booking.PickupDate,
		"return_date", booking.ReturnDate,
		"price", booking.Price,
	)
	return nil
}

func (s *bookingService) UserBookings(ctx context.Context, userID string) ([]*model.BookingDetail, error) {
	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list user bookings", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return s.join(ctx, bookings, false)
}

func (s *bookingService) OwnerBookings(ctx context.Context, ownerID string) ([]*model.BookingDetail, error) {
	bookings, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list owner bookings", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return s.join(ctx, bookings, true)
}

func (s *bookingService) UpdateStatus(ctx context.Context, ownerID string, req *model.UpdateBookingStatusRequest) error {
	if err := s.validator.ValidateStatusUpdate(req); err != nil {
		return apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	booking, err := s.repo.FindByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFound("Booking not found")
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.OwnerID != ownerID {
		return apperrors.Forbidden("Unauthorized")
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, req.Status); err != nil {
		s.cfg.Log.Error("Failed to update booking status", "booking_id", booking.ID, "error", err)
		return apperrors.Internal("Failed to update booking status", err)
	}

	s.cfg.Log.Info("Booking status updated", "booking_id", booking.ID, "status", req.Status)
	return nil
}

// join resolves the referenced cars, and for owner listings renters too,
// in two batch queries.
func (s *bookingService) join(ctx context.Context, bookings []*model.Booking, withRenter bool) ([]*model.BookingDetail, error) {
	carIDs := make([]string, 0, len(bookings))
	userIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		carIDs = append(carIDs, b.CarID)
		if withRenter {
			userIDs = append(userIDs, b.UserID)
		}
	}

	carsByID, err := s.carRepo.FindByIDs(ctx, carIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to join cars into bookings", err)
	}

	var usersByID map[string]*model.User
	if withRenter {
		usersByID, err = s.userRepo.FindByIDs(ctx, userIDs)
		if err != nil {
			return nil, apperrors.Internal("Failed to join users into bookings", err)
		}
	}

	details := make([]*model.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		detail := &model.BookingDetail{
			Booking: *b,
			Car:     carsByID[b.CarID],
		}
		if withRenter {
			detail.Renter = usersByID[b.UserID]
		}
		details = append(details, detail)
	}
	return details, nil
}

// IsAvailable reports whether the car has no overlapping active booking
// over the range. Cancelled bookings do not count; the repository query
// excludes them.
func (s *bookingService) IsAvailable(ctx context.Context, carID string, pickup, ret time.Time) (bool, error) {
	existing, err := s.repo.FindOverlappingForCar(ctx, carID, pickup, ret)
	if err != nil {
		return false, apperrors.Internal("Failed to check existing bookings", err)
	}
	return len(existing) == 0, nil
}

func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking) error {
	free, err := s.IsAvailable(ctx, booking.CarID, booking.PickupDate, booking.ReturnDate)
	if err != nil {
		return err
	}
	if !free {
		return apperrors.Conflict("Car is not available for the selected date range")
	}
	return nil
}

// acquireCarLock takes the per-car advisory lock. A duplicate key error
// means another request is mid-booking on the same car.
func (s *bookingService) acquireCarLock(ctx context.Context, carID string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s", carID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(lockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This car is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseCarLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
