package service

import (
	"context"
	"errors"
	"io"
	"time"

	carserrors "rentwheels/internal/cars/errors"
	"rentwheels/internal/cars/repository"
	"rentwheels/internal/cars/storage"
	"rentwheels/internal/cars/validator"
	bookingrepo "rentwheels/internal/bookings/repository"
	identityrepo "rentwheels/internal/identity/repository"
	"rentwheels/pkg/config"
	"rentwheels/pkg/dates"
	apperrors "rentwheels/pkg/errors"
	"rentwheels/pkg/model"
	"rentwheels/pkg/sanitizer"
)

const recentBookingsLimit = 5

// ImageUpload carries a multipart image file into the service layer.
type ImageUpload struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
}

type CarService interface {
	ListAvailable(ctx context.Context, location, pickupDate, returnDate string) ([]*model.Car, error)
	GetByID(ctx context.Context, id string) (*model.Car, error)
	AddCar(ctx context.Context, ownerID string, car *model.Car, image *ImageUpload) error
	OwnerCars(ctx context.Context, ownerID string) ([]*model.Car, error)
	ToggleAvailability(ctx context.Context, ownerID, carID string) (*model.Car, error)
	DeleteCar(ctx context.Context, ownerID, carID string) error
	Dashboard(ctx context.Context, ownerID string) (*model.DashboardData, error)
}

type carService struct {
	repo        repository.CarRepository
	bookingRepo bookingrepo.BookingRepository
	userRepo    identityrepo.UserRepository
	validator   *validator.CarValidator
	images      storage.ImageStore
	cfg         *config.Config
}

func NewCarService(
	repo repository.CarRepository,
	bookingRepo bookingrepo.BookingRepository,
	userRepo identityrepo.UserRepository,
	validator *validator.CarValidator,
	images storage.ImageStore,
	cfg *config.Config,
) CarService {
	return &carService{
		repo:        repo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		validator:   validator,
		images:      images,
		cfg:         cfg,
	}
}

// ListAvailable is the public catalog. Location narrows by city;
// providing both dates also drops cars with a conflicting booking.
// Either both dates or neither: a lone date is ignored, matching the
// browse-first flow of the web client.
func (s *carService) ListAvailable(ctx context.Context, location, pickupDate, returnDate string) ([]*model.Car, error) {
	location = sanitizer.NormalizeLocation(location)

	cars, err := s.repo.FindAvailable(ctx, location)
	if err != nil {
		s.cfg.Log.Error("Failed to list available cars", "location", location, "error", err)
		return nil, apperrors.Internal("Failed to retrieve cars", err)
	}

	if pickupDate == "" || returnDate == "" {
		return cars, nil
	}

	pickup, ret, err := dates.ParseRange(pickupDate, returnDate)
	if err != nil {
		if errors.Is(err, dates.ErrEmptyRange) {
			return nil, apperrors.InvalidInput("Return date must be after pickup date")
		}
		return nil, apperrors.InvalidInput("Dates must be in YYYY-MM-DD format")
	}

	bookedCarIDs, err := s.bookingRepo.FindOverlappingCarIDs(ctx, pickup, ret)
	if err != nil {
		s.cfg.Log.Error("Failed to check booked cars", "error", err)
		return nil, apperrors.Internal("Failed to check car availability", err)
	}

	free := make([]*model.Car, 0, len(cars))
	for _, car := range cars {
		if _, booked := bookedCarIDs[car.ID]; !booked {
			free = append(free, car)
		}
	}
	return free, nil
}

func (s *carService) GetByID(ctx context.Context, id string) (*model.Car, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Car ID cannot be empty")
	}

	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, carserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Car not found")
		}
		if errors.Is(err, carserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid car ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve car", err)
	}

	return car, nil
}

func (s *carService) AddCar(ctx context.Context, ownerID string, car *model.Car, image *ImageUpload) error {
	if image == nil || image.Reader == nil {
		return apperrors.InvalidInput("Car image is required")
	}

	car.OwnerID = ownerID
	car.IsAvailable = true
	car.Location = sanitizer.NormalizeLocation(car.Location)
	car.Brand = sanitizer.TrimAndNormalize(car.Brand)
	car.Model = sanitizer.TrimAndNormalize(car.Model)

	imageURL, err := s.images.Upload(ctx, image.Reader, image.Size, image.Filename, image.ContentType)
	if err != nil {
		s.cfg.Log.Error("Failed to upload car image", "owner_id", ownerID, "error", err)
		return apperrors.Internal("Failed to upload car image", err)
	}
	car.Image = imageURL

	if err := s.validator.Validate(car); err != nil {
		s.cfg.Log.Warn("Car validation failed", "owner_id", ownerID, "error", err)
		return apperrors.Validation("Car validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, car); err != nil {
		s.cfg.Log.Error("Failed to create car", "owner_id", ownerID, "error", err)
		return apperrors.Internal("Failed to list car", err)
	}

	s.cfg.Log.Info("Car listed",
		"car_id", car.ID,
		"owner_id", ownerID,
		"brand", car.Brand,
		"model", car.Model,
		"location", car.Location,
	)
	return nil
}

func (s *carService) OwnerCars(ctx context.Context, ownerID string) ([]*model.Car, error) {
	cars, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list owner cars", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve cars", err)
	}
	return cars, nil
}

func (s *carService) ToggleAvailability(ctx context.Context, ownerID, carID string) (*model.Car, error) {
	car, err := s.ownedCar(ctx, ownerID, carID)
	if err != nil {
		return nil, err
	}

	car.IsAvailable = !car.IsAvailable
	if err := s.repo.SetAvailability(ctx, car.ID, car.IsAvailable); err != nil {
		s.cfg.Log.Error("Failed to toggle car availability", "car_id", carID, "error", err)
		return nil, apperrors.Internal("Failed to update car", err)
	}

	s.cfg.Log.Info("Car availability toggled", "car_id", carID, "is_available", car.IsAvailable)
	return car, nil
}

func (s *carService) DeleteCar(ctx context.Context, ownerID, carID string) error {
	car, err := s.ownedCar(ctx, ownerID, carID)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, car.ID); err != nil {
		s.cfg.Log.Error("Failed to delete car", "car_id", carID, "error", err)
		return apperrors.Internal("Failed to delete car", err)
	}

	s.cfg.Log.Info("Car deleted", "car_id", carID, "owner_id", ownerID)
	return nil
}

func (s *carService) Dashboard(ctx context.Context, ownerID string) (*model.DashboardData, error) {
	cars, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve cars", err)
	}

	bookings, err := s.bookingRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	data := &model.DashboardData{
		TotalCars:     len(cars),
		TotalBookings: len(bookings),
	}

	now := time.Now().UTC()
	for _, b := range bookings {
		switch b.Status {
		case model.BookingPending:
			data.PendingBookings++
		case model.BookingConfirmed:
			data.CompletedBookings++
		}
		if b.CreatedAt.Year() == now.Year() && b.CreatedAt.Month() == now.Month() {
			data.MonthlyRevenue += b.Price
		}
	}

	recent := bookings
	if len(recent) > recentBookingsLimit {
		recent = recent[:recentBookingsLimit]
	}
	details, err := s.joinRecent(ctx, recent)
	if err != nil {
		return nil, err
	}
	data.RecentBookings = details

	return data, nil
}

func (s *carService) joinRecent(ctx context.Context, bookings []*model.Booking) ([]*model.BookingDetail, error) {
	carIDs := make([]string, 0, len(bookings))
	userIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		carIDs = append(carIDs, b.CarID)
		userIDs = append(userIDs, b.UserID)
	}

	carsByID, err := s.repo.FindByIDs(ctx, carIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to join cars into bookings", err)
	}
	usersByID, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to join users into bookings", err)
	}

	details := make([]*model.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		details = append(details, &model.BookingDetail{
			Booking: *b,
			Car:     carsByID[b.CarID],
			Renter:  usersByID[b.UserID],
		})
	}
	return details, nil
}

func (s *carService) ownedCar(ctx context.Context, ownerID, carID string) (*model.Car, error) {
	if carID == "" {
		return nil, apperrors.InvalidInput("Car ID cannot be empty")
	}

	car, err := s.repo.FindByID(ctx, carID)
	if err != nil {
		if errors.Is(err, carserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Car not found")
		}
		if errors.Is(err, carserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid car ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve car", err)
	}

	if car.OwnerID != ownerID {
		return nil, apperrors.Forbidden("Unauthorized")
	}
	return car, nil
}
