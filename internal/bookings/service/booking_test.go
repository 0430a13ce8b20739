package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rentwheels/internal/bookings/validator"
	"rentwheels/pkg/config"
	"rentwheels/pkg/dates"
	mongotx "rentwheels/pkg/db/mongo"
	apperrors "rentwheels/pkg/errors"
	"rentwheels/pkg/logger"
	"rentwheels/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testCarID   = "64a0f1e2b3c4d5e6f7a8b9c0"
	testUserID  = "64a0f1e2b3c4d5e6f7a8b9c1"
	testOwnerID = "64a0f1e2b3c4d5e6f7a8b9c2"
)

// ────────────────────────────────────────────────
// Mock repositories for testing
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	createFunc                func(ctx context.Context, booking *model.Booking) error
	findByIDFunc              func(ctx context.Context, id string) (*model.Booking, error)
	findOverlappingForCarFunc func(ctx context.Context, carID string, pickup, ret time.Time) ([]*model.Booking, error)
	findOverlappingCarIDsFunc func(ctx context.Context, pickup, ret time.Time) (map[string]struct{}, error)
	findByUserFunc            func(ctx context.Context, userID string) ([]*model.Booking, error)
	findByOwnerFunc           func(ctx context.Context, ownerID string) ([]*model.Booking, error)
	updateStatusFunc          func(ctx context.Context, id string, status string) error
	executeTransactionFunc    func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindOverlappingForCar(ctx context.Context, carID string, pickup, ret time.Time) ([]*model.Booking, error) {
	if m.findOverlappingForCarFunc != nil {
		return m.findOverlappingForCarFunc(ctx, carID, pickup, ret)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindOverlappingCarIDs(ctx context.Context, pickup, ret time.Time) (map[string]struct{}, error) {
	if m.findOverlappingCarIDsFunc != nil {
		return m.findOverlappingCarIDsFunc(ctx, pickup, ret)
	}
	return map[string]struct{}{}, nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Booking, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTransactionFunc != nil {
		return m.executeTransactionFunc(ctx, fn)
	}
	return fn(nil)
}

type mockBookingLockRepository struct {
	createFunc func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	deleteFunc func(ctx context.Context, lockID string) error
}

func (m *mockBookingLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockBookingLockRepository) Delete(ctx context.Context, lockID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	return nil
}

type mockCarRepository struct {
	findByIDFunc      func(ctx context.Context, id string) (*model.Car, error)
	findByIDsFunc     func(ctx context.Context, ids []string) (map[string]*model.Car, error)
	findAvailableFunc func(ctx context.Context, location string) ([]*model.Car, error)
}

func (m *mockCarRepository) Create(ctx context.Context, car *model.Car) error {
	return nil
}

func (m *mockCarRepository) FindByID(ctx context.Context, id string) (*model.Car, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCarRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Car, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	return map[string]*model.Car{}, nil
}

func (m *mockCarRepository) FindAvailable(ctx context.Context, location string) ([]*model.Car, error) {
	if m.findAvailableFunc != nil {
		return m.findAvailableFunc(ctx, location)
	}
	return []*model.Car{}, nil
}

func (m *mockCarRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Car, error) {
	return nil, nil
}

func (m *mockCarRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	return nil
}

func (m *mockCarRepository) SoftDelete(ctx context.Context, id string) error {
	return nil
}

type mockUserRepository struct {
	findByIDsFunc func(ctx context.Context, ids []string) (map[string]*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	return map[string]*model.User{}, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByApprovalToken(ctx context.Context, token string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Approve(ctx context.Context, id string) error { return nil }

func (m *mockUserRepository) Delete(ctx context.Context, id string) error { return nil }

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
}

func testCar() *model.Car {
	return &model.Car{
		ID:              testCarID,
		OwnerID:         testOwnerID,
		Brand:           "Toyota",
		Model:           "Corolla",
		Year:            2022,
		Category:        "Sedan",
		SeatingCapacity: 5,
		FuelType:        "Petrol",
		Transmission:    "Automatic",
		PricePerDay:     50,
		Location:        "Chicago",
		Description:     "Reliable commuter sedan",
		Image:           "https://cdn.example.com/cars/corolla.jpg",
		IsAvailable:     true,
	}
}

func testRenter() *model.User {
	return &model.User{
		ID:         testUserID,
		Name:       "Dana Renter",
		Email:      "dana@example.com",
		Password:   "hashed",
		Role:       model.RoleUser,
		IsApproved: true,
	}
}

func newTestBookingService(repo *mockBookingRepository, lockRepo *mockBookingLockRepository, carRepo *mockCarRepository, userRepo *mockUserRepository) BookingService {
	cfg := testConfig()
	return NewBookingService(repo, lockRepo, carRepo, userRepo, validator.NewBookingValidator(cfg.Log), cfg)
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *apperrors.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

// ────────────────────────────────────────────────
// Tests for Create()
// ────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	var created *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = booking
			return nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return testCar(), nil
		},
	}, &mockUserRepository{})

	err := svc.Create(context.Background(), testRenter(), &model.CreateBookingRequest{
		Car:        testCarID,
		PickupDate: "2026-09-10",
		ReturnDate: "2026-09-13",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created == nil {
		t.Fatal("expected booking to be persisted")
	}
	if created.Status != model.BookingPending {
		t.Errorf("expected status %q, got %q", model.BookingPending, created.Status)
	}
	if created.OwnerID != testOwnerID {
		t.Errorf("expected owner %s denormalized onto booking, got %s", testOwnerID, created.OwnerID)
	}
	// 10th through 13th inclusive is 3 billable days at 50/day.
	if created.Price != 150 {
		t.Errorf("expected price 150, got %v", created.Price)
	}
}

func TestCreate_SingleDayPrice(t *testing.T) {
	var created *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = booking
			return nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return testCar(), nil
		},
	}, &mockUserRepository{})

	err := svc.Create(context.Background(), testRenter(), &model.CreateBookingRequest{
		Car:        testCarID,
		PickupDate: "2026-09-10",
		ReturnDate: "2026-09-11",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Price != 50 {
		t.Errorf("expected one billable day at 50, got %v", created.Price)
	}
}

func TestCreate_OwnerRejected(t *testing.T) {
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			t.Error("booking must not be created for an owner account")
			return nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, &mockCarRepository{}, &mockUserRepository{})

	owner := testRenter()
	owner.Role = model.RoleOwner
	err := svc.Create(context.Background(), owner, &model.CreateBookingRequest{
		Car:        testCarID,
		PickupDate: "2026-09-10",
		ReturnDate: "2026-09-12",
	})
	if code := appErrCode(t, err); code != apperrors.CodeForbidden {
		t.Errorf("expected %s, got %s", apperrors.CodeForbidden, code)
	}
}

func TestCreate_ReturnNotAfterPickup(t *testing.T) {
	svc := newTestBookingService(&mockBookingRepository{}, &mockBookingLockRepository{}, &mockCarRepository{}, &mockUserRepository{})

	err := svc.Create(context.Background(), testRenter(), &model.CreateBookingRequest{
		Car:        testCarID,
		PickupDate: "2026-09-10",
		ReturnDate: "2026-09-10",
	})
	if code := appErrCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, code)
	}
}

func TestCreate_CarUnavailable(t *testing.T) {
	car := testCar()
	car.IsAvailable = false
	svc := newTestBookingService(&mockBookingRepository{}, &mockBookingLockRepository{}, &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return car, nil
		},
	}, &mockUserRepository{})

	err := svc.Create(context.Background(), testRenter(), &model.CreateBookingRequest{
		Car:        testCarID,
		PickupDate: "2026-09-10",
		ReturnDate: "2026-09-12",
	})
	if code := appErrCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected %s, got %s", apperrors.CodeConflict, code)
	}
}

func TestCreate_OverlapRejected(t *testing.T) {
	repo := &mockBookingRepository{
		findOverlappingForCarFunc: func(ctx context.Context, carID string, pickup, ret time.Time) ([]*model.Booking, error) {
			return []*model.Booking{{ID: "64a0f1e2b3c4d5e6f7a8b9c3", CarID: carID, Status: model.BookingConfirmed}}, nil
		},
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			t.Error("booking must not be created when the range overlaps")
			return nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return testCar(), nil
		},
	}, &mockUserRepository{})

	err := svc.Create(context.Background(), testRenter(), &model.CreateBookingRequest{
		Car:        testCarID,
		PickupDate: "2026-09-10",
		ReturnDate: "2026-09-12",
	})
	if code := appErrCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected %s, got %s", apperrors.CodeConflict, code)
	}
}

func TestCreate_LockContention(t *testing.T) {
	lockRepo := &mockBookingLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
	}
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			t.Error("booking must not be created while another request holds the lock")
			return nil
		},
	}
	svc := newTestBookingService(repo, lockRepo, &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return testCar(), nil
		},
	}, &mockUserRepository{})

	err := svc.Create(context.Background(), testRenter(), &model.CreateBookingRequest{
		Car:        testCarID,
		PickupDate: "2026-09-10",
		ReturnDate: "2026-09-12",
	})
	if code := appErrCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected %s, got %s", apperrors.CodeConflict, code)
	}
}

func TestCreate_LockReleasedAfterSuccess(t *testing.T) {
	var acquired, released string
	lockRepo := &mockBookingLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			acquired = lock.ID
			return lock, nil
		},
		deleteFunc: func(ctx context.Context, lockID string) error {
			released = lockID
			return nil
		},
	}
	svc := newTestBookingService(&mockBookingRepository{}, lockRepo, &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return testCar(), nil
		},
	}, &mockUserRepository{})

	err := svc.Create(context.Background(), testRenter(), &model.CreateBookingRequest{
		Car:        testCarID,
		PickupDate: "2026-09-10",
		ReturnDate: "2026-09-12",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	want := fmt.Sprintf("booking_lock_%s", testCarID)
	if acquired != want {
		t.Errorf("expected lock %q to be acquired, got %q", want, acquired)
	}
	if released != want {
		t.Errorf("expected lock %q to be released, got %q", want, released)
	}
}

func TestCreate_SequentialRequestsSecondRejected(t *testing.T) {
	// Two identical requests one after the other: the first lands, the
	// second sees it in the overlap re-check inside the transaction.
	var stored []*model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			stored = append(stored, booking)
			return nil
		},
		findOverlappingForCarFunc: func(ctx context.Context, carID string, pickup, ret time.Time) ([]*model.Booking, error) {
			var overlapping []*model.Booking
			for _, b := range stored {
				if b.CarID == carID && !b.PickupDate.After(ret) && !b.ReturnDate.Before(pickup) {
					overlapping = append(overlapping, b)
				}
			}
			return overlapping, nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return testCar(), nil
		},
	}, &mockUserRepository{})

	req := &model.CreateBookingRequest{
		Car:        testCarID,
		PickupDate: "2026-09-10",
		ReturnDate: "2026-09-12",
	}
	if err := svc.Create(context.Background(), testRenter(), req); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	err := svc.Create(context.Background(), testRenter(), req)
	if code := appErrCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected second booking to conflict, got %s", code)
	}
	if len(stored) != 1 {
		t.Errorf("expected exactly one stored booking, got %d", len(stored))
	}
}

func TestCreate_BoundaryTouchRejected(t *testing.T) {
	// An existing rental through the 15th holds that whole day, so a new
	// request picking up on the 15th collides; picking up on the 16th is fine.
	existingPickup, existingRet, err := dates.ParseRange("2024-06-10", "2024-06-15")
	if err != nil {
		t.Fatalf("ParseRange failed: %v", err)
	}
	stored := []*model.Booking{{
		ID:         "64a0f1e2b3c4d5e6f7a8b9c3",
		CarID:      testCarID,
		UserID:     testUserID,
		OwnerID:    testOwnerID,
		PickupDate: existingPickup,
		ReturnDate: existingRet,
		Status:     model.BookingConfirmed,
	}}

	var created *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = booking
			return nil
		},
		findOverlappingForCarFunc: func(ctx context.Context, carID string, pickup, ret time.Time) ([]*model.Booking, error) {
			var overlapping []*model.Booking
			for _, b := range stored {
				if b.CarID == carID && !b.PickupDate.After(ret) && !b.ReturnDate.Before(pickup) {
					overlapping = append(overlapping, b)
				}
			}
			return overlapping, nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return testCar(), nil
		},
	}, &mockUserRepository{})

	err = svc.Create(context.Background(), testRenter(), &model.CreateBookingRequest{
		Car:        testCarID,
		PickupDate: "2024-06-15",
		ReturnDate: "2024-06-18",
	})
	if code := appErrCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected pickup on the existing return day to conflict, got %s", code)
	}
	if created != nil {
		t.Fatal("boundary-touch booking must not be persisted")
	}

	err = svc.Create(context.Background(), testRenter(), &model.CreateBookingRequest{
		Car:        testCarID,
		PickupDate: "2024-06-16",
		ReturnDate: "2024-06-18",
	})
	if err != nil {
		t.Fatalf("Create after the existing return day failed: %v", err)
	}
	if created == nil {
		t.Fatal("expected booking to be persisted")
	}
	if created.Price != 100 {
		t.Errorf("expected price 100 for two billable days, got %v", created.Price)
	}
}

func TestIsAvailable(t *testing.T) {
	var existing []*model.Booking
	repo := &mockBookingRepository{
		findOverlappingForCarFunc: func(ctx context.Context, carID string, pickup, ret time.Time) ([]*model.Booking, error) {
			return existing, nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, &mockCarRepository{}, &mockUserRepository{})

	pickup := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	ret := pickup.AddDate(0, 0, 2)

	free, err := svc.IsAvailable(context.Background(), testCarID, pickup, ret)
	if err != nil {
		t.Fatalf("IsAvailable failed: %v", err)
	}
	if !free {
		t.Error("expected car with no overlapping bookings to be available")
	}

	existing = []*model.Booking{{ID: "64a0f1e2b3c4d5e6f7a8b9c3", CarID: testCarID}}
	free, err = svc.IsAvailable(context.Background(), testCarID, pickup, ret)
	if err != nil {
		t.Fatalf("IsAvailable failed: %v", err)
	}
	if free {
		t.Error("expected car with an overlapping booking to be unavailable")
	}
}

// ────────────────────────────────────────────────
// Tests for CheckAvailability()
// ────────────────────────────────────────────────

func TestCheckAvailability_ExcludesBookedCars(t *testing.T) {
	freeCar := testCar()
	bookedCar := testCar()
	bookedCar.ID = "64a0f1e2b3c4d5e6f7a8b9c4"

	repo := &mockBookingRepository{
		findOverlappingCarIDsFunc: func(ctx context.Context, pickup, ret time.Time) (map[string]struct{}, error) {
			return map[string]struct{}{bookedCar.ID: {}}, nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, &mockCarRepository{
		findAvailableFunc: func(ctx context.Context, location string) ([]*model.Car, error) {
			if location != "chicago" {
				t.Errorf("expected location %q, got %q", "chicago", location)
			}
			return []*model.Car{freeCar, bookedCar}, nil
		},
	}, &mockUserRepository{})

	cars, err := svc.CheckAvailability(context.Background(), &model.CheckAvailabilityRequest{
		Location:   "  chicago ",
		PickupDate: "2026-09-10",
		ReturnDate: "2026-09-12",
	})
	if err != nil {
		t.Fatalf("CheckAvailability failed: %v", err)
	}
	if len(cars) != 1 {
		t.Fatalf("expected 1 available car, got %d", len(cars))
	}
	if cars[0].ID != freeCar.ID {
		t.Errorf("expected car %s, got %s", freeCar.ID, cars[0].ID)
	}
}

func TestCheckAvailability_CancelledBookingFreesSlot(t *testing.T) {
	// The repository query excludes cancelled bookings; a car whose only
	// overlapping booking was cancelled comes back as available.
	car := testCar()
	repo := &mockBookingRepository{
		findOverlappingCarIDsFunc: func(ctx context.Context, pickup, ret time.Time) (map[string]struct{}, error) {
			return map[string]struct{}{}, nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, &mockCarRepository{
		findAvailableFunc: func(ctx context.Context, location string) ([]*model.Car, error) {
			return []*model.Car{car}, nil
		},
	}, &mockUserRepository{})

	cars, err := svc.CheckAvailability(context.Background(), &model.CheckAvailabilityRequest{
		Location:   "Chicago",
		PickupDate: "2026-09-10",
		ReturnDate: "2026-09-12",
	})
	if err != nil {
		t.Fatalf("CheckAvailability failed: %v", err)
	}
	if len(cars) != 1 {
		t.Fatalf("expected the car to be bookable again, got %d cars", len(cars))
	}
}

func TestCheckAvailability_BadDateFormat(t *testing.T) {
	svc := newTestBookingService(&mockBookingRepository{}, &mockBookingLockRepository{}, &mockCarRepository{}, &mockUserRepository{})

	_, err := svc.CheckAvailability(context.Background(), &model.CheckAvailabilityRequest{
		Location:   "Chicago",
		PickupDate: "10/09/2026",
		ReturnDate: "12/09/2026",
	})
	if code := appErrCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, code)
	}
}

// ────────────────────────────────────────────────
// Tests for listings and UpdateStatus()
// ────────────────────────────────────────────────

func TestOwnerBookings_JoinsCarAndRenter(t *testing.T) {
	booking := &model.Booking{
		ID:      "64a0f1e2b3c4d5e6f7a8b9c5",
		CarID:   testCarID,
		UserID:  testUserID,
		OwnerID: testOwnerID,
		Status:  model.BookingPending,
	}
	repo := &mockBookingRepository{
		findByOwnerFunc: func(ctx context.Context, ownerID string) ([]*model.Booking, error) {
			return []*model.Booking{booking}, nil
		},
	}
	carRepo := &mockCarRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) (map[string]*model.Car, error) {
			return map[string]*model.Car{testCarID: testCar()}, nil
		},
	}
	userRepo := &mockUserRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) (map[string]*model.User, error) {
			return map[string]*model.User{testUserID: testRenter()}, nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, carRepo, userRepo)

	details, err := svc.OwnerBookings(context.Background(), testOwnerID)
	if err != nil {
		t.Fatalf("OwnerBookings failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(details))
	}
	if details[0].Car == nil || details[0].Car.ID != testCarID {
		t.Error("expected car joined into booking detail")
	}
	if details[0].Renter == nil || details[0].Renter.ID != testUserID {
		t.Error("expected renter joined into owner-facing booking detail")
	}
}

func TestUserBookings_OmitsRenter(t *testing.T) {
	repo := &mockBookingRepository{
		findByUserFunc: func(ctx context.Context, userID string) ([]*model.Booking, error) {
			return []*model.Booking{{ID: "64a0f1e2b3c4d5e6f7a8b9c5", CarID: testCarID, UserID: userID}}, nil
		},
	}
	carRepo := &mockCarRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) (map[string]*model.Car, error) {
			return map[string]*model.Car{testCarID: testCar()}, nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, carRepo, &mockUserRepository{})

	details, err := svc.UserBookings(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("UserBookings failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(details))
	}
	if details[0].Renter != nil {
		t.Error("renter must not be joined into the renter's own listing")
	}
}

func TestUpdateStatus_RejectsForeignOwner(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, OwnerID: testOwnerID}, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status string) error {
			t.Error("status must not change for a booking owned by someone else")
			return nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, &mockCarRepository{}, &mockUserRepository{})

	err := svc.UpdateStatus(context.Background(), "64a0f1e2b3c4d5e6f7a8b9c9", &model.UpdateBookingStatusRequest{
		BookingID: "64a0f1e2b3c4d5e6f7a8b9c5",
		Status:    model.BookingConfirmed,
	})
	if code := appErrCode(t, err); code != apperrors.CodeForbidden {
		t.Errorf("expected %s, got %s", apperrors.CodeForbidden, code)
	}
}

func TestUpdateStatus_Success(t *testing.T) {
	var updatedID, updatedStatus string
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, OwnerID: testOwnerID}, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status string) error {
			updatedID = id
			updatedStatus = status
			return nil
		},
	}
	svc := newTestBookingService(repo, &mockBookingLockRepository{}, &mockCarRepository{}, &mockUserRepository{})

	err := svc.UpdateStatus(context.Background(), testOwnerID, &model.UpdateBookingStatusRequest{
		BookingID: "64a0f1e2b3c4d5e6f7a8b9c5",
		Status:    model.BookingCancelled,
	})
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updatedID != "64a0f1e2b3c4d5e6f7a8b9c5" || updatedStatus != model.BookingCancelled {
		t.Errorf("unexpected update: id=%s status=%s", updatedID, updatedStatus)
	}
}
