package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"rentwheels/internal/cars/validator"
	"rentwheels/pkg/config"
	mongotx "rentwheels/pkg/db/mongo"
	apperrors "rentwheels/pkg/errors"
	"rentwheels/pkg/logger"
	"rentwheels/pkg/model"
)

const (
	testCarID   = "64c0f1e2b3c4d5e6f7a8b9c0"
	testUserID  = "64c0f1e2b3c4d5e6f7a8b9c1"
	testOwnerID = "64c0f1e2b3c4d5e6f7a8b9c2"
)

// ────────────────────────────────────────────────
// Mock repositories and image store for testing
// ────────────────────────────────────────────────

type mockCarRepository struct {
	createFunc          func(ctx context.Context, car *model.Car) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Car, error)
	findByIDsFunc       func(ctx context.Context, ids []string) (map[string]*model.Car, error)
	findAvailableFunc   func(ctx context.Context, location string) ([]*model.Car, error)
	findByOwnerFunc     func(ctx context.Context, ownerID string) ([]*model.Car, error)
	setAvailabilityFunc func(ctx context.Context, id string, available bool) error
	softDeleteFunc      func(ctx context.Context, id string) error
}

func (m *mockCarRepository) Create(ctx context.Context, car *model.Car) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, car)
	}
	car.ID = testCarID
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
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID)
	}
	return []*model.Car{}, nil
}

func (m *mockCarRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	if m.setAvailabilityFunc != nil {
		return m.setAvailabilityFunc(ctx, id, available)
	}
	return nil
}

func (m *mockCarRepository) SoftDelete(ctx context.Context, id string) error {
	if m.softDeleteFunc != nil {
		return m.softDeleteFunc(ctx, id)
	}
	return nil
}

type mockBookingRepository struct {
	findOverlappingCarIDsFunc func(ctx context.Context, pickup, ret time.Time) (map[string]struct{}, error)
	findByOwnerFunc           func(ctx context.Context, ownerID string) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindOverlappingForCar(ctx context.Context, carID string, pickup, ret time.Time) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindOverlappingCarIDs(ctx context.Context, pickup, ret time.Time) (map[string]struct{}, error) {
	if m.findOverlappingCarIDsFunc != nil {
		return m.findOverlappingCarIDsFunc(ctx, pickup, ret)
	}
	return map[string]struct{}{}, nil
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Booking, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
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

type recordingImageStore struct {
	uploadedFilename string
	url              string
	err              error
}

func (r *recordingImageStore) Upload(ctx context.Context, reader io.Reader, size int64, filename, contentType string) (string, error) {
	r.uploadedFilename = filename
	if r.err != nil {
		return "", r.err
	}
	return r.url, nil
}

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
		Image:           "https://cdn.example.com/cars/corolla.jpg",
		IsAvailable:     true,
	}
}

func newTestCarService(repo *mockCarRepository, bookings *mockBookingRepository, users *mockUserRepository, images *recordingImageStore) CarService {
	cfg := testConfig()
	return NewCarService(repo, bookings, users, validator.NewCarValidator(cfg.Log), images, cfg)
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
// Tests for ListAvailable()
// ────────────────────────────────────────────────

func TestListAvailable_NoDatesReturnsWholeCatalog(t *testing.T) {
	repo := &mockCarRepository{
		findAvailableFunc: func(ctx context.Context, location string) ([]*model.Car, error) {
			return []*model.Car{testCar()}, nil
		},
	}
	bookings := &mockBookingRepository{
		findOverlappingCarIDsFunc: func(ctx context.Context, pickup, ret time.Time) (map[string]struct{}, error) {
			t.Error("overlap query must not run without a date range")
			return nil, nil
		},
	}
	svc := newTestCarService(repo, bookings, &mockUserRepository{}, &recordingImageStore{})

	cars, err := svc.ListAvailable(context.Background(), "Chicago", "", "")
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if len(cars) != 1 {
		t.Errorf("expected 1 car, got %d", len(cars))
	}
}

func TestListAvailable_DateRangeExcludesBookedCars(t *testing.T) {
	free := testCar()
	booked := testCar()
	booked.ID = "64c0f1e2b3c4d5e6f7a8b9c3"

	repo := &mockCarRepository{
		findAvailableFunc: func(ctx context.Context, location string) ([]*model.Car, error) {
			return []*model.Car{free, booked}, nil
		},
	}
	bookings := &mockBookingRepository{
		findOverlappingCarIDsFunc: func(ctx context.Context, pickup, ret time.Time) (map[string]struct{}, error) {
			return map[string]struct{}{booked.ID: {}}, nil
		},
	}
	svc := newTestCarService(repo, bookings, &mockUserRepository{}, &recordingImageStore{})

	cars, err := svc.ListAvailable(context.Background(), "Chicago", "2026-09-10", "2026-09-12")
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if len(cars) != 1 || cars[0].ID != free.ID {
		t.Errorf("expected only the free car, got %v", cars)
	}
}

func TestListAvailable_LoneDateIgnored(t *testing.T) {
	repo := &mockCarRepository{
		findAvailableFunc: func(ctx context.Context, location string) ([]*model.Car, error) {
			return []*model.Car{testCar()}, nil
		},
	}
	bookings := &mockBookingRepository{
		findOverlappingCarIDsFunc: func(ctx context.Context, pickup, ret time.Time) (map[string]struct{}, error) {
			t.Error("a lone pickup date must not trigger the overlap query")
			return nil, nil
		},
	}
	svc := newTestCarService(repo, bookings, &mockUserRepository{}, &recordingImageStore{})

	cars, err := svc.ListAvailable(context.Background(), "Chicago", "2026-09-10", "")
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if len(cars) != 1 {
		t.Errorf("expected 1 car, got %d", len(cars))
	}
}

// ────────────────────────────────────────────────
// Tests for AddCar()
// ────────────────────────────────────────────────

func TestAddCar_UploadsImageAndCreates(t *testing.T) {
	var created *model.Car
	repo := &mockCarRepository{
		createFunc: func(ctx context.Context, car *model.Car) error {
			car.ID = testCarID
			created = car
			return nil
		},
	}
	images := &recordingImageStore{url: "https://cdn.example.com/cars/new.jpg"}
	svc := newTestCarService(repo, &mockBookingRepository{}, &mockUserRepository{}, images)

	car := testCar()
	car.ID = ""
	car.OwnerID = ""
	car.Image = ""
	err := svc.AddCar(context.Background(), testOwnerID, car, &ImageUpload{
		Reader:      strings.NewReader("jpegbytes"),
		Size:        9,
		Filename:    "new.jpg",
		ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("AddCar failed: %v", err)
	}
	if created == nil {
		t.Fatal("expected car to be persisted")
	}
	if created.OwnerID != testOwnerID {
		t.Errorf("expected owner %s stamped onto car, got %s", testOwnerID, created.OwnerID)
	}
	if created.Image != images.url {
		t.Errorf("expected uploaded image URL on car, got %q", created.Image)
	}
	if !created.IsAvailable {
		t.Error("new listings must start available")
	}
	if images.uploadedFilename != "new.jpg" {
		t.Errorf("expected image upload, got filename %q", images.uploadedFilename)
	}
}

func TestAddCar_MissingImageRejected(t *testing.T) {
	repo := &mockCarRepository{
		createFunc: func(ctx context.Context, car *model.Car) error {
			t.Error("car must not be created without an image")
			return nil
		},
	}
	svc := newTestCarService(repo, &mockBookingRepository{}, &mockUserRepository{}, &recordingImageStore{})

	err := svc.AddCar(context.Background(), testOwnerID, testCar(), nil)
	if code := appErrCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, code)
	}
}

// ────────────────────────────────────────────────
// Tests for ToggleAvailability() / DeleteCar()
// ────────────────────────────────────────────────

func TestToggleAvailability_FlipsFlag(t *testing.T) {
	var setID string
	var setValue bool
	repo := &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return testCar(), nil
		},
		setAvailabilityFunc: func(ctx context.Context, id string, available bool) error {
			setID = id
			setValue = available
			return nil
		},
	}
	svc := newTestCarService(repo, &mockBookingRepository{}, &mockUserRepository{}, &recordingImageStore{})

	car, err := svc.ToggleAvailability(context.Background(), testOwnerID, testCarID)
	if err != nil {
		t.Fatalf("ToggleAvailability failed: %v", err)
	}
	if setID != testCarID || setValue {
		t.Errorf("expected availability of %s set to false, got id=%s value=%v", testCarID, setID, setValue)
	}
	if car.IsAvailable {
		t.Error("returned car must carry the flipped flag")
	}
}

func TestToggleAvailability_RejectsForeignOwner(t *testing.T) {
	repo := &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return testCar(), nil
		},
		setAvailabilityFunc: func(ctx context.Context, id string, available bool) error {
			t.Error("availability must not change for a car owned by someone else")
			return nil
		},
	}
	svc := newTestCarService(repo, &mockBookingRepository{}, &mockUserRepository{}, &recordingImageStore{})

	_, err := svc.ToggleAvailability(context.Background(), "64c0f1e2b3c4d5e6f7a8b9c9", testCarID)
	if code := appErrCode(t, err); code != apperrors.CodeForbidden {
		t.Errorf("expected %s, got %s", apperrors.CodeForbidden, code)
	}
}

func TestDeleteCar_SoftDeletes(t *testing.T) {
	var deletedID string
	repo := &mockCarRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Car, error) {
			return testCar(), nil
		},
		softDeleteFunc: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := newTestCarService(repo, &mockBookingRepository{}, &mockUserRepository{}, &recordingImageStore{})

	if err := svc.DeleteCar(context.Background(), testOwnerID, testCarID); err != nil {
		t.Fatalf("DeleteCar failed: %v", err)
	}
	if deletedID != testCarID {
		t.Errorf("expected car %s soft deleted, got %q", testCarID, deletedID)
	}
}

// ────────────────────────────────────────────────
// Tests for Dashboard()
// ────────────────────────────────────────────────

func TestDashboard_AggregatesBookings(t *testing.T) {
	now := time.Now().UTC()
	lastYear := now.AddDate(-1, 0, 0)
	bookings := []*model.Booking{
		{ID: "64c0f1e2b3c4d5e6f7a8b9d0", CarID: testCarID, UserID: testUserID, Status: model.BookingPending, Price: 100, CreatedAt: now},
		{ID: "64c0f1e2b3c4d5e6f7a8b9d1", CarID: testCarID, UserID: testUserID, Status: model.BookingConfirmed, Price: 200, CreatedAt: now},
		{ID: "64c0f1e2b3c4d5e6f7a8b9d2", CarID: testCarID, UserID: testUserID, Status: model.BookingCancelled, Price: 300, CreatedAt: now},
		{ID: "64c0f1e2b3c4d5e6f7a8b9d3", CarID: testCarID, UserID: testUserID, Status: model.BookingConfirmed, Price: 400, CreatedAt: lastYear},
	}

	repo := &mockCarRepository{
		findByOwnerFunc: func(ctx context.Context, ownerID string) ([]*model.Car, error) {
			return []*model.Car{testCar()}, nil
		},
		findByIDsFunc: func(ctx context.Context, ids []string) (map[string]*model.Car, error) {
			return map[string]*model.Car{testCarID: testCar()}, nil
		},
	}
	bookingRepo := &mockBookingRepository{
		findByOwnerFunc: func(ctx context.Context, ownerID string) ([]*model.Booking, error) {
			return bookings, nil
		},
	}
	users := &mockUserRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) (map[string]*model.User, error) {
			return map[string]*model.User{testUserID: {ID: testUserID, Name: "Dana Renter"}}, nil
		},
	}
	svc := newTestCarService(repo, bookingRepo, users, &recordingImageStore{})

	data, err := svc.Dashboard(context.Background(), testOwnerID)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if data.TotalCars != 1 {
		t.Errorf("expected 1 car, got %d", data.TotalCars)
	}
	if data.TotalBookings != 4 {
		t.Errorf("expected 4 bookings, got %d", data.TotalBookings)
	}
	if data.PendingBookings != 1 {
		t.Errorf("expected 1 pending booking, got %d", data.PendingBookings)
	}
	if data.CompletedBookings != 2 {
		t.Errorf("expected 2 confirmed bookings, got %d", data.CompletedBookings)
	}
	// Only the three bookings created this month count toward revenue.
	if data.MonthlyRevenue != 600 {
		t.Errorf("expected monthly revenue 600, got %v", data.MonthlyRevenue)
	}
	if len(data.RecentBookings) != 4 {
		t.Fatalf("expected 4 recent bookings, got %d", len(data.RecentBookings))
	}
	if data.RecentBookings[0].Car == nil || data.RecentBookings[0].Renter == nil {
		t.Error("expected car and renter joined into recent bookings")
	}
}
