package rental

import (
	"context"
	"errors"
	"sync"
	"testing"

	"sportrent/internal/domain"
	"sportrent/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock stores

type MockEquipmentStore struct {
	mock.Mock
}

func (m *MockEquipmentStore) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *MockEquipmentStore) ReserveStock(ctx context.Context, id string, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockEquipmentStore) RestoreStock(ctx context.Context, id string, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

type MockRentalStore struct {
	mock.Mock
}

func (m *MockRentalStore) Create(ctx context.Context, r *domain.Rental) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRentalStore) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalStore) GetByUserID(ctx context.Context, userID string) ([]domain.Rental, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}

func (m *MockRentalStore) DeleteOwned(ctx context.Context, id, userID string) (*domain.Rental, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func validRequest() CreateRentalRequest {
	return CreateRentalRequest{
		EquipmentID: "bike1",
		StartDate:   "2030-06-01",
		EndDate:     "2030-06-03",
		Quantity:    intPtr(2),
		Name:        "Mountain Bike",
		Price:       floatPtr(100),
	}
}

func TestService_CreateRental_Success(t *testing.T) {
	mockEq := new(MockEquipmentStore)
	mockRentals := new(MockRentalStore)

	mockEq.On("GetByID", mock.Anything, "bike1").Return(&domain.Equipment{
		ID: "bike1", Name: "Mountain Bike", Price: 100, Stock: 3,
	}, nil)
	mockEq.On("ReserveStock", mock.Anything, "bike1", 2).Return(nil)
	mockRentals.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockEq, mockRentals)

	r, err := service.CreateRental(context.Background(), "user-a", validRequest())

	require.NoError(t, err)
	require.NotNil(t, r)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "user-a", r.UserID)
	assert.Equal(t, "bike1", r.EquipmentID)
	// Unit price and name come from the equipment document, not the caller.
	assert.Equal(t, "Mountain Bike", r.Name)
	// 100 per day x 2 days x 2 units
	assert.Equal(t, 400.0, r.Price)
	assert.Equal(t, 2, r.Quantity)
	assert.Equal(t, domain.RentalStatusActive, r.Status)
	assert.False(t, r.CreatedAt.IsZero())
	mockEq.AssertExpectations(t)
	mockRentals.AssertExpectations(t)
}

func TestService_CreateRental_Unauthenticated(t *testing.T) {
	service := NewService(new(MockEquipmentStore), new(MockRentalStore))

	_, err := service.CreateRental(context.Background(), "", validRequest())

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestService_CreateRental_MissingFields(t *testing.T) {
	service := NewService(new(MockEquipmentStore), new(MockRentalStore))

	req := CreateRentalRequest{EquipmentID: "bike1", StartDate: "2030-06-01"}

	_, err := service.CreateRental(context.Background(), "user-a", req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ElementsMatch(t, []string{"endDate", "quantity", "name", "price"}, vErr.Fields)
}

func TestService_CreateRental_StartDateInPast(t *testing.T) {
	service := NewService(new(MockEquipmentStore), new(MockRentalStore))

	req := validRequest()
	req.StartDate = "2020-01-01"

	_, err := service.CreateRental(context.Background(), "user-a", req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "start date cannot be in the past", vErr.Message)
}

func TestService_CreateRental_EndNotAfterStart(t *testing.T) {
	service := NewService(new(MockEquipmentStore), new(MockRentalStore))

	req := validRequest()
	req.EndDate = req.StartDate

	_, err := service.CreateRental(context.Background(), "user-a", req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "end date must be after start date", vErr.Message)
}

func TestService_CreateRental_NonPositiveQuantity(t *testing.T) {
	service := NewService(new(MockEquipmentStore), new(MockRentalStore))

	req := validRequest()
	req.Quantity = intPtr(0)

	_, err := service.CreateRental(context.Background(), "user-a", req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "quantity must be greater than 0", vErr.Message)
}

func TestService_CreateRental_EquipmentNotFound(t *testing.T) {
	mockEq := new(MockEquipmentStore)
	mockEq.On("GetByID", mock.Anything, "bike1").Return(nil, repository.ErrNotFound)

	service := NewService(mockEq, new(MockRentalStore))

	_, err := service.CreateRental(context.Background(), "user-a", validRequest())

	assert.ErrorIs(t, err, ErrEquipmentNotFound)
}

func TestService_CreateRental_InsufficientStock(t *testing.T) {
	mockEq := new(MockEquipmentStore)
	mockEq.On("GetByID", mock.Anything, "bike1").Return(&domain.Equipment{
		ID: "bike1", Name: "Mountain Bike", Price: 100, Stock: 1,
	}, nil)

	service := NewService(mockEq, new(MockRentalStore))

	_, err := service.CreateRental(context.Background(), "user-a", validRequest())

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)
	// Nothing was mutated.
	mockEq.AssertNotCalled(t, "ReserveStock", mock.Anything, mock.Anything, mock.Anything)
}

// A concurrent reservation can drain stock between the read and the
// conditional decrement; the decrement conflict must surface as
// InsufficientStock with the fresh availability.
func TestService_CreateRental_ReserveConflict(t *testing.T) {
	mockEq := new(MockEquipmentStore)
	mockEq.On("GetByID", mock.Anything, "bike1").Return(&domain.Equipment{
		ID: "bike1", Name: "Mountain Bike", Price: 100, Stock: 3,
	}, nil).Once()
	mockEq.On("ReserveStock", mock.Anything, "bike1", 2).Return(repository.ErrStockConflict)
	mockEq.On("GetByID", mock.Anything, "bike1").Return(&domain.Equipment{
		ID: "bike1", Name: "Mountain Bike", Price: 100, Stock: 1,
	}, nil).Once()

	service := NewService(mockEq, new(MockRentalStore))

	_, err := service.CreateRental(context.Background(), "user-a", validRequest())

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)
}

func TestService_CreateRental_CompensatesFailedInsert(t *testing.T) {
	mockEq := new(MockEquipmentStore)
	mockRentals := new(MockRentalStore)

	mockEq.On("GetByID", mock.Anything, "bike1").Return(&domain.Equipment{
		ID: "bike1", Name: "Mountain Bike", Price: 100, Stock: 3,
	}, nil)
	mockEq.On("ReserveStock", mock.Anything, "bike1", 2).Return(nil)
	mockRentals.On("Create", mock.Anything, mock.Anything).Return(errors.New("write failed"))
	mockEq.On("RestoreStock", mock.Anything, "bike1", 2).Return(nil)

	service := NewService(mockEq, mockRentals)

	_, err := service.CreateRental(context.Background(), "user-a", validRequest())

	assert.Error(t, err)
	mockEq.AssertCalled(t, "RestoreStock", mock.Anything, "bike1", 2)
}

func TestService_CancelRental_Success(t *testing.T) {
	mockEq := new(MockEquipmentStore)
	mockRentals := new(MockRentalStore)

	r := &domain.Rental{ID: "r1", UserID: "user-a", EquipmentID: "bike1", Quantity: 2}
	mockRentals.On("GetByID", mock.Anything, "r1").Return(r, nil)
	mockRentals.On("DeleteOwned", mock.Anything, "r1", "user-a").Return(r, nil)
	mockEq.On("RestoreStock", mock.Anything, "bike1", 2).Return(nil)

	service := NewService(mockEq, mockRentals)

	err := service.CancelRental(context.Background(), "user-a", "r1")

	assert.NoError(t, err)
	mockEq.AssertExpectations(t)
	mockRentals.AssertExpectations(t)
}

func TestService_CancelRental_Forbidden(t *testing.T) {
	mockEq := new(MockEquipmentStore)
	mockRentals := new(MockRentalStore)

	r := &domain.Rental{ID: "r1", UserID: "user-a", EquipmentID: "bike1", Quantity: 2}
	mockRentals.On("GetByID", mock.Anything, "r1").Return(r, nil)

	service := NewService(mockEq, mockRentals)

	err := service.CancelRental(context.Background(), "user-b", "r1")

	assert.ErrorIs(t, err, ErrForbidden)
	// No mutation: the rental stays, stock stays.
	mockRentals.AssertNotCalled(t, "DeleteOwned", mock.Anything, mock.Anything, mock.Anything)
	mockEq.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CancelRental_NotFound(t *testing.T) {
	mockRentals := new(MockRentalStore)
	mockRentals.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	service := NewService(new(MockEquipmentStore), mockRentals)

	err := service.CancelRental(context.Background(), "user-a", "missing")

	assert.ErrorIs(t, err, ErrRentalNotFound)
}

// The equipment document being gone must not fail the cancellation.
func TestService_CancelRental_EquipmentGone(t *testing.T) {
	mockEq := new(MockEquipmentStore)
	mockRentals := new(MockRentalStore)

	r := &domain.Rental{ID: "r1", UserID: "user-a", EquipmentID: "bike1", Quantity: 2}
	mockRentals.On("GetByID", mock.Anything, "r1").Return(r, nil)
	mockRentals.On("DeleteOwned", mock.Anything, "r1", "user-a").Return(r, nil)
	mockEq.On("RestoreStock", mock.Anything, "bike1", 2).Return(repository.ErrNotFound)

	service := NewService(mockEq, mockRentals)

	err := service.CancelRental(context.Background(), "user-a", "r1")

	assert.NoError(t, err)
}

func TestService_ListRentals(t *testing.T) {
	mockRentals := new(MockRentalStore)
	mockRentals.On("GetByUserID", mock.Anything, "user-a").Return([]domain.Rental{
		{ID: "r1", UserID: "user-a"},
	}, nil)

	service := NewService(new(MockEquipmentStore), mockRentals)

	rentals, err := service.ListRentals(context.Background(), "user-a")

	require.NoError(t, err)
	assert.Len(t, rentals, 1)
}

// ============================================================================
// Ledger properties against an in-memory store
// ============================================================================

// fakeStore implements EquipmentStore and RentalStore with the same
// per-document atomicity guarantees as the Mongo repositories.
type fakeStore struct {
	mu        sync.Mutex
	equipment map[string]domain.Equipment
	rentals   map[string]domain.Rental
}

func newFakeStore(items ...domain.Equipment) *fakeStore {
	f := &fakeStore{
		equipment: make(map[string]domain.Equipment),
		rentals:   make(map[string]domain.Rental),
	}
	for _, eq := range items {
		f.equipment[eq.ID] = eq
	}
	return f
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	eq, ok := f.equipment[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &eq, nil
}

func (f *fakeStore) ReserveStock(ctx context.Context, id string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	eq, ok := f.equipment[id]
	if !ok || eq.Stock < quantity {
		return repository.ErrStockConflict
	}
	eq.Stock -= quantity
	f.equipment[id] = eq
	return nil
}

func (f *fakeStore) RestoreStock(ctx context.Context, id string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	eq, ok := f.equipment[id]
	if !ok {
		return repository.ErrNotFound
	}
	eq.Stock += quantity
	f.equipment[id] = eq
	return nil
}

func (f *fakeStore) Create(ctx context.Context, r *domain.Rental) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rentals[r.ID] = *r
	return nil
}

func (f *fakeStore) GetRentalByID(ctx context.Context, id string) (*domain.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeStore) GetByUserID(ctx context.Context, userID string) ([]domain.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Rental, 0)
	for _, r := range f.rentals {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteOwned(ctx context.Context, id, userID string) (*domain.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rentals[id]
	if !ok || r.UserID != userID {
		return nil, repository.ErrNotFound
	}
	delete(f.rentals, id)
	return &r, nil
}

// rentalStoreAdapter lets fakeStore satisfy RentalStore despite GetByID
// already being taken by the equipment side.
type rentalStoreAdapter struct{ *fakeStore }

func (a rentalStoreAdapter) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	return a.GetRentalByID(ctx, id)
}

func (f *fakeStore) stock(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.equipment[id].Stock
}

// Create-then-cancel restores stock to its exact starting value and removes
// the rental record.
func TestLedger_RoundTrip(t *testing.T) {
	store := newFakeStore(domain.Equipment{ID: "bike1", Name: "Bike", Price: 100, Stock: 3})
	service := NewService(store, rentalStoreAdapter{store})
	ctx := context.Background()

	r, err := service.CreateRental(ctx, "user-a", validRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, store.stock("bike1"))
	assert.Equal(t, 400.0, r.Price)

	// A second request for 2 units must now fail with the exact amounts.
	_, err = service.CreateRental(ctx, "user-b", validRequest())
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)

	require.NoError(t, service.CancelRental(ctx, "user-a", r.ID))
	assert.Equal(t, 3, store.stock("bike1"))

	rentals, err := service.ListRentals(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, rentals)
}

// Two concurrent reservations whose combined quantity exceeds stock: at most
// one succeeds, the other fails with InsufficientStock.
func TestLedger_ConcurrentReservations(t *testing.T) {
	store := newFakeStore(domain.Equipment{ID: "bike1", Name: "Bike", Price: 100, Stock: 3})
	service := NewService(store, rentalStoreAdapter{store})

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = service.CreateRental(context.Background(), "user-a", validRequest())
		}(i)
	}
	wg.Wait()

	successes, stockFailures := 0, 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			stockFailures++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, stockFailures)
	assert.Equal(t, 1, store.stock("bike1"))
}

// A cancel that loses the delete race must not restore stock a second time.
func TestLedger_DoubleCancel(t *testing.T) {
	store := newFakeStore(domain.Equipment{ID: "bike1", Name: "Bike", Price: 100, Stock: 3})
	service := NewService(store, rentalStoreAdapter{store})
	ctx := context.Background()

	r, err := service.CreateRental(ctx, "user-a", validRequest())
	require.NoError(t, err)

	require.NoError(t, service.CancelRental(ctx, "user-a", r.ID))
	assert.ErrorIs(t, service.CancelRental(ctx, "user-a", r.ID), ErrRentalNotFound)
	assert.Equal(t, 3, store.stock("bike1"))
}
