package rental

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"sportrent/internal/domain"
	"sportrent/internal/repository"

	"github.com/google/uuid"
)

// All date comparisons use UTC; "today" is the current UTC date truncated to
// midnight.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

type Service struct {
	equipment EquipmentStore
	rentals   RentalStore
	now       func() time.Time
}

func NewService(equipment EquipmentStore, rentals RentalStore) *Service {
	return &Service{
		equipment: equipment,
		rentals:   rentals,
		now:       time.Now,
	}
}

// CreateRental validates the request, reserves stock with a single
// conditional decrement and creates the rental document. Validation runs
// before any write; if the rental insert fails after the decrement, the
// stock is restored by a compensating increment.
func (s *Service) CreateRental(ctx context.Context, userID string, req CreateRentalRequest) (*domain.Rental, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	if missing := missingFields(req); len(missing) > 0 {
		return nil, &ValidationError{Message: "missing required fields", Fields: missing}
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, &ValidationError{Message: "invalid start date"}
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, &ValidationError{Message: "invalid end date"}
	}

	today := truncateToDay(s.now().UTC())
	if start.Before(today) {
		return nil, &ValidationError{Message: "start date cannot be in the past"}
	}
	if !end.After(start) {
		return nil, &ValidationError{Message: "end date must be after start date"}
	}

	quantity := *req.Quantity
	if quantity <= 0 {
		return nil, &ValidationError{Message: "quantity must be greater than 0"}
	}

	eq, err := s.equipment.GetByID(ctx, req.EquipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}

	if eq.Stock < quantity {
		return nil, &InsufficientStockError{Available: eq.Stock, Requested: quantity}
	}

	// The read above only sizes the error payload; the authoritative
	// availability check is the conditional decrement itself.
	if err := s.equipment.ReserveStock(ctx, req.EquipmentID, quantity); err != nil {
		if errors.Is(err, repository.ErrStockConflict) {
			return nil, s.insufficientStock(ctx, req.EquipmentID, quantity)
		}
		return nil, err
	}

	now := s.now().UTC()
	days := rentalDays(start, end)

	r := &domain.Rental{
		ID:          uuid.NewString(),
		UserID:      userID,
		EquipmentID: req.EquipmentID,
		Name:        eq.Name,
		Price:       eq.Price * float64(days) * float64(quantity),
		Quantity:    quantity,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.RentalStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.rentals.Create(ctx, r); err != nil {
		// Compensate the decrement so stock is not lost.
		if restoreErr := s.equipment.RestoreStock(ctx, req.EquipmentID, quantity); restoreErr != nil {
			log.Printf("rental: failed to restore stock for equipment %s after create failure: %v", req.EquipmentID, restoreErr)
		}
		return nil, err
	}

	return r, nil
}

// CancelRental claims the rental with an atomic owned delete, then restores
// the equipment stock. Only the claimant restores, so a concurrent or
// repeated cancel can never double-restore.
func (s *Service) CancelRental(ctx context.Context, userID, rentalID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	r, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRentalNotFound
		}
		return err
	}

	if r.UserID != userID {
		return ErrForbidden
	}

	claimed, err := s.rentals.DeleteOwned(ctx, rentalID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost the race to another cancel of the same rental.
			return ErrRentalNotFound
		}
		return err
	}

	// Best effort: the equipment document may have been removed since the
	// rental was created.
	if err := s.equipment.RestoreStock(ctx, claimed.EquipmentID, claimed.Quantity); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}

	return nil
}

func (s *Service) ListRentals(ctx context.Context, userID string) ([]domain.Rental, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.rentals.GetByUserID(ctx, userID)
}

func (s *Service) insufficientStock(ctx context.Context, equipmentID string, requested int) error {
	eq, err := s.equipment.GetByID(ctx, equipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEquipmentNotFound
		}
		return err
	}
	return &InsufficientStockError{Available: eq.Stock, Requested: requested}
}

func missingFields(req CreateRentalRequest) []string {
	missing := []string{}
	if req.EquipmentID == "" {
		missing = append(missing, "equipmentId")
	}
	if req.StartDate == "" {
		missing = append(missing, "startDate")
	}
	if req.EndDate == "" {
		missing = append(missing, "endDate")
	}
	if req.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if req.Price == nil {
		missing = append(missing, "price")
	}
	return missing
}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// rentalDays counts chargeable days; a partial trailing day counts as a full
// day.
func rentalDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}
