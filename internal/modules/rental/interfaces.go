package rental

import (
	"context"

	"sportrent/internal/domain"
)

// EquipmentStore is the slice of the equipment repository the rental service
// uses. ReserveStock must check availability and decrement stock as one
// atomic operation against the document store.
type EquipmentStore interface {
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	ReserveStock(ctx context.Context, id string, quantity int) error
	RestoreStock(ctx context.Context, id string, quantity int) error
}

// RentalStore persists rental documents. DeleteOwned must atomically remove
// the rental only if it still belongs to the given user, so a rental can be
// claimed for cancellation exactly once.
type RentalStore interface {
	Create(ctx context.Context, r *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.Rental, error)
	DeleteOwned(ctx context.Context, id, userID string) (*domain.Rental, error)
}
