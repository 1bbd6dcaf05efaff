package catalog

import (
	"context"
	"errors"

	"sportrent/internal/domain"
	"sportrent/internal/repository"
)

var ErrNotFound = errors.New("equipment not found")

// EquipmentReader is the read-only slice of the equipment repository the
// catalog exposes. Catalog endpoints never touch stock.
type EquipmentReader interface {
	GetAll(ctx context.Context) ([]domain.Equipment, error)
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
}

type Service struct {
	equipment EquipmentReader
}

func NewService(equipment EquipmentReader) *Service {
	return &Service{equipment: equipment}
}

func (s *Service) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	return s.equipment.GetAll(ctx)
}

func (s *Service) GetEquipment(ctx context.Context, id string) (*domain.Equipment, error) {
	eq, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return eq, nil
}
