package repository

import (
	"context"
	"errors"

	"sportrent/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RentalRepository struct {
	col *mongo.Collection
}

func NewRentalRepository(db *mongo.Database) *RentalRepository {
	return &RentalRepository{col: db.Collection("rentals")}
}

func (r *RentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	_, err := r.col.InsertOne(ctx, rental)
	return err
}

func (r *RentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	var rental domain.Rental
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rental)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rental, nil
}

func (r *RentalRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Rental, error) {
	cursor, err := r.col.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rentals := make([]domain.Rental, 0)
	if err := cursor.All(ctx, &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *RentalRepository) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}

// DeleteOwned atomically removes the rental if and only if it still exists
// and belongs to userID, returning the removed document. Exactly one caller
// can claim a given rental, which keeps the stock restoration on
// cancellation idempotent per rental id.
func (r *RentalRepository) DeleteOwned(ctx context.Context, id, userID string) (*domain.Rental, error) {
	var rental domain.Rental
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id, "userId": userID}).Decode(&rental)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rental, nil
}
