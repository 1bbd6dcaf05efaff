package repository

import (
	"context"
	"errors"

	"sportrent/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type EquipmentRepository struct {
	col *mongo.Collection
}

func NewEquipmentRepository(db *mongo.Database) *EquipmentRepository {
	return &EquipmentRepository{col: db.Collection("equipment")}
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	var eq domain.Equipment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&eq)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &eq, nil
}

func (r *EquipmentRepository) GetAll(ctx context.Context) ([]domain.Equipment, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]domain.Equipment, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ReserveStock atomically checks availability and decrements stock in a
// single conditional update. The stock guard and the decrement are one
// document-store operation, so two concurrent reservations can never both
// pass the check and overdraw the counter.
func (r *EquipmentRepository) ReserveStock(ctx context.Context, id string, quantity int) error {
	filter := bson.M{
		"_id":   id,
		"stock": bson.M{"$gte": quantity},
	}
	update := bson.M{"$inc": bson.M{"stock": -quantity}}

	err := r.col.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrStockConflict
		}
		return err
	}
	return nil
}

// RestoreStock increments stock back by quantity. Returns ErrNotFound if the
// equipment document no longer exists; callers treat that as a no-op.
func (r *EquipmentRepository) RestoreStock(ctx context.Context, id string, quantity int) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": quantity}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) Create(ctx context.Context, eq *domain.Equipment) error {
	_, err := r.col.InsertOne(ctx, eq)
	return err
}

func (r *EquipmentRepository) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return err
}
