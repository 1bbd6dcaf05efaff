package domain

import "time"

const RentalStatusActive = "active"

// Rental is one user's reservation of a quantity of one equipment item for a
// date range. Name is a denormalized copy of the equipment name at booking
// time; Price is the total charge (unit price x days x quantity) computed by
// the rental service.
type Rental struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"userId" bson:"userId"`
	EquipmentID string    `json:"equipmentId" bson:"equipmentId"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	StartDate   time.Time `json:"startDate" bson:"startDate"`
	EndDate     time.Time `json:"endDate" bson:"endDate"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
