package rental

// CreateRentalRequest mirrors the POST /api/rentals body. Quantity and Price
// are pointers so that an absent field can be told apart from a zero value
// when reporting missing fields.
type CreateRentalRequest struct {
	EquipmentID string   `json:"equipmentId"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Quantity    *int     `json:"quantity"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
}
