package domain

// Equipment is a rentable catalog item. Stock counts the units currently
// available; it is only ever mutated through the conditional increment in the
// equipment repository, never by direct writes.
type Equipment struct {
	ID       string  `json:"id" bson:"_id"`
	Name     string  `json:"name" bson:"name"`
	Category string  `json:"category" bson:"category"`
	Price    float64 `json:"price" bson:"price"`
	Stock    int     `json:"stock" bson:"stock"`
	Detail   string  `json:"detail,omitempty" bson:"detail,omitempty"`
	Image    string  `json:"image,omitempty" bson:"image,omitempty"`
}
