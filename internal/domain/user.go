package domain

import "time"

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Name         string    `json:"name" bson:"name"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
