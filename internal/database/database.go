package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a MongoDB client and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	log.Println("Connecting to MongoDB...")

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	return client, nil
}

func Disconnect(ctx context.Context, client *mongo.Client) {
	disconnectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Disconnect(disconnectCtx); err != nil {
		log.Println("Error disconnecting from MongoDB:", err)
	}
}
