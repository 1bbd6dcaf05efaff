package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"sportrent/internal/config"
	"sportrent/internal/database"
	"sportrent/internal/domain"
	"sportrent/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	defer database.Disconnect(ctx, client)

	db := client.Database(cfg.MongoDB)

	userRepo := repository.NewUserRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	rentalRepo := repository.NewRentalRepository(db)

	// Cleanup old data (rentals first so no rental points at removed equipment)
	log.Println("Cleaning old data...")
	if err := rentalRepo.DeleteAll(ctx); err != nil {
		log.Fatal(err)
	}
	if err := equipmentRepo.DeleteAll(ctx); err != nil {
		log.Fatal(err)
	}
	if err := userRepo.DeleteAll(ctx); err != nil {
		log.Fatal(err)
	}

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}

	// ================== USERS ==================
	log.Println("Creating users...")

	demoUsers := []struct {
		email, password, name string
	}{
		{"alice@sportrent.dev", "client123", "Alice"},
		{"bohdan@sportrent.dev", "client123", "Bohdan"},
		{"carla@sportrent.dev", "client123", "Carla"},
	}

	for _, du := range demoUsers {
		hash, _ := bcrypt.GenerateFromPassword([]byte(du.password), bcrypt.DefaultCost)
		u := &domain.User{
			ID:           uuid.NewString(),
			Email:        du.email,
			PasswordHash: string(hash),
			Name:         du.name,
			CreatedAt:    time.Now().UTC(),
		}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatal(err)
		}
		log.Printf("User created: %s / %s", du.email, du.password)
	}

	// ================== EQUIPMENT ==================
	log.Println("Creating equipment...")

	items := []domain.Equipment{
		{Name: "Mountain Bike", Category: "cycling", Price: 100, Stock: 3,
			Detail: "27.5\" hardtail, helmet included", Image: "/images/mountain-bike.jpg"},
		{Name: "Road Bike", Category: "cycling", Price: 120, Stock: 2,
			Detail: "Carbon frame, clip pedals", Image: "/images/road-bike.jpg"},
		{Name: "Kayak", Category: "water", Price: 150, Stock: 4,
			Detail: "Single-seat touring kayak with paddle and vest", Image: "/images/kayak.jpg"},
		{Name: "Stand-Up Paddleboard", Category: "water", Price: 90, Stock: 6,
			Detail: "Inflatable, pump included", Image: "/images/sup.jpg"},
		{Name: "Ski Set", Category: "winter", Price: 200, Stock: 5,
			Detail: "Skis, boots and poles", Image: "/images/ski-set.jpg"},
		{Name: "Snowboard", Category: "winter", Price: 180, Stock: 3,
			Detail: "All-mountain board with bindings", Image: "/images/snowboard.jpg"},
		{Name: "Tent (4-person)", Category: "camping", Price: 60, Stock: 8,
			Detail: "Waterproof dome tent", Image: "/images/tent.jpg"},
		{Name: "Climbing Kit", Category: "climbing", Price: 80, Stock: 4,
			Detail: "Harness, rope and carabiners", Image: "/images/climbing-kit.jpg"},
	}

	for i := range items {
		items[i].ID = uuid.NewString()
		if err := equipmentRepo.Create(ctx, &items[i]); err != nil {
			log.Fatal(err)
		}
		log.Printf("Equipment created: %s (stock %d)", items[i].Name, items[i].Stock)
	}

	log.Println("Seed complete")
}
