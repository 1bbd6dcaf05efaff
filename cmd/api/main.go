package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"sportrent/internal/config"
	"sportrent/internal/database"
	"sportrent/internal/middleware"
	"sportrent/internal/modules/auth"
	"sportrent/internal/modules/catalog"
	"sportrent/internal/modules/rental"
	jwtsvc "sportrent/internal/pkg/jwt"
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
		log.Fatal(err)
	}
	defer database.Disconnect(ctx, client)

	db := client.Database(cfg.MongoDB)

	userRepo := repository.NewUserRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	rentalRepo := repository.NewRentalRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to create user indexes:", err)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(equipmentRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	rentalService := rental.NewService(equipmentRepo, rentalRepo)
	rentalHandler := rental.NewHandler(rentalService)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())

	api := r.Group("/api")
	{
		api.GET("/health", healthCheck)

		// public
		authHandler.RegisterPublicRoutes(api)
		catalogHandler.RegisterRoutes(api)

		// protected (rental ledger + profile)
		protected := api.Group("/")
		protected.Use(middleware.RequireAuth(j))
		{
			rentalHandler.RegisterRoutes(protected)
			authHandler.RegisterProtectedRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
