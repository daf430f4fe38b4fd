package router

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/panchofdez/portfolio-backend/internal/handlers"
	"github.com/panchofdez/portfolio-backend/internal/middleware"
	"github.com/panchofdez/portfolio-backend/internal/repositories"
	"github.com/panchofdez/portfolio-backend/pkg/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database, firebaseAuthClient *auth.Client, images storage.ImageStorage) {
	if err := ensureIndexes(db); err != nil {
		log.Fatalf("Failed to create MongoDB indexes: %v", err)
	}
	log.Println("MongoDB indexes ensured for all collections.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	portfolioRepo := repositories.NewMongoPortfolioRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)

	// --- Unprotected routes ---
	api := e.Group("/api")

	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(api)
	log.Println("Auth routes configured.")

	portfolioHandler := handlers.NewPortfolioHandler(portfolioRepo, userRepo, commentRepo)
	portfolioHandler.RegisterPublicRoutes(api)
	log.Println("Public portfolio routes configured.")

	// --- Protected routes (require JWT authentication) ---
	protected := e.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied.")

	portfolioHandler.RegisterProtectedRoutes(protected)
	log.Println("Portfolio mutation routes configured.")

	profileHandler := handlers.NewProfileHandler(userRepo)
	profileHandler.RegisterProfileRoutes(protected)
	log.Println("Profile and notification routes configured.")

	myPortfolioHandler := handlers.NewMyPortfolioHandler(portfolioRepo, userRepo, commentRepo, images)
	myPortfolioHandler.RegisterMyPortfolioRoutes(protected.Group("/myportfolio"))
	log.Println("My-portfolio routes configured.")

	log.Println("All routes configured.")
}

// ensureIndexes creates the indexes the repositories rely on: unique emails,
// owner and firebase lookups.
func ensureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "firebaseUid", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "portfolio", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("portfolios").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
