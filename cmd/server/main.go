package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/panchofdez/portfolio-backend/internal/router"
	"github.com/panchofdez/portfolio-backend/pkg/config"
	"github.com/panchofdez/portfolio-backend/pkg/firebase"
	"github.com/panchofdez/portfolio-backend/pkg/storage"
	"github.com/panchofdez/portfolio-backend/validators"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure the connection is closed when main exits

	// Initialize Firebase (optional, enables the firebase-login route)
	var firebaseAuthClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuthClient = firebaseApp.AuthClient
	} else {
		log.Println("Firebase credentials not configured, firebase-login disabled.")
	}

	// Initialize the image host client (optional, enables uploads and cleanup)
	var images storage.ImageStorage
	if imgStorage, err := storage.NewCloudinaryStorage(); err != nil {
		log.Printf("Cloudinary not configured, image uploads disabled: %v", err)
	} else {
		images = imgStorage
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Mongo.Database(cfg.MongoDBName), firebaseAuthClient, images)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
