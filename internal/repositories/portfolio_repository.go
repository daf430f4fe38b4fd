package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/panchofdez/portfolio-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PortfolioRepository defines the interface for portfolio data operations
type PortfolioRepository interface {
	CreatePortfolio(ctx context.Context, portfolio *models.Portfolio) error
	GetPortfolioByID(ctx context.Context, id primitive.ObjectID) (*models.Portfolio, error)
	GetPortfolioByOwnerID(ctx context.Context, ownerID primitive.ObjectID) (*models.Portfolio, error)
	GetAllPortfolios(ctx context.Context) ([]models.Portfolio, error)
	SearchPortfolios(ctx context.Context, query string) ([]models.Portfolio, error)
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error
}

// MongoPortfolioRepository implements PortfolioRepository for MongoDB
type MongoPortfolioRepository struct {
	collection *mongo.Collection
}

// NewMongoPortfolioRepository creates a new MongoPortfolioRepository
func NewMongoPortfolioRepository(db *mongo.Database) *MongoPortfolioRepository {
	return &MongoPortfolioRepository{collection: db.Collection("portfolios")}
}

// CreatePortfolio inserts a new portfolio
func (r *MongoPortfolioRepository) CreatePortfolio(ctx context.Context, portfolio *models.Portfolio) error {
	portfolio.ID = primitive.NewObjectID()
	portfolio.CreatedAt = time.Now()
	portfolio.Version = 1
	if portfolio.Collections == nil {
		portfolio.Collections = []models.Collection{}
	}
	if portfolio.Videos == nil {
		portfolio.Videos = []models.Video{}
	}
	if portfolio.Timeline == nil {
		portfolio.Timeline = []models.TimelinePost{}
	}
	if portfolio.CommentIDs == nil {
		portfolio.CommentIDs = []primitive.ObjectID{}
	}
	if portfolio.RecommenderIDs == nil {
		portfolio.RecommenderIDs = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, portfolio)
	return err
}

// GetPortfolioByID retrieves a portfolio by id
func (r *MongoPortfolioRepository) GetPortfolioByID(ctx context.Context, id primitive.ObjectID) (*models.Portfolio, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetPortfolioByOwnerID retrieves the portfolio owned by the given user
func (r *MongoPortfolioRepository) GetPortfolioByOwnerID(ctx context.Context, ownerID primitive.ObjectID) (*models.Portfolio, error) {
	return r.findOne(ctx, bson.M{"userId": ownerID})
}

func (r *MongoPortfolioRepository) findOne(ctx context.Context, filter bson.M) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := r.collection.FindOne(ctx, filter).Decode(&portfolio)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &portfolio, nil
}

// GetAllPortfolios retrieves all portfolios
func (r *MongoPortfolioRepository) GetAllPortfolios(ctx context.Context) ([]models.Portfolio, error) {
	return r.find(ctx, bson.M{})
}

// SearchPortfolios retrieves every portfolio whose name, type, about or
// statement contains the query. Matching is case-insensitive and the query is
// escaped so regex metacharacters are matched literally.
func (r *MongoPortfolioRepository) SearchPortfolios(ctx context.Context, query string) ([]models.Portfolio, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"name": pattern},
		{"type": pattern},
		{"about": pattern},
		{"statement": pattern},
	}}
	return r.find(ctx, filter)
}

func (r *MongoPortfolioRepository) find(ctx context.Context, filter bson.M) ([]models.Portfolio, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	portfolios := []models.Portfolio{}
	if err = cursor.All(ctx, &portfolios); err != nil {
		return nil, err
	}
	return portfolios, nil
}

// SavePortfolio replaces the stored document if the caller's version is still
// current, bumping the version counter. A stale version returns
// ErrVersionConflict so the caller can re-fetch and retry.
func (r *MongoPortfolioRepository) SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error {
	next := *portfolio
	next.Version = portfolio.Version + 1
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": portfolio.ID, "version": portfolio.Version}, &next)
	if err != nil {
		return fmt.Errorf("failed to save portfolio %s: %w", portfolio.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": portfolio.ID})
		if err == nil && count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	portfolio.Version = next.Version
	return nil
}
