package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/panchofdez/portfolio-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUserByPortfolioID(ctx context.Context, portfolioID primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user. The email unique index maps violations to
// ErrDuplicate.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.Version = 1
	if user.Recommending == nil {
		user.Recommending = []primitive.ObjectID{}
	}
	if user.Notifications == nil {
		user.Notifications = []models.Notification{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// GetUserByID retrieves a user by id
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetUserByFirebaseUID retrieves a user by their Firebase UID
func (r *MongoUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"firebaseUid": firebaseUID})
}

// GetUserByPortfolioID retrieves the user owning the given portfolio
func (r *MongoUserRepository) GetUserByPortfolioID(ctx context.Context, portfolioID primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"portfolio": portfolioID})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs retrieves the users for the given ids. Missing ids are
// silently skipped so a dangling reference never fails the whole read.
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUser replaces the stored document if the caller's version is still
// current, bumping the version counter. A stale version returns
// ErrVersionConflict so the caller can re-fetch and retry instead of silently
// overwriting a concurrent change.
func (r *MongoUserRepository) SaveUser(ctx context.Context, user *models.User) error {
	next := *user
	next.Version = user.Version + 1
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID, "version": user.Version}, &next)
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": user.ID})
		if err == nil && count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	user.Version = next.Version
	return nil
}
