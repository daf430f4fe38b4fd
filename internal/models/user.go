package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account holder stored in MongoDB. The notification log and
// the recommending set are embedded so they are always read and written together
// with the rest of the document.
type User struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name          string               `json:"name" bson:"name"`
	Email         string               `json:"email" bson:"email"`
	Password      string               `json:"-" bson:"password,omitempty"` // bcrypt hash, never serialized
	FirebaseUID   string               `json:"-" bson:"firebaseUid,omitempty"`
	ProfileImage  string               `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	PortfolioID   primitive.ObjectID   `json:"portfolio,omitempty" bson:"portfolio,omitempty"`
	Recommending  []primitive.ObjectID `json:"recommending" bson:"recommending"`
	Notifications []Notification       `json:"notifications" bson:"notifications"`
	Version       int64                `json:"-" bson:"version"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
}

// UserSummary is the lightweight user shape embedded in portfolio views.
type UserSummary struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	ProfileImage string             `json:"profileImage,omitempty"`
	PortfolioID  primitive.ObjectID `json:"portfolio,omitempty"`
}

// Summary returns the lightweight shape of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
		PortfolioID:  u.PortfolioID,
	}
}

// IsRecommending reports whether ownerID is already in the recommending set.
func (u *User) IsRecommending(ownerID primitive.ObjectID) bool {
	for _, id := range u.Recommending {
		if id == ownerID {
			return true
		}
	}
	return false
}

// StopRecommending removes ownerID from the recommending set. Removing an id
// that is not present is a no-op.
func (u *User) StopRecommending(ownerID primitive.ObjectID) {
	kept := u.Recommending[:0]
	for _, id := range u.Recommending {
		if id != ownerID {
			kept = append(kept, id)
		}
	}
	u.Recommending = kept
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SigninRequest defines the request body for local authentication
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
