package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo is a single image inside a collection.
type Photo struct {
	Image   string `json:"image" bson:"image"`
	ImageID string `json:"imageId,omitempty" bson:"imageId,omitempty"`
}

// Collection groups photos under a title on a portfolio.
type Collection struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Photos      []Photo            `json:"photos" bson:"photos"`
}

// Video is an embedded video link on a portfolio.
type Video struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Link        string             `json:"link" bson:"link"`
}

// TimelinePost is an embedded milestone on a portfolio's timeline.
type TimelinePost struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Date  string             `json:"date" bson:"date"`
	Title string             `json:"title" bson:"title"`
	Text  string             `json:"text" bson:"text"`
}

// Portfolio represents a user's public showcase document stored in MongoDB.
// Comments are stored as a list of ids into the comments collection;
// RecommenderIDs holds the users currently recommending this portfolio and is
// mirrored by User.Recommending on the other side of the edge.
type Portfolio struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID   `json:"userId" bson:"userId"`
	Name           string               `json:"name" bson:"name"`
	Type           string               `json:"type,omitempty" bson:"type,omitempty"`
	About          string               `json:"about,omitempty" bson:"about,omitempty"`
	Statement      string               `json:"statement,omitempty" bson:"statement,omitempty"`
	Location       string               `json:"location,omitempty" bson:"location,omitempty"`
	Birthday       string               `json:"birthday,omitempty" bson:"birthday,omitempty"`
	Email          string               `json:"email,omitempty" bson:"email,omitempty"`
	Phone          string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Facebook       string               `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Instagram      string               `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Skills         []string             `json:"skills,omitempty" bson:"skills,omitempty"`
	ProfileImage   string               `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	ProfileImageID string               `json:"profileImageId,omitempty" bson:"profileImageId,omitempty"`
	HeaderImage    string               `json:"headerImage,omitempty" bson:"headerImage,omitempty"`
	HeaderImageID  string               `json:"headerImageId,omitempty" bson:"headerImageId,omitempty"`
	Collections    []Collection         `json:"collections" bson:"collections"`
	Videos         []Video              `json:"videos" bson:"videos"`
	Timeline       []TimelinePost       `json:"timeline" bson:"timeline"`
	CommentIDs     []primitive.ObjectID `json:"comments" bson:"comments"`
	RecommenderIDs []primitive.ObjectID `json:"recommendations" bson:"recommendations"`
	Version        int64                `json:"-" bson:"version"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
}

// HasRecommender reports whether userID is already in the recommender set.
func (p *Portfolio) HasRecommender(userID primitive.ObjectID) bool {
	for _, id := range p.RecommenderIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// RemoveRecommender removes userID from the recommender set. Removing an id
// that is not present is a no-op.
func (p *Portfolio) RemoveRecommender(userID primitive.ObjectID) {
	kept := p.RecommenderIDs[:0]
	for _, id := range p.RecommenderIDs {
		if id != userID {
			kept = append(kept, id)
		}
	}
	p.RecommenderIDs = kept
}

// RemoveComment removes commentID from the comment list. Removing an id that
// is not linked is a no-op.
func (p *Portfolio) RemoveComment(commentID primitive.ObjectID) {
	kept := p.CommentIDs[:0]
	for _, id := range p.CommentIDs {
		if id != commentID {
			kept = append(kept, id)
		}
	}
	p.CommentIDs = kept
}

// PortfolioView is the composed read model returned by the public portfolio
// endpoints: the portfolio document with its comment ids, recommender ids and
// the owner's recommending set resolved into full records.
type PortfolioView struct {
	Portfolio
	Comments        []Comment     `json:"comments"`
	Recommendations []UserSummary `json:"recommendations"`
	Recommending    []UserSummary `json:"recommending"`
}

// PortfolioWithComments is the owner-side read model: the portfolio with only
// its comments resolved.
type PortfolioWithComments struct {
	Portfolio
	Comments []Comment `json:"comments"`
}

// RecommendationLists pairs who recommends a portfolio with who its owner is
// recommending.
type RecommendationLists struct {
	Recommendations []UserSummary `json:"recommendations"`
	Recommending    []UserSummary `json:"recommending"`
}

// CreatePortfolioRequest defines the request body for creating the profile
type CreatePortfolioRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=100"`
	Type           string `json:"type,omitempty"`
	About          string `json:"about,omitempty"`
	Statement      string `json:"statement,omitempty"`
	ProfileImage   string `json:"profileImage,omitempty" validate:"omitempty,url"`
	ProfileImageID string `json:"profileImageId,omitempty"`
	HeaderImage    string `json:"headerImage,omitempty" validate:"omitempty,url"`
	HeaderImageID  string `json:"headerImageId,omitempty"`
}

// UpdateProfileRequest defines the request body for updating the profile
type UpdateProfileRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=100"`
	ProfileImage   string `json:"profileImage,omitempty" validate:"omitempty,url"`
	ProfileImageID string `json:"profileImageId,omitempty"`
	HeaderImage    string `json:"headerImage,omitempty" validate:"omitempty,url"`
	HeaderImageID  string `json:"headerImageId,omitempty"`
}

// UpdateAboutRequest defines the request body for the about/statement section
type UpdateAboutRequest struct {
	About         string `json:"about,omitempty"`
	Statement     string `json:"statement,omitempty"`
	HeaderImage   string `json:"headerImage,omitempty" validate:"omitempty,url"`
	HeaderImageID string `json:"headerImageId,omitempty"`
}

// EditAboutRequest defines the request body for the personal-details section
type EditAboutRequest struct {
	Location string `json:"location,omitempty"`
	Type     string `json:"type,omitempty"`
	Birthday string `json:"birthday,omitempty"`
	About    string `json:"about,omitempty"`
}

// ContactInfoRequest defines the request body for contact details
type ContactInfoRequest struct {
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// SkillsRequest defines the request body for replacing the skills list
type SkillsRequest struct {
	Skills []string `json:"skills" validate:"required"`
}

// TimelinePostRequest defines the request body for timeline entries
type TimelinePostRequest struct {
	Date  string `json:"date" validate:"required"`
	Title string `json:"title" validate:"required,min=1,max=100"`
	Text  string `json:"text,omitempty"`
}

// VideoRequest defines the request body for video entries
type VideoRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link" validate:"required,url"`
}

// CollectionRequest defines the request body for creating or updating a collection
type CollectionRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty" validate:"omitempty,url"`
	ImageID     string `json:"imageId,omitempty"`
}
