package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentAuthor is the identity snapshot embedded in a comment when it is
// posted. It is a copy, not a reference: the comment keeps displaying the
// author as they looked at post time even if their profile changes later.
type CommentAuthor struct {
	ID           primitive.ObjectID `json:"id" bson:"id"`
	Name         string             `json:"name" bson:"name"`
	ProfileImage string             `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	PortfolioID  primitive.ObjectID `json:"portfolio,omitempty" bson:"portfolio,omitempty"`
}

// Comment represents a comment on a portfolio, stored in its own collection and
// referenced by id from the portfolio's comment list.
type Comment struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Text        string             `json:"text" bson:"text"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	Author      CommentAuthor      `json:"author" bson:"author"`
	PortfolioID primitive.ObjectID `json:"portfolio" bson:"portfolio"` // the portfolio commented on
}

// CreateCommentRequest defines the request body for posting a comment
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
