package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/panchofdez/portfolio-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// getActor returns the authenticated user's claims stored by the JWT middleware,
// or nil when the request is unauthenticated.
func getActor(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get("user").(*models.JwtCustomClaims)
	return claims
}

// getActorID returns the authenticated user's id, reporting false when the
// request carries no valid identity.
func getActorID(c echo.Context) (primitive.ObjectID, bool) {
	claims := getActor(c)
	if claims == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
