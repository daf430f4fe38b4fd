package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/panchofdez/portfolio-backend/internal/models"
	"github.com/panchofdez/portfolio-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PortfolioHandler handles the public portfolio surface: browsing/search, the
// composed portfolio view, and the social mutations (comments and
// recommendations).
//
// The recommendation edge is stored on both endpoints (Portfolio.RecommenderIDs
// and User.Recommending) and MongoDB gives us no multi-document atomicity, so
// every mutation writes in a fixed order: primary entity, then mirror, then the
// notification. A crash mid-sequence leaves the primary side effect in place
// and the mirror/notification missing; nothing is rolled back.
type PortfolioHandler struct {
	portfolioRepository repositories.PortfolioRepository
	userRepository      repositories.UserRepository
	commentRepository   repositories.CommentRepository
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioRepo repositories.PortfolioRepository, userRepo repositories.UserRepository, commentRepo repositories.CommentRepository) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioRepository: portfolioRepo,
		userRepository:      userRepo,
		commentRepository:   commentRepo,
	}
}

// RegisterPublicRoutes registers the unauthenticated read-side routes
func (h *PortfolioHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/portfolios", h.GetPortfolios)
	g.GET("/portfolios/:id", h.GetPortfolio)
	g.GET("/portfolios/:id/recommendations", h.GetRecommendations)
}

// RegisterProtectedRoutes registers the authenticated mutation routes
func (h *PortfolioHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/portfolios/:id/comments", h.CreateComment)
	g.DELETE("/portfolios/:id/comments/:comment_id", h.DeleteComment)
	g.POST("/portfolios/:id/recommend", h.Recommend)
	g.POST("/portfolios/:id/unrecommend", h.Unrecommend)
}

// GetPortfolios retrieves all portfolios, or those matching the search query
func (h *PortfolioHandler) GetPortfolios(c echo.Context) error {
	ctx := c.Request().Context()

	var portfolios []models.Portfolio
	var err error
	if query := c.QueryParam("search"); query != "" {
		portfolios, err = h.portfolioRepository.SearchPortfolios(ctx, query)
	} else {
		portfolios, err = h.portfolioRepository.GetAllPortfolios(ctx)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, portfolios)
}

// GetPortfolio retrieves a single portfolio with comments, recommenders and
// the owner's recommending list resolved
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid portfolio ID")
	}

	ctx := c.Request().Context()
	portfolio, err := h.portfolioRepository.GetPortfolioByID(ctx, id)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Portfolio not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	view, err := h.composeView(c, portfolio)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

// GetRecommendations retrieves who recommends a portfolio and who its owner is
// recommending
func (h *PortfolioHandler) GetRecommendations(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid portfolio ID")
	}

	ctx := c.Request().Context()
	portfolio, err := h.portfolioRepository.GetPortfolioByID(ctx, id)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Portfolio not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	lists, err := h.recommendationLists(c, portfolio)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, lists)
}

// CreateComment posts a comment on another user's portfolio and notifies the
// portfolio owner.
//
// Write order: comment insert, portfolio save, owner notification. The author
// snapshot is copied from the actor's own portfolio at this instant and is
// never re-resolved.
func (h *PortfolioHandler) CreateComment(c echo.Context) error {
	actorID, ok := getActorID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	actor := getActor(c)

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid portfolio ID")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	// A user must have a portfolio of their own before commenting.
	actorPortfolio, err := h.portfolioRepository.GetPortfolioByOwnerID(ctx, actorID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusBadRequest, "You must create a portfolio first")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	portfolio, err := h.portfolioRepository.GetPortfolioByID(ctx, targetID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Portfolio not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if portfolio.ID == actorPortfolio.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "You can't comment on your own portfolio")
	}

	comment := &models.Comment{
		Text:        req.Text,
		PortfolioID: portfolio.ID,
		Author: models.CommentAuthor{
			ID:           actorID,
			Name:         actor.Name,
			ProfileImage: actorPortfolio.ProfileImage,
			PortfolioID:  actorPortfolio.ID,
		},
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	portfolio.CommentIDs = append(portfolio.CommentIDs, comment.ID)
	if err := h.portfolioRepository.SavePortfolio(ctx, portfolio); err != nil {
		// The comment now exists but is not linked from the portfolio.
		log.Printf("add comment: portfolio %s not updated after comment %s was created: %v", portfolio.ID.Hex(), comment.ID.Hex(), err)
		return saveError(err)
	}

	h.notifyOwner(c, portfolio, models.Notification{
		Text:         actor.Name + " commented on your portfolio!",
		PortfolioID:  actorPortfolio.ID,
		ProfileImage: actorPortfolio.ProfileImage,
		CommentID:    comment.ID,
	})

	view, err := h.composeView(c, portfolio)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

// DeleteComment removes a comment from a portfolio. Only the comment's author
// may delete it; the portfolio owner is notified.
func (h *PortfolioHandler) DeleteComment(c echo.Context) error {
	actorID, ok := getActorID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	actor := getActor(c)

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid portfolio ID")
	}
	commentID, err := primitive.ObjectIDFromHex(c.Param("comment_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	ctx := c.Request().Context()
	comment, err := h.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.Author.ID != actorID {
		return echo.NewHTTPError(http.StatusForbidden, "You can't delete other user's comments")
	}

	portfolio, err := h.portfolioRepository.GetPortfolioByID(ctx, targetID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Portfolio not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	portfolio.RemoveComment(commentID)
	if err := h.portfolioRepository.SavePortfolio(ctx, portfolio); err != nil {
		return saveError(err)
	}

	if err := h.commentRepository.DeleteComment(ctx, commentID); err != nil && err != repositories.ErrNotFound {
		// The portfolio no longer links the comment; the standalone record is
		// now an orphan.
		log.Printf("delete comment: comment %s not deleted after portfolio %s was updated: %v", commentID.Hex(), portfolio.ID.Hex(), err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifyOwner(c, portfolio, models.Notification{
		Text:         actor.Name + " deleted their comment",
		PortfolioID:  comment.Author.PortfolioID,
		ProfileImage: comment.Author.ProfileImage,
	})

	view, err := h.composeView(c, portfolio)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

// Recommend records that the acting user recommends the portfolio's owner.
//
// Write order: portfolio recommender set, actor's recommending mirror, owner
// notification. The duplicate check rejects a second call rather than merging
// it, so a racing duplicate cannot double-notify the owner.
func (h *PortfolioHandler) Recommend(c echo.Context) error {
	actorID, ok := getActorID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	claims := getActor(c)

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid portfolio ID")
	}

	ctx := c.Request().Context()
	portfolio, err := h.portfolioRepository.GetPortfolioByID(ctx, targetID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Portfolio not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if portfolio.UserID == actorID {
		return echo.NewHTTPError(http.StatusBadRequest, "You can't recommend yourself")
	}
	if portfolio.HasRecommender(actorID) {
		return echo.NewHTTPError(http.StatusBadRequest, "You can't recommend the user again")
	}

	actor, err := h.userRepository.GetUserByID(ctx, actorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	portfolio.RecommenderIDs = append(portfolio.RecommenderIDs, actorID)
	if err := h.portfolioRepository.SavePortfolio(ctx, portfolio); err != nil {
		return saveError(err)
	}

	if !actor.IsRecommending(portfolio.UserID) {
		actor.Recommending = append(actor.Recommending, portfolio.UserID)
	}
	if err := h.userRepository.SaveUser(ctx, actor); err != nil {
		// The portfolio side of the edge is already written; the mirror is
		// missing until a retry or reconciliation.
		log.Printf("recommend: user %s not updated after portfolio %s was saved: %v", actorID.Hex(), portfolio.ID.Hex(), err)
		return saveError(err)
	}

	h.notifyOwner(c, portfolio, models.Notification{
		Text:         claims.Name + " has recommended you!",
		PortfolioID:  actor.PortfolioID,
		ProfileImage: actor.ProfileImage,
	})

	view, err := h.composeView(c, portfolio)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

// Unrecommend removes the recommendation edge in both directions. Removing an
// edge that does not exist is a no-op on both sets, but the owner is still
// notified — longstanding upstream behavior, kept as is.
func (h *PortfolioHandler) Unrecommend(c echo.Context) error {
	actorID, ok := getActorID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	claims := getActor(c)

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid portfolio ID")
	}

	ctx := c.Request().Context()
	portfolio, err := h.portfolioRepository.GetPortfolioByID(ctx, targetID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Portfolio not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	actor, err := h.userRepository.GetUserByID(ctx, actorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	portfolio.RemoveRecommender(actorID)
	if err := h.portfolioRepository.SavePortfolio(ctx, portfolio); err != nil {
		return saveError(err)
	}

	actor.StopRecommending(portfolio.UserID)
	if err := h.userRepository.SaveUser(ctx, actor); err != nil {
		log.Printf("unrecommend: user %s not updated after portfolio %s was saved: %v", actorID.Hex(), portfolio.ID.Hex(), err)
		return saveError(err)
	}

	h.notifyOwner(c, portfolio, models.Notification{
		Text:         claims.Name + " has stopped recommending you",
		PortfolioID:  actor.PortfolioID,
		ProfileImage: actor.ProfileImage,
	})

	view, err := h.composeView(c, portfolio)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

// notifyOwner appends a notification to the portfolio owner's log. It runs as
// the terminal step of a mutation whose primary writes already succeeded, so a
// failure here is logged and swallowed rather than failing the request.
func (h *PortfolioHandler) notifyOwner(c echo.Context, portfolio *models.Portfolio, notification models.Notification) {
	ctx := c.Request().Context()
	owner, err := h.userRepository.GetUserByPortfolioID(ctx, portfolio.ID)
	if err != nil {
		log.Printf("notify: owner of portfolio %s not found: %v", portfolio.ID.Hex(), err)
		return
	}
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	owner.Notifications = append(owner.Notifications, notification)
	if err := h.userRepository.SaveUser(ctx, owner); err != nil {
		log.Printf("notify: user %s not updated: %v", owner.ID.Hex(), err)
	}
}

// composeView resolves the portfolio's comment ids, recommender ids and the
// owner's recommending set into the combined read model.
func (h *PortfolioHandler) composeView(c echo.Context, portfolio *models.Portfolio) (*models.PortfolioView, error) {
	ctx := c.Request().Context()

	comments, err := h.commentRepository.GetCommentsByIDs(ctx, portfolio.CommentIDs)
	if err != nil {
		return nil, err
	}
	lists, err := h.recommendationLists(c, portfolio)
	if err != nil {
		return nil, err
	}

	return &models.PortfolioView{
		Portfolio:       *portfolio,
		Comments:        comments,
		Recommendations: lists.Recommendations,
		Recommending:    lists.Recommending,
	}, nil
}

func (h *PortfolioHandler) recommendationLists(c echo.Context, portfolio *models.Portfolio) (*models.RecommendationLists, error) {
	ctx := c.Request().Context()

	recommenders, err := h.userRepository.GetUsersByIDs(ctx, portfolio.RecommenderIDs)
	if err != nil {
		return nil, err
	}

	recommending := []models.UserSummary{}
	owner, err := h.userRepository.GetUserByID(ctx, portfolio.UserID)
	if err == nil {
		users, err := h.userRepository.GetUsersByIDs(ctx, owner.Recommending)
		if err != nil {
			return nil, err
		}
		recommending = summaries(users)
	} else if err != repositories.ErrNotFound {
		return nil, err
	}

	return &models.RecommendationLists{
		Recommendations: summaries(recommenders),
		Recommending:    recommending,
	}, nil
}

func summaries(users []models.User) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out
}

// saveError maps a repository save failure to the HTTP response: a stale
// version asks the client to retry, anything else is a server error.
func saveError(err error) error {
	if err == repositories.ErrVersionConflict {
		return echo.NewHTTPError(http.StatusConflict, "The record was modified concurrently, please retry")
	}
	if err == repositories.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "Record no longer exists")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
