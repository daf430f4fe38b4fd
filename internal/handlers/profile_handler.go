package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/panchofdez/portfolio-backend/internal/models"
	"github.com/panchofdez/portfolio-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler handles the current user's profile and notification
// maintenance. These operations only toggle read flags or remove entries from
// the user's own notification log; they never touch portfolio or comment state.
type ProfileHandler struct {
	userRepository repositories.UserRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(userRepo repositories.UserRepository) *ProfileHandler {
	return &ProfileHandler{userRepository: userRepo}
}

// RegisterProfileRoutes registers profile and notification routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/user", h.GetUser)
	g.PUT("/user/notifications/:id", h.MarkReadUnreadView)
	g.PUT("/user/notifications", h.MarkAllReadUnreadView)
	g.GET("/notifications", h.GetNotifications)
	g.PUT("/notifications/notification/:id", h.MarkRead)
	g.PUT("/notifications/readall", h.MarkAllRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

func (h *ProfileHandler) currentUser(c echo.Context) (*models.User, error) {
	actorID, ok := getActorID(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), actorID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return user, nil
}

// GetUser retrieves the current user's profile info and unread notifications
func (h *ProfileHandler) GetUser(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"userId":        user.ID,
		"name":          user.Name,
		"profileImage":  user.ProfileImage,
		"portfolio":     user.PortfolioID,
		"notifications": user.UnreadNotifications(),
	})
}

// GetNotifications retrieves all of the user's notifications, read and unread
func (h *ProfileHandler) GetNotifications(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Notifications)
}

func (h *ProfileHandler) markRead(c echo.Context) (*models.User, error) {
	notifID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}
	user, herr := h.currentUser(c)
	if herr != nil {
		return nil, herr
	}
	if !user.MarkNotificationRead(notifID) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	if err := h.userRepository.SaveUser(c.Request().Context(), user); err != nil {
		return nil, saveError(err)
	}
	return user, nil
}

// MarkReadUnreadView marks one notification read and returns the remaining
// unread entries alongside the profile fields
func (h *ProfileHandler) MarkReadUnreadView(c echo.Context) error {
	user, err := h.markRead(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"userId":        user.ID,
		"name":          user.Name,
		"profileImage":  user.ProfileImage,
		"notifications": user.UnreadNotifications(),
	})
}

// MarkRead marks one notification read and returns the full log
func (h *ProfileHandler) MarkRead(c echo.Context) error {
	user, err := h.markRead(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Notifications)
}

func (h *ProfileHandler) markAllRead(c echo.Context) (*models.User, error) {
	user, herr := h.currentUser(c)
	if herr != nil {
		return nil, herr
	}
	user.MarkAllNotificationsRead()
	if err := h.userRepository.SaveUser(c.Request().Context(), user); err != nil {
		return nil, saveError(err)
	}
	return user, nil
}

// MarkAllReadUnreadView marks every notification read and returns the (now
// empty) unread list alongside the profile fields
func (h *ProfileHandler) MarkAllReadUnreadView(c echo.Context) error {
	user, err := h.markAllRead(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"userId":        user.ID,
		"name":          user.Name,
		"profileImage":  user.ProfileImage,
		"notifications": user.UnreadNotifications(),
	})
}

// MarkAllRead marks every notification read and returns the full log
func (h *ProfileHandler) MarkAllRead(c echo.Context) error {
	user, err := h.markAllRead(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Notifications)
}

// DeleteNotification removes one notification and returns the remaining log
func (h *ProfileHandler) DeleteNotification(c echo.Context) error {
	notifID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}
	user, herr := h.currentUser(c)
	if herr != nil {
		return herr
	}
	user.RemoveNotification(notifID)
	if err := h.userRepository.SaveUser(c.Request().Context(), user); err != nil {
		return saveError(err)
	}
	return c.JSON(http.StatusOK, user.Notifications)
}
