package handlers

import (
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/panchofdez/portfolio-backend/internal/models"
	"github.com/panchofdez/portfolio-backend/internal/repositories"
	"github.com/panchofdez/portfolio-backend/pkg/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MyPortfolioHandler handles the owner-side portfolio surface: creating the
// profile and editing its sections (about, contact info, skills, timeline,
// videos, collections). Replaced or removed images are cleaned up at the image
// host on a best-effort basis.
type MyPortfolioHandler struct {
	portfolioRepository repositories.PortfolioRepository
	userRepository      repositories.UserRepository
	commentRepository   repositories.CommentRepository
	images              storage.ImageStorage
}

// NewMyPortfolioHandler creates a new MyPortfolioHandler
func NewMyPortfolioHandler(portfolioRepo repositories.PortfolioRepository, userRepo repositories.UserRepository, commentRepo repositories.CommentRepository, images storage.ImageStorage) *MyPortfolioHandler {
	return &MyPortfolioHandler{
		portfolioRepository: portfolioRepo,
		userRepository:      userRepo,
		commentRepository:   commentRepo,
		images:              images,
	}
}

// RegisterMyPortfolioRoutes registers the owner-side routes
func (h *MyPortfolioHandler) RegisterMyPortfolioRoutes(g *echo.Group) {
	g.GET("", h.GetMyPortfolio)
	g.GET("/recommendations", h.GetMyRecommendations)
	g.POST("/profile", h.CreateProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.PUT("/about", h.UpdateAbout)
	g.PUT("/edit/about", h.EditAbout)
	g.PUT("/contactinfo", h.UpdateContactInfo)
	g.POST("/skills", h.UpdateSkills)
	g.POST("/timeline", h.AddTimelinePost)
	g.PUT("/timeline/:id", h.UpdateTimelinePost)
	g.DELETE("/timeline/:id", h.DeleteTimelinePost)
	g.POST("/videos", h.AddVideo)
	g.PUT("/videos/:id", h.UpdateVideo)
	g.DELETE("/videos/:id", h.DeleteVideo)
	g.POST("/collections", h.AddCollection)
	g.PUT("/collections/:id", h.UpdateCollection)
	g.DELETE("/collections/:id", h.DeleteCollection)
	g.DELETE("/collections/:id/photos/:photo_id", h.DeletePhoto)
	g.POST("/upload", h.UploadImage)
}

func (h *MyPortfolioHandler) ownPortfolio(c echo.Context) (*models.Portfolio, error) {
	actorID, ok := getActorID(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	portfolio, err := h.portfolioRepository.GetPortfolioByOwnerID(c.Request().Context(), actorID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "You must create a portfolio first")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return portfolio, nil
}

func (h *MyPortfolioHandler) withComments(c echo.Context, portfolio *models.Portfolio) error {
	comments, err := h.commentRepository.GetCommentsByIDs(c.Request().Context(), portfolio.CommentIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, models.PortfolioWithComments{Portfolio: *portfolio, Comments: comments})
}

// save persists the portfolio and responds with it plus its comments
func (h *MyPortfolioHandler) save(c echo.Context, portfolio *models.Portfolio) error {
	if err := h.portfolioRepository.SavePortfolio(c.Request().Context(), portfolio); err != nil {
		return saveError(err)
	}
	return h.withComments(c, portfolio)
}

// deleteImage removes an asset at the image host. Cleanup is best effort; a
// failure leaves an orphaned asset, never a failed request.
func (h *MyPortfolioHandler) deleteImage(c echo.Context, publicID string) {
	if publicID == "" || h.images == nil {
		return
	}
	if err := h.images.DeleteImage(c.Request().Context(), publicID); err != nil {
		log.Printf("image cleanup failed for %s: %v", publicID, err)
	}
}

// GetMyPortfolio retrieves the current user's own portfolio with comments
func (h *MyPortfolioHandler) GetMyPortfolio(c echo.Context) error {
	portfolio, err := h.ownPortfolio(c)
	if err != nil {
		return err
	}
	return h.withComments(c, portfolio)
}

// GetMyRecommendations retrieves who recommends the current user and who they
// are recommending
func (h *MyPortfolioHandler) GetMyRecommendations(c echo.Context) error {
	actorID, ok := getActorID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	ctx := c.Request().Context()

	portfolio, err := h.portfolioRepository.GetPortfolioByOwnerID(ctx, actorID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "You must create a portfolio first")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	user, err := h.userRepository.GetUserByID(ctx, actorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	recommenders, err := h.userRepository.GetUsersByIDs(ctx, portfolio.RecommenderIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	recommending, err := h.userRepository.GetUsersByIDs(ctx, user.Recommending)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, models.RecommendationLists{
		Recommendations: summaries(recommenders),
		Recommending:    summaries(recommending),
	})
}

// CreateProfile creates the user's portfolio and links it from their user
// record. The portfolio is written first; the user record mirror follows.
func (h *MyPortfolioHandler) CreateProfile(c echo.Context) error {
	actorID, ok := getActorID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePortfolioRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.portfolioRepository.GetPortfolioByOwnerID(ctx, actorID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "You already have a portfolio")
	} else if err != repositories.ErrNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user, err := h.userRepository.GetUserByID(ctx, actorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	portfolio := &models.Portfolio{
		UserID:         actorID,
		Name:           req.Name,
		Type:           req.Type,
		About:          req.About,
		Statement:      req.Statement,
		ProfileImage:   req.ProfileImage,
		ProfileImageID: req.ProfileImageID,
		HeaderImage:    req.HeaderImage,
		HeaderImageID:  req.HeaderImageID,
	}
	if err := h.portfolioRepository.CreatePortfolio(ctx, portfolio); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user.PortfolioID = portfolio.ID
	if req.ProfileImage != "" {
		user.ProfileImage = req.ProfileImage
	}
	if err := h.userRepository.SaveUser(ctx, user); err != nil {
		// The portfolio exists but the user record does not link it yet.
		log.Printf("create profile: user %s not updated after portfolio %s was created: %v", actorID.Hex(), portfolio.ID.Hex(), err)
		return saveError(err)
	}

	return c.JSON(http.StatusOK, portfolio)
}

// UpdateProfile updates the portfolio's name and images, keeping the user
// record's profile image in sync and cleaning up replaced assets
func (h *MyPortfolioHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	portfolio, err := h.ownPortfolio(c)
	if err != nil {
		return err
	}
	actorID, _ := getActorID(c)
	ctx := c.Request().Context()
	user, uerr := h.userRepository.GetUserByID(ctx, actorID)
	if uerr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, uerr.Error())
	}

	if req.ProfileImage != "" && req.ProfileImage != portfolio.ProfileImage {
		h.deleteImage(c, portfolio.ProfileImageID)
		portfolio.ProfileImage = req.ProfileImage
		portfolio.ProfileImageID = req.ProfileImageID
		user.ProfileImage = req.ProfileImage
	}
	if req.HeaderImage != "" && req.HeaderImage != portfolio.HeaderImage {
		h.deleteImage(c, portfolio.HeaderImageID)
		portfolio.HeaderImage = req.HeaderImage
		portfolio.HeaderImageID = req.HeaderImageID
	}
	portfolio.Name = req.Name

	if err := h.portfolioRepository.SavePortfolio(ctx, portfolio); err != nil {
		return saveError(err)
	}
	if err := h.userRepository.SaveUser(ctx, user); err != nil {
		log.Printf("update profile: user %s not updated after portfolio %s was saved: %v", actorID.Hex(), portfolio.ID.Hex(), err)
		return saveError(err)
	}
	return h.withComments(c, portfolio)
}

// UpdateAbout updates the statement/about section and the header image
func (h *MyPortfolioHandler) UpdateAbout(c echo.Context) error {
	var req models.UpdateAboutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	portfolio, err := h.ownPortfolio(c)
	if err != nil {
		return err
	}
	if req.HeaderImage != "" {
		h.deleteImage(c, portfolio.HeaderImageID)
		portfolio.HeaderImage = req.HeaderImage
		portfolio.HeaderImageID = req.HeaderImageID
	}
	portfolio.About = req.About
	portfolio.Statement = req.Statement
	return h.save(c, portfolio)
}

// EditAbout updates the personal-details section
func (h *MyPortfolioHandler) EditAbout(c echo.Context) error {
	var req models.EditAboutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	portfolio, err := h.ownPortfolio(c)
	if err != nil {
		return err
	}
	portfolio.Location = req.Location
	portfolio.Type = req.Type
	portfolio.Birthday = req.Birthday
	portfolio.About = req.About
	return h.save(c, portfolio)
}

// UpdateContactInfo updates the contact details
func (h *MyPortfolioHandler) UpdateContactInfo(c echo.Context) error {
	var req models.ContactInfoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	portfolio, err := h.ownPortfolio(c)
	if err != nil {
		return err
	}
	portfolio.Email = req.Email
	portfolio.Phone = req.Phone
	portfolio.Facebook = req.Facebook
	portfolio.Instagram = req.Instagram
	return h.save(c, portfolio)
}

// UpdateSkills replaces the skills list
func (h *MyPortfolioHandler) UpdateSkills(c echo.Context) error {
	var req models.SkillsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	portfolio, err := h.ownPortfolio(c)
	if err != nil {
		return err
	}
	portfolio.Skills = req.Skills
	return h.save(c, portfolio)
}

// AddTimelinePost appends a post to the timeline
func (h *MyPortfolioHandler) AddTimelinePost(c echo.Context) error {
	var req models.TimelinePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	portfolio, err := h.ownPortfolio(c)
	if err != nil {
		return err
	}
	portfolio.Timeline = append(portfolio.Timeline, models.TimelinePost{
		ID:    primitive.NewObjectID(),
		Date:  req.Date,
		Title: req.Title,
		Text:  req.Text,
	})
	return h.save(c, portfolio)
}

// UpdateTimelinePost replaces the timeline post with the given id
func (h *MyPortfolioHandler) UpdateTimelinePost(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid timeline post ID")
	}
	var req models.TimelinePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	portfolio, herr := h.ownPortfolio(c)
	if herr != nil {
		return herr
	}
	for i := range portfolio.Timeline {
		if portfolio.Timeline[i].ID == postID {
			portfolio.Timeline[i].Date = req.Date
			portfolio.Timeline[i].Title = req.Title
			portfolio.Timeline[i].Text = req.Text
		}
	}
	return h.save(c, portfolio)
}

// DeleteTimelinePost removes the timeline post with the given id
func (h *MyPortfolioHandler) DeleteTimelinePost(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid timeline post ID")
	}
	portfolio, herr := h.ownPortfolio(c)
	if herr != nil {
		return herr
	}
	kept := portfolio.Timeline[:0]
	for _, post := range portfolio.Timeline {
		if post.ID != postID {
			kept = append(kept, post)
		}
	}
	portfolio.Timeline = kept
	return h.save(c, portfolio)
}

// AddVideo appends a video entry
func (h *MyPortfolioHandler) AddVideo(c echo.Context) error {
	var req models.VideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	portfolio, err := h.ownPortfolio(c)
	if err != nil {
		return err
	}
	portfolio.Videos = append(portfolio.Videos, models.Video{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
	})
	return h.save(c, portfolio)
}

// UpdateVideo replaces the video entry with the given id
func (h *MyPortfolioHandler) UpdateVideo(c echo.Context) error {
	videoID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid video ID")
	}
	var req models.VideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	portfolio, herr := h.ownPortfolio(c)
	if herr != nil {
		return herr
	}
	for i := range portfolio.Videos {
		if portfolio.Videos[i].ID == videoID {
			portfolio.Videos[i].Title = req.Title
			portfolio.Videos[i].Description = req.Description
			portfolio.Videos[i].Link = req.Link
		}
	}
	return h.save(c, portfolio)
}

// DeleteVideo removes the video entry with the given id
func (h *MyPortfolioHandler) DeleteVideo(c echo.Context) error {
	videoID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid video ID")
	}
	portfolio, herr := h.ownPortfolio(c)
	if herr != nil {
		return herr
	}
	kept := portfolio.Videos[:0]
	for _, video := range portfolio.Videos {
		if video.ID != videoID {
			kept = append(kept, video)
		}
	}
	portfolio.Videos = kept
	return h.save(c, portfolio)
}

// AddCollection creates a new collection, optionally seeded with one photo
func (h *MyPortfolioHandler) AddCollection(c echo.Context) error {
	var req models.CollectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	portfolio, err := h.ownPortfolio(c)
	if err != nil {
		return err
	}
	photos := []models.Photo{}
	if req.Image != "" {
		photos = append(photos, models.Photo{Image: req.Image, ImageID: req.ImageID})
	}
	portfolio.Collections = append(portfolio.Collections, models.Collection{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Photos:      photos,
	})
	return h.save(c, portfolio)
}

// UpdateCollection updates a collection's title/description and appends a
// photo when one is supplied
func (h *MyPortfolioHandler) UpdateCollection(c echo.Context) error {
	collectionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid collection ID")
	}
	var req models.CollectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	portfolio, herr := h.ownPortfolio(c)
	if herr != nil {
		return herr
	}
	for i := range portfolio.Collections {
		if portfolio.Collections[i].ID == collectionID {
			portfolio.Collections[i].Title = req.Title
			portfolio.Collections[i].Description = req.Description
			if req.Image != "" {
				portfolio.Collections[i].Photos = append(portfolio.Collections[i].Photos, models.Photo{Image: req.Image, ImageID: req.ImageID})
			}
		}
	}
	return h.save(c, portfolio)
}

// DeleteCollection removes a collection and cleans up its photos at the image
// host
func (h *MyPortfolioHandler) DeleteCollection(c echo.Context) error {
	collectionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid collection ID")
	}
	portfolio, herr := h.ownPortfolio(c)
	if herr != nil {
		return herr
	}
	kept := portfolio.Collections[:0]
	for _, collection := range portfolio.Collections {
		if collection.ID == collectionID {
			for _, photo := range collection.Photos {
				h.deleteImage(c, photo.ImageID)
			}
			continue
		}
		kept = append(kept, collection)
	}
	portfolio.Collections = kept
	return h.save(c, portfolio)
}

// DeletePhoto removes one photo from a collection. A collection always keeps
// at least one photo.
func (h *MyPortfolioHandler) DeletePhoto(c echo.Context) error {
	collectionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid collection ID")
	}
	photoID := c.Param("photo_id")

	portfolio, herr := h.ownPortfolio(c)
	if herr != nil {
		return herr
	}
	for i := range portfolio.Collections {
		if portfolio.Collections[i].ID != collectionID {
			continue
		}
		if len(portfolio.Collections[i].Photos) <= 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "A collection must keep at least one photo")
		}
		kept := portfolio.Collections[i].Photos[:0]
		for _, photo := range portfolio.Collections[i].Photos {
			if photo.ImageID == photoID {
				h.deleteImage(c, photo.ImageID)
				continue
			}
			kept = append(kept, photo)
		}
		portfolio.Collections[i].Photos = kept
	}
	return h.save(c, portfolio)
}

// UploadImage proxies a multipart image upload to the image host and returns
// the stored URL and public id
func (h *MyPortfolioHandler) UploadImage(c echo.Context) error {
	if h.images == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Image storage is not configured")
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "An image file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer file.Close()

	url, publicID, err := h.images.UploadImage(c.Request().Context(), file, "portfolios", fileHeader.Filename)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"image": url, "imageId": publicID})
}
