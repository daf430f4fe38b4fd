package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/panchofdez/portfolio-backend/internal/models"
	"github.com/panchofdez/portfolio-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The fakes below store deep copies on every read and write, mirroring how a
// document store hands each caller its own decoded copy.

type fakeUserRepository struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[primitive.ObjectID]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Recommending = append([]primitive.ObjectID{}, u.Recommending...)
	c.Notifications = append([]models.Notification{}, u.Notifications...)
	return &c
}

func (f *fakeUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.Version = 1
	if user.Recommending == nil {
		user.Recommending = []primitive.ObjectID{}
	}
	if user.Notifications == nil {
		user.Notifications = []models.Notification{}
	}
	f.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(user), nil
}

func (f *fakeUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	for _, user := range f.users {
		if user.FirebaseUID == firebaseUID {
			return cloneUser(user), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepository) GetUserByPortfolioID(ctx context.Context, portfolioID primitive.ObjectID) (*models.User, error) {
	for _, user := range f.users {
		if user.PortfolioID == portfolioID {
			return cloneUser(user), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			users = append(users, *cloneUser(user))
		}
	}
	return users, nil
}

func (f *fakeUserRepository) SaveUser(ctx context.Context, user *models.User) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if stored.Version != user.Version {
		return repositories.ErrVersionConflict
	}
	user.Version++
	f.users[user.ID] = cloneUser(user)
	return nil
}

type fakePortfolioRepository struct {
	portfolios map[primitive.ObjectID]*models.Portfolio
	saveErr    error // when set, the next SavePortfolio fails with it
}

func newFakePortfolioRepository() *fakePortfolioRepository {
	return &fakePortfolioRepository{portfolios: make(map[primitive.ObjectID]*models.Portfolio)}
}

func clonePortfolio(p *models.Portfolio) *models.Portfolio {
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	c.Collections = append([]models.Collection{}, p.Collections...)
	c.Videos = append([]models.Video{}, p.Videos...)
	c.Timeline = append([]models.TimelinePost{}, p.Timeline...)
	c.CommentIDs = append([]primitive.ObjectID{}, p.CommentIDs...)
	c.RecommenderIDs = append([]primitive.ObjectID{}, p.RecommenderIDs...)
	return &c
}

func (f *fakePortfolioRepository) CreatePortfolio(ctx context.Context, portfolio *models.Portfolio) error {
	portfolio.ID = primitive.NewObjectID()
	portfolio.CreatedAt = time.Now()
	portfolio.Version = 1
	if portfolio.CommentIDs == nil {
		portfolio.CommentIDs = []primitive.ObjectID{}
	}
	if portfolio.RecommenderIDs == nil {
		portfolio.RecommenderIDs = []primitive.ObjectID{}
	}
	f.portfolios[portfolio.ID] = clonePortfolio(portfolio)
	return nil
}

func (f *fakePortfolioRepository) GetPortfolioByID(ctx context.Context, id primitive.ObjectID) (*models.Portfolio, error) {
	portfolio, ok := f.portfolios[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return clonePortfolio(portfolio), nil
}

func (f *fakePortfolioRepository) GetPortfolioByOwnerID(ctx context.Context, ownerID primitive.ObjectID) (*models.Portfolio, error) {
	for _, portfolio := range f.portfolios {
		if portfolio.UserID == ownerID {
			return clonePortfolio(portfolio), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakePortfolioRepository) GetAllPortfolios(ctx context.Context) ([]models.Portfolio, error) {
	portfolios := []models.Portfolio{}
	for _, portfolio := range f.portfolios {
		portfolios = append(portfolios, *clonePortfolio(portfolio))
	}
	return portfolios, nil
}

func (f *fakePortfolioRepository) SearchPortfolios(ctx context.Context, query string) ([]models.Portfolio, error) {
	q := strings.ToLower(query)
	portfolios := []models.Portfolio{}
	for _, portfolio := range f.portfolios {
		indexed := strings.ToLower(portfolio.Name + " " + portfolio.Type + " " + portfolio.About + " " + portfolio.Statement)
		if strings.Contains(indexed, q) {
			portfolios = append(portfolios, *clonePortfolio(portfolio))
		}
	}
	return portfolios, nil
}

func (f *fakePortfolioRepository) SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error {
	if f.saveErr != nil {
		err := f.saveErr
		f.saveErr = nil
		return err
	}
	stored, ok := f.portfolios[portfolio.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if stored.Version != portfolio.Version {
		return repositories.ErrVersionConflict
	}
	portfolio.Version++
	f.portfolios[portfolio.ID] = clonePortfolio(portfolio)
	return nil
}

type fakeCommentRepository struct {
	comments map[primitive.ObjectID]*models.Comment
}

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (f *fakeCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	c := *comment
	f.comments[comment.ID] = &c
	return nil
}

func (f *fakeCommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *comment
	return &c, nil
}

func (f *fakeCommentRepository) GetCommentsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	comments := []models.Comment{}
	for _, id := range ids {
		if comment, ok := f.comments[id]; ok {
			comments = append(comments, *comment)
		}
	}
	return comments, nil
}

func (f *fakeCommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}
