package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pratsy91/todo-backend/internal/domain/entity"
	repo "github.com/pratsy91/todo-backend/internal/domain/repository"
	"github.com/pratsy91/todo-backend/pkg/helpers"
	"github.com/pratsy91/todo-backend/pkg/mailer"
	mailtpl "github.com/pratsy91/todo-backend/pkg/mailer/templates"
	"github.com/pratsy91/todo-backend/pkg/metrics"
	"github.com/pratsy91/todo-backend/pkg/validation"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt input limit, in bytes
)

// JobPublisher enqueues background jobs; *helpers.RabbitPublisher satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ProfileSource serves read-only profile lookups; *cache.UserCache satisfies it.
type ProfileSource interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

type AuthService struct {
	Repo       repo.UserRepository
	JWT        *helpers.JWTManager
	Logger     *logrus.Logger
	BcryptCost int

	// Optional welcome-email wiring; nil Publisher disables it.
	Publisher JobPublisher
	AppName   string
	AppURL    string

	Metrics *metrics.Metrics

	// Profiles backs GetProfile when set. It is never consulted to decide
	// whether a user exists.
	Profiles ProfileSource
}

type TokenResult struct {
	Token     string
	ExpiresAt time.Time // zero when tokens do not expire
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func NewAuthService(repo repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, bcryptCost int) *AuthService {
	return &AuthService{
		Repo:       repo,
		JWT:        jwt,
		Logger:     logger,
		BcryptCost: bcryptCost,
	}
}

// Register creates an account and returns it together with a fresh token.
// Plaintext passwords never leave this function.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, TokenResult, error) {
	if validation.IsBlank(in.Name) {
		return nil, TokenResult{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !validation.IsEmail(in.Email) {
		return nil, TokenResult{}, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return nil, TokenResult{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	if len(in.Password) > maxPasswordLen {
		return nil, TokenResult{}, fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, maxPasswordLen)
	}

	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, TokenResult{}, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, TokenResult{}, ErrEmailTaken
		}
		return nil, TokenResult{}, fmt.Errorf("create user: %w", err)
	}

	tok, err := s.IssueToken(u)
	if err != nil {
		return nil, TokenResult{}, err
	}
	s.Metrics.UserRegistered()
	s.enqueueWelcome(ctx, u)
	return u, tok, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenResult, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.Metrics.LoginFailed()
		}
		return nil, TokenResult{}, err
	}
	tok, err := s.IssueToken(u)
	if err != nil {
		return nil, TokenResult{}, err
	}
	return u, tok, nil
}

// IssueToken signs an identity token for u.
func (s *AuthService) IssueToken(u *entity.User) (TokenResult, error) {
	token, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return TokenResult{}, fmt.Errorf("generate token: %w", err)
	}
	return TokenResult{Token: token, ExpiresAt: exp}, nil
}

// GetProfile loads the public profile of userID. Callers sit behind the auth
// middleware, which has already confirmed the user exists in the store.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	var src ProfileSource = s.Repo
	if s.Profiles != nil {
		src = s.Profiles
	}
	u, err := src.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// enqueueWelcome is best-effort: registration never fails because the broker does.
func (s *AuthService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Publisher == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data: mailtpl.NewWelcomeData(s.AppName, u.Name, u.Email,
			mailtpl.WithTime(u.CreatedAt),
			mailtpl.WithAppURL(s.AppURL),
		),
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish welcome email job")
	}
}
