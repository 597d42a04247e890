package service

import (
	"context"
	"ctchen222/flaskblog/internal/api/models"
	"ctchen222/flaskblog/internal/api/repository"
	"ctchen222/flaskblog/internal/metrics"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("api.service")

var (
	ErrUsernameTaken   = errors.New("username already exists")
	ErrUserNotFound    = errors.New("invalid user")
	ErrInvalidPassword = errors.New("invalid password")
)

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, form *models.RegistrationForm) (*models.User, error)
	Login(ctx context.Context, form *models.LoginForm) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher) UserService {
	return &userService{userRepo: userRepo, hasher: hasher}
}

// Register creates an account from an already validated form.
func (s *userService) Register(ctx context.Context, form *models.RegistrationForm) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserService.Register", trace.WithAttributes(
		attribute.String("user.username", form.Username),
	))
	defer span.End()

	// Check if user already exists
	existingUser, err := s.userRepo.GetUserByUsername(ctx, form.Username)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		metrics.RecordRegistration(metrics.ResultConflict)
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         form.Name,
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	metrics.RecordRegistration(metrics.ResultSuccess)
	return user, nil
}

// Login checks the credentials and returns the matching user. The two
// failure modes are reported separately.
func (s *userService) Login(ctx context.Context, form *models.LoginForm) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserService.Login", trace.WithAttributes(
		attribute.String("user.username", form.Username),
	))
	defer span.End()

	user, err := s.userRepo.GetUserByUsername(ctx, form.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		metrics.RecordLogin(metrics.ResultInvalidUser)
		return nil, ErrUserNotFound
	}

	if !s.hasher.Verify(form.Password, user.PasswordHash) {
		metrics.RecordLogin(metrics.ResultInvalidPassword)
		return nil, ErrInvalidPassword
	}

	metrics.RecordLogin(metrics.ResultSuccess)
	return user, nil
}
