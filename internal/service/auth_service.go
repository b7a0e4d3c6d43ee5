package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/auth"
	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/storage"
	"github.com/helpdeskhq/helpdesk-service/pkg/util"
	"github.com/helpdeskhq/helpdesk-service/pkg/validate"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	store      *storage.Store
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(store *storage.Store, tokens *auth.TokenManager, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, dispatcher: dispatcher, logger: logger}
}

// Register creates a new account and returns it with a signed token.
// Role defaults to client when empty.
func (s *AuthService) Register(ctx context.Context, email, password string, role domain.Role) (domain.PublicUser, string, error) {
	if !validate.Email(email) {
		return domain.PublicUser{}, "", util.NewValidationError("Invalid email format", nil)
	}
	if ok, reason := validate.Password(password); !ok {
		return domain.PublicUser{}, "", util.NewValidationError(reason, nil)
	}

	if role == "" {
		role = domain.RoleClient
	}
	if !role.Valid() {
		return domain.PublicUser{}, "", util.NewValidationError("Invalid role", nil)
	}

	// the store enforces uniqueness under its write lock, so two concurrent
	// registrations for the same email cannot both succeed
	user, err := s.store.CreateUser(email, password, role)
	if errors.Is(err, storage.ErrEmailTaken) {
		return domain.PublicUser{}, "", util.NewConflict("User already exists")
	}
	if err != nil {
		return domain.PublicUser{}, "", err
	}

	token, _, err := s.tokens.Generate(user)
	if err != nil {
		return domain.PublicUser{}, "", err
	}

	s.logger.Info("user registered",
		zap.String("userId", user.ID),
		zap.String("email", user.Email))
	s.dispatcher.Publish(ctx, events.Event{
		Type:    events.EventUserRegistered,
		Payload: events.UserRegisteredPayload{User: user.Public()},
	})
	return user.Public(), token, nil
}

// Login authenticates a user by email and password. The failure message is
// identical for a missing user and a wrong password so the response does not
// reveal which check failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.PublicUser, string, error) {
	if email == "" || password == "" {
		return domain.PublicUser{}, "", util.NewValidationError("Email and password are required", nil)
	}

	user := s.store.UserByEmail(email)
	if user == nil {
		return domain.PublicUser{}, "", util.NewAuthenticationError("Invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Warn("failed login attempt", zap.String("email", email))
		return domain.PublicUser{}, "", util.NewAuthenticationError("Invalid credentials")
	}

	token, _, err := s.tokens.Generate(user)
	if err != nil {
		return domain.PublicUser{}, "", err
	}

	s.logger.Info("user logged in",
		zap.String("userId", user.ID),
		zap.String("email", user.Email))
	return user.Public(), token, nil
}
