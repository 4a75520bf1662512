package auth

import (
	"context"
	"errors"
	"log/slog"

	id "foodaudit/pkg/domain"
	dErrors "foodaudit/pkg/domain-errors"
	"foodaudit/pkg/platform/sentinel"
	"foodaudit/pkg/requestcontext"
)

// Service handles registration and login.
type Service struct {
	users  UserStore
	tokens *TokenService
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(users UserStore, tokens *TokenService, opts ...Option) *Service {
	s := &Service{users: users, tokens: tokens, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account. Email collisions surface as conflicts.
func (s *Service) Register(ctx context.Context, email, name, password string, role Role) (*User, error) {
	user, err := NewUser(id.NewUserID(), email, name, password, role, requestcontext.Now(ctx).UTC())
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}
	return user, nil
}

// LoginResult is the login response payload.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login verifies credentials and issues an access token. Unknown emails and
// wrong passwords produce the same error so the endpoint does not leak which
// accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if !user.CheckPassword(password) {
		s.logger.WarnContext(ctx, "failed login attempt", "email", user.Email)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	token, err := s.tokens.Generate(user.ID, user.Role, requestcontext.Now(ctx).UTC())
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}
