// Package account handles signup and login.
package account

import (
	"context"
	"net/http"
	"strings"
	"time"

	"employee/backend/foundation/web"
	"employee/backend/internal/auth"
	"employee/backend/internal/entity"
	"employee/backend/internal/repository/postgres"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Messages returned to clients. Login failures share one message whatever the
// cause so callers cannot probe for registered emails.
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgEmailExists        = "Email already exists"
	MsgTooManyAttempts    = "too many login attempts, try again later"
	MsgPasswordTooLong    = "password must be at most 72 bytes"
)

type Users interface {
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	Insert(ctx context.Context, u *entity.User) error
}

type Tokens interface {
	GenerateToken(userID int64) (string, error)
}

// Attempts counts failed logins per email.
type Attempts interface {
	Count(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type Service struct {
	users       Users
	tokens      Tokens
	attempts    Attempts
	maxAttempts int64
	log         *zap.Logger
	now         func() time.Time
}

// NewService builds the account service. attempts may be nil, which turns
// login throttling off.
func NewService(users Users, tokens Tokens, attempts Attempts, maxAttempts int, log *zap.Logger) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		attempts:    attempts,
		maxAttempts: int64(maxAttempts),
		log:         log,
		now:         time.Now,
	}
}

// Signup registers a user and returns its id.
func (s *Service) Signup(ctx context.Context, request SignupRequest) (int64, error) {
	request.Username = strings.TrimSpace(request.Username)
	request.Email = normalizeEmail(request.Email)

	if err := web.ValidateStruct(&request, "Username", "Email", "Password"); err != nil {
		return 0, err
	}
	if len(request.Password) > auth.MaxPasswordLength {
		return 0, web.NewRequestError(errors.New(MsgPasswordTooLong), http.StatusBadRequest)
	}

	_, err := s.users.GetByEmail(ctx, request.Email)
	switch {
	case err == nil:
		return 0, web.NewRequestError(errors.New(MsgEmailExists), http.StatusBadRequest)
	case !errors.Is(err, postgres.ErrNotFound):
		return 0, err
	}

	hash, err := auth.HashPassword(request.Password)
	if err != nil {
		return 0, err
	}

	u := entity.User{
		Username: request.Username,
		Email:    request.Email,
		Password: hash,
	}
	u.Touch(s.now().UTC())

	// The unique index settles concurrent signups that both passed the check.
	if err = s.users.Insert(ctx, &u); err != nil {
		if errors.Is(err, postgres.ErrDuplicateEmail) {
			return 0, web.NewRequestError(errors.New(MsgEmailExists), http.StatusBadRequest)
		}
		return 0, err
	}

	s.log.Info("user signed up", zap.Int64("user_id", u.ID))

	return u.ID, nil
}

// Login checks the credentials and returns a bearer token for the user.
func (s *Service) Login(ctx context.Context, request LoginRequest) (string, error) {
	email := normalizeEmail(request.Email)

	if err := s.checkAttempts(ctx, email); err != nil {
		return "", err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return "", s.failLogin(ctx, email)
		}
		return "", err
	}

	if !auth.CheckPassword(request.Password, u.Password) {
		return "", s.failLogin(ctx, email)
	}

	token, err := s.tokens.GenerateToken(u.ID)
	if err != nil {
		return "", err
	}

	if s.attempts != nil {
		if err = s.attempts.Reset(ctx, email); err != nil {
			s.log.Warn("resetting login attempts", zap.Error(err))
		}
	}

	return token, nil
}

func (s *Service) checkAttempts(ctx context.Context, email string) error {
	if s.attempts == nil || s.maxAttempts <= 0 {
		return nil
	}

	n, err := s.attempts.Count(ctx, email)
	if err != nil {
		// A counter outage does not block logins.
		s.log.Warn("reading login attempts", zap.Error(err))
		return nil
	}

	if n >= s.maxAttempts {
		return web.NewRequestError(errors.New(MsgTooManyAttempts), http.StatusTooManyRequests)
	}

	return nil
}

func (s *Service) failLogin(ctx context.Context, email string) error {
	if s.attempts != nil {
		if err := s.attempts.Increment(ctx, email); err != nil {
			s.log.Warn("counting login attempt", zap.Error(err))
		}
	}

	return web.NewRequestError(errors.New(MsgInvalidCredentials), http.StatusBadRequest)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
