package account

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"employee/backend/foundation/web"
	"employee/backend/internal/auth"
	"employee/backend/internal/entity"
	"employee/backend/internal/repository/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsers struct {
	mu     sync.Mutex
	byMail map[string]entity.User
	nextID int64

	// hideOnGet makes GetByEmail miss so Insert sees the race.
	hideOnGet bool
	getErr    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byMail: map[string]entity.User{}}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return entity.User{}, f.getErr
	}
	u, ok := f.byMail[email]
	if !ok || f.hideOnGet {
		return entity.User{}, postgres.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Insert(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byMail[u.Email]; ok {
		return postgres.ErrDuplicateEmail
	}
	f.nextID++
	u.ID = f.nextID
	f.byMail[u.Email] = *u
	return nil
}

type fakeAttempts struct {
	counts   map[string]int64
	countErr error
}

func (f *fakeAttempts) Count(_ context.Context, key string) (int64, error) {
	return f.counts[key], f.countErr
}

func (f *fakeAttempts) Increment(_ context.Context, key string) error {
	f.counts[key]++
	return nil
}

func (f *fakeAttempts) Reset(_ context.Context, key string) error {
	delete(f.counts, key)
	return nil
}

func newService(t *testing.T, users Users, attempts Attempts) (*Service, *auth.Auth) {
	t.Helper()

	a, err := auth.New("test-secret", auth.DefaultTTL)
	require.NoError(t, err)

	if attempts == nil {
		return NewService(users, a, nil, 0, zap.NewNop()), a
	}
	return NewService(users, a, attempts, 3, zap.NewNop()), a
}

func TestSignup(t *testing.T) {
	users := newFakeUsers()
	s, _ := newService(t, users, nil)
	ctx := context.Background()

	id, err := s.Signup(ctx, SignupRequest{Username: "a", Email: " A@X.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	stored := users.byMail["a@x.com"]
	assert.Equal(t, id, stored.ID)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.True(t, auth.CheckPassword("secret1", stored.Password))
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)

	_, err = s.Signup(ctx, SignupRequest{Username: "b", Email: "a@x.com", Password: "other"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
	assert.Equal(t, MsgEmailExists, err.Error())
}

func TestSignup_RaceOnInsertIsDuplicate(t *testing.T) {
	users := newFakeUsers()
	s, _ := newService(t, users, nil)
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupRequest{Username: "a", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)

	users.hideOnGet = true
	_, err = s.Signup(ctx, SignupRequest{Username: "a", Email: "a@x.com", Password: "p"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
	assert.Equal(t, MsgEmailExists, err.Error())
}

func TestSignup_Validation(t *testing.T) {
	s, _ := newService(t, newFakeUsers(), nil)

	_, err := s.Signup(context.Background(), SignupRequest{Username: " ", Email: "a@x.com"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
	assert.Equal(t, "missing required fields: username, password", err.Error())
}

func TestSignup_PasswordTooLong(t *testing.T) {
	users := newFakeUsers()
	s, _ := newService(t, users, nil)
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupRequest{Username: "a", Email: "a@x.com", Password: strings.Repeat("a", 80)})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
	assert.Equal(t, MsgPasswordTooLong, err.Error())

	id, err := s.Signup(ctx, SignupRequest{Username: "a", Email: "a@x.com", Password: strings.Repeat("a", auth.MaxPasswordLength)})
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestSignup_StoreError(t *testing.T) {
	users := newFakeUsers()
	users.getErr = errors.New("connection refused")
	s, _ := newService(t, users, nil)

	_, err := s.Signup(context.Background(), SignupRequest{Username: "a", Email: "a@x.com", Password: "p"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, web.StatusOf(err))
	assert.Equal(t, "connection refused", err.Error())
}

func TestLogin(t *testing.T) {
	users := newFakeUsers()
	s, a := newService(t, users, nil)
	ctx := context.Background()

	id, err := s.Signup(ctx, SignupRequest{Username: "a", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	token, err := s.Login(ctx, LoginRequest{Email: "A@x.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := a.ValidateToken(token)
	require.NoError(t, err)
	sub, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id, sub)
}

func TestLogin_FailuresLookTheSame(t *testing.T) {
	users := newFakeUsers()
	s, _ := newService(t, users, nil)
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupRequest{Username: "a", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := s.Login(ctx, LoginRequest{Email: "a@x.com", Password: "wrong"})
	_, unknownEmail := s.Login(ctx, LoginRequest{Email: "nobody@x.com", Password: "secret1"})
	_, empty := s.Login(ctx, LoginRequest{})

	for _, err := range []error{wrongPassword, unknownEmail, empty} {
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
		assert.Equal(t, MsgInvalidCredentials, err.Error())
	}
}

func TestLogin_Throttled(t *testing.T) {
	users := newFakeUsers()
	attempts := &fakeAttempts{counts: map[string]int64{}}
	s, _ := newService(t, users, attempts)
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupRequest{Username: "a", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = s.Login(ctx, LoginRequest{Email: "a@x.com", Password: "wrong"})
		assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
	}
	assert.Equal(t, int64(3), attempts.counts["a@x.com"])

	_, err = s.Login(ctx, LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, web.StatusOf(err))

	attempts.counts["a@x.com"] = 1
	_, err = s.Login(ctx, LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Zero(t, attempts.counts["a@x.com"])
}

func TestLogin_CounterOutageDoesNotBlock(t *testing.T) {
	users := newFakeUsers()
	attempts := &fakeAttempts{counts: map[string]int64{}, countErr: errors.New("redis down")}
	s, _ := newService(t, users, attempts)
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupRequest{Username: "a", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = s.Login(ctx, LoginRequest{Email: "a@x.com", Password: "secret1"})
	assert.NoError(t, err)
}
