package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"mealmates-backend/internal/domains/user"
	"mealmates-backend/pkg/clock"
	"mealmates-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uuid.UUID]user.User)}
}

func (r *fakeUserRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailAlreadyExists
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepository) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, user.ErrUserNotFound
	}
	copied := u
	return &copied, nil
}

func (r *fakeUserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) && u.DeletedAt == nil {
			copied := u
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepository) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(context.Background(), email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeUserRepository) UpdateProfile(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.ID]
	if !ok || existing.DeletedAt != nil {
		return user.ErrUserNotFound
	}
	existing.FullName = u.FullName
	existing.Phone = u.Phone
	existing.UpdatedAt = u.UpdatedAt
	r.users[u.ID] = existing
	return nil
}

func (r *fakeUserRepository) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	now := time.Now().UTC()
	u.LastLoginAt = &now
	r.users[id] = u
	return nil
}

var userTestNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestUserService(t *testing.T) (Service, *fakeUserRepository) {
	t.Helper()
	repo := newFakeUserRepository()
	svc := NewUserService(repo, jwt.NewManager("test-secret", 15, 168), clock.Fixed{T: userTestNow})
	return svc, repo
}

func validRegisterRequest() user.RegisterRequest {
	return user.RegisterRequest{
		Email:    "donor@example.com",
		Password: "Sup3rSecret",
		FullName: "Pat Donor",
	}
}

func TestRegister(t *testing.T) {
	svc, repo := newTestUserService(t)

	dto, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	assert.Equal(t, "donor@example.com", dto.Email)
	assert.True(t, dto.IsActive)
	assert.Equal(t, userTestNow, dto.CreatedAt)

	stored, err := repo.GetByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", stored.PasswordHash, "password must be stored hashed")
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegisterRequest())
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _ := newTestUserService(t)

	tests := []string{
		"short1A",       // too short
		"alllowercase1", // no uppercase
		"ALLUPPERCASE1", // no lowercase
		"NoDigitsHere",  // no digit
	}

	for _, password := range tests {
		req := validRegisterRequest()
		req.Password = password
		_, err := svc.Register(context.Background(), req)
		assert.Error(t, err, "password %q should be rejected", password)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestUserService(t)

	registered, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), user.LoginRequest{
		Email:    "donor@example.com",
		Password: "Sup3rSecret",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, registered.ID, resp.User.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), user.LoginRequest{
		Email:    "donor@example.com",
		Password: "WrongPassw0rd",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestUserService(t)

	// An unknown email yields the same error as a wrong password.
	_, err := svc.Login(context.Background(), user.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Sup3rSecret",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, repo := newTestUserService(t)

	registered, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	repo.mu.Lock()
	u := repo.users[registered.ID]
	u.IsActive = false
	repo.users[registered.ID] = u
	repo.mu.Unlock()

	_, err = svc.Login(context.Background(), user.LoginRequest{
		Email:    "donor@example.com",
		Password: "Sup3rSecret",
	})
	assert.ErrorIs(t, err, user.ErrUserInactive)
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), user.LoginRequest{
		Email:    "donor@example.com",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), user.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefreshToken_AccessTokenRejected(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), user.LoginRequest{
		Email:    "donor@example.com",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)

	// An access token must not work as a refresh token.
	_, err = svc.RefreshToken(context.Background(), user.RefreshTokenRequest{
		RefreshToken: login.AccessToken,
	})
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestRefreshToken_Garbage(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.RefreshToken(context.Background(), user.RefreshTokenRequest{
		RefreshToken: "not.a.token",
	})
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestUserService(t)

	registered, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	phone := "+84912345678"
	updated, err := svc.UpdateProfile(context.Background(), registered.ID, user.UpdateProfileRequest{
		FullName: "Pat D. Donor",
		Phone:    &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pat D. Donor", updated.FullName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}

func TestGetProfile_NotFound(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
