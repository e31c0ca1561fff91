package authService_test

import (
	"SmartVision/internal/api/auth"
	authRepository "SmartVision/internal/api/auth/repository"
	authService "SmartVision/internal/api/auth/service"
	"SmartVision/internal/entity"
	"SmartVision/pkg/bcrypt"
	"SmartVision/pkg/session"
	"SmartVision/pkg/utils"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminStore struct {
	admins map[string]entity.AdminUser
}

func (f *fakeAdminStore) GetByUsername(_ context.Context, username string) (entity.AdminUser, error) {
	admin, ok := f.admins[username]
	if !ok {
		return entity.AdminUser{}, auth.ErrAdminNotFound
	}
	return admin, nil
}

func (f *fakeAdminStore) UpdatePassword(_ context.Context, username string, passwordHash string) error {
	admin, ok := f.admins[username]
	if !ok {
		return auth.ErrAdminNotFound
	}
	admin.PasswordHash = passwordHash
	admin.UpdatedAt = time.Now()
	f.admins[username] = admin
	return nil
}

type fakeRepo struct {
	store *fakeAdminStore
}

func (f *fakeRepo) NewClient(bool) (authRepository.Client, error) {
	return authRepository.Client{
		Admins:   f.store,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeSessionStore struct {
	sessions map[string]string
}

func (f *fakeSessionStore) Create(_ context.Context, sessionID string, username string, _ time.Duration) error {
	f.sessions[sessionID] = username
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, sessionID string) (string, error) {
	username, ok := f.sessions[sessionID]
	if !ok {
		return "", session.ErrSessionNotFound
	}
	return username, nil
}

func (f *fakeSessionStore) Revoke(_ context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

func newTestService(t *testing.T) (authService.AuthService, *fakeAdminStore, *fakeSessionStore) {
	t.Helper()
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-secret")

	bcryptUtils := bcrypt.NewWithCost(4)
	hash, err := bcryptUtils.HashPassword("admin123")
	require.NoError(t, err)

	store := &fakeAdminStore{
		admins: map[string]entity.AdminUser{
			"admin": {
				ID:           "01ADMIN",
				Username:     "admin",
				PasswordHash: hash,
			},
		},
	}
	sessions := &fakeSessionStore{sessions: make(map[string]string)}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := authService.New(logger, &fakeRepo{store: store}, sessions, bcryptUtils, utils.New())
	return svc, store, sessions
}

func TestLoginSuccess(t *testing.T) {
	svc, _, sessions := newTestService(t)

	res, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "admin",
		Password: "admin123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.AccessToken)
	assert.Greater(t, res.ExpiresInMinutes, 0.0)
	assert.Len(t, sessions.sessions, 1)
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	svc, _, sessions := newTestService(t)

	tests := []struct {
		name string
		req  auth.LoginRequest
	}{
		{
			name: "wrong password",
			req:  auth.LoginRequest{Username: "admin", Password: "admin124"},
		},
		{
			name: "unknown user",
			req:  auth.LoginRequest{Username: "nobody", Password: "admin123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.req)
			// Unknown user and wrong password must be indistinguishable.
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}

	assert.Empty(t, sessions.sessions)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newTestService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "admin",
		Password: "admin123",
	})
	require.NoError(t, err)
	require.Len(t, sessions.sessions, 1)

	var sessionID string
	for id := range sessions.sessions {
		sessionID = id
	}

	err = svc.Logout(context.Background(), entity.AdminLoginData{
		ID:        "01ADMIN",
		Username:  "admin",
		SessionID: sessionID,
	})
	require.NoError(t, err)
	assert.Empty(t, sessions.sessions)
}

func TestChangePassword(t *testing.T) {
	svc, store, _ := newTestService(t)
	admin := entity.AdminLoginData{ID: "01ADMIN", Username: "admin", SessionID: "sid"}

	err := svc.ChangePassword(context.Background(), admin, auth.ChangePasswordRequest{
		OldPassword: "wrong-pass",
		NewPassword: "betterpassword",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), admin, auth.ChangePasswordRequest{
		OldPassword: "admin123",
		NewPassword: "admin123",
	})
	assert.ErrorIs(t, err, auth.ErrPasswordSame)

	err = svc.ChangePassword(context.Background(), admin, auth.ChangePasswordRequest{
		OldPassword: "admin123",
		NewPassword: "betterpassword",
	})
	require.NoError(t, err)

	b := bcrypt.NewWithCost(4)
	assert.NoError(t, b.ComparePassword(store.admins["admin"].PasswordHash, "betterpassword"))

	_, err = svc.Login(context.Background(), auth.LoginRequest{
		Username: "admin",
		Password: "betterpassword",
	})
	assert.NoError(t, err)
}
