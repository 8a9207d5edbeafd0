package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/glimpse/internal/auth"
	"github.com/UnknownOlympus/glimpse/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockKV struct {
	mock.Mock
}

func (m *mockKV) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockKV) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockKV) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockKV) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newGate(kv repository.KVRepoIface) *auth.Gate {
	return auth.NewGate(slog.New(slog.NewTextHandler(io.Discard, nil)), kv, "hr@example.com", "password")
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
		authed   bool
	}{
		{name: "success login", username: "hr@example.com", password: "password", authed: true},
		{name: "wrong password", username: "hr@example.com", password: "hunter2", wantErr: true},
		{name: "wrong username", username: "ceo@example.com", password: "password", wantErr: true},
		{name: "empty credentials", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			gate := newGate(repository.NewMemoryKV())

			token, err := gate.Login(ctx, tt.username, tt.password)

			if tt.wantErr {
				require.ErrorIs(t, err, auth.ErrLogin)
				require.ErrorIs(t, err, auth.ErrInvalidCredentials)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, auth.Token, token)
			}
			assert.Equal(t, tt.authed, gate.IsAuthenticated(ctx))
		})
	}
}

func TestLogin_StorageFailure(t *testing.T) {
	kv := new(mockKV)
	kv.On("Set", mock.Anything, auth.TokenKey, auth.Token).Return(errors.New("disk full"))

	_, err := newGate(kv).Login(context.Background(), "hr@example.com", "password")

	require.ErrorIs(t, err, auth.ErrLogin)
	require.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "disk full")
	kv.AssertExpectations(t)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	gate := newGate(repository.NewMemoryKV())

	_, err := gate.Login(ctx, "hr@example.com", "password")
	require.NoError(t, err)
	require.True(t, gate.IsAuthenticated(ctx))

	require.NoError(t, gate.Logout(ctx))
	assert.False(t, gate.IsAuthenticated(ctx))

	// Logging out twice is harmless.
	require.NoError(t, gate.Logout(ctx))
}

func TestLogout_StorageFailure(t *testing.T) {
	kv := new(mockKV)
	kv.On("Delete", mock.Anything, auth.TokenKey).Return(errors.New("connection reset"))

	err := newGate(kv).Logout(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear session")
}

func TestIsAuthenticated(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		err    error
		authed bool
	}{
		{name: "token stored", token: auth.Token, authed: true},
		{name: "any non-empty token", token: "something-else", authed: true},
		{name: "empty token", token: ""},
		{name: "no token", err: repository.ErrKeyNotFound},
		{name: "storage error", err: errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := new(mockKV)
			kv.On("Get", mock.Anything, auth.TokenKey).Return(tt.token, tt.err)

			assert.Equal(t, tt.authed, newGate(kv).IsAuthenticated(context.Background()))
		})
	}
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	gate := newGate(repository.NewMemoryKV())

	assert.False(t, gate.Authorize(ctx, auth.Token), "no session yet")

	_, err := gate.Login(ctx, "hr@example.com", "password")
	require.NoError(t, err)

	assert.True(t, gate.Authorize(ctx, auth.Token))
	assert.False(t, gate.Authorize(ctx, "forged"))
	assert.False(t, gate.Authorize(ctx, ""))
}
