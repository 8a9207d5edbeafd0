// Package auth is the single-user mock session gate in front of the directory.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/glimpse/internal/lib/logger/sl"
	"github.com/UnknownOlympus/glimpse/internal/repository"
)

const (
	// TokenKey is the key the session token is persisted under.
	TokenKey = "authToken"
	// Token is the fixed token handed out on a successful login.
	Token = "mockToken"
)

var (
	ErrLogin              = errors.New("login failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Gate compares credentials with the configured pair and records the session in the
// key/value store. There is one session shared by every client.
type Gate struct {
	log      *slog.Logger
	kv       repository.KVRepoIface
	username string
	password string
}

func NewGate(log *slog.Logger, kv repository.KVRepoIface, username, password string) *Gate {
	return &Gate{
		log: log.With(
			slog.String("division", "auth"),
		),
		kv:       kv,
		username: username,
		password: password,
	}
}

// Login checks the credentials and stores the session token.
func (g *Gate) Login(ctx context.Context, username, password string) (string, error) {
	log := g.log.With(slog.String("op", "Auth.Login"))

	if username != g.username || password != g.password {
		log.WarnContext(ctx, "Rejected login attempt", slog.String("username", username))
		return "", fmt.Errorf("%w: %w", ErrLogin, ErrInvalidCredentials)
	}

	if err := g.kv.Set(ctx, TokenKey, Token); err != nil {
		return "", fmt.Errorf("%w: failed to store session: %w", ErrLogin, err)
	}

	log.InfoContext(ctx, "Successfuly logged in", slog.String("username", username))

	return Token, nil
}

// Logout removes the session token.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.kv.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	g.log.InfoContext(ctx, "Logged out", slog.String("op", "Auth.Logout"))

	return nil
}

// IsAuthenticated reports whether a non-empty session token is stored.
func (g *Gate) IsAuthenticated(ctx context.Context) bool {
	return g.storedToken(ctx) != ""
}

// Authorize reports whether presented matches the stored session token.
func (g *Gate) Authorize(ctx context.Context, presented string) bool {
	token := g.storedToken(ctx)
	if presented == "" || token == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1
}

// storedToken returns the persisted token. A storage error counts as signed out.
func (g *Gate) storedToken(ctx context.Context) string {
	token, err := g.kv.Get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			g.log.WarnContext(ctx, "Failed to read session token", slog.String("op", "Auth.storedToken"), sl.Err(err))
		}
		return ""
	}

	return token
}
