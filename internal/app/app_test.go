package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/url-shortener-api/internal/config"
	"github.com/vadimbarashkov/url-shortener-api/internal/entity"
)

type ensureFunc func(ctx context.Context, username, apiKey string) (*entity.User, error)

func (f ensureFunc) EnsureUser(ctx context.Context, username, apiKey string) (*entity.User, error) {
	return f(ctx, username, apiKey)
}

func TestEnsureDefaultUser(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("not configured", func(t *testing.T) {
		called := false
		users := ensureFunc(func(context.Context, string, string) (*entity.User, error) {
			called = true
			return nil, nil
		})

		err := ensureDefaultUser(context.Background(), &config.Config{}, logger, users)

		assert.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("failure", func(t *testing.T) {
		users := ensureFunc(func(context.Context, string, string) (*entity.User, error) {
			return nil, errors.New("unknown error")
		})
		cfg := &config.Config{DefaultUser: config.DefaultUser{Username: "admin", APIKey: "key"}}

		err := ensureDefaultUser(context.Background(), cfg, logger, users)

		assert.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		var gotUsername, gotKey string
		users := ensureFunc(func(_ context.Context, username, apiKey string) (*entity.User, error) {
			gotUsername, gotKey = username, apiKey
			return &entity.User{ID: 1, Username: username, APIKey: apiKey}, nil
		})
		cfg := &config.Config{DefaultUser: config.DefaultUser{Username: "admin", APIKey: "key"}}

		err := ensureDefaultUser(context.Background(), cfg, logger, users)

		assert.NoError(t, err)
		assert.Equal(t, "admin", gotUsername)
		assert.Equal(t, "key", gotKey)
	})
}
