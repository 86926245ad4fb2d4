package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/url-shortener-api/internal/entity"
)

type mockURLRepository struct {
	mock.Mock
}

func (m *mockURLRepository) Save(ctx context.Context, userID int64, shortCode, originalURL string) (*entity.URL, error) {
	args := m.Called(ctx, userID, shortCode, originalURL)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLRepository) RetrieveByOriginalURL(ctx context.Context, userID int64, originalURL string) (*entity.URL, error) {
	args := m.Called(ctx, userID, originalURL)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *mockURLRepository) RetrieveAndUpdateStats(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := m.Called(ctx, shortCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

type mockURLCache struct {
	mock.Mock
}

func (m *mockURLCache) Get(ctx context.Context, shortCode string) (string, error) {
	args := m.Called(ctx, shortCode)
	return args.String(0), args.Error(1)
}

func (m *mockURLCache) Set(ctx context.Context, shortCode, originalURL string) error {
	args := m.Called(ctx, shortCode, originalURL)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Save(ctx context.Context, username, apiKey string, day time.Time) (*entity.User, error) {
	args := m.Called(ctx, username, apiKey, day)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) RetrieveByAPIKey(ctx context.Context, apiKey string) (*entity.User, error) {
	args := m.Called(ctx, apiKey)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) RetrieveByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) ConsumeQuota(ctx context.Context, userID int64, day time.Time, limit int64) (*entity.User, error) {
	args := m.Called(ctx, userID, day, limit)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}
