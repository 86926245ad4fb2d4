package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/url-shortener-api/internal/entity"
)

type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) Authenticate(ctx context.Context, apiKey string) (*entity.User, error) {
	args := m.Called(ctx, apiKey)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserUseCase) ConsumeQuota(ctx context.Context, user *entity.User) (*entity.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

type mockURLUseCase struct {
	mock.Mock
}

func (m *mockURLUseCase) ShortenURL(ctx context.Context, userID int64, originalURL string) (*entity.URL, bool, error) {
	args := m.Called(ctx, userID, originalURL)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Bool(1), args.Error(2)
}

func (m *mockURLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := m.Called(ctx, shortCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}
