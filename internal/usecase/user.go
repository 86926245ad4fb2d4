package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/url-shortener-api/internal/entity"
)

type userRepository interface {
	Save(ctx context.Context, username, apiKey string, day time.Time) (*entity.User, error)
	RetrieveByAPIKey(ctx context.Context, apiKey string) (*entity.User, error)
	RetrieveByUsername(ctx context.Context, username string) (*entity.User, error)
	ConsumeQuota(ctx context.Context, userID int64, day time.Time, limit int64) (*entity.User, error)
}

type UserUseCaseOption func(*UserUseCase)

// WithClock replaces time.Now as the source of the current quota day.
func WithClock(now func() time.Time) UserUseCaseOption {
	return func(uc *UserUseCase) {
		uc.now = now
	}
}

type UserUseCase struct {
	userRepo   userRepository
	dailyLimit int64
	now        func() time.Time
}

func NewUserUseCase(userRepo userRepository, dailyLimit int64, opts ...UserUseCaseOption) *UserUseCase {
	uc := &UserUseCase{
		userRepo:   userRepo,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// today is the current UTC calendar day, the unit of the request quota.
func (uc *UserUseCase) today() time.Time {
	return entity.Day(uc.now().UTC())
}

// Authenticate resolves apiKey to its user.
func (uc *UserUseCase) Authenticate(ctx context.Context, apiKey string) (*entity.User, error) {
	const op = "usecase.UserUseCase.Authenticate"

	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
	}

	user, err := uc.userRepo.RetrieveByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to authenticate: %w", op, err)
	}

	return user, nil
}

// ConsumeQuota counts one request against the user's quota for today and
// returns the user with the updated count, or entity.ErrQuotaExceeded.
func (uc *UserUseCase) ConsumeQuota(ctx context.Context, user *entity.User) (*entity.User, error) {
	const op = "usecase.UserUseCase.ConsumeQuota"

	updated, err := uc.userRepo.ConsumeQuota(ctx, user.ID, uc.today(), uc.dailyLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to consume quota: %w", op, err)
	}

	return updated, nil
}

// CreateUser registers a new user. A random API key is issued when apiKey is empty.
func (uc *UserUseCase) CreateUser(ctx context.Context, username, apiKey string) (*entity.User, error) {
	const op = "usecase.UserUseCase.CreateUser"

	if apiKey == "" {
		apiKey = uuid.NewString()
	}

	user, err := uc.userRepo.Save(ctx, username, apiKey, uc.today())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	return user, nil
}

// EnsureUser returns the user named username, creating it with apiKey if it
// does not exist yet. An existing user keeps its API key.
func (uc *UserUseCase) EnsureUser(ctx context.Context, username, apiKey string) (*entity.User, error) {
	const op = "usecase.UserUseCase.EnsureUser"

	user, err := uc.userRepo.RetrieveByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, entity.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: failed to look up user: %w", op, err)
	}

	user, err = uc.CreateUser(ctx, username, apiKey)
	if err != nil {
		if errors.Is(err, entity.ErrUserExists) {
			user, err = uc.userRepo.RetrieveByUsername(ctx, username)
			if err == nil {
				return user, nil
			}
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
