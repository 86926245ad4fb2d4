// Package usecase implements the URL shortening and user quota business logic.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vadimbarashkov/url-shortener-api/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	shortCodeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	DefaultShortCodeLength = 6
	maxRetries             = 5
)

var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short code")

type urlRepository interface {
	Save(ctx context.Context, userID int64, shortCode, originalURL string) (*entity.URL, error)
	RetrieveByOriginalURL(ctx context.Context, userID int64, originalURL string) (*entity.URL, error)
	RetrieveAndUpdateStats(ctx context.Context, shortCode string) (*entity.URL, error)
}

type urlCache interface {
	Get(ctx context.Context, shortCode string) (string, error)
	Set(ctx context.Context, shortCode, originalURL string) error
}

type URLUseCaseOption func(*URLUseCase)

func WithShortCodeLength(n int) URLUseCaseOption {
	return func(uc *URLUseCase) {
		uc.shortCodeLength = n
	}
}

func WithLogger(logger *slog.Logger) URLUseCaseOption {
	return func(uc *URLUseCase) {
		uc.logger = logger
	}
}

type URLUseCase struct {
	shortCodeLength int
	urlRepo         urlRepository
	cache           urlCache
	logger          *slog.Logger
}

func NewURLUseCase(urlRepo urlRepository, cache urlCache, opts ...URLUseCaseOption) *URLUseCase {
	uc := &URLUseCase{
		shortCodeLength: DefaultShortCodeLength,
		urlRepo:         urlRepo,
		cache:           cache,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// ShortenURL returns the short URL record the user owns for originalURL,
// creating one when the user has not shortened it before. The boolean result
// reports whether a new record was created.
func (uc *URLUseCase) ShortenURL(ctx context.Context, userID int64, originalURL string) (*entity.URL, bool, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	url, err := uc.urlRepo.RetrieveByOriginalURL(ctx, userID, originalURL)
	if err == nil {
		return url, false, nil
	}
	if !errors.Is(err, entity.ErrURLNotFound) {
		return nil, false, fmt.Errorf("%s: failed to look up existing url: %w", op, err)
	}

	url, err = uc.save(ctx, userID, originalURL)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if err := uc.cache.Set(ctx, url.ShortCode, url.OriginalURL); err != nil {
		uc.logger.WarnContext(ctx, "failed to cache shortened url",
			slog.String("op", op),
			slog.String("short_code", url.ShortCode),
			slog.Any("err", err),
		)
	}

	return url, true, nil
}

// save persists originalURL under a fresh short code. A code already taken by
// another record is never overwritten: a new one is drawn, up to maxRetries times.
func (uc *URLUseCase) save(ctx context.Context, userID int64, originalURL string) (*entity.URL, error) {
	for i := 0; i < maxRetries; i++ {
		shortCode, err := gonanoid.Generate(shortCodeAlphabet, uc.shortCodeLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate short code: %w", err)
		}

		url, err := uc.urlRepo.Save(ctx, userID, shortCode, originalURL)
		if err != nil {
			if errors.Is(err, entity.ErrShortCodeExists) {
				continue
			}

			return nil, fmt.Errorf("failed to shorten url: %w", err)
		}

		return url, nil
	}

	return nil, ErrMaxRetriesExceeded
}

// ResolveShortCode returns the URL behind shortCode and counts one click for it.
// The cache is consulted first; on a miss the database is authoritative and
// the cache is refilled.
func (uc *URLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveShortCode"

	cached, err := uc.cache.Get(ctx, shortCode)
	switch {
	case err == nil:
		return uc.countCachedClick(ctx, shortCode, cached)
	case !errors.Is(err, entity.ErrCacheMiss):
		uc.logger.WarnContext(ctx, "failed to read url cache",
			slog.String("op", op),
			slog.String("short_code", shortCode),
			slog.Any("err", err),
		)
	}

	url, err := uc.urlRepo.RetrieveAndUpdateStats(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	if err := uc.cache.Set(ctx, url.ShortCode, url.OriginalURL); err != nil {
		uc.logger.WarnContext(ctx, "failed to cache resolved url",
			slog.String("op", op),
			slog.String("short_code", shortCode),
			slog.Any("err", err),
		)
	}

	return url, nil
}

// countCachedClick records a click for a cache hit. The redirect target is
// the cached URL even if the database record has disappeared.
func (uc *URLUseCase) countCachedClick(ctx context.Context, shortCode, cached string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.countCachedClick"

	url, err := uc.urlRepo.RetrieveAndUpdateStats(ctx, shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			return &entity.URL{ShortCode: shortCode, OriginalURL: cached}, nil
		}

		return nil, fmt.Errorf("%s: failed to update url stats: %w", op, err)
	}

	url.OriginalURL = cached

	return url, nil
}
