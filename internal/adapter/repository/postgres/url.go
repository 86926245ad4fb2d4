package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/url-shortener-api/internal/entity"
	"github.com/vadimbarashkov/url-shortener-api/pkg/postgres"
)

const urlColumns = `id, user_id, short_code, original_url, click_count`

type urlDB struct {
	ID          int64  `db:"id"`
	UserID      int64  `db:"user_id"`
	ShortCode   string `db:"short_code"`
	OriginalURL string `db:"original_url"`
	ClickCount  int64  `db:"click_count"`
}

func (u *urlDB) toEntity() *entity.URL {
	return &entity.URL{
		ID:          u.ID,
		UserID:      u.UserID,
		ShortCode:   u.ShortCode,
		OriginalURL: u.OriginalURL,
		URLStats: entity.URLStats{
			ClickCount: u.ClickCount,
		},
	}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) Save(ctx context.Context, userID int64, shortCode, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.Save"
	const query = `INSERT INTO urls(user_id, short_code, original_url) VALUES ($1, $2, $3) RETURNING ` + urlColumns

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, userID, shortCode, originalURL); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

// RetrieveByOriginalURL returns the URL the user already shortened for originalURL.
func (r *URLRepository) RetrieveByOriginalURL(ctx context.Context, userID int64, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByOriginalURL"
	const query = `SELECT ` + urlColumns + ` FROM urls WHERE user_id = $1 AND original_url = $2 ORDER BY id LIMIT 1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, userID, originalURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

// RetrieveAndUpdateStats increments the click count of the URL with shortCode
// and returns the updated row.
func (r *URLRepository) RetrieveAndUpdateStats(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveAndUpdateStats"
	const query = `UPDATE urls SET click_count = click_count + 1 WHERE short_code = $1 RETURNING ` + urlColumns

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get and update urls table row: %w", op, err)
	}

	return url.toEntity(), nil
}
