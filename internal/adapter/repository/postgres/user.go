package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/url-shortener-api/internal/entity"
	"github.com/vadimbarashkov/url-shortener-api/pkg/postgres"
)

const userColumns = `id, username, api_key, request_count, last_request_date`

type userDB struct {
	ID              int64     `db:"id"`
	Username        string    `db:"username"`
	APIKey          string    `db:"api_key"`
	RequestCount    int64     `db:"request_count"`
	LastRequestDate time.Time `db:"last_request_date"`
}

func (u *userDB) toEntity() *entity.User {
	return &entity.User{
		ID:              u.ID,
		Username:        u.Username,
		APIKey:          u.APIKey,
		RequestCount:    u.RequestCount,
		LastRequestDate: u.LastRequestDate,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, username, apiKey string, day time.Time) (*entity.User, error) {
	const op = "adapter.repository.postgres.UserRepository.Save"
	const query = `INSERT INTO users(username, api_key, last_request_date) VALUES ($1, $2, $3) RETURNING ` + userColumns

	var user userDB

	if err := r.db.GetContext(ctx, &user, query, username, apiKey, day); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrUserExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into users table: %w", op, err)
	}

	return user.toEntity(), nil
}

func (r *UserRepository) RetrieveByAPIKey(ctx context.Context, apiKey string) (*entity.User, error) {
	const op = "adapter.repository.postgres.UserRepository.RetrieveByAPIKey"
	const query = `SELECT ` + userColumns + ` FROM users WHERE api_key = $1`

	return r.retrieve(ctx, op, query, apiKey)
}

func (r *UserRepository) RetrieveByUsername(ctx context.Context, username string) (*entity.User, error) {
	const op = "adapter.repository.postgres.UserRepository.RetrieveByUsername"
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	return r.retrieve(ctx, op, query, username)
}

func (r *UserRepository) retrieve(ctx context.Context, op, query string, arg any) (*entity.User, error) {
	var user userDB

	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from users table: %w", op, err)
	}

	return user.toEntity(), nil
}

// ConsumeQuota counts one request for the user on day, provided fewer than
// limit requests were already counted that day. A count left over from an
// earlier day is discarded. Check and increment happen in a single statement,
// so concurrent callers can never push the count past limit.
// It returns entity.ErrQuotaExceeded when the request is not counted.
func (r *UserRepository) ConsumeQuota(ctx context.Context, userID int64, day time.Time, limit int64) (*entity.User, error) {
	const op = "adapter.repository.postgres.UserRepository.ConsumeQuota"
	const query = `UPDATE users
		SET request_count = CASE WHEN last_request_date = $2 THEN request_count + 1 ELSE 1 END,
			last_request_date = $2
		WHERE id = $1 AND $3 > 0 AND (last_request_date <> $2 OR request_count < $3)
		RETURNING ` + userColumns

	var user userDB

	if err := r.db.GetContext(ctx, &user, query, userID, day, limit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrQuotaExceeded)
		}

		return nil, fmt.Errorf("%s: failed to update users table row: %w", op, err)
	}

	return user.toEntity(), nil
}
