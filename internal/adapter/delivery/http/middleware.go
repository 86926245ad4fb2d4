package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/url-shortener-api/internal/entity"
	"github.com/vadimbarashkov/url-shortener-api/pkg/response"
)

const apiKeyHeader = "x-api-key"

// Paths served without an API key. A path matches when it equals an entry or
// continues it with a "/" segment, so short codes such as "docsXY" stay gated.
var publicPaths = []string{
	"/docs",
	"/openapi.json",
	"/redoc",
	"/docs/oauth2-redirect",
}

type userUseCase interface {
	Authenticate(ctx context.Context, apiKey string) (*entity.User, error)
	ConsumeQuota(ctx context.Context, user *entity.User) (*entity.User, error)
}

type userCtxKey struct{}

func withUser(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

func userFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(*entity.User)
	return user, ok && user != nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// quotaGate authenticates the caller by API key and charges one request
// against their daily quota before passing the request on.
func quotaGate(useCase userUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get(apiKeyHeader)
			if apiKey == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, apiKeyMissingResponse)
				return
			}

			user, err := useCase.Authenticate(r.Context(), apiKey)
			if err != nil {
				if errors.Is(err, entity.ErrUserNotFound) {
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, invalidAPIKeyResponse)
					return
				}

				httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
				return
			}

			user, err = useCase.ConsumeQuota(r.Context(), user)
			if err != nil {
				if errors.Is(err, entity.ErrQuotaExceeded) {
					render.Status(r, http.StatusTooManyRequests)
					render.JSON(w, r, limitExceededResponse)
					return
				}

				httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}
