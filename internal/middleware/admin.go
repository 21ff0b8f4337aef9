package middleware

import (
	"context"
	"errors"
	"net/http"

	"tradejournal/internal/models"

	zlog "github.com/rs/zerolog/log"
)

type UserLookup interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// RequireRole admits active users holding role. It must run after Auth.
func RequireRole(users UserLookup, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if errors.Is(err, models.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if err != nil {
				zlog.Error().Err(err).Str("user_id", userID).Msg("role lookup failed")
				writeError(w, http.StatusInternalServerError, "unable to verify role")
				return
			}
			if !user.IsActive {
				writeError(w, http.StatusUnauthorized, "account is deactivated")
				return
			}
			if user.Role != role {
				zlog.Info().Str("user_id", userID).Str("required_role", role).Msg("role check failed")
				writeError(w, http.StatusForbidden, "missing required role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
