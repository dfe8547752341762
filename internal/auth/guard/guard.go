package guard

import (
	"context"
	"net/http"

	"github.com/authgate/authgate/internal/common/constants"
	commonhttp "github.com/authgate/authgate/internal/common/http"
	"github.com/authgate/authgate/internal/common/logger"
)

// SessionResolver maps a raw session token to the user id it proves.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

type contextKey string

const userIDKey contextKey = "auth_user_id"

// Guard protects handlers behind a valid session cookie. Requests
// without one are rejected before the wrapped handler runs.
type Guard struct {
	resolver SessionResolver
	errors   *commonhttp.ErrorHandler
	log      *logger.Logger
}

func New(resolver SessionResolver, log *logger.Logger) *Guard {
	return &Guard{
		resolver: resolver,
		errors:   commonhttp.NewErrorHandler(log),
		log:      log,
	}
}

func (g *Guard) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(constants.SessionCookieName)
		if err != nil || cookie.Value == "" {
			g.log.WithFields(r.Context(), logger.Fields{
				"path":   r.URL.Path,
				"action": "guard_missing_cookie",
			}).Warn("unauthenticated request")
			commonhttp.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		userID, err := g.resolver.Resolve(r.Context(), cookie.Value)
		if err != nil {
			g.errors.HandleError(w, r, err)
			return
		}

		next(w, r.WithContext(WithUserID(r.Context(), userID)))
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the user id placed by RequireSession.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
