package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "github.com/lawyered0/clawyer/pkg/domain-errors"
	"github.com/lawyered0/clawyer/pkg/platform/httputil"
	"github.com/lawyered0/clawyer/pkg/requestcontext"
)

// AdminValidator validates admin bearer tokens and returns the authenticated
// subject (the reviewer identity recorded on clearance decisions).
type AdminValidator interface {
	ValidateToken(tokenString string) (subject string, err error)
}

// RequireAdmin guards administrative endpoints (reindex, single-entry seed,
// clearance recording). A nil validator disables the check; main only passes
// nil when no signing key is configured.
func RequireAdmin(validator AdminValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validator == nil {
				next.ServeHTTP(w, r)
				return
			}

			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			subject, err := validator.ValidateToken(token)
			if err != nil {
				logger.Warn("admin token rejected",
					"request_id", requestcontext.RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			ctx := requestcontext.WithReviewer(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
