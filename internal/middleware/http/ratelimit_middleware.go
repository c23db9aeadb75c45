package http

import (
	"net/http"

	"washline_ledger/internal/limiter"
	"washline_ledger/internal/models"
	"washline_ledger/internal/service"
)

// CreateRateLimitMiddleware builds a rate-limiting middleware bound to one
// named policy. Requests are counted per verified operator.
func CreateRateLimitMiddleware(limiterManager *limiter.Manager, policyName string) func(http.Handler) http.Handler {
	limiter := limiterManager.Get(policyName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator := models.OperatorFromContext(r.Context())
			if operator == nil {
				// The auth middleware always runs first, so a missing
				// operator is a wiring mistake, not a user error.
				service.WriteHttpError(w, http.StatusUnauthorized, "Unauthorized: operator not found in context")
				return
			}

			allowed, err := limiter.Allow(r.Context(), operator.UserId.Hex())
			if err != nil {
				service.WriteHttpError(w, http.StatusInternalServerError, "Failed to check rate limit.")
				return
			}

			if !allowed {
				service.WriteHttpError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
