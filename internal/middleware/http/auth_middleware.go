package http

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/models"
	"washline_ledger/internal/service"
	"washline_ledger/pkg/jwt"
)

// AuthMiddleware defines the function signature for the authentication
// middleware.
type AuthMiddleware func(http.Handler) http.Handler

// NewAuthMiddleware verifies the Bearer token and stores the staff identity
// in the request context. The ledger itself never checks credentials; it
// only needs a verified operator for audit attribution.
func NewAuthMiddleware(jwtManager *jwt.Manager) AuthMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				service.WriteHttpError(w, http.StatusUnauthorized, "Unauthorized: missing bearer token")
				return
			}

			payload, err := jwtManager.Parse(token)
			if err != nil {
				service.WriteHttpError(w, http.StatusUnauthorized, "Unauthorized: "+err.Error())
				return
			}

			operator, err := operatorFromPayload(payload)
			if err != nil {
				service.WriteHttpError(w, http.StatusUnauthorized, "Unauthorized: "+err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), models.OperatorKey, operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func operatorFromPayload(payload map[string]interface{}) (*models.User, error) {
	idStr, _ := payload["user_id"].(string)
	userID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return nil, jwt.ErrTokenInvalid
	}
	name, _ := payload["name"].(string)
	email, _ := payload["email"].(string)
	return &models.User{UserId: userID, Name: name, Email: email}, nil
}
