package middleware

import (
	"context"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"

	"github.com/pawelnowak/fiszki-ai/models"
)

type contextKey string

const userContextKey contextKey = "user"

// AttachUser turns validated token claims into a models.User on the request
// context so handlers and templates get one consistent identity.
func AttachUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
		if !ok || claims.RegisteredClaims.Subject == "" {
			http.Error(w, "No subject in token", http.StatusUnauthorized)
			return
		}

		id, err := uuid.Parse(claims.RegisteredClaims.Subject)
		if err != nil {
			http.Error(w, "Malformed subject in token", http.StatusUnauthorized)
			return
		}

		user := models.User{ID: id}
		if custom, ok := claims.CustomClaims.(*CustomClaims); ok && custom != nil {
			user.Email = custom.Email
		}

		ctx := context.WithValue(r.Context(), userContextKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// UserFrom returns the user attached by AttachUser, if any.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}
