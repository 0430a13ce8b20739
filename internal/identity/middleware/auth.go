package middleware

import (
	"context"
	"net/http"
	"strings"

	"rentwheels/internal/identity/repository"
	"rentwheels/internal/identity/token"
	httputil "rentwheels/pkg/http"
	"rentwheels/pkg/logger"
	"rentwheels/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type contextKey string

const userContextKey contextKey = "authenticated_user"

// Authenticator resolves the Authorization header to a live account.
// The account is re-fetched on every request so a deleted or revoked
// identity loses access immediately, token or not.
type Authenticator struct {
	tokens   *token.Manager
	userRepo repository.UserRepository
	log      *logger.Logger
}

func NewAuthenticator(tokens *token.Manager, userRepo repository.UserRepository, log *logger.Logger) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		userRepo: userRepo,
		log:      log,
	}
}

// UserFrom returns the authenticated user stored by Authenticated.
func UserFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

// Authenticated wraps a route so it only runs for a valid token backed
// by an existing account. Rejections use the flat envelope like every
// other response.
func (a *Authenticator) Authenticated(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
				"success": false,
				"message": "not authorized, no token",
			})
			return
		}
		// The web client sends the bare token; tolerate a Bearer prefix too.
		raw = strings.TrimPrefix(raw, "Bearer ")

		claims, err := a.tokens.Parse(raw)
		if err != nil {
			httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
				"success": false,
				"message": "not authorized",
			})
			return
		}

		user, err := a.userRepo.FindByID(r.Context(), claims.UserID)
		if err != nil {
			a.log.Warn("Token resolved to no account", "user_id", claims.UserID, "error", err)
			httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
				"success": false,
				"message": "not authorized",
			})
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireOwner gates owner-only management routes.
func (a *Authenticator) RequireOwner(next httprouter.Handle) httprouter.Handle {
	return a.Authenticated(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user, ok := UserFrom(r.Context())
		if !ok || !user.IsOwner() {
			httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
				"success": false,
				"message": "Only owners can perform this action",
			})
			return
		}
		next(w, r, ps)
	})
}

// RequireRenter gates renter-only routes such as booking creation.
func (a *Authenticator) RequireRenter(next httprouter.Handle) httprouter.Handle {
	return a.Authenticated(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user, ok := UserFrom(r.Context())
		if !ok || user.IsOwner() {
			httputil.WriteJSON(w, http.StatusOK, httputil.Envelope{
				"success": false,
				"message": "Owners cannot book cars. Only regular users can make bookings.",
			})
			return
		}
		next(w, r, ps)
	})
}
