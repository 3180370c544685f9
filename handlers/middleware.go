package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"threadloom.com/threadloom-backend/models"
	"threadloom.com/threadloom-backend/storage"
	"threadloom.com/threadloom-backend/utils"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// ProtectRoute loads the authenticated user from the jwt cookie into the
// request context, rejecting the request with 401 otherwise.
func ProtectRoute(users storage.IdentityStore) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("jwt")
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
				return
			}

			userID, err := utils.ParseToken(cookie.Value)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
				return
			}

			user, err := users.UserByID(r.Context(), userID)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
				return
			}
			user.Password = ""

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser returns the user placed in the context by ProtectRoute.
func currentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	return user, ok
}
