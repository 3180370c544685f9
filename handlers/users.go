package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"threadloom.com/threadloom-backend/models"
	"threadloom.com/threadloom-backend/social"
	"threadloom.com/threadloom-backend/storage"
	"threadloom.com/threadloom-backend/utils"
)

// SignupUser creates an account and signs the caller in.
func SignupUser(users storage.IdentityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.Name == "" || req.Email == "" || req.Username == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, email, username and password are required"})
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to hash password"})
			return
		}

		user, err := users.CreateUser(r.Context(), &models.User{
			Name:     req.Name,
			Email:    req.Email,
			Username: req.Username,
			Password: string(hashed),
		})
		if err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user already exists"})
				return
			}
			writeError(w, err)
			return
		}

		if err := utils.GenerateTokenAndSetCookie(w, user.ID); err != nil {
			writeError(w, err)
			return
		}

		user.Password = ""
		writeJSON(w, http.StatusCreated, user)
	}
}

// LoginUser checks credentials and sets the session cookie.
func LoginUser(users storage.IdentityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		user, err := users.UserByUsername(r.Context(), req.Username)
		// Compare against an empty hash on a missing user so both failure
		// modes take the same path.
		storedHash := ""
		if err == nil {
			storedHash = user.Password
		}
		if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)) != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid username or password"})
			return
		}

		if err := utils.GenerateTokenAndSetCookie(w, user.ID); err != nil {
			writeError(w, err)
			return
		}

		user.Password = ""
		writeJSON(w, http.StatusOK, user)
	}
}

// LogoutUser clears the session cookie.
func LogoutUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.ClearTokenCookie(w)
		writeJSON(w, http.StatusOK, map[string]string{"message": "user logged out successfully"})
	}
}

// GetUserProfile fetches a profile by user ID or username.
func GetUserProfile(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		user, err := svc.Profile(r.Context(), vars["query"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// FollowUnfollowUser toggles the follow edge from the authenticated user to
// the target in the path.
func FollowUnfollowUser(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		vars := mux.Vars(r)

		following, err := svc.ToggleFollow(r.Context(), user.ID, vars["id"])
		if err != nil {
			writeError(w, err)
			return
		}

		message := "user unfollowed successfully"
		if following {
			message = "user followed successfully"
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"following": following,
			"message":   message,
		})
	}
}

// UpdateUser applies an owner-only profile update. Absent fields leave the
// stored values unchanged; a provided password arrives plain and is hashed
// here; a provided profile_pic is raw image data for the image store.
func UpdateUser(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		vars := mux.Vars(r)

		var req struct {
			Name       *string `json:"name"`
			Username   *string `json:"username"`
			Email      *string `json:"email"`
			Password   *string `json:"password"`
			Bio        *string `json:"bio"`
			ProfilePic *string `json:"profile_pic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if req.Password != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to hash password"})
				return
			}
			hashedStr := string(hashed)
			req.Password = &hashedStr
		}

		updated, err := svc.UpdateProfile(r.Context(), user.ID, vars["id"], social.ProfileUpdate{
			Name:       req.Name,
			Username:   req.Username,
			Email:      req.Email,
			Password:   req.Password,
			Bio:        req.Bio,
			ProfilePic: req.ProfilePic,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// RegisterDeviceToken stores an FCM device token for the authenticated user.
func RegisterDeviceToken(users storage.IdentityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}

		var req struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token is required"})
			return
		}

		if err := users.AddDeviceToken(r.Context(), user.ID, req.Token); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "device token registered"})
	}
}
