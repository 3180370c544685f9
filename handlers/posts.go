package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"threadloom.com/threadloom-backend/social"
)

// CreatePost stores a new post for the authenticated user.
func CreatePost(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}

		var req struct {
			PostedBy string `json:"posted_by"`
			Text     string `json:"text"`
			Img      string `json:"img"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		post, err := svc.CreatePost(r.Context(), user.ID, req.PostedBy, req.Text, req.Img)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, post)
	}
}

// GetPost returns a single post with its replies and liker set.
func GetPost(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		post, err := svc.Post(r.Context(), vars["id"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

// DeletePost removes the authenticated user's own post.
func DeletePost(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		vars := mux.Vars(r)

		if err := svc.DeletePost(r.Context(), user.ID, vars["id"]); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted successfully"})
	}
}

// LikeUnlikePost toggles the authenticated user's like on a post.
func LikeUnlikePost(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		vars := mux.Vars(r)

		liked, err := svc.ToggleLike(r.Context(), vars["id"], user.ID)
		if err != nil {
			writeError(w, err)
			return
		}

		message := "post unliked successfully"
		if liked {
			message = "post liked successfully"
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"liked":   liked,
			"message": message,
		})
	}
}

// ReplyToPost appends a reply by the authenticated user.
func ReplyToPost(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		vars := mux.Vars(r)

		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		reply, err := svc.AddReply(r.Context(), vars["id"], user.ID, req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reply)
	}
}

// GetFeedPosts resolves the authenticated user's feed.
func GetFeedPosts(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}

		feed, err := svc.ResolveFeed(r.Context(), user.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, feed)
	}
}

// GetUserPosts lists a user's posts by username, newest first.
func GetUserPosts(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		posts, err := svc.PostsByUsername(r.Context(), vars["username"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
	}
}
