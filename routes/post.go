package routes

import (
	"github.com/gorilla/mux"
	"threadloom.com/threadloom-backend/handlers"
	"threadloom.com/threadloom-backend/social"
	"threadloom.com/threadloom-backend/storage"
)

func CreatePostRoutes(svc *social.Service, users storage.IdentityStore, router *mux.Router) *mux.Router {
	router.HandleFunc("/posts/user/{username}", handlers.GetUserPosts(svc)).Methods("GET")

	protected := router.NewRoute().Subrouter()
	protected.Use(handlers.ProtectRoute(users))
	protected.HandleFunc("/posts/feed", handlers.GetFeedPosts(svc)).Methods("GET")
	protected.HandleFunc("/posts/create", handlers.CreatePost(svc)).Methods("POST")
	protected.HandleFunc("/posts/like/{id}", handlers.LikeUnlikePost(svc)).Methods("PUT")
	protected.HandleFunc("/posts/reply/{id}", handlers.ReplyToPost(svc)).Methods("POST")
	protected.HandleFunc("/posts/{id}", handlers.DeletePost(svc)).Methods("DELETE")

	// Registered after the protected subrouter so /posts/feed wins for GET.
	router.HandleFunc("/posts/{id}", handlers.GetPost(svc)).Methods("GET")

	return router
}
