package routes

import (
	"github.com/gorilla/mux"
	"threadloom.com/threadloom-backend/handlers"
	"threadloom.com/threadloom-backend/social"
	"threadloom.com/threadloom-backend/storage"
)

func CreateUserRoutes(svc *social.Service, users storage.IdentityStore, router *mux.Router) *mux.Router {
	router.HandleFunc("/users/signup", handlers.SignupUser(users)).Methods("POST")
	router.HandleFunc("/users/login", handlers.LoginUser(users)).Methods("POST")
	router.HandleFunc("/users/logout", handlers.LogoutUser()).Methods("POST")
	router.HandleFunc("/users/profile/{query}", handlers.GetUserProfile(svc)).Methods("GET")

	protected := router.NewRoute().Subrouter()
	protected.Use(handlers.ProtectRoute(users))
	protected.HandleFunc("/users/follow/{id}", handlers.FollowUnfollowUser(svc)).Methods("POST")
	protected.HandleFunc("/users/update/{id}", handlers.UpdateUser(svc)).Methods("PUT")
	protected.HandleFunc("/users/device-token", handlers.RegisterDeviceToken(users)).Methods("POST")

	return router
}
