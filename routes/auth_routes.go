package routes

import (
	"amora_server/controllers"
	"amora_server/middleware"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes sets up routes for account operations under /api/auth
func RegisterAuthRoutes(r *mux.Router, accounts *services.AccountService, jwtSecret string) {
	controller := controllers.NewAuthController(accounts)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", controller.HandleRegister).Methods("POST")
	authRouter.HandleFunc("/login", controller.HandleLogin).Methods("POST")

	protected := r.PathPrefix("/api/auth").Subrouter()
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	protected.HandleFunc("/profile", controller.HandleUpdateProfile).Methods("PUT")
}
