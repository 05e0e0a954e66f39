package routes

import (
	"amora_server/controllers"
	"amora_server/middleware"
	"amora_server/services"
	"amora_server/socket"

	"github.com/gorilla/mux"
)

// RegisterMatchingRoutes sets up routes for swipe operations under /api/matching
func RegisterMatchingRoutes(r *mux.Router, engine *services.MatchService, hub *socket.Hub, jwtSecret string) {
	controller := controllers.NewMatchController(engine, hub)

	matchingRouter := r.PathPrefix("/api/matching").Subrouter()
	matchingRouter.Use(middleware.AuthMiddleware(jwtSecret))

	matchingRouter.HandleFunc("/profiles", controller.HandleGetCandidates).Methods("GET")
	matchingRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	matchingRouter.HandleFunc("/pass", controller.HandlePass).Methods("POST")
	matchingRouter.HandleFunc("/matches", controller.HandleGetMatches).Methods("GET")
	matchingRouter.HandleFunc("/matches/{userId}", controller.HandleUnmatch).Methods("DELETE")
}
