package routes

import (
	"amora_server/controllers"
	"amora_server/middleware"
	"amora_server/services"
	"amora_server/socket"

	"github.com/gorilla/mux"
)

// RegisterMessageRoutes sets up routes for chat operations under /api/messages
func RegisterMessageRoutes(r *mux.Router, chat *services.ChatService, hub *socket.Hub, jwtSecret string) {
	controller := controllers.NewMessageController(chat, hub)

	messageRouter := r.PathPrefix("/api/messages").Subrouter()
	messageRouter.Use(middleware.AuthMiddleware(jwtSecret))

	messageRouter.HandleFunc("/conversations", controller.HandleGetConversations).Methods("GET")
	messageRouter.HandleFunc("/send", controller.HandleSendMessage).Methods("POST")
	messageRouter.HandleFunc("/{userId}", controller.HandleGetMessages).Methods("GET")
	messageRouter.HandleFunc("/{userId}/read", controller.HandleMarkRead).Methods("PUT")
}
