package routes

import (
	"amora_server/controllers"
	"amora_server/middleware"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterPhotoRoutes sets up routes for photo storage under /api/photos
func RegisterPhotoRoutes(r *mux.Router, s3 *services.S3Service, jwtSecret string) {
	controller := controllers.NewPhotoController(s3)

	photoRouter := r.PathPrefix("/api/photos").Subrouter()
	photoRouter.Use(middleware.AuthMiddleware(jwtSecret))

	photoRouter.HandleFunc("/upload-url", controller.HandleUploadURL).Methods("POST")
	photoRouter.HandleFunc("/read-url", controller.HandleReadURL).Methods("POST")
}
