package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"amora_server/config"
	"amora_server/routes"
	"amora_server/services"
	"amora_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	// Initialize DynamoDB client and service
	log.Info("initializing DynamoDB client")
	dynamoClient, err := services.InitializeDynamoDBClient(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatalw("failed to initialize DynamoDB client", "error", err)
	}
	dynamoService := &services.DynamoService{Client: dynamoClient, Log: log}

	s3Service, err := services.InitializeS3Service(ctx, cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		log.Fatalw("failed to initialize S3 service", "error", err)
	}

	// Stores and services
	accountStore := services.NewDynamoAccountStore(dynamoService)
	profileStore := services.NewDynamoProfileStore(dynamoService)
	matchStore := services.NewDynamoMatchStore(dynamoService)
	messageStore := services.NewDynamoMessageStore(dynamoService)

	accountService := services.NewAccountService(accountStore, profileStore, cfg.JWTSecret, cfg.JWTExpiry)
	matchService := services.NewMatchService(accountStore, profileStore, matchStore, messageStore)
	chatService := services.NewChatService(accountStore, matchStore, messageStore)

	// Presence hub lives for the whole process and is injected wherever
	// real-time fan-out happens.
	hub := socket.NewHub(log)
	socketServer := socket.NewServer(hub, log)

	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Amora")
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	r.HandleFunc("/ws", socketServer.ServeWS)

	// Register routes
	routes.RegisterAuthRoutes(r, accountService, cfg.JWTSecret)
	routes.RegisterMatchingRoutes(r, matchService, hub, cfg.JWTSecret)
	routes.RegisterMessageRoutes(r, chatService, hub, cfg.JWTSecret)
	routes.RegisterPhotoRoutes(r, s3Service, cfg.JWTSecret)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	log.Infow("starting server", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, corsHandler); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
