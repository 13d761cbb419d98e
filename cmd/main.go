package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/asset-maintenance/internal/aggregate"
	"github.com/ukydev/asset-maintenance/internal/auth"
	"github.com/ukydev/asset-maintenance/internal/db"
	"github.com/ukydev/asset-maintenance/internal/handlers"
	"github.com/ukydev/asset-maintenance/internal/ingest"
	"github.com/ukydev/asset-maintenance/internal/middleware"
)

func listenAddr() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment")
	}
	log.SetFormatter(&log.JSONFormatter{})

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "maintenance"
	}
	database := client.Database(dbName)

	assets := &db.MongoCollection{Collection: database.Collection("assets")}
	equipmentModels := &db.MongoCollection{Collection: database.Collection("equipment_models")}
	intervals := &db.MongoCollection{Collection: database.Collection("service_intervals")}
	events := &db.MongoCollection{Collection: database.Collection("service_events")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	var aggregateClient *aggregate.Client
	if baseURL := os.Getenv("AGGREGATE_API_URL"); baseURL != "" {
		aggregateClient = aggregate.NewClient(baseURL)
		log.WithField("base_url", baseURL).Info("Composite aggregation service configured")
	}

	authHandler := handlers.NewAuthHandler(authService, users)
	userHandler := handlers.NewUserHandler(users)
	assetHandler := &handlers.AssetHandler{
		Assets:    assets,
		Models:    equipmentModels,
		Intervals: intervals,
		Events:    events,
		Aggregate: aggregateClient,
	}
	modelHandler := &handlers.ModelHandler{Models: equipmentModels}
	intervalHandler := &handlers.IntervalHandler{Intervals: intervals, Models: equipmentModels}
	eventHandler := &handlers.EventHandler{Events: events, Assets: assets, Models: equipmentModels}

	// Counter readings can also arrive over MQTT from the equipment itself.
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		subscriber, err := ingest.NewSubscriber(broker, "asset-maintenance-api", assets)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to MQTT broker")
		}
		if err := subscriber.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start MQTT counter ingest")
		}
		defer subscriber.Stop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/profile", authHandler.Profile)
	mux.HandleFunc("/api/auth/change-password", authHandler.ChangePassword)
	mux.HandleFunc("/api/users", userHandler.List)
	mux.HandleFunc("/api/users/", userHandler.Resource)
	mux.HandleFunc("/api/assets", assetHandler.Collection)
	mux.HandleFunc("/api/assets/", assetHandler.Resource)
	mux.HandleFunc("/api/models", modelHandler.Collection)
	mux.HandleFunc("/api/intervals", intervalHandler.Collection)
	mux.Handle("/api/intervals/", authMiddleware.RequirePermission("manage_intervals")(http.HandlerFunc(intervalHandler.Resource)))
	mux.HandleFunc("/api/events", eventHandler.Collection)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	handler := rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	addr := listenAddr()
	log.WithField("addr", addr).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(addr, handler))
}
