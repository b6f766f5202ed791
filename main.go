package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/api/option"

	"healthChallengeAPI/handlers"
	"healthChallengeAPI/internal/notification"
	"healthChallengeAPI/internal/store"
	"healthChallengeAPI/internal/workers"
	"healthChallengeAPI/middleware"
	"healthChallengeAPI/services"
)

var (
	dbPool             *pgxpool.Pool
	firestoreClient    *firestore.Client
	docStore           *store.FirestoreStore
	healthService      *services.HealthService
	userService        *services.UserService
	challengeService   *services.ChallengeService
	leaderboardService *services.LeaderboardService
	expiryWorker       *workers.ExpiryWorker
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to health sample store")

	firebaseApp, err := newFirebaseApp(ctx)
	if err != nil {
		log.Fatal("Failed to initialize Firebase:", err)
	}

	firestoreClient, err = firebaseApp.Firestore(ctx)
	if err != nil {
		log.Fatal("Failed to create Firestore client:", err)
	}
	log.Println("Firestore initialized successfully")

	docStore = store.NewFirestoreStore(firestoreClient)
	healthService = services.NewHealthService(dbPool)
	userService = services.NewUserService(docStore)
	challengeService = services.NewChallengeService(docStore, healthService)
	leaderboardService = services.NewLeaderboardService(docStore, healthService)
	expiryWorker = workers.NewExpiryWorker(challengeService, docStore)

	fcmService, err := notification.NewFCMService(context.Background(), firebaseApp)
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		challengeService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	middleware.InitPrometheus()
}

// newFirebaseApp loads credentials from the FIREBASE_SERVICE_ACCOUNT_JSON
// environment variable (Base64 encoded) and falls back to a local service
// account key file.
func newFirebaseApp(ctx context.Context) (*firebase.App, error) {
	var opt option.ClientOption

	if encodedCreds := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		log.Println("Firebase: Initializing from FIREBASE_SERVICE_ACCOUNT_JSON environment variable.")
	} else {
		opt = option.WithCredentialsFile("./serviceAccountKey.json")
		log.Println("Firebase: Initializing from local service account key file.")
	}

	return firebase.NewApp(ctx, nil, opt)
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
		firestoreClient.Close()
	}()

	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthDataHandler(healthService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "healthchallenge-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	api := r.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/update-profile", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/goals", userHandler.UpdateGoals).Methods("PUT")
	protected.HandleFunc("/user/delete-account", userHandler.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/user/register-device", userHandler.RegisterDevice).Methods("POST")

	protected.HandleFunc("/health/samples", healthHandler.AddSamples).Methods("POST")
	protected.HandleFunc("/health/total", healthHandler.GetTotal).Methods("GET")
	protected.HandleFunc("/health/series", healthHandler.GetSeries).Methods("GET")

	protected.HandleFunc("/challenges", challengeHandler.ListChallenges).Methods("GET")
	protected.HandleFunc("/user/challenges", challengeHandler.GetUserChallenges).Methods("GET")
	protected.HandleFunc("/user/challenges", challengeHandler.JoinChallenge).Methods("POST")
	protected.HandleFunc("/user/challenges/refresh", challengeHandler.RefreshChallenges).Methods("POST")

	protected.HandleFunc("/user/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")

	expiryWorker.Start()
	defer expiryWorker.Stop()

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
