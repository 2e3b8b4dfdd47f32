package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qpathAPI/handlers"
	"qpathAPI/internal/auth"
	"qpathAPI/internal/database"
	"qpathAPI/internal/gemini"
	"qpathAPI/internal/user"
	"qpathAPI/middleware"
	"qpathAPI/services"
)

var (
	dbPool              *pgxpool.Pool
	authService         *auth.Service
	userService         *services.UserService
	trackService        *services.TrackService
	gamificationService *services.GamificationService
	projectService      *services.ProjectService
	qmentorService      *services.QMentorService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	dbPool, err = database.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Successfully connected to PostgreSQL")

	if err := database.Migrate(ctx, dbPool); err != nil {
		log.Fatal("Failed to apply schema:", err)
	}

	authService = auth.NewService(jwtSecret, 30*time.Minute, 7*24*time.Hour)
	trackService = services.NewTrackService(dbPool)
	gamificationService = services.NewGamificationService(dbPool, trackService)
	userService = services.NewUserService(dbPool)
	projectService = services.NewProjectService(dbPool, gamificationService)

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("GEMINI_MODEL"),
	})
	qmentorService = services.NewQMentorService(geminiClient)
	if qmentorService.Available() {
		log.Println("Q-Mentor Gemini client configured successfully")
	} else {
		log.Println("Gemini API key not found. Q-Mentor will run with limited functionality.")
	}

	if err := trackService.EnsureDefaults(ctx); err != nil {
		log.Fatal("Failed to seed learning tracks:", err)
	}

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, gamificationService, authService)
	userHandler := handlers.NewUserHandler(userService, gamificationService)
	gamificationHandler := handlers.NewGamificationHandler(gamificationService)
	tracksHandler := handlers.NewTracksHandler(trackService)
	projectsHandler := handlers.NewProjectsHandler(projectService)
	qmentorHandler := handlers.NewQMentorHandler(qmentorService, gamificationService)

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
		w.Write([]byte(`{"status": "healthy", "service": "qpath-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/auth/forgot-password", authHandler.ForgotPassword).Methods("POST")
	api.HandleFunc("/auth/reset-password", authHandler.ResetPassword).Methods("POST")
	api.HandleFunc("/users/register", userHandler.Register).Methods("POST")
	api.HandleFunc("/projects/public/submission/{id}", projectsHandler.GetPublicSubmission).Methods("GET")
	api.HandleFunc("/qmentor/health", qmentorHandler.Health).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(authService))

	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	protected.HandleFunc("/users/me", userHandler.GetMe).Methods("GET")
	protected.HandleFunc("/users/me", userHandler.UpdateMe).Methods("PUT")
	protected.HandleFunc("/users/{id}", userHandler.GetUser).Methods("GET")

	protected.HandleFunc("/gamification/profile", gamificationHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/gamification/profile/details", gamificationHandler.GetProfileDetails).Methods("GET")
	protected.HandleFunc("/gamification/profile/{user_id}", gamificationHandler.GetProfileByUserID).Methods("GET")
	protected.HandleFunc("/gamification/dashboard", gamificationHandler.GetDashboard).Methods("GET")
	protected.HandleFunc("/gamification/tasks", gamificationHandler.ReplaceTasks).Methods("PUT")
	protected.HandleFunc("/gamification/tasks/{id}", gamificationHandler.UpdateTaskCompletion).Methods("PATCH")
	protected.HandleFunc("/gamification/rewards", gamificationHandler.GetRewards).Methods("GET")
	protected.HandleFunc("/gamification/rewards", gamificationHandler.CreateReward).Methods("POST")
	protected.HandleFunc("/gamification/rewards/{id}", gamificationHandler.UpdateReward).Methods("PATCH")
	protected.HandleFunc("/gamification/complete-trilha", gamificationHandler.CompleteTrilha).Methods("POST")
	protected.HandleFunc("/gamification/pomodoro-session", gamificationHandler.LogPomodoroSession).Methods("POST")
	protected.HandleFunc("/gamification/add-xp", gamificationHandler.AddXP).Methods("POST")
	protected.HandleFunc("/gamification/activity-logs", gamificationHandler.GetActivityLogs).Methods("GET")
	protected.HandleFunc("/gamification/leaderboard", gamificationHandler.GetLeaderboard).Methods("GET")

	protected.HandleFunc("/tracks", tracksHandler.GetTracks).Methods("GET")
	protected.HandleFunc("/tracks/summary", tracksHandler.GetTrackSummary).Methods("GET")
	protected.HandleFunc("/tracks/lessons/{lesson_id}", tracksHandler.UpdateLessonCompletion).Methods("PATCH")

	protected.HandleFunc("/projects/submit", projectsHandler.Submit).Methods("POST")
	protected.HandleFunc("/projects/my-submissions", projectsHandler.GetMySubmissions).Methods("GET")
	protected.HandleFunc("/projects/submission/{id}", projectsHandler.GetSubmission).Methods("GET")
	protected.HandleFunc("/projects/submission/{id}", projectsHandler.Update).Methods("PUT")

	protected.HandleFunc("/qmentor/guidance", qmentorHandler.GetGuidance).Methods("POST")
	protected.HandleFunc("/qmentor/quantum-recommendations", qmentorHandler.GetQuantumRecommendations).Methods("POST")
	protected.HandleFunc("/qmentor/learning-path", qmentorHandler.AnalyzeLearningPath).Methods("POST")
	protected.HandleFunc("/qmentor/quick-tips/{career_area}", qmentorHandler.GetQuickTips).Methods("GET")

	// -------------------------------------------------------------------------
	// MODERATION ROUTES (MODERATOR OR ADMIN)
	// -------------------------------------------------------------------------
	moderation := protected.PathPrefix("").Subrouter()
	moderation.Use(middleware.RequireRole(user.RoleModerator, user.RoleAdmin))

	moderation.HandleFunc("/projects/all-submissions", projectsHandler.GetAllSubmissions).Methods("GET")
	moderation.HandleFunc("/projects/user/{id}/submissions", projectsHandler.GetUserSubmissions).Methods("GET")
	moderation.HandleFunc("/projects/submission/{id}/review", projectsHandler.Review).Methods("PATCH")

	// -------------------------------------------------------------------------
	// ADMIN ROUTES
	// -------------------------------------------------------------------------
	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireRole(user.RoleAdmin))

	admin.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}", userHandler.UpdateUser).Methods("PUT")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 40 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
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
