package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/pawelnowak/fiszki-ai/apiclient"
	"github.com/pawelnowak/fiszki-ai/auth"
	"github.com/pawelnowak/fiszki-ai/cache"
	"github.com/pawelnowak/fiszki-ai/config"
	"github.com/pawelnowak/fiszki-ai/handlers"
	"github.com/pawelnowak/fiszki-ai/middleware"
	"github.com/pawelnowak/fiszki-ai/review"
)

func init() {
	// Load .env file if not in a managed environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal(err)
	}

	var logger *zap.Logger
	var err error
	if config.Env.IsDevelopment {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	sessions := auth.NewSessionStore(
		[]byte(config.Env.SessionSecret),
		config.Env.CookieDomain,
		config.Env.CookieSecure,
	)
	authClient := auth.New(config.Env.SupabaseURL, config.Env.SupabaseAnonKey, config.Env.SupabaseServiceKey)
	api := apiclient.New(config.Env.APIBaseURL)
	queryCache := cache.NewQuery(30 * time.Second)
	reviews := review.NewStore()

	h, err := handlers.New(api, authClient, sessions, queryCache, reviews, logger)
	if err != nil {
		logger.Fatal("handler setup failed", zap.Error(err))
	}

	requireAuth, err := middleware.EnsureValidToken(sessions, config.Env.SupabaseURL, config.Env.SupabaseJWTSecret)
	if err != nil {
		logger.Fatal("auth middleware setup failed", zap.Error(err))
	}
	protected := func(next http.HandlerFunc) http.Handler {
		return requireAuth(middleware.AttachUser(next))
	}

	mux := http.NewServeMux()

	// Public pages
	mux.HandleFunc("GET /", h.HomePage)
	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /static/", handlers.Static())

	// Auth forms
	mux.HandleFunc("GET /auth/login", h.LoginPage)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("GET /auth/register", h.RegisterPage)
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("GET /auth/reset-password", h.ResetPasswordPage)
	mux.HandleFunc("POST /auth/reset-password", h.ResetPassword)
	mux.HandleFunc("GET /auth/update-password", h.UpdatePasswordPage)
	mux.HandleFunc("POST /auth/update-password", h.UpdatePassword)

	// Generation
	mux.Handle("GET /generate", protected(h.GeneratePage))
	mux.Handle("POST /generate", protected(h.Generate))
	mux.Handle("GET /history", protected(h.HistoryPage))

	// Collection
	mux.Handle("GET /flashcards", protected(h.FlashcardsPage))

	// Review queue
	mux.Handle("POST /review/approve", protected(h.ApproveFlashcard))
	mux.Handle("POST /review/reject", protected(h.RejectFlashcard))
	mux.Handle("POST /review/select", protected(h.ToggleSelect))
	mux.Handle("POST /review/select-all", protected(h.SelectAll))
	mux.Handle("POST /review/batch-approve", protected(h.BatchApprove))
	mux.Handle("POST /review/edit", protected(h.EditFlashcard))

	// Account endpoints the navigation widgets call
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.Handle("DELETE /api/auth/account", protected(h.DeleteAccount))
	mux.Handle("POST /account/delete", protected(h.DeleteAccount))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{config.Env.SiteURL, "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(mux)

	serverAddr := "0.0.0.0:" + config.Env.Port
	logger.Info("listening", zap.String("addr", serverAddr))
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
