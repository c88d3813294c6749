package config

import (
	"fmt"
	"os"
)

// Environment holds everything the web layer reads from the process
// environment. Values are loaded, never computed, here.
type Environment struct {
	Port string

	// Backend REST API consumed by the API client.
	APIBaseURL string

	// Auth provider (Supabase) endpoints and keys.
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseJWTSecret  string
	SupabaseServiceKey string

	// AI provider settings are forwarded to the backend, never used directly.
	AIProviderKey   string
	AIProviderModel string

	SiteURL       string
	SessionSecret string
	CookieDomain  string
	CookieSecure  bool
	IsDevelopment bool
}

var Env Environment

// Load populates Env from the environment. Required variables missing is a
// startup failure, not something to limp along without.
func Load() error {
	domain := os.Getenv("COOKIE_DOMAIN")
	isDev := domain == ""
	if isDev {
		domain = "localhost"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	Env = Environment{
		Port:               port,
		APIBaseURL:         os.Getenv("API_BASE_URL"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseJWTSecret:  os.Getenv("SUPABASE_JWT_SECRET"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		AIProviderKey:      os.Getenv("OPENROUTER_API_KEY"),
		AIProviderModel:    os.Getenv("OPENROUTER_MODEL"),
		SiteURL:            os.Getenv("SITE_URL"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		CookieDomain:       domain,
		CookieSecure:       !isDev,
		IsDevelopment:      isDev,
	}

	required := map[string]string{
		"API_BASE_URL":        Env.APIBaseURL,
		"SUPABASE_URL":        Env.SupabaseURL,
		"SUPABASE_ANON_KEY":   Env.SupabaseAnonKey,
		"SUPABASE_JWT_SECRET": Env.SupabaseJWTSecret,
		"SESSION_SECRET":      Env.SessionSecret,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("config: %s is not set", name)
		}
	}

	if Env.SiteURL == "" {
		Env.SiteURL = "http://localhost:" + port
	}
	return nil
}
