package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"task_manager/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string

	// Supabase project. ServiceRoleKey bypasses row-level security and must
	// stay on the server.
	SupabaseURL     string
	SupabaseAnonKey string
	ServiceRoleKey  string
	JWTSecret       string

	// Postgres role assumed for owner-scoped queries, empty disables the switch
	RLSRole string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit   int
	APIRateWindow  int
	AuthRateLimit  int
	AuthRateWindow int

	// browser origins allowed to call the API with credentials
	CORSAllowedOrigins []string

	DevMode      bool
	CookieSecure bool
	LogLevel     string
	LogJSON      bool
}

// Load reads configuration from .env and the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	var missing []string
	required := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		AppPort:            getEnv("APP_PORT", "8080"),
		DatabaseURL:        required("DATABASE_URL"),
		SupabaseURL:        strings.TrimRight(required("SUPABASE_URL"), "/"),
		SupabaseAnonKey:    required("SUPABASE_ANON_KEY"),
		ServiceRoleKey:     os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		JWTSecret:          required("SUPABASE_JWT_SECRET"),
		RLSRole:            getEnv("DB_RLS_ROLE", "authenticated"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getInt("REDIS_DB", 0),
		APIRateLimit:       getInt("API_RATE_LIMIT", 60),
		APIRateWindow:      getInt("API_RATE_WINDOW_SECONDS", 60),
		AuthRateLimit:      getInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow:     getInt("AUTH_RATE_WINDOW_SECONDS", 60),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS"),
		DevMode:            os.Getenv("DEV_MODE") == "true",
		CookieSecure:       os.Getenv("COOKIE_SECURE") == "true",
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogJSON:            os.Getenv("LOG_JSON") == "true",
	}

	// DB_RLS_ROLE="" explicitly disables the role switch
	if v, ok := os.LookupEnv("DB_RLS_ROLE"); ok {
		cfg.RLSRole = strings.TrimSpace(v)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// MustLoad is Load that exits on error
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		logger.Fatal("config", "error", err)
	}
	return cfg
}

// Redacted returns loggable key/value pairs with secrets masked
func (c *Config) Redacted() []any {
	return []any{
		"port", c.AppPort,
		"supabase_url", c.SupabaseURL,
		"service_role_key", mask(c.ServiceRoleKey),
		"rls_role", c.RLSRole,
		"redis", c.RedisAddr != "",
		"cors_origins", c.CORSAllowedOrigins,
		"dev_mode", c.DevMode,
	}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// getList splits a comma-separated value, dropping blanks and trailing slashes.
func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimRight(strings.TrimSpace(v), "/"); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
