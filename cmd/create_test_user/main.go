package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"

	"task_manager/internal/config"
	"task_manager/internal/logger"
	"task_manager/internal/service"
	"task_manager/internal/supabase"
)

// Creates a confirmed user through the admin API, signs in as that user
// and prints an access token for manual API calls.
func main() {
	email := flag.String("email", "testuser@example.com", "user email")
	password := flag.String("password", "password123", "user password")
	name := flag.String("name", "Tester", "display name")
	flag.Parse()

	cfg := config.MustLoad()
	if cfg.ServiceRoleKey == "" {
		logger.Fatal("SUPABASE_SERVICE_ROLE_KEY is not set")
	}

	client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.ServiceRoleKey)
	ctx := context.Background()

	u, err := client.CreateUser(ctx, *email, *password, map[string]any{"name": *name})
	var apiErr *supabase.APIError
	switch {
	case err == nil:
		logger.Info("user created", "id", u.ID, "email", u.Email)
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity:
		logger.Info("user already exists", "email", *email)
	default:
		logger.Fatal("create user failed", "error", err)
	}

	session, err := client.SignIn(ctx, *email, *password)
	if err != nil {
		logger.Fatal("sign in failed", "error", err)
	}

	// verify the token the same way the server will
	claims, err := service.NewTokenVerifier(cfg.JWTSecret).Verify(session.AccessToken)
	if err != nil {
		logger.Fatal("token rejected by verifier", "error", err)
	}
	logger.Info("signed in", "user_id", claims.UserID, "email", claims.Email)

	fmt.Println(session.AccessToken)
}
