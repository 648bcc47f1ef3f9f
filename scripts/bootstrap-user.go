package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/questionconnection/backend/internal/auth"
	"github.com/questionconnection/backend/internal/repository"
)

type output struct {
	UserID    string `json:"userId"`
	Nickname  string `json:"nickname"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		jwtSecret   = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "HMAC secret the API verifies tokens with")
		jwtIssuer   = flag.String("jwt-issuer", os.Getenv("JWT_ISSUER"), "Token issuer, if the API checks one")
		userID      = flag.String("user-id", "", "User ID (generated when empty)")
		nickname    = flag.String("nickname", "dev-user", "Nickname of the user")
		ttl         = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *jwtSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}
	if *userID == "" {
		*userID = ulid.Make().String()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := ensureUser(ctx, repo, *userID, *nickname); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	token, err := auth.NewVerifier(*jwtSecret, *jwtIssuer).Issue(*userID, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}

	out := output{
		UserID:    *userID,
		Nickname:  *nickname,
		Token:     token,
		ExpiresAt: time.Now().Add(*ttl).UTC().Format(time.RFC3339),
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// ensureUser creates the user row unless it already exists.
func ensureUser(ctx context.Context, repo *repository.Repository, userID, nickname string) error {
	_, err := repo.GetUserByID(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("load user: %w", err)
	}

	if _, err := repo.UpdateProfile(ctx, userID, nickname, nil, time.Now().UTC()); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
