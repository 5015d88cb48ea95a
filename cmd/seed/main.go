package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/pratsy91/todo-backend/config"
	"github.com/pratsy91/todo-backend/internal/application"
	"github.com/pratsy91/todo-backend/internal/infrastructure/store"
	"github.com/pratsy91/todo-backend/pkg/helpers"
)

// seed creates a demo account with a few todos through the same services the API uses.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	auth := application.NewAuthService(st.Users, helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL), logger, cfg.BcryptCost)
	todos := application.NewTodoService(st.Todos, logger)

	email := "demo@example.com"
	password := "password123"
	name := "Demo User"

	u, tok, err := auth.Register(ctx, application.RegisterInput{Name: name, Email: email, Password: password})
	switch {
	case errors.Is(err, application.ErrEmailTaken):
		u, tok, err = auth.Login(ctx, email, password)
		if err != nil {
			log.Fatalf("demo user exists but login failed: %v", err)
		}
		fmt.Printf("demo user already present: id=%s\n", u.ID)
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	default:
		fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", u.ID, email, name, password)
	}

	existing, err := todos.List(ctx, u.ID)
	if err != nil {
		log.Fatalf("failed to list todos: %v", err)
	}
	if len(existing) == 0 {
		for _, text := range []string{"Buy milk", "Write report", "Call the plumber"} {
			if _, err := todos.Create(ctx, u.ID, text); err != nil {
				log.Fatalf("failed to seed todo: %v", err)
			}
		}
		fmt.Println("seeded 3 todos")
	}
	fmt.Printf("token: %s\n", tok.Token)
}
