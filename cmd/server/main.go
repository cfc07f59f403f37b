package main

import (
	"fmt"
	"log"

	"github.com/Rendyzzx/jawa/internal/auth"
	"github.com/Rendyzzx/jawa/internal/config"
	"github.com/Rendyzzx/jawa/internal/cryptox"
	"github.com/Rendyzzx/jawa/internal/numbers"
	"github.com/Rendyzzx/jawa/internal/server"
	"github.com/Rendyzzx/jawa/internal/store"
)

func main() {
	cfg := config.Load()

	masterKey := cryptox.DeriveMasterKey(cfg.MasterSecret)

	users := store.New(cfg.UsersFile(), masterKey)
	if err := users.Load(); err != nil {
		log.Fatalf("failed to load user store: %v", err)
	}
	log.Printf("user store loaded (%d users)", users.Count())

	authService := auth.NewService(users)
	if err := authService.Bootstrap(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to bootstrap admin user: %v", err)
	}

	nums := numbers.New(cfg.NumbersFile())
	if err := nums.Load(); err != nil {
		log.Fatalf("failed to load number store: %v", err)
	}

	r := server.NewRouter(cfg, authService, users, nums)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
