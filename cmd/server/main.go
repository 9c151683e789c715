package main

import (
	"log"
	_ "time/tzdata"

	"mess-admin-go/internal/config"
	"mess-admin-go/internal/database"
	httpserver "mess-admin-go/internal/http"
	"mess-admin-go/internal/service"
)

func main() {
	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		log.Fatal(err)
	}
	if cfg.AdminTokenHash == "" {
		log.Printf("ADMIN_TOKEN_HASH not set, /api is open")
	}

	svc := service.New(database.DB, cfg.Location())
	r := httpserver.NewServer(cfg, svc)
	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
