package main

import (
	"log"

	"creditdispute-backend/internal/shared/config"
	"creditdispute-backend/internal/shared/server"
	"creditdispute-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	r := server.NewRouter(cfg)
	defer telemetry.Sync()

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
