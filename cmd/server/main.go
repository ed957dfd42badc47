package main

import (
	"log"

	_ "internhub/docs"
	"internhub/internal/config"
	"internhub/internal/server"
)

// @title           InternHub API
// @version         1.0
// @description     API for remote internships: postings, applications, tasks and dashboards.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
