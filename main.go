package main

import (
	"log"
	"os"

	"smartbite/config"
	"smartbite/routes"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	config.LoadEnv()
	cfg := config.LoadServer()

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.DebugMode)
	}

	config.InitDB(cfg.DatabasePath)
	if cfg.Seed {
		if err := config.SeedDemo(config.DB); err != nil {
			log.Fatal("Failed to seed demo data:", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := routes.NewRouter(cfg, reg)

	log.Printf("🚀 ServeSoft dev backend running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
