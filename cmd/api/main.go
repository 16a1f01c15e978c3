package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/luminance-studio/studio-scheduler/internal/config"
	dbpkg "github.com/luminance-studio/studio-scheduler/internal/db"
	"github.com/luminance-studio/studio-scheduler/internal/middleware"
	"github.com/luminance-studio/studio-scheduler/internal/routes"
)

func main() {

	// en producción las vars vienen del entorno; el .env es para desarrollo
	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	scheduler := routes.Setup(r, db, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scheduler.Start(ctx)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
