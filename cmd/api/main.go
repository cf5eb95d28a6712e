package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careops/careops-server/internal/automation"
	"github.com/careops/careops-server/internal/cache"
	"github.com/careops/careops-server/internal/config"
	dbpkg "github.com/careops/careops-server/internal/db"
	"github.com/careops/careops-server/internal/media"
	"github.com/careops/careops-server/internal/notify"
	"github.com/careops/careops-server/internal/routes"
	"github.com/careops/careops-server/internal/ws"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	cacheClient := cache.New(cfg)
	hub := ws.NewHub()
	notifier := notify.New(db)
	events := automation.NewDispatcher(db, notifier, hub, cfg)

	uploader, err := media.New(cfg)
	if err != nil {
		log.Fatalf("failed to init media uploader: %v", err)
	}

	sweeper := automation.NewSweeper(db, notifier, cfg)
	sweeper.Start()
	defer sweeper.Stop()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Cache:    cacheClient,
		Hub:      hub,
		Notifier: notifier,
		Events:   events,
		Uploader: uploader,
	})

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
