package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"blogscope/api/router"
	"blogscope/classifier"
	"blogscope/config"
	"blogscope/db"
	"blogscope/feeder"
	"blogscope/logger"
	"blogscope/relay"
	"blogscope/repositories"
	"blogscope/services"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	var repo repositories.BlogRepository
	switch cfg.Storage.Backend {
	case "mongo":
		if err := db.Init(context.Background()); err != nil {
			log.Fatal("failed to initialize MongoDB:", err)
		}
		repo = repositories.NewMongoBlogRepository(db.Client(), db.Database())
	default:
		repo = repositories.NewFileBlogRepository(cfg.Storage.FilePath)
	}

	relayClient := relay.New(relay.Config{
		Endpoints: cfg.Relay.Endpoints,
		Timeout:   time.Duration(cfg.Relay.TimeoutSeconds) * time.Second,
	})
	feeds := feeder.NewReader(relayClient)
	analyzerSvc := services.NewAnalyzerService(feeds, cfg)
	cls := classifier.New(cfg.GeminiKey, cfg.GeminiModel)
	blogSvc := services.NewBlogService(repo, analyzerSvc, cls, cfg)

	r := router.New(blogSvc, repo)
	logger.InfoWithFields("server starting", logger.Fields{
		"addr":    cfg.Server.Addr,
		"storage": cfg.Storage.Backend,
	})
	if err := r.Run(cfg.Server.Addr); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
