package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osusume/osusume-backend/internal/anilist"
	"github.com/osusume/osusume-backend/internal/conf"
	"github.com/osusume/osusume-backend/internal/llm"
	"github.com/osusume/osusume-backend/internal/pkg/logger"
	"github.com/osusume/osusume-backend/internal/recommend/biz"
	"github.com/osusume/osusume-backend/internal/recommend/service"
	"github.com/osusume/osusume-backend/internal/server"
	"go.uber.org/zap"
)

var configFile = flag.String("config", "config.yaml", "config file path")

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	// Constructed-once dependencies, reused across requests.
	catalog := anilist.NewClient(config.AniList, log)

	llmClient, err := llm.NewOpenAIClient(config.LLM, log)
	if err != nil {
		log.Fatal("failed to initialize LLM client", zap.Error(err))
	}

	extractor := biz.NewFilterExtractor(llmClient, log)
	expander := biz.NewTasteExpander(catalog, llmClient, log)
	formatter := biz.NewFormatter(llmClient, log)
	pipeline := biz.NewPipeline(extractor, expander, catalog, formatter, log)

	recommendService := service.NewRecommendService(pipeline, catalog, log)

	httpServer := server.NewHTTPServer(config, log, recommendService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
