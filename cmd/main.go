package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"fairimport/internal/catalog"
	"fairimport/internal/config"
	"fairimport/internal/core/extract"
	"fairimport/internal/core/fetch"
	"fairimport/internal/core/job"
	"fairimport/internal/core/mapper"
	"fairimport/internal/core/match"
	"fairimport/internal/core/wizard"
	"fairimport/internal/logger"
	"fairimport/internal/platform/llm"
	rds "fairimport/internal/platform/redis"
	tasks "fairimport/internal/platform/tasks"
	"fairimport/internal/server"
	"fairimport/internal/worker"
)

func main() {
	cfg := config.Load()
	log.Printf("[fairimport] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	// Initialize logger
	logr := logger.New("main")

	// Redis client
	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	// SQLite event catalog
	store, err := catalog.NewStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer store.Close()

	// Asynq client and server
	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	// LLM service initialized from environment variables
	llmSvc, err := llm.NewService(llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.ExtractionModel,
	})
	if err != nil {
		log.Fatalf("failed to initialize LLM service: %v", err)
	}

	// Core services
	jobSvc := job.NewJobService(redisSvc)
	mapSvc := mapper.NewMapService()
	fetchSvc := fetch.NewService(redisSvc)
	extractSvc := extract.NewService(llmSvc)
	matchSvc := match.NewService(store)

	// Wizard: catalog handler doubles as the in-process saver and
	// duplicate checker
	catalogHandler := catalog.NewHandler(store)
	sessions := wizard.NewRegistry()
	wizardCtl := wizard.NewController(fetchSvc, extractSvc, catalogHandler, catalogHandler)

	// Worker mux
	matchHandler := match.NewHandler(matchSvc, jobSvc, taskClient, cfg.TaskMaxRetries)
	mux := worker.NewMux()
	mux.HandleFunc(tasks.TaskTypeDuplicateReport, matchHandler.ProcessDuplicateReportTask)

	// Start worker
	_, workerCancel := context.WithCancel(context.Background())
	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName: "Fairimport Engine",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})

	// Register routes with health handler
	deps := server.Dependencies{
		Job:        jobSvc,
		Fetch:      fetchSvc,
		Map:        mapSvc,
		Extract:    extractSvc,
		Match:      matchSvc,
		Store:      store,
		Wizard:     wizardCtl,
		Sessions:   sessions,
		Tasks:      taskClient,
		Redis:      redisSvc,
		MaxRetries: cfg.TaskMaxRetries,
	}
	healthHandler := server.RegisterRoutes(app, deps)

	// Mark application as ready after all services are initialized
	go func() {
		time.Sleep(5 * time.Second) // Allow services to fully initialize
		healthHandler.SetReady()
	}()

	// Graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		workerCancel()
		asynqServer.Shutdown()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
