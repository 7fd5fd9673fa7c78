package main

// @title           Veridoc Core API
// @version         1.0
// @description     Document compliance analysis API. Veridoc Core analyses documents against ingested policy documents, degrading gracefully from retrieval-augmented AI analysis down to rule-based checks.

// @contact.name   Veridoc OSS
// @contact.url    https://github.com/custodia-labs/veridoc-core/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/veridoc-core/internal/adapters/driven/ai"
	"github.com/custodia-labs/veridoc-core/internal/adapters/driven/chroma"
	"github.com/custodia-labs/veridoc-core/internal/adapters/driven/memory"
	"github.com/custodia-labs/veridoc-core/internal/adapters/driven/postgres"
	memoryqueue "github.com/custodia-labs/veridoc-core/internal/adapters/driven/queue/memory"
	postgresqueue "github.com/custodia-labs/veridoc-core/internal/adapters/driven/queue/postgres"
	redisqueue "github.com/custodia-labs/veridoc-core/internal/adapters/driven/queue/redis"
	"github.com/custodia-labs/veridoc-core/internal/adapters/driving/http"
	"github.com/custodia-labs/veridoc-core/internal/core/domain"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driving"
	"github.com/custodia-labs/veridoc-core/internal/core/services"
	"github.com/custodia-labs/veridoc-core/internal/runtime"
	"github.com/custodia-labs/veridoc-core/internal/worker"
	"github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	// Get run mode from environment (RUN_MODE) or command line arg
	mode := getEnv("RUN_MODE", "all")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	log.Printf("veridoc-core %s starting in %s mode", version, mode)

	// Configuration from environment
	port := getEnvInt("PORT", 8080)
	databaseURL := getEnv("DATABASE_URL", "")
	redisURL := getEnv("REDIS_URL", "")
	chromaURL := getEnv("CHROMA_URL", "")
	aiProvider := getEnv("AI_PROVIDER", "")
	aiAPIKey := getEnv("AI_API_KEY", "")
	aiModel := getEnv("AI_MODEL", "")
	aiBaseURL := getEnv("AI_BASE_URL", "")

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Policy store (PostgreSQL if configured, otherwise in-memory) =====
	var policyStore driven.PolicyStore
	var db *postgres.DB
	if databaseURL != "" {
		log.Println("Connecting to PostgreSQL...")
		dbConfig := postgres.Config{
			URL:             databaseURL,
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300)) * time.Second,
			ConnMaxIdleTime: time.Duration(getEnvInt("DB_CONN_MAX_IDLE_SEC", 60)) * time.Second,
		}
		var err error
		db, err = postgres.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Initialize schema (idempotent)
		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		policyStore = postgres.NewPolicyStore(db)
		log.Println("Using PostgreSQL policy store")
	} else {
		policyStore = memory.NewPolicyStore()
		log.Println("Using in-memory policy store")
	}

	// ===== Task queue (Redis, PostgreSQL, or in-memory) =====
	var taskQueue driven.TaskQueue
	if redisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		taskQueue, err = redisqueue.NewQueue(redisClient, fmt.Sprintf("worker-%d", os.Getpid()))
		if err != nil {
			log.Fatalf("Failed to create task queue: %v", err)
		}
		log.Println("Using Redis task queue")
	} else if db != nil {
		taskQueue = postgresqueue.NewQueue(db.DB)
		log.Println("Using PostgreSQL task queue")
	} else {
		taskQueue = memoryqueue.NewQueue()
		log.Println("Using in-memory task queue")
	}

	// Report history is always in-memory: it is a bounded rolling window,
	// not durable storage
	reportStore := memory.NewReportStore()

	// ===== Runtime capabilities =====
	runtimeConfig := domain.NewRuntimeConfig()
	runtimeServices := runtime.NewServices(runtimeConfig)
	defer runtimeServices.Close()

	// Vector search (optional). A failed connection degrades the analysis
	// tier instead of aborting startup.
	if chromaURL != "" {
		log.Println("Connecting to Chroma...")
		vectorSearch, err := chroma.NewVectorSearch(ctx, chroma.DefaultConfig(chromaURL))
		if err != nil {
			log.Printf("Warning: Chroma unavailable: %v (retrieval disabled)", err)
		} else if err := runtimeServices.ValidateAndSetVectorSearch(ctx, vectorSearch); err != nil {
			log.Printf("Warning: Chroma health check failed: %v (retrieval disabled)", err)
		} else {
			log.Println("Chroma connected")
		}
	}

	// Generative service (optional)
	if aiProvider != "" {
		generative, err := ai.NewGenerativeService(aiProvider, aiAPIKey, aiModel, aiBaseURL)
		if err != nil {
			log.Fatalf("Failed to configure AI provider: %v", err)
		}
		if err := runtimeServices.ValidateAndSetGenerative(ctx, generative); err != nil {
			log.Printf("Warning: generative service unreachable: %v (AI analysis disabled)", err)
		} else {
			log.Printf("Generative service connected (provider=%s)", aiProvider)
		}
	}

	log.Printf("Runtime config: tier=%s, retrieval=%t, generative=%t",
		runtimeConfig.EffectiveTier(),
		runtimeConfig.RetrievalAvailable(),
		runtimeConfig.GenerativeAvailable())

	// ===== Services (core business logic) =====
	logger := slog.Default()
	analysisService := services.NewAnalysisService(policyStore, reportStore, runtimeServices, logger)
	policyService := services.NewPolicyService(policyStore, taskQueue, runtimeServices, logger)
	reportService := services.NewReportService(reportStore)

	var dbPinger http.Pinger
	if db != nil {
		dbPinger = db
	}

	switch mode {
	case "api":
		// API-only mode: HTTP server, no worker
		runAPI(port, analysisService, policyService, reportService, runtimeServices, taskQueue, dbPinger)

	case "worker":
		// Worker-only mode: task processing, no HTTP server
		runWorkerMode(ctx, taskQueue, policyStore, runtimeServices)

	case "all":
		// Combined mode: run both API and worker
		go runWorkerMode(ctx, taskQueue, policyStore, runtimeServices)
		runAPI(port, analysisService, policyService, reportService, runtimeServices, taskQueue, dbPinger)

	default:
		log.Fatalf("Unknown mode: %s (use: api, worker, or all)", mode)
	}
}

func runAPI(
	port int,
	analysisService driving.AnalysisService,
	policyService driving.PolicyService,
	reportService driving.ReportService,
	runtimeServices *runtime.Services,
	taskQueue driven.TaskQueue,
	db http.Pinger,
) {
	cfg := http.Config{
		Host:    "0.0.0.0",
		Port:    port,
		Version: version,
	}

	server := http.NewServer(
		cfg,
		analysisService,
		policyService,
		reportService,
		runtimeServices,
		taskQueue,
		db,
	)

	log.Printf("API server starting on :%d", port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runWorkerMode starts the indexing worker.
// It processes policy indexing tasks from the queue.
func runWorkerMode(
	ctx context.Context,
	taskQueue driven.TaskQueue,
	policyStore driven.PolicyStore,
	runtimeServices *runtime.Services,
) {
	log.Println("Starting worker mode...")

	w := worker.New(worker.Config{
		TaskQueue:      taskQueue,
		PolicyStore:    policyStore,
		Services:       runtimeServices,
		Logger:         slog.Default(),
		Concurrency:    getEnvInt("WORKER_CONCURRENCY", 2),
		DequeueTimeout: getEnvInt("WORKER_DEQUEUE_TIMEOUT", 5),
	})

	if err := w.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Println("Worker started, processing tasks...")
	log.Println("Worker handles:")
	log.Println("  - index_policy: Chunk and index a policy for retrieval")
	log.Println("  - delete_policy_index: Remove a deleted policy's chunks")

	// Wait for context cancellation
	<-ctx.Done()

	// Graceful shutdown
	log.Println("Stopping worker...")
	w.Stop()
	log.Println("Worker stopped")
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
