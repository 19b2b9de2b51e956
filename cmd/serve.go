package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/config"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/db"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/events"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/httpapi"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/logger"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/matching"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/pipeline"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/scheduler"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/statscache"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the matcher HTTP service",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zl.Sync()

	cfg, err := config.Load()
	if err != nil {
		zl.Fatal("loading config", zap.Error(err))
	}

	zl.Info("starting the matcher service", zap.String("version", version))

	// ── PostgreSQL ──────────────────────────────────────────────────────────
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("connecting to postgres", zap.Error(err))
	}
	defer pool.Close()
	zl.Info("postgres connected")

	// ── Redis ───────────────────────────────────────────────────────────────
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		zl.Fatal("connecting to redis", zap.Error(err))
	}
	defer rdb.Close()
	zl.Info("redis connected")

	// ── Wiring ──────────────────────────────────────────────────────────────
	jobs := postgres.NewJobStore(pool)
	profiles := postgres.NewProfileStore(pool)
	apps := postgres.NewApplicationStore(pool)

	weights := matching.DefaultWeights()
	if cfg.Weights != nil {
		weights = matching.Weights{
			Experience: cfg.Weights.Experience,
			Skills:     cfg.Weights.Skills,
			Location:   cfg.Weights.Location,
			Keywords:   cfg.Weights.Keywords,
		}
	}
	engine := matching.NewEngine(jobs, profiles, apps, matching.NewScorer(weights))

	machine := pipeline.NewStateMachine(apps)
	publisher := events.NewRedisPublisher(rdb, zl)

	availableCap := 0
	if cfg.Matching != nil {
		availableCap = cfg.Matching.AvailableCap
	}
	board := pipeline.NewBoard(jobs, apps, machine, publisher, availableCap)

	cache := statscache.New(rdb, time.Duration(cfg.Stats.CacheTTLMinutes)*time.Minute)

	sched := scheduler.New(engine, cache, zl, cfg.Stats.RefreshIntervalHours)
	if err := sched.Start(ctx); err != nil {
		zl.Fatal("starting scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// ── HTTP server ─────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := httpapi.NewHandler(engine, board, machine, cache, zl)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("http server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("http server", zap.Error(err))
		}
	}()

	// ── Graceful shutdown ───────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
	zl.Info("stopped")
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": app,
		"version": version,
	})
}
