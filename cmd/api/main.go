package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"habit-quest/internal/config"
	"habit-quest/internal/db"
	apihttp "habit-quest/internal/http"
	"habit-quest/internal/repository"
	"habit-quest/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Sin DATABASE_URL el servicio corre con repositorios en memoria:
	// útil para desarrollo, inaceptable para producción.
	var (
		statsRepo    repository.StatsRepository
		activityRepo repository.ActivityRepository
		txRepo       repository.TransactionRepository
		goalRepo     repository.GoalRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.Ping(ctx, pool); err != nil {
			logger.Fatal("db ping", zap.Error(err))
		}
		statsRepo = repository.NewPgStatsRepository(pool)
		activityRepo = repository.NewPgActivityRepository(pool)
		txRepo = repository.NewPgTransactionRepository(pool)
		goalRepo = repository.NewPgGoalRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		statsRepo = repository.NewMemoryStatsRepository()
		activityRepo = repository.NewMemoryActivityRepository()
		txRepo = repository.NewMemoryTransactionRepository()
		goalRepo = repository.NewMemoryGoalRepository()
	}

	budget := service.NewMemoryDailyBudgetStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory daily budget", zap.Error(err))
		} else {
			budget = service.NewRedisDailyBudgetStore(redisClient)
		}
		cancel()
	}

	ledgerCfg := service.LedgerConfig{
		DailyXPCap:         cfg.DailyXPCap,
		GoalDailyXPCap:     cfg.GoalDailyXPCap,
		DecayThresholdDays: cfg.DecayThresholdDays,
		DecayRate:          cfg.DecayRate,
	}
	ledgerSvc := service.NewLedgerService(logger, statsRepo, activityRepo, txRepo, goalRepo, budget, ledgerCfg)
	snapshotSvc := service.NewSnapshotService(logger, statsRepo, activityRepo, txRepo, goalRepo, ledgerCfg)

	ledgerHandler := apihttp.NewLedgerHandler(logger, ledgerSvc, goalRepo)
	insightHandler := apihttp.NewInsightHandler(logger, snapshotSvc, activityRepo)
	router := apihttp.NewRouter(logger, ledgerHandler, insightHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
