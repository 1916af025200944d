package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"debt-planner/config"
	httpLayer "debt-planner/http"
	"debt-planner/repository"
	"debt-planner/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	var cache repository.CacheRepository = repository.NewMockCache()
	if cfg.CacheAddr != "" {
		cache = repository.NewRedisCache(cfg.CacheAddr, 15*time.Minute)
		logger.Infof("schedule cache backed by redis at %s", cfg.CacheAddr)
	}

	debtRepo := repository.NewDebtRepositoryMemory()

	ledgerService := service.NewLedgerService()
	scheduleService := service.NewScheduleService(cache, logger)
	scenarioService := service.NewScenarioService(scheduleService)
	recommendationService := service.NewRecommendationService(scenarioService, cfg, logger)
	explanationService := service.NewExplanationService(logger)

	scheduleHandler := httpLayer.NewScheduleHandler(scheduleService, explanationService, logger)
	scenarioHandler := httpLayer.NewScenarioHandler(scenarioService, logger)
	recommendationHandler := httpLayer.NewRecommendationHandler(recommendationService, explanationService, logger)
	ledgerHandler := httpLayer.NewLedgerHandler(debtRepo, ledgerService, logger)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitRequests, time.Minute)
	defer rateLimiter.Stop()

	httpLayer.RegisterMetrics()

	r := mux.NewRouter()
	r.Use(httpLayer.MetricsMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return httpLayer.RateLimitMiddleware(rateLimiter, logger, next)
	})

	r.HandleFunc("/schedule", scheduleHandler.GenerateSchedule).Methods("POST")
	r.HandleFunc("/schedule/compare", scheduleHandler.CompareStrategies).Methods("POST")
	r.HandleFunc("/schedule/payoff-months", scheduleHandler.CalculatePayoffMonths).Methods("POST")
	r.HandleFunc("/scenario/allocation", scenarioHandler.CompareAllocation).Methods("POST")
	r.HandleFunc("/recommendations", recommendationHandler.Evaluate).Methods("POST")

	r.HandleFunc("/debts", ledgerHandler.CreateDebt).Methods("POST")
	r.HandleFunc("/debts", ledgerHandler.ListDebts).Methods("GET")
	r.HandleFunc("/debts/{id}/payments", ledgerHandler.CreatePayment).Methods("POST")
	r.HandleFunc("/debts/{id}/reconciliations", ledgerHandler.ApplyReconciliation).Methods("POST")
	r.HandleFunc("/reconciliations/{id}", ledgerHandler.UpdateReconciliation).Methods("PUT")
	r.HandleFunc("/reconciliations/{id}", ledgerHandler.DeleteReconciliation).Methods("DELETE")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("debt planner API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Errorf("Error starting server: %v", err)
		return
	case <-quit:
		logger.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server exited")
}
