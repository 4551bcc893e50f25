package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"todokAPI/handlers"
	"todokAPI/internal/config"
	"todokAPI/internal/encouragement"
	"todokAPI/internal/logging"
	"todokAPI/internal/metrics"
	"todokAPI/internal/notification"
	"todokAPI/internal/progression"
	"todokAPI/internal/store"
	"todokAPI/middleware"
	"todokAPI/services"
)

const feedRefreshInterval = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	metrics.Register()
	middleware.InitPrometheus()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	blobs, err := store.Open(ctx, cfg.StoreOptions(), logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to open store", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}
	repo := store.NewRepository(blobs, logger)
	defer func() {
		logger.Info("Closing store...")
		if err := repo.Close(); err != nil {
			logger.Warn("store close failed", zap.Error(err))
		}
	}()
	logger.Info("Store ready", zap.String("backend", cfg.StorageBackend))

	// A nil generator makes the collaborator answer with fallback text.
	var gen encouragement.Generator
	if cfg.GeminiAPIKey != "" {
		gctx, gcancel := context.WithTimeout(context.Background(), 10*time.Second)
		gemini, err := encouragement.NewGeminiGenerator(gctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		gcancel()
		if err != nil {
			logger.Warn("Could not initialize Gemini, using fallback encouragements", zap.Error(err))
		} else {
			gen = gemini
		}
	} else {
		logger.Info("API_KEY not set, using fallback encouragements")
	}
	encourager := encouragement.New(gen,
		encouragement.WithTimeout(cfg.EncouragementTimeout),
		encouragement.WithRateLimit(cfg.EncouragementRPS, cfg.EncouragementBurst),
		encouragement.WithLogger(logger),
	)

	userService := services.NewUserService(repo, progression.DefaultLevels, logger)
	feedService := services.NewFeedService(repo, services.StaticSeed{}, logger)
	challengeService := services.NewChallengeService(repo, userService, feedService, cfg.AutoPublishReflection, logger)

	board := services.NewEncouragementBoard(cfg.EncouragementTTL)
	dispatcher := services.NewEncouragementDispatcher(encourager, board, cfg.EncouragementWorkers, logger)
	defer dispatcher.Stop()

	if cfg.FCMServiceAccountJSON != "" || cfg.FCMCredentialsFile != "" {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		pusher, err := notification.NewFCMPusher(pctx, cfg.FCMServiceAccountJSON, cfg.FCMCredentialsFile, cfg.PushDeviceTokens, logger)
		pcancel()
		if err != nil {
			logger.Warn("Could not initialize FCM", zap.Error(err))
		} else {
			dispatcher.SetPushProvider(pusher)
			logger.Info("FCM Push Provider initialized successfully")
		}
	} else if cfg.Env == "development" {
		dispatcher.SetPushProvider(&notification.LogPusher{Logger: logger})
	}

	hub := services.NewFeedHub(feedService, feedRefreshInterval, logger)
	feedService.SetChangeListener(hub.Notify)
	go hub.Run()
	defer hub.Stop()

	h := &handlers.Handlers{
		User:          handlers.NewUserHandler(userService, logger),
		Challenge:     handlers.NewChallengeHandler(challengeService, userService, dispatcher, logger),
		Feed:          handlers.NewFeedHandler(feedService, hub, handlers.NewCheerGate(), logger),
		Encouragement: handlers.NewEncouragementHandler(board, encourager),
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Cleanup(rootCtx)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(limiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuth(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := repo.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "store unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "todok-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.ViewerMiddleware)
	h.Register(api)

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", middleware.ViewerHeader}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Error starting server", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server shutdown complete")
}
