package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/stayspot/stayspot/internal/handlers"
	"github.com/stayspot/stayspot/internal/repository"
	"github.com/stayspot/stayspot/internal/service"
	"github.com/stayspot/stayspot/internal/storage"
	"github.com/stayspot/stayspot/pkg/config"
	"github.com/stayspot/stayspot/pkg/database"
	"github.com/stayspot/stayspot/pkg/events"
	"github.com/stayspot/stayspot/pkg/logger"
	"github.com/stayspot/stayspot/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid Redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	var bus events.Publisher
	bus, err = events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Warn("NATS unavailable, events disabled", "error", err)
		bus = events.NewNoopEventBus()
	}
	defer bus.Close()

	uploads, err := storage.NewLocal(cfg.Upload)
	if err != nil {
		logger.Error("Failed to set up upload storage", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	pictureRepo := repository.NewPictureRepository(pool)
	favoriteRepo := repository.NewFavoriteRepository(pool)
	cityRepo := repository.NewCityRepository(pool)
	throttle := repository.NewThrottleStore(redisClient)

	userService := service.NewUserService(userRepo, bus, cfg.Auth)
	roomService := service.NewRoomService(roomRepo, pictureRepo, favoriteRepo, userRepo, uploads, bus)
	pictureService := service.NewPictureService(pictureRepo, roomRepo, userRepo, uploads, bus)
	cityService := service.NewCityService(cityRepo)

	h := handlers.New(userService, roomService, pictureService, cityService, uploads, throttle, cfg.Auth.JWTSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h.Routes(r)

	fileServer := http.StripPrefix("/"+uploads.Dir()+"/", http.FileServer(http.Dir(uploads.Dir())))
	r.Get("/"+uploads.Dir()+"/*", fileServer.ServeHTTP)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
