package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/staylink/staylink-backend/internal/http/handlers"
	httpmw "github.com/staylink/staylink-backend/internal/http/middleware"
	"github.com/staylink/staylink-backend/internal/mailer"
	"github.com/staylink/staylink-backend/internal/repo/postgres"
	"github.com/staylink/staylink-backend/internal/service"
	"github.com/staylink/staylink-backend/pkg/config"
	"github.com/staylink/staylink-backend/pkg/database"
	"github.com/staylink/staylink-backend/pkg/events"
	"github.com/staylink/staylink-backend/pkg/logger"
	mw "github.com/staylink/staylink-backend/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database.URL,
		cfg.Database.MaxConns, cfg.Database.MinConns, cfg.Database.MaxLifetime)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Repositories
	usersRepo := postgres.NewUsersRepo(pool)
	hotelsRepo := postgres.NewHotelsRepo(pool)
	businessesRepo := postgres.NewBusinessesRepo(pool)
	guestsRepo := postgres.NewGuestsRepo(pool)
	codesRepo := postgres.NewAccessCodesRepo(pool)
	staysRepo := postgres.NewStaysRepo(pool)
	txManager := postgres.NewTxManager(pool)

	// Mailer
	var mail mailer.Service
	if cfg.Email.DevMode {
		mail = mailer.NewDevMailer()
	} else {
		mail = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Services
	authService := service.NewAuthService(
		usersRepo, hotelsRepo, businessesRepo, guestsRepo, codesRepo, staysRepo,
		txManager, eventBus,
		cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.Terms.Version,
	)
	checkinService := service.NewCheckinService(
		hotelsRepo, codesRepo, eventBus, mail, cfg.Auth.CheckinCodeTTL,
	)
	stayService := service.NewStayService(staysRepo, hotelsRepo, codesRepo, txManager, eventBus)
	profileService := service.NewProfileService(usersRepo, hotelsRepo, businessesRepo, guestsRepo, txManager)

	limiter := httpmw.NewRedisLimiter(redisClient)
	h := handlers.New(authService, checkinService, stayService, profileService, limiter, cfg.Auth.JWTSecret)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	h.Routes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
