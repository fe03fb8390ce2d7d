package main

import (
	"context"
	"log"
	"time"

	"campusconnect/internal/config"
	"campusconnect/internal/db"
	"campusconnect/internal/logger"
	"campusconnect/internal/middleware"
	"campusconnect/internal/router"
	"campusconnect/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer logger.Log.Sync()
	if envErr != nil {
		logger.Log.Info("No .env file found, reading env vars from system")
	}

	if err := db.Init(cfg.DatabaseURL); err != nil {
		logger.Log.Fatal("Database setup failed", zap.Error(err))
	}

	engine, err := services.NewEngine(cfg, logger.Log.Named("moderation"))
	if err != nil {
		logger.Log.Fatal("Moderation engine setup failed", zap.Error(err))
	}
	audit := services.NewGormAuditLogger(db.DB)
	moderationService := services.NewModerationService(engine, audit, logger.Log)

	var publisher services.MessagePublisher = services.NopPublisher{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Log.Warn("Redis unreachable, live message delivery disabled",
				zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			publisher = services.NewRedisPublisher(rdb)
			logger.Log.Info("Redis connection established", zap.String("addr", cfg.RedisAddr))
		}
		cancel()
	}

	r := gin.New()
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("campusconnect_session", store))
	r.Use(middleware.LoadUser())

	router.RegisterRoutes(r, router.Deps{
		Moderation: moderationService,
		Audit:      audit,
		Publisher:  publisher,
	})

	logger.Log.Info("Campus Connect server starting",
		zap.String("port", cfg.Port),
		zap.Bool("remote_moderation", engine.HasClassifier()),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server stopped", zap.Error(err))
	}
}
