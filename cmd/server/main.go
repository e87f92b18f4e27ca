package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/YoderBy/gil-bot/handlers"
	"github.com/YoderBy/gil-bot/internal/config"
	"github.com/YoderBy/gil-bot/internal/database"
	"github.com/YoderBy/gil-bot/internal/sessions"
	"github.com/YoderBy/gil-bot/internal/storage"
	syllabushandler "github.com/YoderBy/gil-bot/internal/syllabus/handler"
	"github.com/YoderBy/gil-bot/internal/syllabus/service"
	"github.com/YoderBy/gil-bot/internal/syllabus/store"
	"github.com/YoderBy/gil-bot/internal/tokens"
	"github.com/YoderBy/gil-bot/pkg/logger"
	"github.com/YoderBy/gil-bot/pkg/metrics"
	"github.com/YoderBy/gil-bot/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// log level is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	ctx := context.Background()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// Production deployments should front this with a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Connect to Redis early so the rate limiter and sessions can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// MongoDB with retry/backoff to tolerate container startup races
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
			mongoClient = nil
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
		}
	}

	// Version store: MongoDB when available, otherwise in-memory (dev/test only)
	var versionStore store.Store
	if mongoClient != nil {
		versionStore = store.NewMongoStore(mongoClient.Database(cfg.MongoDB.Database))
		logger.Infof("using MongoDB version store (db=%s)", cfg.MongoDB.Database)
	} else {
		versionStore = store.NewMemoryStore()
		logger.Warn("using in-memory version store; data will not survive restarts")
	}

	// Object storage for uploaded source documents (optional)
	var files *storage.MinIOStorage
	if cfg.MinIO.Endpoint != "" {
		files, err = storage.NewMinIOStorage(&storage.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
		})
		if err != nil {
			logger.Warnf("failed to initialize MinIO storage: %v", err)
			files = nil
		}
	}

	// Sessions: prefer Redis, fall back to MongoDB
	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
	} else if mongoClient != nil {
		col := mongoClient.Database(cfg.MongoDB.Database).Collection("sessions")
		sessionsSvc = sessions.NewService(sessions.NewMongoRepository(col))
	}

	syllabusSvc := service.New(versionStore, service.Options{SkipUnchanged: cfg.Syllabus.SkipUnchanged})

	// health and readiness
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{
			"store":    versionStore != nil,
			"mongo":    mongoClient != nil,
			"redis":    redisClient != nil,
			"sessions": sessionsSvc != nil,
			"files":    files != nil,
		}
		// the version store is the only hard dependency
		if versionStore == nil {
			ready = false
		}
		status := gin.H{"deps": deps, "uptime": time.Since(startTime).String()}
		if !ready {
			status["status"] = "not_ready"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["status"] = "ready"
		c.JSON(http.StatusOK, status)
	})

	// auth routes require both a configured credential and a session store
	authEnabled := cfg.Admin.Username != "" && sessionsSvc != nil
	if authEnabled {
		handlers.NewAuthHandler(cfg, sessionsSvc).Register(r.Group("/"))
	} else {
		logger.Warnf("auth routes not registered (admin credential or session store missing); API runs open")
	}
	handlers.RegisterSwagger(r)

	api := r.Group("/api/v1")
	if authEnabled {
		api.Use(middleware.AuthMiddleware(tokens.NewJWTVerifier(cfg.JWT.Secret)))
	}
	syllabushandler.RegisterSyllabusRoutes(api, syllabusSvc, files)

	// Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting syllabus service on %s (env=%s)", addr, cfg.Server.Environment)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
