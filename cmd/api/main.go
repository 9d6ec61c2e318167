package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lateentry/internal/auth"
	"lateentry/internal/cloudinary"
	"lateentry/internal/config"
	"lateentry/internal/credential"
	"lateentry/internal/entry"
	"lateentry/internal/handler"
	"lateentry/internal/httpmiddleware"
	"lateentry/internal/identity"
	"lateentry/internal/notification"
	"lateentry/internal/queue"
	"lateentry/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "lateentry:events")
	}

	users := identity.NewPostgresStore(db.Client)
	issuer := credential.NewSQLIssuer(db.Client, cfg.BcryptCost)
	identitySvc := identity.NewService(users, issuer)

	notifSvc := notification.NewService(notification.NewPostgresStore(db.Client))
	entrySvc := entry.NewService(entry.NewPostgresStore(db.Client), identitySvc, notifSvc, q)

	// Cloudinary client (nil when not configured)
	var cdnClient *cloudinary.Client
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cdnClient = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("Cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set)")
	}

	authHandler := &handler.AuthHandler{
		Identity:  identitySvc,
		JWTIssuer: cfg.JWTIssuer,
		JWTKey:    cfg.JWTSigningKey,
		TokenTTL:  cfg.TokenTTL,
	}
	adminHandler := &handler.AdminHandler{Identity: identitySvc, Entries: entrySvc}
	securityHandler := &handler.SecurityHandler{Identity: identitySvc, Entries: entrySvc}
	studentHandler := &handler.StudentHandler{Entries: entrySvc, Notifications: notifSvc, CDN: cdnClient}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitPerMin).Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/api/auth/login", authHandler.Login)
	r.POST("/api/auth/register", authHandler.RegisterStudent)
	r.POST("/api/admin/login", authHandler.AdminLogin)

	bearer := auth.Bearer(cfg.JWTSigningKey, cfg.JWTIssuer)

	admin := r.Group("/api/admin", bearer, auth.RequireRole("admin"))
	admin.POST("/security/register", adminHandler.RegisterSecurity)
	admin.GET("/security", adminHandler.ListSecurity)
	admin.GET("/entries", adminHandler.ListEntries)
	admin.POST("/entries/update", adminHandler.UpdateEntry)
	admin.GET("/students", adminHandler.ListStudents)
	admin.GET("/overview", adminHandler.Overview)

	security := r.Group("/api/security", bearer, auth.RequireRole("security"))
	security.POST("/entries", securityHandler.CreateManual)
	security.POST("/entries/qr", securityHandler.CreateFromQR)
	security.GET("/entries", securityHandler.ListMine)
	security.GET("/students/lookup", securityHandler.LookupStudent)

	student := r.Group("/api/student", bearer, auth.RequireRole("student"))
	student.GET("/entries", studentHandler.ListMine)
	student.POST("/upload", studentHandler.Upload)
	student.POST("/entries/:id/proof", studentHandler.AttachProof)
	student.GET("/notifications", studentHandler.ListNotifications)
	student.POST("/notifications/:id/read", studentHandler.MarkNotificationRead)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
