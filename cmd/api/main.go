package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mentorconnect/mentorconnect-api/config"
	"github.com/mentorconnect/mentorconnect-api/internal/cache"
	"github.com/mentorconnect/mentorconnect-api/internal/handlers"
	"github.com/mentorconnect/mentorconnect-api/internal/middleware"
	"github.com/mentorconnect/mentorconnect-api/internal/models"
	"github.com/mentorconnect/mentorconnect-api/internal/repository"
	"github.com/mentorconnect/mentorconnect-api/internal/services"
	"github.com/mentorconnect/mentorconnect-api/pkg/db"
	"github.com/mentorconnect/mentorconnect-api/pkg/httpclient"
	"github.com/mentorconnect/mentorconnect-api/pkg/jwt"
	"github.com/mentorconnect/mentorconnect-api/pkg/logger"
	"github.com/mentorconnect/mentorconnect-api/pkg/mailer"
	"github.com/mentorconnect/mentorconnect-api/pkg/metrics"
	"github.com/mentorconnect/mentorconnect-api/pkg/profiling"
	"github.com/mentorconnect/mentorconnect-api/pkg/razorpay"
	"github.com/mentorconnect/mentorconnect-api/pkg/storage"
	"github.com/mentorconnect/mentorconnect-api/pkg/tracing"
	"github.com/mentorconnect/mentorconnect-api/pkg/twilio"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting MentorConnect API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.CollectorEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize continuous profiling
	if cfg.Profiling.Enabled {
		profilerStop, pErr := profiling.InitProfiler(
			cfg.Profiling,
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceNamespace,
			cfg.Observability.ServiceVersion,
			cfg.Observability.ServiceInstanceID,
			cfg.Server.AppEnv,
		)
		if pErr != nil {
			logger.Error("Failed to initialize profiler", zap.Error(pErr))
		} else {
			defer profilerStop()
		}
	}

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations run separately via the migrate command

	// Provider clients are created from configuration so deployments without
	// a provider run with that channel disabled instead of crashing.
	httpClient := httpclient.NewStandardClient()

	gateway, err := razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, httpClient)
	if err != nil {
		logger.Fatal("Failed to initialize payment gateway client", zap.Error(err))
	}

	var smsSender services.SMSSender
	if cfg.Twilio.Enabled {
		twilioClient, tErr := twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, httpClient)
		if tErr != nil {
			logger.Fatal("Failed to initialize SMS client", zap.Error(tErr))
		}
		smsSender = twilioClient
	} else {
		logger.Warn("SMS channel disabled: Twilio not configured")
	}

	var emailSender services.EmailSender
	if cfg.SMTP.Enabled {
		smtpMailer, mErr := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
		if mErr != nil {
			logger.Fatal("Failed to initialize SMTP mailer", zap.Error(mErr))
		}
		emailSender = smtpMailer
	} else {
		logger.Warn("Email channel disabled: SMTP not configured")
	}

	var objectStorage services.ObjectStorage
	if cfg.Storage.Enabled {
		storageClient, sErr := storage.NewClient(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			cfg.Storage.BucketName,
			cfg.Storage.Endpoint,
			cfg.Storage.Region,
		)
		if sErr != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(sErr))
		}
		objectStorage = storageClient
	} else {
		logger.Warn("Picture uploads disabled: object storage not configured")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	calendarRepo := repository.NewCalendarRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	// Keyed mentor cache
	mentorCache := cache.NewMentorCache(cfg.Cache.MentorTTLSeconds)
	if cfg.Cache.DisableMentorsCache {
		logger.Warn("Mentor cache is DISABLED - reading from database on every request")
	}

	// JWT session tokens
	sessionTTL := time.Duration(cfg.Auth.SessionTTLHours) * time.Hour
	tokenManager := jwt.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, sessionTTL)

	// Initialize services
	notificationService := services.NewNotificationService(notificationRepo, userRepo, emailSender, smsSender)
	authService := services.NewAuthService(userRepo, profileRepo, tokenManager, notificationService,
		cfg.Auth.BcryptCost, cfg.Auth.ResetTokenTTLMinutes, cfg.Server.BaseURL)
	sessionService := services.NewSessionService(sessionRepo, reviewRepo, userRepo, notificationService)
	paymentService := services.NewPaymentService(paymentRepo, sessionRepo, gateway, notificationService,
		cfg.Razorpay.KeyID, cfg.Razorpay.Currency)
	mentorService := services.NewMentorService(profileRepo, reviewRepo, mentorCache, objectStorage,
		!cfg.Cache.DisableMentorsCache)
	messageService := services.NewMessageService(messageRepo, userRepo, notificationService)
	calendarService := services.NewCalendarService(calendarRepo, sessionRepo, notificationService,
		cfg.Calendar.SessionLengthMinutes)
	adminService := services.NewAdminService(adminRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, sessionTTL, cfg.Auth.CookieDomain, cfg.Auth.CookieSecure)
	mentorHandler := handlers.NewMentorHandler(mentorService)
	profileHandler := handlers.NewProfileHandler(mentorService, authService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	messageHandler := handlers.NewMessageHandler(messageService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	adminHandler := handlers.NewAdminHandler(adminService)
	healthHandler := handlers.NewHealthHandler(func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(ctx) == nil
	})

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only allow configured origins
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true, // Required for session cookies
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters per endpoint class
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	authRateLimiter := middleware.NewRateLimiter(2, 5)        // login/registration abuse prevention
	paymentRateLimiter := middleware.NewRateLimiter(10, 20)
	messageRateLimiter := middleware.NewRateLimiter(5, 10) // prevent spam

	sessionMW := middleware.SessionMiddleware(tokenManager, cfg.Auth.CookieDomain, cfg.Auth.CookieSecure)

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(1*1024*1024))

	// Authentication (public)
	auth := v1.Group("/auth")
	auth.POST("/register", authRateLimiter.Middleware(), authHandler.Register)
	auth.POST("/login", authRateLimiter.Middleware(), authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", sessionMW, authHandler.GetSession)
	auth.POST("/forgot-password", authRateLimiter.Middleware(), authHandler.ForgotPassword)
	auth.POST("/reset-password", authRateLimiter.Middleware(), authHandler.ResetPassword)

	// Public mentor directory
	v1.GET("/mentors", mentorHandler.ListMentors)
	v1.GET("/mentors/:id", mentorHandler.GetMentor)
	v1.GET("/mentors/:id/reviews", mentorHandler.GetMentorReviews)

	// Own profile (protected)
	profile := v1.Group("/profile", sessionMW)
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("/mentor", profileHandler.UpdateMentorProfile)
	profile.PUT("/student", profileHandler.UpdateStudentProfile)
	profile.POST("/picture", middleware.BodySizeLimitMiddleware(10*1024*1024), profileHandler.UploadPicture)

	// Session booking (protected)
	sessions := v1.Group("/sessions", sessionMW)
	sessions.POST("", sessionHandler.RequestSession)
	sessions.GET("", sessionHandler.ListSessions)
	sessions.GET("/upcoming", sessionHandler.ListUpcoming)
	sessions.GET("/:id", sessionHandler.GetSession)
	sessions.POST("/:id/respond", sessionHandler.RespondToSession)
	sessions.POST("/:id/complete", sessionHandler.CompleteSession)
	sessions.POST("/:id/calendar", calendarHandler.AddToCalendar)

	// Payments (protected; verify is called by the checkout callback)
	payments := v1.Group("/payments", paymentRateLimiter.Middleware(), sessionMW)
	payments.POST("/initiate", paymentHandler.InitiatePayment)
	payments.POST("/verify", paymentHandler.VerifyPayment)
	payments.POST("/:id/refund", paymentHandler.RefundPayment)
	payments.GET("/:id", paymentHandler.GetPayment)

	// Messaging (protected)
	messages := v1.Group("/messages", sessionMW)
	messages.POST("", messageRateLimiter.Middleware(), messageHandler.SendMessage)
	messages.GET("", messageHandler.ListConversations)
	messages.GET("/:userId", messageHandler.GetConversation)

	// Notifications (protected)
	notifications := v1.Group("/notifications", sessionMW)
	notifications.GET("", notificationHandler.ListNotifications)
	notifications.GET("/history", notificationHandler.GetHistory)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
	notifications.GET("/preferences", notificationHandler.GetPreferences)
	notifications.PUT("/preferences", notificationHandler.UpdatePreferences)

	// Calendar (protected)
	calendar := v1.Group("/calendar", sessionMW)
	calendar.GET("/export", calendarHandler.ExportCalendar)
	calendar.POST("/reminders", calendarHandler.SendReminders)

	// Admin (role-gated)
	admin := v1.Group("/admin", sessionMW, middleware.RequireRole(models.RoleAdmin))
	admin.GET("/stats", adminHandler.GetStats)
	admin.PUT("/users/:id/active", adminHandler.SetUserActive)
	// Escape hatch: drop the whole mentor cache
	admin.POST("/cache/clear", func(c *gin.Context) {
		mentorCache.Clear()
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// Bind to all interfaces for container networking; isolation is enforced
	// at the orchestrator level.
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
