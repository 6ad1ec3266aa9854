package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/database"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/payment"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint; reports the schema version so a deploy
	// can verify migrations landed
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		version, err := database.MigrationVersion(db)
		if err != nil {
			logger.Error("Health check failed", zap.Error(err))
			custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "degraded",
			})
			return
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":         "ok",
			"schema_version": version,
		})
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Credential codec; the signing secret enters here and nowhere else
	codec := auth.NewCodec(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryDays)*24*time.Hour)

	// Payment gateway client
	gateway := payment.NewClient(payment.Config{
		BaseURL:    cfg.Gateway.BaseURL,
		MerchantID: cfg.Gateway.MerchantID,
		PublicKey:  cfg.Gateway.PublicKey,
		PrivateKey: cfg.Gateway.PrivateKey,
		Timeout:    time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second,
	}, logger)

	// Initialize services
	userService := service.NewUserService(userRepo, codec)
	catalogService := service.NewCatalogService(categoryRepo, productRepo)
	orderService := service.NewOrderService(orderRepo)
	paymentService := service.NewPaymentService(gateway, orderRepo, service.NewLogReconciler(logger), logger)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	categoryHandler := transport.NewCategoryHandler(catalogService, logger)
	productHandler := transport.NewProductHandler(catalogService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	paymentHandler := transport.NewPaymentHandler(paymentService, logger)

	// Access guard
	requireSignedIn := custommiddleware.RequireSignedIn(codec, logger)
	requireAdmin := custommiddleware.RequireAdmin(userRepo.FindByID, logger)

	// Rate limit the checkout routes
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	rateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "checkout_rate_limit",
	}, logger)

	// Register routes
	userHandler.RegisterRoutes(router, requireSignedIn)
	categoryHandler.RegisterRoutes(router, requireSignedIn, requireAdmin)
	productHandler.RegisterRoutes(router, requireSignedIn, requireAdmin)
	orderHandler.RegisterRoutes(router, requireSignedIn, requireAdmin)
	paymentHandler.RegisterRoutes(router, requireSignedIn, rateLimit)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
