package main

import (
	"context"
	"time"

	"github.com/clientdesk/clientdesk/internal/api"
	v1 "github.com/clientdesk/clientdesk/internal/api/v1"
	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/internal/config"
	"github.com/clientdesk/clientdesk/internal/logger"
	"github.com/clientdesk/clientdesk/internal/postgres"
	"github.com/clientdesk/clientdesk/internal/repository"
	"github.com/clientdesk/clientdesk/internal/service"
	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/clientdesk/clientdesk/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,

			// Repositories
			repository.NewCustomerRepository,
			repository.NewSubscriptionRepository,
			repository.NewSubscriptionAlertRepository,

			// Services
			service.NewServiceParams,
			service.NewCustomerService,
			service.NewSubscriptionService,
		),
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	customerService service.CustomerService,
	subscriptionService service.SubscriptionService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(logger),
		Customer:     v1.NewCustomerHandler(customerService, logger),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
