package service

import (
	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/internal/config"
	"github.com/clientdesk/clientdesk/internal/domain/customer"
	"github.com/clientdesk/clientdesk/internal/domain/subscription"
	"github.com/clientdesk/clientdesk/internal/logger"
	"github.com/clientdesk/clientdesk/internal/postgres"
)

// ServiceParams is the common dependency bundle injected into every service
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	CustomerRepo          customer.Repository
	SubRepo               subscription.Repository
	SubscriptionAlertRepo subscription.AlertRepository
}

func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db *postgres.DB,
	cache cache.Cache,
	customerRepo customer.Repository,
	subRepo subscription.Repository,
	subscriptionAlertRepo subscription.AlertRepository,
) ServiceParams {
	return ServiceParams{
		Logger:                logger,
		Config:                config,
		DB:                    db,
		Cache:                 cache,
		CustomerRepo:          customerRepo,
		SubRepo:               subRepo,
		SubscriptionAlertRepo: subscriptionAlertRepo,
	}
}
