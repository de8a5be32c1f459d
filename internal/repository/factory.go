package repository

import (
	"github.com/clientdesk/clientdesk/internal/domain/customer"
	"github.com/clientdesk/clientdesk/internal/domain/subscription"
	"github.com/clientdesk/clientdesk/internal/logger"
	"github.com/clientdesk/clientdesk/internal/postgres"
	postgresRepo "github.com/clientdesk/clientdesk/internal/repository/postgres"
)

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return postgresRepo.NewCustomerRepository(db, logger)
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(db, logger)
}

func NewSubscriptionAlertRepository(db *postgres.DB, logger *logger.Logger) subscription.AlertRepository {
	return postgresRepo.NewSubscriptionAlertRepository(db, logger)
}
