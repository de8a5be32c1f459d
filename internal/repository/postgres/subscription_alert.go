package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/clientdesk/clientdesk/internal/domain/subscription"
	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/internal/logger"
	"github.com/clientdesk/clientdesk/internal/postgres"
	"github.com/clientdesk/clientdesk/internal/types"
)

type subscriptionAlertRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionAlertRepository(db *postgres.DB, logger *logger.Logger) subscription.AlertRepository {
	return &subscriptionAlertRepository{db: db, logger: logger}
}

func (r *subscriptionAlertRepository) CreateBulk(ctx context.Context, alerts []*subscription.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	r.logger.Debugw("inserting subscription alerts",
		"subscription_id", alerts[0].SubscriptionID,
		"count", len(alerts),
	)

	query := `
		INSERT INTO subscription_alerts (
			id,
			subscription_id,
			type,
			scheduled_for,
			alert_status,
			subject,
			message,
			recipient_email,
			recipient_phone,
			tenant_id,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:subscription_id,
			:type,
			:scheduled_for,
			:alert_status,
			:subject,
			:message,
			:recipient_email,
			:recipient_phone,
			:tenant_id,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	// sqlx expands a slice argument into a multi-row insert
	if _, err := r.db.NamedExecContext(ctx, query, alerts); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create subscription alerts").
			WithReportableDetails(map[string]any{
				"subscription_id": alerts[0].SubscriptionID,
				"count":           len(alerts),
			}).
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *subscriptionAlertRepository) Get(ctx context.Context, id string) (*subscription.Alert, error) {
	query := `
		SELECT * FROM subscription_alerts
		WHERE
			id = $1 AND
			tenant_id = $2 AND
			status != $3
	`

	var alert subscription.Alert
	err := r.db.GetQuerier(ctx).GetContext(ctx, &alert, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("alert not found").
				WithHintf("Alert with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"alert_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get alert").
			Mark(ierr.ErrDatabase)
	}

	return &alert, nil
}

func (r *subscriptionAlertRepository) List(ctx context.Context, filter *types.SubscriptionAlertFilter) ([]*subscription.Alert, error) {
	query := `
		SELECT * FROM subscription_alerts
		WHERE tenant_id = :tenant_id AND status != :deleted
	`
	params := map[string]interface{}{
		"tenant_id": types.GetTenantID(ctx),
		"deleted":   types.StatusDeleted,
	}

	if filter.SubscriptionID != "" {
		query += " AND subscription_id = :subscription_id"
		params["subscription_id"] = filter.SubscriptionID
	}
	if len(filter.AlertStatus) > 0 {
		query += " AND alert_status = ANY(:alert_status)"
		params["alert_status"] = alertStatusArray(filter.AlertStatus)
	}
	if filter.ScheduledBefore != nil {
		query += " AND scheduled_for <= :scheduled_before"
		params["scheduled_before"] = *filter.ScheduledBefore
	}

	query += " ORDER BY scheduled_for ASC"
	if !filter.IsUnlimited() {
		query += " LIMIT :limit OFFSET :offset"
		params["limit"] = filter.GetLimit()
		params["offset"] = filter.GetOffset()
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscription alerts").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var alerts []*subscription.Alert
	for rows.Next() {
		var alert subscription.Alert
		if err := rows.StructScan(&alert); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan subscription alert").
				Mark(ierr.ErrDatabase)
		}
		alerts = append(alerts, &alert)
	}

	return alerts, nil
}

func (r *subscriptionAlertRepository) DeletePendingBySubscription(ctx context.Context, subscriptionID string) error {
	r.logger.Debugw("deleting pending subscription alerts", "subscription_id", subscriptionID)

	query := `
		DELETE FROM subscription_alerts
		WHERE
			subscription_id = :subscription_id AND
			alert_status = :alert_status AND
			tenant_id = :tenant_id
	`

	_, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"subscription_id": subscriptionID,
		"alert_status":    types.AlertStatusPending,
		"tenant_id":       types.GetTenantID(ctx),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete pending alerts").
			WithReportableDetails(map[string]any{
				"subscription_id": subscriptionID,
			}).
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *subscriptionAlertRepository) UpdateStatus(ctx context.Context, id string, status types.AlertStatus) error {
	query := `
		UPDATE subscription_alerts
		SET
			alert_status = :alert_status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"alert_status": status,
		"updated_at":   time.Now().UTC(),
		"updated_by":   types.GetUserID(ctx),
		"id":           id,
		"tenant_id":    types.GetTenantID(ctx),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update alert status").
			Mark(ierr.ErrDatabase)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("alert not found").
			WithHintf("Alert with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	return nil
}
