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

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	r.logger.Debugw("creating subscription",
		"subscription_id", sub.ID,
		"customer_id", sub.CustomerID,
		"tenant_id", sub.TenantID,
	)

	query := `
		INSERT INTO subscriptions (
			id,
			lookup_key,
			customer_id,
			name,
			amount,
			currency,
			billing_cycle,
			start_date,
			end_date,
			next_billing_date,
			alert_days,
			subscription_status,
			tenant_id,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:lookup_key,
			:customer_id,
			:name,
			:amount,
			:currency,
			:billing_cycle,
			:start_date,
			:end_date,
			:next_billing_date,
			:alert_days,
			:subscription_status,
			:tenant_id,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create subscription").
			WithReportableDetails(map[string]any{
				"subscription_id": sub.ID,
			}).
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE
			id = $1 AND
			tenant_id = $2 AND
			status != $3
	`

	var sub subscription.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &sub, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("subscription not found").
				WithHintf("Subscription with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"subscription_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscription").
			Mark(ierr.ErrDatabase)
	}

	return &sub, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	r.logger.Debugw("updating subscription", "subscription_id", sub.ID)

	sub.UpdatedAt = time.Now().UTC()
	sub.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE subscriptions
		SET
			lookup_key = :lookup_key,
			name = :name,
			amount = :amount,
			currency = :currency,
			billing_cycle = :billing_cycle,
			start_date = :start_date,
			end_date = :end_date,
			next_billing_date = :next_billing_date,
			alert_days = :alert_days,
			subscription_status = :subscription_status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	result, err := r.db.NamedExecContext(ctx, query, sub)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update subscription").
			Mark(ierr.ErrDatabase)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("subscription not found").
			WithHintf("Subscription with ID %s was not found", sub.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debugw("deleting subscription", "subscription_id", id)

	query := `
		UPDATE subscriptions
		SET
			status = :deleted,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"deleted":    types.StatusDeleted,
		"updated_at": time.Now().UTC(),
		"updated_by": types.GetUserID(ctx),
		"id":         id,
		"tenant_id":  types.GetTenantID(ctx),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete subscription").
			Mark(ierr.ErrDatabase)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("subscription not found").
			WithHintf("Subscription with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *subscriptionRepository) List(ctx context.Context, filter *types.SubscriptionFilter) ([]*subscription.Subscription, error) {
	query, params := r.buildListQuery(ctx, "SELECT *", filter)
	query += " ORDER BY created_at DESC LIMIT :limit OFFSET :offset"
	params["limit"] = filter.GetLimit()
	params["offset"] = filter.GetOffset()

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscriptions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var subscriptions []*subscription.Subscription
	for rows.Next() {
		var sub subscription.Subscription
		if err := rows.StructScan(&sub); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan subscription").
				Mark(ierr.ErrDatabase)
		}
		subscriptions = append(subscriptions, &sub)
	}

	return subscriptions, nil
}

func (r *subscriptionRepository) Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error) {
	query, params := r.buildListQuery(ctx, "SELECT COUNT(*)", filter)

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count subscriptions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to scan subscription count").
				Mark(ierr.ErrDatabase)
		}
	}

	return count, nil
}

func (r *subscriptionRepository) buildListQuery(ctx context.Context, selectClause string, filter *types.SubscriptionFilter) (string, map[string]interface{}) {
	query := selectClause + `
		FROM subscriptions
		WHERE tenant_id = :tenant_id AND status = :status
	`
	params := map[string]interface{}{
		"tenant_id": types.GetTenantID(ctx),
		"status":    filter.GetStatus(),
	}

	if filter.CustomerID != "" {
		query += " AND customer_id = :customer_id"
		params["customer_id"] = filter.CustomerID
	}
	if len(filter.SubscriptionStatus) > 0 {
		query += " AND subscription_status = ANY(:subscription_status)"
		params["subscription_status"] = statusArray(filter.SubscriptionStatus)
	}
	if len(filter.BillingCycle) > 0 {
		query += " AND billing_cycle = ANY(:billing_cycle)"
		params["billing_cycle"] = cycleArray(filter.BillingCycle)
	}

	return query, params
}
