package subscription

import (
	"context"

	"github.com/clientdesk/clientdesk/internal/types"
)

type Repository interface {
	Create(ctx context.Context, subscription *Subscription) error
	Get(ctx context.Context, id string) (*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.SubscriptionFilter) ([]*Subscription, error)
	Count(ctx context.Context, filter *types.SubscriptionFilter) (int, error)
}

// AlertRepository provides access to the subscription alert store
type AlertRepository interface {
	// CreateBulk inserts a batch of alerts in one statement
	CreateBulk(ctx context.Context, alerts []*Alert) error

	// Get retrieves an alert by ID
	Get(ctx context.Context, id string) (*Alert, error)

	// List lists alerts matching the filter ordered by scheduled_for
	// ascending. The dispatcher fetches due alerts with a pending status
	// filter and a ScheduledBefore bound.
	List(ctx context.Context, filter *types.SubscriptionAlertFilter) ([]*Alert, error)

	// DeletePendingBySubscription removes all of a subscription's alerts
	// that are still pending. Sent and failed alerts are never touched.
	DeletePendingBySubscription(ctx context.Context, subscriptionID string) error

	// UpdateStatus flips the dispatch status of an alert
	UpdateStatus(ctx context.Context, id string, status types.AlertStatus) error
}
