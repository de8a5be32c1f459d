package types

import (
	"time"

	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus is the lifecycle status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	allowed := []SubscriptionStatus{
		SubscriptionStatusActive,
		SubscriptionStatusPaused,
		SubscriptionStatusCancelled,
		SubscriptionStatusExpired,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionFilter represents the filter options for subscription queries
type SubscriptionFilter struct {
	*QueryFilter

	// CustomerID filters by the owning customer
	CustomerID string `json:"customer_id,omitempty" form:"customer_id"`

	// SubscriptionStatus filters by one or more subscription statuses
	SubscriptionStatus []SubscriptionStatus `json:"subscription_status,omitempty" form:"subscription_status"`

	// BillingCycle filters by one or more billing cycles
	BillingCycle []BillingCycle `json:"billing_cycle,omitempty" form:"billing_cycle"`
}

// NewSubscriptionFilter creates a new subscription filter with default query options
func NewSubscriptionFilter() *SubscriptionFilter {
	return &SubscriptionFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *SubscriptionFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	for _, status := range f.SubscriptionStatus {
		if err := status.Validate(); err != nil {
			return err
		}
	}
	for _, cycle := range f.BillingCycle {
		if err := cycle.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SubscriptionAlertFilter represents the filter options for alert queries
type SubscriptionAlertFilter struct {
	*QueryFilter

	// SubscriptionID filters by the owning subscription
	SubscriptionID string `json:"subscription_id,omitempty" form:"subscription_id"`

	// AlertStatus filters by one or more alert statuses
	AlertStatus []AlertStatus `json:"alert_status,omitempty" form:"alert_status"`

	// ScheduledBefore keeps only alerts scheduled at or before the given time.
	// The dispatcher uses this to pick up due alerts.
	ScheduledBefore *time.Time `json:"scheduled_before,omitempty" form:"scheduled_before"`
}

func NewSubscriptionAlertFilter() *SubscriptionAlertFilter {
	return &SubscriptionAlertFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *SubscriptionAlertFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	for _, status := range f.AlertStatus {
		if err := status.Validate(); err != nil {
			return err
		}
	}
	return nil
}
