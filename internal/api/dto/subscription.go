package dto

import (
	"context"
	"time"

	"github.com/clientdesk/clientdesk/internal/domain/subscription"
	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/clientdesk/clientdesk/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateSubscriptionRequest struct {
	CustomerID   string             `json:"customer_id" validate:"required"`
	Name         string             `json:"name" validate:"required"`
	Amount       decimal.Decimal    `json:"amount"`
	Currency     string             `json:"currency" validate:"omitempty,len=3"`
	BillingCycle types.BillingCycle `json:"billing_cycle" validate:"required"`
	StartDate    time.Time          `json:"start_date" validate:"required"`
	EndDate      *time.Time         `json:"end_date"`
	AlertDays    types.AlertDays    `json:"alert_days"`
}

// UpdateSubscriptionRequest carries a partial update. A nil field means
// unchanged, so an end date can be moved but not cleared once set; deleting
// the subscription is the way to drop its pending alerts entirely.
type UpdateSubscriptionRequest struct {
	Name               *string                   `json:"name"`
	Amount             *decimal.Decimal          `json:"amount"`
	Currency           *string                   `json:"currency" validate:"omitempty,len=3"`
	BillingCycle       *types.BillingCycle       `json:"billing_cycle"`
	StartDate          *time.Time                `json:"start_date"`
	EndDate            *time.Time                `json:"end_date"`
	AlertDays          *types.AlertDays          `json:"alert_days"`
	SubscriptionStatus *types.SubscriptionStatus `json:"subscription_status"`
}

type SubscriptionResponse struct {
	*subscription.Subscription
}

// ListSubscriptionsResponse represents the response for listing subscriptions
type ListSubscriptionsResponse = types.ListResponse[*SubscriptionResponse]

type SubscriptionAlertResponse struct {
	*subscription.Alert
}

// ListSubscriptionAlertsResponse represents the response for listing alerts
type ListSubscriptionAlertsResponse = types.ListResponse[*SubscriptionAlertResponse]

// UpdateAlertStatusRequest flips a pending alert to its dispatch outcome
type UpdateAlertStatusRequest struct {
	Status types.AlertStatus `json:"status" validate:"required"`
}

func (r *CreateSubscriptionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.BillingCycle.Validate(); err != nil {
		return err
	}
	if err := r.AlertDays.Validate(); err != nil {
		return err
	}
	if r.EndDate != nil && !r.EndDate.After(r.StartDate) {
		return ierr.NewError("end date must be after start date").
			WithHint("The subscription end date must be after its start date").
			WithReportableDetails(map[string]any{
				"start_date": r.StartDate,
				"end_date":   r.EndDate,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreateSubscriptionRequest) ToSubscription(ctx context.Context) *subscription.Subscription {
	alertDays := r.AlertDays
	if alertDays == nil {
		alertDays = types.DefaultAlertDays
	}

	currency := r.Currency
	if currency == "" {
		currency = "usd"
	}

	return &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		LookupKey:          types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_SUBSCRIPTION),
		CustomerID:         r.CustomerID,
		Name:               r.Name,
		Amount:             r.Amount,
		Currency:           currency,
		BillingCycle:       r.BillingCycle,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		AlertDays:          alertDays,
		SubscriptionStatus: types.SubscriptionStatusActive,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}

func (r *UpdateSubscriptionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.BillingCycle != nil {
		if err := r.BillingCycle.Validate(); err != nil {
			return err
		}
	}
	if r.AlertDays != nil {
		if err := r.AlertDays.Validate(); err != nil {
			return err
		}
	}
	if r.SubscriptionStatus != nil {
		if err := r.SubscriptionStatus.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r *UpdateAlertStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Status.Validate()
}
