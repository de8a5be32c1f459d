package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/clientdesk/clientdesk/internal/types"
)

// Alert represents a scheduled expiration warning for a subscription
type Alert struct {
	// ID is the unique identifier for the alert
	ID string `db:"id" json:"id"`

	// SubscriptionID is the identifier of the owning subscription
	SubscriptionID string `db:"subscription_id" json:"subscription_id"`

	// Type is the kind of alert
	Type types.AlertType `db:"type" json:"type"`

	// ScheduledFor is when the alert becomes due for dispatch
	ScheduledFor time.Time `db:"scheduled_for" json:"scheduled_for"`

	// AlertStatus is the dispatch state of the alert
	AlertStatus types.AlertStatus `db:"alert_status" json:"alert_status"`

	// Subject is the rendered notification subject
	Subject string `db:"subject" json:"subject"`

	// Message is the rendered notification body
	Message string `db:"message" json:"message"`

	// RecipientEmail is a snapshot of the customer's email at generation time
	RecipientEmail *string `db:"recipient_email" json:"recipient_email"`

	// RecipientPhone is a snapshot of the customer's phone at generation time
	RecipientPhone *string `db:"recipient_phone" json:"recipient_phone"`

	types.BaseModel
}

// AlertRecipient is the customer contact snapshot copied onto generated
// alerts. The fields are captured at generation time, not resolved at
// dispatch time.
type AlertRecipient struct {
	Email *string
	Phone *string
}

// BuildExpirationAlerts produces the full set of pending expiration alerts
// for a subscription. For each lead time in AlertDays the alert fires
// AlertDays[i] days before EndDate; lead times already in the past at
// generation time are silently omitted. Duplicate lead times produce
// duplicate alerts. A subscription without an end date produces no alerts.
//
// The function is pure apart from ID generation: it performs no I/O and the
// caller owns persisting the result.
func BuildExpirationAlerts(ctx context.Context, sub *Subscription, recipient AlertRecipient, now time.Time) []*Alert {
	if sub.EndDate == nil {
		return nil
	}

	alerts := make([]*Alert, 0, len(sub.AlertDays))
	for _, days := range sub.AlertDays {
		scheduledFor := sub.EndDate.AddDate(0, 0, -days)
		if !scheduledFor.After(now) {
			// Lead time already passed, nothing to schedule.
			continue
		}

		alerts = append(alerts, &Alert{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION_ALERT),
			SubscriptionID: sub.ID,
			Type:           types.AlertTypeExpiration,
			ScheduledFor:   scheduledFor,
			AlertStatus:    types.AlertStatusPending,
			Subject:        fmt.Sprintf("Subscription Expiring in %d Days", days),
			Message: fmt.Sprintf("Your subscription %q will expire on %s.",
				sub.Name, sub.EndDate.UTC().Format("January 2, 2006")),
			RecipientEmail: recipient.Email,
			RecipientPhone: recipient.Phone,
			BaseModel:      types.GetDefaultBaseModel(ctx),
		})
	}

	return alerts
}
