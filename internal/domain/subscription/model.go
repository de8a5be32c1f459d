package subscription

import (
	"time"

	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/shopspring/decimal"
)

type Subscription struct {
	// ID is the unique identifier for the subscription
	ID string `db:"id" json:"id"`

	// LookupKey is the human-facing reference code for the subscription
	LookupKey string `db:"lookup_key" json:"lookup_key"`

	// CustomerID is the identifier for the customer in our system
	CustomerID string `db:"customer_id" json:"customer_id"`

	// Name is the display name of the subscription
	Name string `db:"name" json:"name"`

	// Amount is the amount billed every cycle
	Amount decimal.Decimal `db:"amount" json:"amount"`

	// Currency is the currency of the subscription in lowercase 3 digit ISO codes
	Currency string `db:"currency" json:"currency"`

	// BillingCycle is the recurrence interval of the subscription
	BillingCycle types.BillingCycle `db:"billing_cycle" json:"billing_cycle"`

	// StartDate is the start date of the subscription
	StartDate time.Time `db:"start_date" json:"start_date"`

	// EndDate is the end date of the subscription, if any
	EndDate *time.Time `db:"end_date" json:"end_date"`

	// NextBillingDate is the date the subscription rebills next.
	// It is nil iff BillingCycle is ONE_TIME, otherwise exactly one cycle
	// increment after StartDate.
	NextBillingDate *time.Time `db:"next_billing_date" json:"next_billing_date"`

	// AlertDays is the ordered list of lead times (days before EndDate) at
	// which expiration alerts fire
	AlertDays types.AlertDays `db:"alert_days" json:"alert_days"`

	// SubscriptionStatus is the lifecycle status of the subscription
	SubscriptionStatus types.SubscriptionStatus `db:"subscription_status" json:"subscription_status"`

	types.BaseModel
}
