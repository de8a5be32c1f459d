package types

import (
	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/samber/lo"
)

// BillingCycle is the recurrence interval controlling how often a subscription rebills
type BillingCycle string

const (
	BILLING_CYCLE_DAILY     BillingCycle = "DAILY"
	BILLING_CYCLE_WEEKLY    BillingCycle = "WEEKLY"
	BILLING_CYCLE_MONTHLY   BillingCycle = "MONTHLY"
	BILLING_CYCLE_QUARTERLY BillingCycle = "QUARTERLY"
	BILLING_CYCLE_YEARLY    BillingCycle = "YEARLY"

	// BILLING_CYCLE_ONE_TIME subscriptions never rebill and carry no next billing date
	BILLING_CYCLE_ONE_TIME BillingCycle = "ONE_TIME"
)

func (c BillingCycle) String() string {
	return string(c)
}

// IsRecurring returns true for every cycle that produces a next billing date
func (c BillingCycle) IsRecurring() bool {
	return c != BILLING_CYCLE_ONE_TIME
}

func (c BillingCycle) Validate() error {
	allowed := []BillingCycle{
		BILLING_CYCLE_DAILY,
		BILLING_CYCLE_WEEKLY,
		BILLING_CYCLE_MONTHLY,
		BILLING_CYCLE_QUARTERLY,
		BILLING_CYCLE_YEARLY,
		BILLING_CYCLE_ONE_TIME,
	}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid billing cycle").
			WithHint("Please provide a valid billing cycle").
			WithReportableDetails(map[string]any{
				"billing_cycle":  c,
				"allowed_values": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
