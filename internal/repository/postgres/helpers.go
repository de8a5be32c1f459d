package postgres

import (
	"database/sql/driver"

	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

func statusArray(statuses []types.SubscriptionStatus) driver.Valuer {
	return pq.Array(lo.Map(statuses, func(s types.SubscriptionStatus, _ int) string {
		return s.String()
	}))
}

func cycleArray(cycles []types.BillingCycle) driver.Valuer {
	return pq.Array(lo.Map(cycles, func(c types.BillingCycle, _ int) string {
		return c.String()
	}))
}

func alertStatusArray(statuses []types.AlertStatus) driver.Valuer {
	return pq.Array(lo.Map(statuses, func(s types.AlertStatus, _ int) string {
		return s.String()
	}))
}
