package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alertTestSubscription(endDate *time.Time, alertDays types.AlertDays) *Subscription {
	return &Subscription{
		ID:           "subs_test_01",
		Name:         "Pool Maintenance",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      endDate,
		AlertDays:    alertDays,
		BaseModel: types.BaseModel{
			TenantID: types.DefaultTenantID,
			Status:   types.StatusPublished,
		},
	}
}

func TestBuildExpirationAlerts(t *testing.T) {
	ctx := context.Background()
	recipient := AlertRecipient{
		Email: lo.ToPtr("owner@example.com"),
		Phone: lo.ToPtr("+15550100"),
	}

	t.Run("schedules one alert per lead time", func(t *testing.T) {
		endDate := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
		sub := alertTestSubscription(&endDate, types.AlertDays{30, 7})
		now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

		alerts := BuildExpirationAlerts(ctx, sub, recipient, now)
		require.Len(t, alerts, 2)

		assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), alerts[0].ScheduledFor)
		assert.Equal(t, time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC), alerts[1].ScheduledFor)

		for _, alert := range alerts {
			assert.Equal(t, sub.ID, alert.SubscriptionID)
			assert.Equal(t, types.AlertTypeExpiration, alert.Type)
			assert.Equal(t, types.AlertStatusPending, alert.AlertStatus)
			assert.Equal(t, "owner@example.com", *alert.RecipientEmail)
			assert.Equal(t, "+15550100", *alert.RecipientPhone)
			assert.Contains(t, alert.Message, "April 1, 2024")
		}

		assert.Equal(t, "Subscription Expiring in 30 Days", alerts[0].Subject)
		assert.Equal(t, "Subscription Expiring in 7 Days", alerts[1].Subject)
	})

	t.Run("omits lead times already in the past", func(t *testing.T) {
		endDate := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
		sub := alertTestSubscription(&endDate, types.AlertDays{30, 15, 7})
		// 30 days before April 1 is March 2, already behind now
		now := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

		alerts := BuildExpirationAlerts(ctx, sub, recipient, now)
		require.Len(t, alerts, 2)
		assert.Equal(t, time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC), alerts[0].ScheduledFor)
		assert.Equal(t, time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC), alerts[1].ScheduledFor)
	})

	t.Run("no alerts without an end date", func(t *testing.T) {
		sub := alertTestSubscription(nil, types.AlertDays{30, 15, 7})
		now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

		alerts := BuildExpirationAlerts(ctx, sub, recipient, now)
		assert.Empty(t, alerts)
	})

	t.Run("no alerts with empty lead times", func(t *testing.T) {
		endDate := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
		sub := alertTestSubscription(&endDate, types.AlertDays{})
		now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

		alerts := BuildExpirationAlerts(ctx, sub, recipient, now)
		assert.Empty(t, alerts)
	})

	t.Run("duplicate lead times produce duplicate alerts", func(t *testing.T) {
		endDate := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
		sub := alertTestSubscription(&endDate, types.AlertDays{7, 7})
		now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

		alerts := BuildExpirationAlerts(ctx, sub, recipient, now)
		require.Len(t, alerts, 2)
		assert.Equal(t, alerts[0].ScheduledFor, alerts[1].ScheduledFor)
		assert.NotEqual(t, alerts[0].ID, alerts[1].ID)
	})

	t.Run("alert exactly at now is omitted", func(t *testing.T) {
		endDate := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
		sub := alertTestSubscription(&endDate, types.AlertDays{7})
		now := time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC)

		alerts := BuildExpirationAlerts(ctx, sub, recipient, now)
		assert.Empty(t, alerts)
	})

	t.Run("nil recipient fields are carried", func(t *testing.T) {
		endDate := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
		sub := alertTestSubscription(&endDate, types.AlertDays{7})
		now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

		alerts := BuildExpirationAlerts(ctx, sub, AlertRecipient{}, now)
		require.Len(t, alerts, 1)
		assert.Nil(t, alerts[0].RecipientEmail)
		assert.Nil(t, alerts[0].RecipientPhone)
	})
}
