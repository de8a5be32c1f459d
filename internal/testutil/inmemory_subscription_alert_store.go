package testutil

import (
	"context"

	"github.com/clientdesk/clientdesk/internal/domain/subscription"
	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/samber/lo"
)

var _ subscription.AlertRepository = (*InMemorySubscriptionAlertStore)(nil)

// InMemorySubscriptionAlertStore implements subscription.AlertRepository
type InMemorySubscriptionAlertStore struct {
	*InMemoryStore[*subscription.Alert]
}

// NewInMemorySubscriptionAlertStore creates a new in-memory alert store
func NewInMemorySubscriptionAlertStore() *InMemorySubscriptionAlertStore {
	return &InMemorySubscriptionAlertStore{
		InMemoryStore: NewInMemoryStore[*subscription.Alert](),
	}
}

func copyAlert(a *subscription.Alert) *subscription.Alert {
	if a == nil {
		return nil
	}

	out := *a
	if a.RecipientEmail != nil {
		email := *a.RecipientEmail
		out.RecipientEmail = &email
	}
	if a.RecipientPhone != nil {
		phone := *a.RecipientPhone
		out.RecipientPhone = &phone
	}
	return &out
}

func (s *InMemorySubscriptionAlertStore) CreateBulk(ctx context.Context, alerts []*subscription.Alert) error {
	for _, alert := range alerts {
		if err := s.InMemoryStore.Create(ctx, alert.ID, copyAlert(alert)); err != nil {
			return ierr.WithError(err).
				WithHint("Alert already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}
	return nil
}

func (s *InMemorySubscriptionAlertStore) Get(ctx context.Context, id string) (*subscription.Alert, error) {
	alert, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || alert.TenantID != types.GetTenantID(ctx) || alert.Status == types.StatusDeleted {
		return nil, ierr.NewError("alert not found").
			WithHintf("Alert with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyAlert(alert), nil
}

func alertFilterFn(ctx context.Context, a *subscription.Alert, filter interface{}) bool {
	if a.TenantID != types.GetTenantID(ctx) || a.Status == types.StatusDeleted {
		return false
	}

	f, ok := filter.(*types.SubscriptionAlertFilter)
	if !ok || f == nil {
		return true
	}

	if f.SubscriptionID != "" && a.SubscriptionID != f.SubscriptionID {
		return false
	}
	if len(f.AlertStatus) > 0 && !lo.Contains(f.AlertStatus, a.AlertStatus) {
		return false
	}
	if f.ScheduledBefore != nil && a.ScheduledFor.After(*f.ScheduledBefore) {
		return false
	}
	return true
}

func (s *InMemorySubscriptionAlertStore) List(ctx context.Context, filter *types.SubscriptionAlertFilter) ([]*subscription.Alert, error) {
	if filter == nil {
		filter = types.NewSubscriptionAlertFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewNoLimitQueryFilter()
	}

	items, err := s.InMemoryStore.List(ctx, filter, alertFilterFn, alertSortFn)
	if err != nil {
		return nil, err
	}

	return lo.Map(items, func(a *subscription.Alert, _ int) *subscription.Alert {
		return copyAlert(a)
	}), nil
}

func (s *InMemorySubscriptionAlertStore) DeletePendingBySubscription(ctx context.Context, subscriptionID string) error {
	pending, err := s.List(ctx, &types.SubscriptionAlertFilter{
		QueryFilter:    types.NewNoLimitQueryFilter(),
		SubscriptionID: subscriptionID,
		AlertStatus:    []types.AlertStatus{types.AlertStatusPending},
	})
	if err != nil {
		return err
	}

	for _, alert := range pending {
		if err := s.InMemoryStore.Delete(ctx, alert.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemorySubscriptionAlertStore) UpdateStatus(ctx context.Context, id string, status types.AlertStatus) error {
	alert, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	alert.AlertStatus = status
	return s.InMemoryStore.Update(ctx, id, alert)
}

func alertSortFn(i, j *subscription.Alert) bool {
	return i.ScheduledFor.Before(j.ScheduledFor)
}
