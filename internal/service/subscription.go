package service

import (
	"context"
	"slices"
	"time"

	"github.com/clientdesk/clientdesk/internal/api/dto"
	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/internal/domain/customer"
	"github.com/clientdesk/clientdesk/internal/domain/subscription"
	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/samber/lo"
)

type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error)
	UpdateSubscription(ctx context.Context, id string, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	DeleteSubscription(ctx context.Context, id string) error

	ListSubscriptionAlerts(ctx context.Context, subscriptionID string, filter *types.SubscriptionAlertFilter) (*dto.ListSubscriptionAlertsResponse, error)
	ListDueAlerts(ctx context.Context, asOf time.Time) (*dto.ListSubscriptionAlertsResponse, error)
	UpdateAlertStatus(ctx context.Context, alertID string, req dto.UpdateAlertStatusRequest) (*dto.SubscriptionAlertResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
	}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The customer read is tenant scoped; a foreign customer id surfaces as not found
	cust, err := s.CustomerRepo.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	sub := req.ToSubscription(ctx)

	next, err := types.NextBillingDate(sub.StartDate, sub.BillingCycle)
	if err != nil {
		return nil, err
	}
	sub.NextBillingDate = next

	alerts := subscription.BuildExpirationAlerts(ctx, sub, recipientSnapshot(cust), time.Now().UTC())

	// Subscription and alert batch land atomically
	if err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.SubRepo.Create(txCtx, sub); err != nil {
			return err
		}
		return s.SubscriptionAlertRepo.CreateBulk(txCtx, alerts)
	}); err != nil {
		return nil, err
	}

	s.Logger.Infow("created subscription",
		"subscription_id", sub.ID,
		"customer_id", sub.CustomerID,
		"billing_cycle", sub.BillingCycle,
		"alerts_scheduled", len(alerts),
	)

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	if id == "" {
		return nil, ierr.NewError("subscription id is required").
			WithHint("Please provide a subscription id").
			Mark(ierr.ErrValidation)
	}

	cacheKey := cache.GenerateKey(cache.PrefixSubscription, types.GetTenantID(ctx), id)
	if cached, found := s.Cache.Get(ctx, cacheKey); found {
		if sub, ok := cached.(*subscription.Subscription); ok {
			return &dto.SubscriptionResponse{Subscription: sub}, nil
		}
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, cacheKey, sub, 0)
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error) {
	if filter == nil {
		filter = types.NewSubscriptionFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	subs, err := s.SubRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.SubRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(subs, func(sub *subscription.Subscription, _ int) *dto.SubscriptionResponse {
		return &dto.SubscriptionResponse{Subscription: sub}
	})

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}

func (s *subscriptionService) UpdateSubscription(ctx context.Context, id string, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cycleChanged := req.BillingCycle != nil && *req.BillingCycle != sub.BillingCycle
	startChanged := req.StartDate != nil && !req.StartDate.Equal(sub.StartDate)
	endChanged := req.EndDate != nil && !equalEndDates(req.EndDate, sub.EndDate)
	alertDaysChanged := req.AlertDays != nil && !slices.Equal(*req.AlertDays, sub.AlertDays)

	if req.Name != nil {
		sub.Name = *req.Name
	}
	if req.Amount != nil {
		sub.Amount = *req.Amount
	}
	if req.Currency != nil {
		sub.Currency = *req.Currency
	}
	if req.BillingCycle != nil {
		sub.BillingCycle = *req.BillingCycle
	}
	if req.StartDate != nil {
		sub.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		sub.EndDate = req.EndDate
	}
	if req.AlertDays != nil {
		sub.AlertDays = *req.AlertDays
	}
	if req.SubscriptionStatus != nil {
		sub.SubscriptionStatus = *req.SubscriptionStatus
	}

	if sub.EndDate != nil && !sub.EndDate.After(sub.StartDate) {
		return nil, ierr.NewError("end date must be after start date").
			WithHint("The subscription end date must be after its start date").
			Mark(ierr.ErrValidation)
	}

	// The billing cycle and start date together determine the next billing
	// date, so a change to either forces a recompute with the merged values
	if cycleChanged || startChanged {
		next, err := types.NextBillingDate(sub.StartDate, sub.BillingCycle)
		if err != nil {
			return nil, err
		}
		sub.NextBillingDate = next
	}

	// Pending alerts are replaced wholesale when their inputs change.
	// Sent and failed alerts are the historical record and stay untouched.
	replaceAlerts := endChanged || alertDaysChanged

	var alerts []*subscription.Alert
	if replaceAlerts {
		cust, err := s.CustomerRepo.Get(ctx, sub.CustomerID)
		if err != nil {
			return nil, err
		}
		alerts = subscription.BuildExpirationAlerts(ctx, sub, recipientSnapshot(cust), time.Now().UTC())
	}

	if err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.SubRepo.Update(txCtx, sub); err != nil {
			return err
		}
		if replaceAlerts {
			if err := s.SubscriptionAlertRepo.DeletePendingBySubscription(txCtx, sub.ID); err != nil {
				return err
			}
			return s.SubscriptionAlertRepo.CreateBulk(txCtx, alerts)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixSubscription, types.GetTenantID(ctx), id))

	s.Logger.Infow("updated subscription",
		"subscription_id", sub.ID,
		"billing_date_recomputed", cycleChanged || startChanged,
		"alerts_replaced", replaceAlerts,
	)

	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) DeleteSubscription(ctx context.Context, id string) error {
	if _, err := s.SubRepo.Get(ctx, id); err != nil {
		return err
	}

	if err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.SubRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return s.SubscriptionAlertRepo.DeletePendingBySubscription(txCtx, id)
	}); err != nil {
		return err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixSubscription, types.GetTenantID(ctx), id))

	s.Logger.Infow("deleted subscription", "subscription_id", id)
	return nil
}

func (s *subscriptionService) ListSubscriptionAlerts(ctx context.Context, subscriptionID string, filter *types.SubscriptionAlertFilter) (*dto.ListSubscriptionAlertsResponse, error) {
	// Confirm the subscription exists within the tenant before exposing alerts
	if _, err := s.SubRepo.Get(ctx, subscriptionID); err != nil {
		return nil, err
	}

	if filter == nil {
		filter = types.NewSubscriptionAlertFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewNoLimitQueryFilter()
	}
	filter.SubscriptionID = subscriptionID
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	alerts, err := s.SubscriptionAlertRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(alerts, func(alert *subscription.Alert, _ int) *dto.SubscriptionAlertResponse {
		return &dto.SubscriptionAlertResponse{Alert: alert}
	})

	response := types.NewListResponse(items, len(items), len(items), 0)
	return &response, nil
}

func (s *subscriptionService) ListDueAlerts(ctx context.Context, asOf time.Time) (*dto.ListSubscriptionAlertsResponse, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	// The dispatcher drains everything due, oldest first
	alerts, err := s.SubscriptionAlertRepo.List(ctx, &types.SubscriptionAlertFilter{
		QueryFilter:     types.NewNoLimitQueryFilter(),
		AlertStatus:     []types.AlertStatus{types.AlertStatusPending},
		ScheduledBefore: &asOf,
	})
	if err != nil {
		return nil, err
	}

	items := lo.Map(alerts, func(alert *subscription.Alert, _ int) *dto.SubscriptionAlertResponse {
		return &dto.SubscriptionAlertResponse{Alert: alert}
	})

	response := types.NewListResponse(items, len(items), len(items), 0)
	return &response, nil
}

func (s *subscriptionService) UpdateAlertStatus(ctx context.Context, alertID string, req dto.UpdateAlertStatusRequest) (*dto.SubscriptionAlertResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	alert, err := s.SubscriptionAlertRepo.Get(ctx, alertID)
	if err != nil {
		return nil, err
	}

	// Only the pending -> sent/failed transitions are legal; dispatched
	// alerts are immutable history
	if alert.AlertStatus != types.AlertStatusPending {
		return nil, ierr.NewError("alert is not pending").
			WithHintf("Alert %s has already been dispatched", alertID).
			WithReportableDetails(map[string]any{
				"alert_id":     alertID,
				"alert_status": alert.AlertStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if req.Status == types.AlertStatusPending {
		return nil, ierr.NewError("alert status cannot be reset to pending").
			WithHint("Alerts can only move from pending to sent or failed").
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.SubscriptionAlertRepo.UpdateStatus(ctx, alertID, req.Status); err != nil {
		return nil, err
	}

	alert.AlertStatus = req.Status
	return &dto.SubscriptionAlertResponse{Alert: alert}, nil
}

func recipientSnapshot(cust *customer.Customer) subscription.AlertRecipient {
	return subscription.AlertRecipient{
		Email: types.ToNillableString(cust.Email),
		Phone: types.ToNillableString(cust.Phone),
	}
}

func equalEndDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
