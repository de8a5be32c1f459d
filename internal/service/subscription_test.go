package service

import (
	"testing"
	"time"

	"github.com/clientdesk/clientdesk/internal/api/dto"
	"github.com/clientdesk/clientdesk/internal/domain/customer"
	"github.com/clientdesk/clientdesk/internal/domain/subscription"
	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/internal/testutil"
	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  SubscriptionService
	testData struct {
		customer *customer.Customer
		endDate  time.Time
	}
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *SubscriptionServiceSuite) setupService() {
	s.service = NewSubscriptionService(ServiceParams{
		Logger:                s.GetLogger(),
		Config:                s.GetConfig(),
		DB:                    s.GetDB(),
		Cache:                 s.GetCache(),
		CustomerRepo:          s.GetStores().CustomerRepo,
		SubRepo:               s.GetStores().SubscriptionRepo,
		SubscriptionAlertRepo: s.GetStores().SubscriptionAlertRepo,
	})
}

func (s *SubscriptionServiceSuite) setupTestData() {
	s.testData.customer = &customer.Customer{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		ExternalID: "ext_cust_123",
		Name:       "Test Customer",
		Email:      "test@example.com",
		Phone:      "+15550100",
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), s.testData.customer))

	// Far enough out that every lead time is still ahead of now
	s.testData.endDate = s.GetNow().AddDate(2, 0, 0).Truncate(24 * time.Hour)
}

func (s *SubscriptionServiceSuite) createSubscription(req dto.CreateSubscriptionRequest) *dto.SubscriptionResponse {
	resp, err := s.service.CreateSubscription(s.GetContext(), req)
	s.NoError(err)
	s.NotNil(resp)
	return resp
}

func (s *SubscriptionServiceSuite) subscriptionAlerts(subscriptionID string) []*subscription.Alert {
	alerts, err := s.GetStores().SubscriptionAlertRepo.List(s.GetContext(), &types.SubscriptionAlertFilter{
		SubscriptionID: subscriptionID,
	})
	s.NoError(err)
	return alerts
}

func (s *SubscriptionServiceSuite) TestCreateSubscription() {
	endDate := s.testData.endDate

	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Lawn Care Plan",
		Amount:       decimal.NewFromInt(99),
		Currency:     "usd",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &endDate,
		AlertDays:    types.AlertDays{30, 7},
	})

	s.Equal(s.testData.customer.ID, resp.CustomerID)
	s.Equal(types.SubscriptionStatusActive, resp.SubscriptionStatus)
	s.NotEmpty(resp.LookupKey)
	s.Require().NotNil(resp.NextBillingDate)
	s.True(resp.NextBillingDate.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)))

	alerts := s.subscriptionAlerts(resp.ID)
	s.Require().Len(alerts, 2)
	s.True(alerts[0].ScheduledFor.Equal(endDate.AddDate(0, 0, -30)))
	s.True(alerts[1].ScheduledFor.Equal(endDate.AddDate(0, 0, -7)))
	s.Equal("test@example.com", *alerts[0].RecipientEmail)
	s.Equal("+15550100", *alerts[0].RecipientPhone)
}

func (s *SubscriptionServiceSuite) TestCreateSubscription_DefaultAlertDays() {
	endDate := s.testData.endDate

	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Pest Control",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &endDate,
	})

	s.Equal(types.DefaultAlertDays, resp.AlertDays)

	alerts := s.subscriptionAlerts(resp.ID)
	s.Len(alerts, len(types.DefaultAlertDays))
}

func (s *SubscriptionServiceSuite) TestCreateSubscription_OneTime() {
	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Installation Fee",
		BillingCycle: types.BILLING_CYCLE_ONE_TIME,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	s.Nil(resp.NextBillingDate)
}

func (s *SubscriptionServiceSuite) TestCreateSubscription_NoEndDateNoAlerts() {
	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Open Ended Plan",
		BillingCycle: types.BILLING_CYCLE_WEEKLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})

	alerts := s.subscriptionAlerts(resp.ID)
	s.Empty(alerts)
}

func (s *SubscriptionServiceSuite) TestCreateSubscription_UnknownCustomer() {
	_, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:   "cust_does_not_exist",
		Name:         "Orphan Plan",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestCreateSubscription_EndBeforeStart() {
	endDate := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.service.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Backwards Plan",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &endDate,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SubscriptionServiceSuite) TestUpdateSubscription_UnrelatedFieldKeepsAlerts() {
	endDate := s.testData.endDate
	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Gym Membership",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &endDate,
		AlertDays:    types.AlertDays{30, 7},
	})

	before := s.subscriptionAlerts(resp.ID)
	s.Require().Len(before, 2)

	updated, err := s.service.UpdateSubscription(s.GetContext(), resp.ID, dto.UpdateSubscriptionRequest{
		Name: lo.ToPtr("Gym Membership Plus"),
	})
	s.NoError(err)
	s.Equal("Gym Membership Plus", updated.Name)

	// An omitted end date means unchanged, never cleared
	s.Require().NotNil(updated.EndDate)
	s.True(updated.EndDate.Equal(endDate))

	after := s.subscriptionAlerts(resp.ID)
	s.Require().Len(after, 2)
	s.Equal(before[0].ID, after[0].ID)
	s.Equal(before[1].ID, after[1].ID)
}

func (s *SubscriptionServiceSuite) TestUpdateSubscription_AlertDaysChangeReplacesPending() {
	endDate := s.testData.endDate
	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Cleaning Plan",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &endDate,
		AlertDays:    types.AlertDays{30, 7},
	})

	before := s.subscriptionAlerts(resp.ID)
	s.Require().Len(before, 2)

	// One alert has already been dispatched
	s.NoError(s.GetStores().SubscriptionAlertRepo.UpdateStatus(s.GetContext(), before[0].ID, types.AlertStatusSent))

	_, err := s.service.UpdateSubscription(s.GetContext(), resp.ID, dto.UpdateSubscriptionRequest{
		AlertDays: lo.ToPtr(types.AlertDays{15}),
	})
	s.NoError(err)

	after := s.subscriptionAlerts(resp.ID)
	s.Require().Len(after, 2)

	// The sent alert survived, the pending one was replaced by the new lead time
	sent := lo.Filter(after, func(a *subscription.Alert, _ int) bool {
		return a.AlertStatus == types.AlertStatusSent
	})
	s.Require().Len(sent, 1)
	s.Equal(before[0].ID, sent[0].ID)

	pending := lo.Filter(after, func(a *subscription.Alert, _ int) bool {
		return a.AlertStatus == types.AlertStatusPending
	})
	s.Require().Len(pending, 1)
	s.True(pending[0].ScheduledFor.Equal(endDate.AddDate(0, 0, -15)))
}

func (s *SubscriptionServiceSuite) TestUpdateSubscription_EndDateChangeReschedules() {
	endDate := s.testData.endDate
	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Snow Removal",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &endDate,
		AlertDays:    types.AlertDays{7},
	})

	newEnd := endDate.AddDate(0, 6, 0)
	_, err := s.service.UpdateSubscription(s.GetContext(), resp.ID, dto.UpdateSubscriptionRequest{
		EndDate: &newEnd,
	})
	s.NoError(err)

	alerts := s.subscriptionAlerts(resp.ID)
	s.Require().Len(alerts, 1)
	s.True(alerts[0].ScheduledFor.Equal(newEnd.AddDate(0, 0, -7)))
}

func (s *SubscriptionServiceSuite) TestUpdateSubscription_IdenticalInputsKeepAlerts() {
	endDate := s.testData.endDate
	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Security Monitoring",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &endDate,
		AlertDays:    types.AlertDays{30, 7},
	})

	newEnd := endDate.AddDate(0, 3, 0)
	update := dto.UpdateSubscriptionRequest{
		EndDate:   &newEnd,
		AlertDays: lo.ToPtr(types.AlertDays{15, 5}),
	}

	_, err := s.service.UpdateSubscription(s.GetContext(), resp.ID, update)
	s.NoError(err)

	first := s.subscriptionAlerts(resp.ID)
	s.Require().Len(first, 2)
	s.True(first[0].ScheduledFor.Equal(newEnd.AddDate(0, 0, -15)))
	s.True(first[1].ScheduledFor.Equal(newEnd.AddDate(0, 0, -5)))

	// Repeating the update with identical inputs must not touch the
	// pending set: same count, same IDs
	_, err = s.service.UpdateSubscription(s.GetContext(), resp.ID, update)
	s.NoError(err)

	second := s.subscriptionAlerts(resp.ID)
	s.Require().Len(second, 2)
	s.Equal(first[0].ID, second[0].ID)
	s.Equal(first[1].ID, second[1].ID)
}

func (s *SubscriptionServiceSuite) TestUpdateSubscription_CycleChangeRecomputesNextBilling() {
	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Window Washing",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
	})

	s.Require().NotNil(resp.NextBillingDate)
	s.True(resp.NextBillingDate.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)))

	updated, err := s.service.UpdateSubscription(s.GetContext(), resp.ID, dto.UpdateSubscriptionRequest{
		BillingCycle: lo.ToPtr(types.BILLING_CYCLE_YEARLY),
	})
	s.NoError(err)
	s.Require().NotNil(updated.NextBillingDate)
	s.True(updated.NextBillingDate.Equal(time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)))
}

func (s *SubscriptionServiceSuite) TestDeleteSubscription() {
	endDate := s.testData.endDate
	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Old Plan",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &endDate,
		AlertDays:    types.AlertDays{30, 7},
	})

	s.NoError(s.service.DeleteSubscription(s.GetContext(), resp.ID))

	_, err := s.service.GetSubscription(s.GetContext(), resp.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	alerts := s.subscriptionAlerts(resp.ID)
	s.Empty(alerts)
}

func (s *SubscriptionServiceSuite) TestUpdateAlertStatus() {
	endDate := s.testData.endDate
	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "HVAC Service",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &endDate,
		AlertDays:    types.AlertDays{7},
	})

	alerts := s.subscriptionAlerts(resp.ID)
	s.Require().Len(alerts, 1)

	updated, err := s.service.UpdateAlertStatus(s.GetContext(), alerts[0].ID, dto.UpdateAlertStatusRequest{
		Status: types.AlertStatusSent,
	})
	s.NoError(err)
	s.Equal(types.AlertStatusSent, updated.AlertStatus)

	// A dispatched alert cannot transition again
	_, err = s.service.UpdateAlertStatus(s.GetContext(), alerts[0].ID, dto.UpdateAlertStatusRequest{
		Status: types.AlertStatusFailed,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *SubscriptionServiceSuite) TestUpdateAlertStatus_CannotResetToPending() {
	endDate := s.testData.endDate
	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Pool Plan",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &endDate,
		AlertDays:    types.AlertDays{7},
	})

	alerts := s.subscriptionAlerts(resp.ID)
	s.Require().Len(alerts, 1)

	_, err := s.service.UpdateAlertStatus(s.GetContext(), alerts[0].ID, dto.UpdateAlertStatusRequest{
		Status: types.AlertStatusPending,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *SubscriptionServiceSuite) TestListDueAlerts() {
	endDate := s.testData.endDate
	resp := s.createSubscription(dto.CreateSubscriptionRequest{
		CustomerID:   s.testData.customer.ID,
		Name:         "Landscaping",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      &endDate,
		AlertDays:    types.AlertDays{30, 7},
	})

	alerts := s.subscriptionAlerts(resp.ID)
	s.Require().Len(alerts, 2)

	// Nothing is due before the first scheduled time
	due, err := s.service.ListDueAlerts(s.GetContext(), alerts[0].ScheduledFor.Add(-time.Hour))
	s.NoError(err)
	s.Empty(due.Items)

	// Exactly at the first scheduled time, one alert is due
	due, err = s.service.ListDueAlerts(s.GetContext(), alerts[0].ScheduledFor)
	s.NoError(err)
	s.Require().Len(due.Items, 1)
	s.Equal(alerts[0].ID, due.Items[0].ID)

	// Past the end date both are due
	due, err = s.service.ListDueAlerts(s.GetContext(), endDate)
	s.NoError(err)
	s.Len(due.Items, 2)
}

func (s *SubscriptionServiceSuite) TestListSubscriptions() {
	for i := 0; i < 3; i++ {
		s.createSubscription(dto.CreateSubscriptionRequest{
			CustomerID:   s.testData.customer.ID,
			Name:         "Plan",
			BillingCycle: types.BILLING_CYCLE_MONTHLY,
			StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		})
	}

	resp, err := s.service.ListSubscriptions(s.GetContext(), &types.SubscriptionFilter{
		QueryFilter: types.NewDefaultQueryFilter(),
		CustomerID:  s.testData.customer.ID,
	})
	s.NoError(err)
	s.Len(resp.Items, 3)
	s.Equal(3, resp.Pagination.Total)
}
