package service

import (
	"testing"
	"time"

	"github.com/clientdesk/clientdesk/internal/api/dto"
	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/internal/testutil"
	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service             CustomerService
	subscriptionService SubscriptionService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := ServiceParams{
		Logger:                s.GetLogger(),
		Config:                s.GetConfig(),
		DB:                    s.GetDB(),
		Cache:                 s.GetCache(),
		CustomerRepo:          s.GetStores().CustomerRepo,
		SubRepo:               s.GetStores().SubscriptionRepo,
		SubscriptionAlertRepo: s.GetStores().SubscriptionAlertRepo,
	}
	s.service = NewCustomerService(params)
	s.subscriptionService = NewSubscriptionService(params)
}

func (s *CustomerServiceSuite) TestCreateCustomer() {
	resp, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		ExternalID: "ext-1",
		Name:       "Test Customer",
		Email:      "test@example.com",
		Phone:      "+15550100",
	})
	s.NoError(err)
	s.Require().NotNil(resp)
	s.NotEmpty(resp.ID)
	s.Equal("ext-1", resp.ExternalID)
	s.Equal(types.DefaultTenantID, resp.TenantID)
	s.Equal(types.StatusPublished, resp.Status)
}

func (s *CustomerServiceSuite) TestCreateCustomer_DuplicateExternalID() {
	_, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		ExternalID: "ext-dup",
		Name:       "First",
	})
	s.NoError(err)

	_, err = s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		ExternalID: "ext-dup",
		Name:       "Second",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *CustomerServiceSuite) TestCreateCustomer_InvalidEmail() {
	_, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		ExternalID: "ext-2",
		Name:       "Bad Email",
		Email:      "not-an-email",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CustomerServiceSuite) TestGetCustomer() {
	created, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		ExternalID: "ext-3",
		Name:       "Readable",
	})
	s.NoError(err)

	// First read hits the store, second read hits the cache
	for i := 0; i < 2; i++ {
		resp, err := s.service.GetCustomer(s.GetContext(), created.ID)
		s.NoError(err)
		s.Equal(created.ID, resp.ID)
		s.Equal("Readable", resp.Name)
	}
}

func (s *CustomerServiceSuite) TestGetCustomer_NotFound() {
	_, err := s.service.GetCustomer(s.GetContext(), "cust_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CustomerServiceSuite) TestListCustomers() {
	for _, extID := range []string{"ext-a", "ext-b", "ext-c"} {
		_, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
			ExternalID: extID,
			Name:       "Customer " + extID,
		})
		s.NoError(err)
	}

	resp, err := s.service.ListCustomers(s.GetContext(), nil)
	s.NoError(err)
	s.Len(resp.Items, 3)
	s.Equal(3, resp.Pagination.Total)

	filtered, err := s.service.ListCustomers(s.GetContext(), &types.CustomerFilter{
		QueryFilter: types.NewDefaultQueryFilter(),
		ExternalID:  "ext-b",
	})
	s.NoError(err)
	s.Require().Len(filtered.Items, 1)
	s.Equal("ext-b", filtered.Items[0].ExternalID)
}

func (s *CustomerServiceSuite) TestUpdateCustomer() {
	created, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		ExternalID: "ext-4",
		Name:       "Before",
		Email:      "before@example.com",
	})
	s.NoError(err)

	updated, err := s.service.UpdateCustomer(s.GetContext(), created.ID, dto.UpdateCustomerRequest{
		Name:  lo.ToPtr("After"),
		Phone: lo.ToPtr("+15550199"),
	})
	s.NoError(err)
	s.Equal("After", updated.Name)
	s.Equal("+15550199", updated.Phone)
	// Untouched fields keep their values
	s.Equal("before@example.com", updated.Email)
}

func (s *CustomerServiceSuite) TestDeleteCustomer() {
	created, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		ExternalID: "ext-5",
		Name:       "Removable",
	})
	s.NoError(err)

	s.NoError(s.service.DeleteCustomer(s.GetContext(), created.ID))

	_, err = s.service.GetCustomer(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CustomerServiceSuite) TestDeleteCustomer_WithActiveSubscriptions() {
	created, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		ExternalID: "ext-6",
		Name:       "Subscribed",
	})
	s.NoError(err)

	_, err = s.subscriptionService.CreateSubscription(s.GetContext(), dto.CreateSubscriptionRequest{
		CustomerID:   created.ID,
		Name:         "Active Plan",
		BillingCycle: types.BILLING_CYCLE_MONTHLY,
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)

	err = s.service.DeleteCustomer(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}
