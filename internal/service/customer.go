package service

import (
	"context"

	"github.com/clientdesk/clientdesk/internal/api/dto"
	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/internal/domain/customer"
	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/samber/lo"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error)
	UpdateCustomer(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Reject a duplicate external id within the tenant
	if req.ExternalID != "" {
		existing, err := s.CustomerRepo.List(ctx, &types.CustomerFilter{
			QueryFilter: types.NewDefaultQueryFilter(),
			ExternalID:  req.ExternalID,
		})
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, ierr.NewError("customer already exists").
				WithHintf("A customer with external ID %s already exists", req.ExternalID).
				WithReportableDetails(map[string]any{
					"external_id": req.ExternalID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
	}

	cust := req.ToCustomer(ctx)
	if err := s.CustomerRepo.Create(ctx, cust); err != nil {
		return nil, err
	}

	s.Logger.Infow("created customer",
		"customer_id", cust.ID,
		"external_id", cust.ExternalID,
		"tenant_id", cust.TenantID,
	)

	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	if id == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("Please provide a customer id").
			Mark(ierr.ErrValidation)
	}

	cacheKey := cache.GenerateKey(cache.PrefixCustomer, types.GetTenantID(ctx), id)
	if cached, found := s.Cache.Get(ctx, cacheKey); found {
		if cust, ok := cached.(*customer.Customer); ok {
			return &dto.CustomerResponse{Customer: cust}, nil
		}
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, cacheKey, cust, 0)
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) ListCustomers(ctx context.Context, filter *types.CustomerFilter) (*dto.ListCustomersResponse, error) {
	if filter == nil {
		filter = types.NewCustomerFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	customers, err := s.CustomerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.CustomerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(customers, func(c *customer.Customer, _ int) *dto.CustomerResponse {
		return &dto.CustomerResponse{Customer: c}
	})

	response := types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset())
	return &response, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ExternalID != nil {
		cust.ExternalID = *req.ExternalID
	}
	if req.Name != nil {
		cust.Name = *req.Name
	}
	if req.Email != nil {
		cust.Email = *req.Email
	}
	if req.Phone != nil {
		cust.Phone = *req.Phone
	}

	if err := s.CustomerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixCustomer, types.GetTenantID(ctx), id))

	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := s.CustomerRepo.Get(ctx, id); err != nil {
		return err
	}

	// A customer with live subscriptions cannot be removed
	count, err := s.SubRepo.Count(ctx, &types.SubscriptionFilter{
		QueryFilter:        types.NewNoLimitQueryFilter(),
		CustomerID:         id,
		SubscriptionStatus: []types.SubscriptionStatus{types.SubscriptionStatusActive},
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return ierr.NewError("customer has active subscriptions").
			WithHint("Cancel the customer's subscriptions before deleting the customer").
			WithReportableDetails(map[string]any{
				"customer_id":          id,
				"active_subscriptions": count,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.CustomerRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixCustomer, types.GetTenantID(ctx), id))

	s.Logger.Infow("deleted customer", "customer_id", id)
	return nil
}
