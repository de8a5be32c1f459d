package dto

import (
	"context"

	"github.com/clientdesk/clientdesk/internal/domain/customer"
	"github.com/clientdesk/clientdesk/internal/types"
	"github.com/clientdesk/clientdesk/internal/validator"
)

type CreateCustomerRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
}

type UpdateCustomerRequest struct {
	ExternalID *string `json:"external_id"`
	Name       *string `json:"name"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
}

type CustomerResponse struct {
	*customer.Customer
}

// ListCustomersResponse represents the response for listing customers
type ListCustomersResponse = types.ListResponse[*CustomerResponse]

func (r *CreateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateCustomerRequest) ToCustomer(ctx context.Context) *customer.Customer {
	return &customer.Customer{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		ExternalID: r.ExternalID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}
}

func (r *UpdateCustomerRequest) Validate() error {
	return validator.ValidateRequest(r)
}
