package types

// CustomerFilter represents the filter options for customer queries
type CustomerFilter struct {
	*QueryFilter

	// ExternalID filters by the customer's external identifier
	ExternalID string `json:"external_id,omitempty" form:"external_id"`

	// Email filters by the customer's email
	Email string `json:"email,omitempty" form:"email"`
}

// NewCustomerFilter creates a new customer filter with default query options
func NewCustomerFilter() *CustomerFilter {
	return &CustomerFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *CustomerFilter) Validate() error {
	if f.QueryFilter != nil {
		return f.QueryFilter.Validate()
	}
	return nil
}
