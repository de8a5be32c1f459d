package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/clientdesk/clientdesk/internal/domain/customer"
	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/clientdesk/clientdesk/internal/logger"
	"github.com/clientdesk/clientdesk/internal/postgres"
	"github.com/clientdesk/clientdesk/internal/types"
)

type customerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return &customerRepository{db: db, logger: logger}
}

func (r *customerRepository) Create(ctx context.Context, cust *customer.Customer) error {
	r.logger.Debugw("creating customer", "customer_id", cust.ID, "tenant_id", cust.TenantID)

	query := `
		INSERT INTO customers (
			id,
			external_id,
			name,
			email,
			phone,
			tenant_id,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		) VALUES (
			:id,
			:external_id,
			:name,
			:email,
			:phone,
			:tenant_id,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, cust); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create customer").
			WithReportableDetails(map[string]any{
				"customer_id": cust.ID,
			}).
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	query := `
		SELECT * FROM customers
		WHERE
			id = $1 AND
			tenant_id = $2 AND
			status != $3
	`

	var cust customer.Customer
	err := r.db.GetQuerier(ctx).GetContext(ctx, &cust, query,
		id, types.GetTenantID(ctx), types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("customer not found").
				WithHintf("Customer with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"customer_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer").
			Mark(ierr.ErrDatabase)
	}

	return &cust, nil
}

func (r *customerRepository) List(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	query := `
		SELECT * FROM customers
		WHERE tenant_id = :tenant_id AND status = :status
	`
	params := map[string]interface{}{
		"tenant_id": types.GetTenantID(ctx),
		"status":    filter.GetStatus(),
		"limit":     filter.GetLimit(),
		"offset":    filter.GetOffset(),
	}

	if filter.ExternalID != "" {
		query += " AND external_id = :external_id"
		params["external_id"] = filter.ExternalID
	}
	if filter.Email != "" {
		query += " AND email = :email"
		params["email"] = filter.Email
	}

	query += " ORDER BY created_at DESC LIMIT :limit OFFSET :offset"

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list customers").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var customers []*customer.Customer
	for rows.Next() {
		var cust customer.Customer
		if err := rows.StructScan(&cust); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan customer").
				Mark(ierr.ErrDatabase)
		}
		customers = append(customers, &cust)
	}

	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context, filter *types.CustomerFilter) (int, error) {
	query := `
		SELECT COUNT(*) FROM customers
		WHERE tenant_id = :tenant_id AND status = :status
	`
	params := map[string]interface{}{
		"tenant_id": types.GetTenantID(ctx),
		"status":    filter.GetStatus(),
	}

	if filter.ExternalID != "" {
		query += " AND external_id = :external_id"
		params["external_id"] = filter.ExternalID
	}
	if filter.Email != "" {
		query += " AND email = :email"
		params["email"] = filter.Email
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count customers").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to scan customer count").
				Mark(ierr.ErrDatabase)
		}
	}

	return count, nil
}

func (r *customerRepository) Update(ctx context.Context, cust *customer.Customer) error {
	r.logger.Debugw("updating customer", "customer_id", cust.ID, "tenant_id", cust.TenantID)

	cust.UpdatedAt = time.Now().UTC()
	cust.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE customers
		SET
			external_id = :external_id,
			name = :name,
			email = :email,
			phone = :phone,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	result, err := r.db.NamedExecContext(ctx, query, cust)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update customer").
			Mark(ierr.ErrDatabase)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("customer not found").
			WithHintf("Customer with ID %s was not found", cust.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debugw("deleting customer", "customer_id", id)

	query := `
		UPDATE customers
		SET
			status = :deleted,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE
			id = :id AND
			tenant_id = :tenant_id
	`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"deleted":    types.StatusDeleted,
		"updated_at": time.Now().UTC(),
		"updated_by": types.GetUserID(ctx),
		"id":         id,
		"tenant_id":  types.GetTenantID(ctx),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete customer").
			Mark(ierr.ErrDatabase)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("customer not found").
			WithHintf("Customer with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	return nil
}
