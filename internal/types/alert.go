package types

import (
	ierr "github.com/clientdesk/clientdesk/internal/errors"
	"github.com/samber/lo"
)

// AlertType represents the kind of subscription alert
type AlertType string

const (
	// AlertTypeExpiration warns that a subscription is about to reach its end date
	AlertTypeExpiration AlertType = "EXPIRATION"
)

func (at AlertType) String() string {
	return string(at)
}

func (at AlertType) Validate() error {
	allowedTypes := []AlertType{
		AlertTypeExpiration,
	}
	if !lo.Contains(allowedTypes, at) {
		return ierr.NewError("invalid alert type").
			WithHint("Please provide a valid alert type").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AlertStatus represents the dispatch state of a subscription alert
type AlertStatus string

const (
	// AlertStatusPending means the alert is generated but not yet dispatched
	AlertStatusPending AlertStatus = "PENDING"
	// AlertStatusSent means the notification sender delivered the alert
	AlertStatusSent AlertStatus = "SENT"
	// AlertStatusFailed means the notification sender could not deliver the alert
	AlertStatusFailed AlertStatus = "FAILED"
)

func (as AlertStatus) String() string {
	return string(as)
}

func (as AlertStatus) Validate() error {
	allowedStatuses := []AlertStatus{
		AlertStatusPending,
		AlertStatusSent,
		AlertStatusFailed,
	}
	if !lo.Contains(allowedStatuses, as) {
		return ierr.NewError("invalid alert status").
			WithHint("Please provide a valid alert status").
			WithReportableDetails(map[string]any{
				"alert_status":   as,
				"allowed_status": allowedStatuses,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
