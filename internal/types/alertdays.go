package types

import (
	"database/sql/driver"
	"encoding/json"

	ierr "github.com/clientdesk/clientdesk/internal/errors"
)

// AlertDays is the ordered list of lead times (days before expiry) at which
// expiration alerts fire. Duplicates are preserved as given: each entry
// produces its own alert. Stored as a JSON array column.
type AlertDays []int

// DefaultAlertDays is applied when a subscription is created without an
// explicit alert schedule.
var DefaultAlertDays = AlertDays{30, 15, 7}

// Value implements driver.Valuer for persistence as a JSON column
func (d AlertDays) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading the JSON column
func (d *AlertDays) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return ierr.NewError("unsupported source type for alert days").
			Mark(ierr.ErrDatabase)
	}

	return json.Unmarshal(data, d)
}

func (d AlertDays) Validate() error {
	for _, days := range d {
		if days <= 0 {
			return ierr.NewError("alert lead time must be a positive number of days").
				WithHint("Alert days entries must be positive integers").
				WithReportableDetails(map[string]any{
					"alert_days": d,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
