package transport

import (
	"time"

	"roofing_crm_backend/platform/apperr"
)

const dateLayout = "2006-01-02"

// ReferenceQuery is the optional ?at= parameter on dashboard queries.
type ReferenceQuery struct {
	At string `form:"at"`
}

// ParseReference parses at as RFC3339 or a bare YYYY-MM-DD date, the latter
// taken as noon in loc so it lands on that calendar day. An empty value
// returns nil.
func ParseReference(at string, loc *time.Location) (*time.Time, error) {
	if at == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, at); err == nil {
		return &t, nil
	}
	if d, err := time.ParseInLocation(dateLayout, at, loc); err == nil {
		noon := d.Add(12 * time.Hour)
		return &noon, nil
	}
	return nil, apperr.BadRequest("invalid 'at' parameter: expected RFC3339 or YYYY-MM-DD")
}
