package pkg

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

// QueryLimit reads a positive integer parameter. A missing value yields def,
// values above max are clamped to max.
func QueryLimit(query url.Values, key string, def, max int) (int, error) {
	raw := query.Get(key)
	if raw == "" {
		return min(def, max), nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid %s parameter (must be a positive integer)", key)
	}
	return min(v, max), nil
}

// QueryOffset reads a non-negative integer parameter, 0 when missing.
func QueryOffset(query url.Values, key string) (int, error) {
	raw := query.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s parameter (must be a non-negative integer)", key)
	}
	return v, nil
}

// QueryDate reads an optional YYYY-MM-DD parameter.
func QueryDate(query url.Values, key string) (*time.Time, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter (expected YYYY-MM-DD)", key)
	}
	return &d, nil
}

// DateRange is an inclusive [From, To] day range, either end may be open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func QueryDateRange(query url.Values) (DateRange, error) {
	from, err := QueryDate(query, "startDate")
	if err != nil {
		return DateRange{}, err
	}
	to, err := QueryDate(query, "endDate")
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{From: from, To: to}, nil
}

// ParseDateRange is QueryDateRange for callers that already hold the raw strings.
func ParseDateRange(startDate, endDate string) (DateRange, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}
	return QueryDateRange(query)
}

// ClampLimit applies the same defaulting as QueryLimit to an already parsed value.
func ClampLimit(v, def, max int) int {
	if v < 1 {
		v = def
	}
	return min(v, max)
}
