package weight

import (
	"time"

	"github.com/2beens/fitdash/pkg"
)

const (
	DefaultLogsLimit = 30
	MaxLogsLimit     = 365
)

type Log struct {
	ID         int       `json:"id"`
	LogDate    pkg.Date  `json:"log_date"`
	WeightKg   float64   `json:"weight_kg"`
	BodyFatPct *float64  `json:"body_fat_pct"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Stats struct {
	CurrentWeight *float64 `json:"current_weight"`
	StartWeight   *float64 `json:"start_weight"`
	WeightChange  *float64 `json:"weight_change"`
	AvgBodyFat    *float64 `json:"avg_body_fat"`
}

type ListParams struct {
	Limit int
	pkg.DateRange
}

// NewStats derives the weight change from the first and the latest weight of
// a range. The change stays nil unless both ends are known.
func NewStats(current, start, avgBodyFat *float64) *Stats {
	stats := &Stats{
		CurrentWeight: current,
		StartWeight:   start,
		AvgBodyFat:    avgBodyFat,
	}
	if current != nil && start != nil {
		change := *current - *start
		stats.WeightChange = &change
	}
	return stats
}
