package sleep

import (
	"time"

	"github.com/2beens/fitdash/pkg"
)

const (
	DefaultLogsLimit = 30
	MaxLogsLimit     = 365
)

type Log struct {
	ID            int       `json:"id"`
	LogDate       pkg.Date  `json:"log_date"`
	DurationHours *float64  `json:"duration_hours"`
	Quality       *int      `json:"quality"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Stats are computed over the same date filter as the logs, ignoring the limit.
type Stats struct {
	AvgDuration *float64 `json:"avg_duration"`
	AvgQuality  *float64 `json:"avg_quality"`
	TotalLogs   int      `json:"total_logs"`
}

type ListParams struct {
	Limit int
	pkg.DateRange
}
