package weight

import "time"

// AddEntryRequest records a weight measurement.
type AddEntryRequest struct {
	WeightKg   float64   `json:"weight_kg" binding:"required,gt=0"`
	RecordedAt time.Time `json:"recorded_at,omitempty"`
}

// ListResponse wraps a measurement list.
type ListResponse struct {
	Entries []Entry `json:"entries"`
}

// DailySeriesResponse wraps a daily chart series.
type DailySeriesResponse struct {
	Points []SeriesPoint `json:"points"`
}

// WeeklySeriesResponse wraps a weekly chart series.
type WeeklySeriesResponse struct {
	Points []WeekPoint `json:"points"`
}
