package models

// Stay is a contiguous span of calendar days spent in one place.
type Stay struct {
	ID          int64  `json:"id" db:"id"`
	City        string `json:"city" db:"city"` // resolved display name
	State       string `json:"state" db:"state"`
	Country     string `json:"country" db:"country"`
	StartDate   string `json:"start_date" db:"start_date"` // inclusive
	EndDate     string `json:"end_date" db:"end_date"`     // inclusive
	Year        int    `json:"year" db:"year"`
	Month       int    `json:"month" db:"month"`
	MonthName   string `json:"month_name" db:"month_name"`
	DisplayDate string `json:"display_date" db:"display_date"`
	DaysStayed  int    `json:"days_stayed" db:"days_stayed"`

	IsHome     bool `json:"is_home" db:"is_home"`
	PhotoCount int  `json:"photo_count" db:"photo_count"`

	// Spatial summary, present only when the underlying facts had coordinates
	CenterLat    *float64 `json:"center_lat,omitempty" db:"center_lat"`
	CenterLon    *float64 `json:"center_lon,omitempty" db:"center_lon"`
	RadiusMeters *float64 `json:"radius_meters,omitempty" db:"radius_meters"`

	CreatedAt int64 `json:"created_at" db:"created_at"`
	UpdatedAt int64 `json:"updated_at" db:"updated_at"`
}

// TimelineResponse is a page of stays, newest first.
type TimelineResponse struct {
	Locations []Stay `json:"locations"`
	Total     int64  `json:"total"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	HasMore   bool   `json:"hasMore"`
}
