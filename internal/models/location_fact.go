package models

// LocationFact is one photo with a resolved reverse-geocoded location.
type LocationFact struct {
	ID        int64    `json:"id" db:"id"`
	PhotoID   string   `json:"photo_uuid" db:"photo_uuid"`
	Timestamp float64  `json:"timestamp" db:"timestamp"` // seconds since 2001-01-01 UTC
	Date      string   `json:"date" db:"date"`           // YYYY-MM-DD, local calendar day
	City      string   `json:"city" db:"city"`
	State     string   `json:"state" db:"state"`
	Country   string   `json:"country" db:"country"`
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude"`
	CreatedAt int64    `json:"created_at" db:"created_at"`
}

// HasCoordinates reports whether the fact carries a usable position.
func (f LocationFact) HasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// ProcessedPhoto records that a photo was examined, with or without a location.
type ProcessedPhoto struct {
	PhotoID     string `json:"photo_uuid" db:"photo_uuid"`
	ProcessedAt int64  `json:"processed_at" db:"processed_at"`
	HasLocation bool   `json:"has_location" db:"has_location"`
}

// StateOption is a distinct (state, country) pair offered by the home picker.
type StateOption struct {
	State   string `json:"state" db:"state"`
	Country string `json:"country" db:"country"`
}
