package models

// TimelineFilter represents pagination parameters for the timeline
type TimelineFilter struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Normalize applies defaults and bounds.
func (f *TimelineFilter) Normalize() {
	if f.Limit < 1 {
		f.Limit = 100
	}
	if f.Limit > 1000 {
		f.Limit = 1000
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// PlaceFilter identifies one place by its display name and region
type PlaceFilter struct {
	City    string `form:"city" binding:"required"`
	State   string `form:"state"`
	Country string `form:"country"`
}
