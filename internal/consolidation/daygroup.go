package consolidation

import (
	"sort"

	"github.com/jengzang/photo-timeline/internal/models"
	"github.com/jengzang/photo-timeline/internal/spatial"
)

// Occurrence is one photo's contribution to a day group.
type Occurrence struct {
	City  string
	Point *spatial.Point
}

// DayGroup aggregates the facts of one calendar day in one region.
// Home sub-groups produced by ExpandHome carry Home and HomeCity.
type DayGroup struct {
	Date     string
	State    string
	Country  string
	Home     bool
	HomeCity string

	Occurrences []Occurrence
}

// Cities returns the city name of every occurrence, duplicates included.
func (g DayGroup) Cities() []string {
	cities := make([]string, len(g.Occurrences))
	for i, o := range g.Occurrences {
		cities[i] = o.City
	}
	return cities
}

type dayKey struct {
	date    string
	state   string
	country string
}

// GroupByDay collapses facts sharing (date, state, country) into one group.
// Groups keep first-seen order and are then stably sorted by date, so input
// that is already date-ordered yields groups in input order.
func GroupByDay(facts []models.LocationFact) []DayGroup {
	if len(facts) == 0 {
		return nil
	}

	index := make(map[dayKey]int)
	var groups []DayGroup

	for _, f := range facts {
		key := dayKey{date: f.Date, state: f.State, country: f.Country}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{
				Date:    f.Date,
				State:   f.State,
				Country: f.Country,
			})
		}
		groups[i].Occurrences = append(groups[i].Occurrences, occurrenceOf(f))
	}

	sortByDate(groups)
	return groups
}

func occurrenceOf(f models.LocationFact) Occurrence {
	o := Occurrence{City: f.City}
	if f.HasCoordinates() {
		p := spatial.Point{Lat: *f.Latitude, Lon: *f.Longitude}
		if p.Valid() {
			o.Point = &p
		}
	}
	return o
}

func sortByDate(groups []DayGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date < groups[j].Date
	})
}
