package consolidation

import (
	"github.com/jengzang/photo-timeline/internal/spatial"
)

// CityCounts is a frequency map of city names that remembers first-seen order.
type CityCounts struct {
	order  []string
	counts map[string]int
	total  int
}

// Add records one occurrence of city.
func (c *CityCounts) Add(city string) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[city]; !ok {
		c.order = append(c.order, city)
	}
	c.counts[city]++
	c.total++
}

// Distinct returns the number of distinct names.
func (c *CityCounts) Distinct() int { return len(c.order) }

// Total returns the number of recorded occurrences.
func (c *CityCounts) Total() int { return c.total }

// Count returns how often city was recorded.
func (c *CityCounts) Count(city string) int { return c.counts[city] }

// Names returns the distinct names in first-seen order.
func (c *CityCounts) Names() []string {
	return append([]string(nil), c.order...)
}

// Dominant returns the most frequent name. Ties go to the name seen first.
func (c *CityCounts) Dominant() (string, int) {
	var best string
	bestCount := 0
	for _, name := range c.order {
		if n := c.counts[name]; n > bestCount {
			best, bestCount = name, n
		}
	}
	return best, bestCount
}

// PendingStay is a merged run of day groups whose display name has not been
// resolved yet.
type PendingStay struct {
	State     string
	Country   string
	StartDate string
	EndDate   string
	Home      bool
	HomeCity  string

	Cities CityCounts
	Points []spatial.Point
}

type mergeKey struct {
	state    string
	country  string
	home     bool
	homeCity string
}

func keyOf(g DayGroup) mergeKey {
	if !g.Home {
		return mergeKey{state: g.State, country: g.Country}
	}
	return mergeKey{state: g.State, country: g.Country, home: true, homeCity: g.HomeCity}
}

// Merge walks day groups in date order and collapses consecutive groups with
// the same merge key into one stay. Date gaps never close a stay; only a key
// change does.
func Merge(groups []DayGroup) []PendingStay {
	if len(groups) == 0 {
		return nil
	}

	ordered := make([]DayGroup, len(groups))
	copy(ordered, groups)
	sortByDate(ordered)

	var (
		stays   []PendingStay
		current *PendingStay
		curKey  mergeKey
	)

	for _, g := range ordered {
		key := keyOf(g)
		if current != nil && key == curKey {
			current.EndDate = g.Date
			current.absorb(g)
			continue
		}

		if current != nil {
			stays = append(stays, *current)
		}
		current = &PendingStay{
			State:     g.State,
			Country:   g.Country,
			StartDate: g.Date,
			EndDate:   g.Date,
			Home:      g.Home,
			HomeCity:  g.HomeCity,
		}
		curKey = key
		current.absorb(g)
	}
	stays = append(stays, *current)

	return stays
}

func (s *PendingStay) absorb(g DayGroup) {
	for _, o := range g.Occurrences {
		s.Cities.Add(o.City)
		if o.Point != nil {
			s.Points = append(s.Points, *o.Point)
		}
	}
}
