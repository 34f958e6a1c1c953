package consolidation

// ExpandHome splits every home-region day group into one sub-group per
// distinct city, in first-seen order. Each sub-group keeps only the
// occurrences of its city and is tagged with it. Other groups pass through
// untouched. Under HomePolicyState, or with no home configured, the input is
// returned as-is.
func ExpandHome(groups []DayGroup, home HomeRegion, policy HomePolicy) []DayGroup {
	if policy != HomePolicyCity || !home.IsSet() {
		return groups
	}

	expanded := make([]DayGroup, 0, len(groups))
	for _, g := range groups {
		if !home.Matches(g.State, g.Country) {
			expanded = append(expanded, g)
			continue
		}
		expanded = append(expanded, splitByCity(g)...)
	}
	return expanded
}

func splitByCity(g DayGroup) []DayGroup {
	index := make(map[string]int)
	var subs []DayGroup

	for _, o := range g.Occurrences {
		i, ok := index[o.City]
		if !ok {
			i = len(subs)
			index[o.City] = i
			subs = append(subs, DayGroup{
				Date:     g.Date,
				State:    g.State,
				Country:  g.Country,
				Home:     true,
				HomeCity: o.City,
			})
		}
		subs[i].Occurrences = append(subs[i].Occurrences, o)
	}
	return subs
}
