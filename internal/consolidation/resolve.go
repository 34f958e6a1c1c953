package consolidation

// A city names a travel stay when it holds at least 4/5 (80%) of the stay's
// photos.
const (
	dominanceNumerator   = 4
	dominanceDenominator = 5
)

// ResolveDisplayName picks the single name shown for a stay.
//
// Home stays under HomePolicyCity use their fixed city and under
// HomePolicyState always use the state. Travel stays use the only city when
// there is one, the dominant city when it reaches the dominance threshold,
// and the state otherwise.
func ResolveDisplayName(stay *PendingStay, home HomeRegion, policy HomePolicy) string {
	switch {
	case stay.Home && stay.HomeCity != "":
		return stay.HomeCity
	case policy == HomePolicyState && home.Matches(stay.State, stay.Country):
		return stay.State
	}
	return PickDisplayCity(&stay.Cities, stay.State)
}

// PickDisplayCity applies the dominance rule to a city multiset, falling back
// to state.
func PickDisplayCity(cities *CityCounts, state string) string {
	switch cities.Distinct() {
	case 0:
		return state
	case 1:
		return cities.Names()[0]
	}

	name, count := cities.Dominant()
	if count*dominanceDenominator >= cities.Total()*dominanceNumerator {
		return name
	}
	return state
}
