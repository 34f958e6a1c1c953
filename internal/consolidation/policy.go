package consolidation

import (
	"fmt"
	"strings"

	"github.com/jengzang/photo-timeline/pkg/apperrors"
)

// HomePolicy selects how stays inside the home region are consolidated.
type HomePolicy string

const (
	// HomePolicyCity splits home days per city and merges home stays by
	// city+state+country, so separate trips to different neighbourhoods stay
	// separate. Home stays are named after their city.
	HomePolicyCity HomePolicy = "city"

	// HomePolicyState never splits home days and merges by state+country like
	// travel; home stays are always named after the state.
	HomePolicyState HomePolicy = "state"

	DefaultHomePolicy = HomePolicyCity
)

// ParseHomePolicy parses a configured policy name. Empty means the default.
func ParseHomePolicy(s string) (HomePolicy, error) {
	switch HomePolicy(strings.ToLower(trimASCIISpace(s))) {
	case "":
		return DefaultHomePolicy, nil
	case HomePolicyCity:
		return HomePolicyCity, nil
	case HomePolicyState:
		return HomePolicyState, nil
	default:
		return "", fmt.Errorf("%w: unknown home policy %q", apperrors.ErrInvalidSettings, s)
	}
}

const asciiSpace = " \t\n\v\f\r"

func trimASCIISpace(s string) string {
	return strings.Trim(s, asciiSpace)
}

// HomeRegion is the user-designated (state, country) pair.
type HomeRegion struct {
	State   string
	Country string
}

// NewHomeRegion builds a home region from raw settings values.
func NewHomeRegion(state, country string) HomeRegion {
	return HomeRegion{
		State:   trimASCIISpace(state),
		Country: trimASCIISpace(country),
	}
}

// IsSet reports whether both halves of the home region are configured.
func (h HomeRegion) IsSet() bool {
	return h.State != "" && h.Country != ""
}

// Matches reports whether a fact's region is the home region. Surrounding
// ASCII whitespace is ignored on both sides; case is significant.
func (h HomeRegion) Matches(state, country string) bool {
	if !h.IsSet() {
		return false
	}
	return trimASCIISpace(state) == h.State && trimASCIISpace(country) == h.Country
}
