package anneal

import "strings"

// Advisory city ceilings by QPU family. A 2000Q embeds at most 9 cities
// (81 logical variables), an Advantage system at most 16.
const (
	MaxCities2000Q     = 9
	MaxCitiesAdvantage = 16
)

// MaxCities returns the advisory city ceiling for a solver identifier, or 0
// when the family is unknown (local samplers, hybrid solvers).
func MaxCities(solverID string) int {
	switch {
	case strings.Contains(solverID, "2000Q"):
		return MaxCities2000Q
	case strings.Contains(solverID, "Advantage"):
		return MaxCitiesAdvantage
	default:
		return 0
	}
}
