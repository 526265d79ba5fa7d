package roster

import (
	"github.com/agnivade/levenshtein"
)

// MatchThreshold is the minimum normalized similarity for a name to count
// as a match.
const MatchThreshold = 0.6

// Match resolves free-text input to the single best canonical clinician
// name. Both sides are lowercased and trimmed before scoring. When two
// candidates score equally, the earlier one in table order wins.
func Match(input string, candidates []string) (string, bool) {
	needle := normalize(input)
	if needle == "" {
		return "", false
	}

	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		score := similarity(needle, normalize(candidate))
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if bestScore < MatchThreshold {
		return "", false
	}
	return best, true
}

// similarity maps edit distance onto [0,1], where 1 is an exact match.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}
