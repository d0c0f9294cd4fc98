package graph

import "strings"

// uncertaintyMarkers are phrases whose presence in a node's output signals
// hedging, used to estimate confidence in a single_react_cycle output.
var uncertaintyMarkers = []string{
	"i think", "maybe", "possibly", "might be", "could be", "not sure",
	"unclear", "uncertain", "probably", "seems like", "appears to",
}

// estimateConfidence counts uncertainty markers in text and returns
// max(0.1, 1.0 - 0.1*count).
func estimateConfidence(text string) float64 {
	lower := strings.ToLower(text)
	count := 0
	for _, marker := range uncertaintyMarkers {
		count += strings.Count(lower, marker)
	}
	confidence := 1.0 - 0.1*float64(count)
	if confidence < 0.1 {
		confidence = 0.1
	}
	return confidence
}
