package highlights

import (
	"fmt"
	"strings"

	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

const (
	hookPoints      = 2
	emotionalPoints = 1
	questionPoints  = 1
	numberPoints    = 1
)

// Score returns the additive hook score of a sentence and one reason per
// matched signal, in evaluation order: hook phrases, emotional words,
// question mark, digits.
func (x *Extractor) Score(sentence string) (int, []string) {
	lower := strings.ToLower(sentence)

	score := 0
	var reasons []string
	for _, h := range x.hooks {
		if strings.Contains(lower, h) {
			score += hookPoints
			reasons = append(reasons, fmt.Sprintf(`Contains hook word: "%s"`, h))
		}
	}
	for _, e := range x.emotional {
		if strings.Contains(lower, e) {
			score += emotionalPoints
			reasons = append(reasons, fmt.Sprintf(`Emotional content: "%s"`, e))
		}
	}
	if strings.Contains(sentence, "?") {
		score += questionPoints
		reasons = append(reasons, "Contains question")
	}
	if strings.ContainsAny(sentence, "0123456789") {
		score += numberPoints
		reasons = append(reasons, "Contains numbers/stats")
	}
	return score, reasons
}

// ViralPotential maps a hook score onto the tier shown to users.
func ViralPotential(score int) types.ViralPotential {
	switch {
	case score >= 4:
		return types.ViralHigh
	case score >= 3:
		return types.ViralMedium
	default:
		return types.ViralLow
	}
}
