package highlights

import (
	"strings"

	"github.com/adewaleolaore/youtube-arsenal/internal/types"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// DistinctOptions tunes the optional post-extraction de-duplication pass.
type DistinctOptions struct {
	// MinGap is the number of seconds two kept candidates must be apart.
	// Zero keeps overlapping ranges.
	MinGap float64
	// MaxSimilarity drops a candidate whose source text is at least this
	// similar (0..1) to an already kept one. Zero disables the check.
	MaxSimilarity float64
}

func DefaultDistinctOptions() DistinctOptions {
	return DistinctOptions{MinGap: 2, MaxSimilarity: 0.85}
}

// Distinct walks candidates in order and keeps only those that neither
// overlap nor repeat an earlier kept candidate. Input order is preserved.
func Distinct(cands []types.ClipCandidate, opts DistinctOptions) []types.ClipCandidate {
	out := make([]types.ClipCandidate, 0, len(cands))
	for _, c := range cands {
		if !isDistinct(out, c, opts) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isDistinct(kept []types.ClipCandidate, c types.ClipCandidate, opts DistinctOptions) bool {
	for _, k := range kept {
		if opts.MinGap > 0 && c.StartTime < k.EndTime+opts.MinGap && k.StartTime < c.EndTime+opts.MinGap {
			return false
		}
		if opts.MaxSimilarity > 0 && similarity(k.SourceText, c.SourceText) >= opts.MaxSimilarity {
			return false
		}
	}
	return true
}

func similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	return levenshtein.RatioForStrings(ra, rb, levenshtein.DefaultOptions)
}
