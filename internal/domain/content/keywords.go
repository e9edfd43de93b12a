package content

import (
	"strings"

	"github.com/samber/lo"
)

const (
	maxKeywords   = 25
	maxKeywordLen = 50
	maxHashtags   = 10
)

// ParseKeywords reads a comma separated model response. Empty and overly
// long entries are dropped and at most 25 are kept.
func ParseKeywords(text string) []string {
	kws := lo.FilterMap(strings.Split(text, ","), func(item string, _ int) (string, bool) {
		k := strings.TrimSpace(item)
		return k, len(k) > 0 && len(k) < maxKeywordLen
	})
	if len(kws) > maxKeywords {
		kws = kws[:maxKeywords]
	}
	return kws
}

// Hashtags turns the first ten keywords into hashtags.
func Hashtags(keywords []string) []string {
	n := lo.Min([]int{len(keywords), maxHashtags})
	return lo.Map(keywords[:n], func(k string, _ int) string {
		return "#" + strings.Join(strings.Fields(k), "")
	})
}
