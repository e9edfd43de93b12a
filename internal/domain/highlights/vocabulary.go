package highlights

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

// Vocabulary holds the curated substrings used to score sentences.
// Matching is a plain case-insensitive substring test, so short entries
// like "vs" also hit inside longer words.
type Vocabulary struct {
	HookPhrases    []string `json:"hookPhrases"`
	EmotionalWords []string `json:"emotionalWords"`
}

var defaultHookPhrases = []string{
	"but wait", "however", "surprisingly", "shocking", "unbelievable",
	"secret", "hack", "tip", "mistake", "wrong", "truth", "revealed",
	"never", "always", "everyone", "nobody", "first time", "last time",
	"before", "after", "transform", "change", "difference", "compare",
	"vs", "versus", "better", "worse", "best", "worst", "ultimate",
	"how to", "why", "what if", "stop", "start", "listen",
}

var defaultEmotionalWords = []string{
	"amazing", "incredible", "insane", "crazy", "mind-blowing", "shocking",
	"surprising", "unbelievable", "wow", "omg", "scary", "terrifying",
	"beautiful", "wonderful", "love", "hate",
}

// DefaultVocabulary returns a fresh copy of the built-in word lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		HookPhrases:    append([]string(nil), defaultHookPhrases...),
		EmotionalWords: append([]string(nil), defaultEmotionalWords...),
	}
}

// LoadVocabulary reads a JSON override file. Lists absent from the file keep
// their defaults; an explicitly empty list disables that signal.
func LoadVocabulary(path string) (Vocabulary, error) {
	v := DefaultVocabulary()
	if path == "" {
		return v, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	var raw struct {
		HookPhrases    *[]string `json:"hookPhrases"`
		EmotionalWords *[]string `json:"emotionalWords"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	if raw.HookPhrases != nil {
		v.HookPhrases = *raw.HookPhrases
	}
	if raw.EmotionalWords != nil {
		v.EmotionalWords = *raw.EmotionalWords
	}
	return v, nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, w := range in {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		out = append(out, w)
	}
	return lo.Uniq(out)
}
