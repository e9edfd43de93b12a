package highlights

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

const (
	// DefaultMaxCandidates is the cap used when the caller has no preference.
	DefaultMaxCandidates = 6
	// DefaultDuration is assumed when neither a total duration nor timed
	// segments are known.
	DefaultDuration = 600.0

	minSentenceLen = 20
	clipLength     = 45.0
	maxChunkLength = 60.0
	titleLen       = 100
	chunkTitleLen  = 50
	chunkReason    = "Segmented based on timing"
)

var (
	reSentence   = regexp.MustCompile(`[^.!?]+[.!?]+`)
	reTerminator = regexp.MustCompile(`[.!?]+`)
)

// Request is one extraction call. MaxCandidates <= 0 yields no candidates;
// use NewRequest to get the default cap.
type Request struct {
	Transcript    string
	Segments      []types.TimedSegment
	MaxCandidates int
	// TotalDuration in seconds. Zero, negative and non-finite values mean unknown.
	TotalDuration float64
}

func NewRequest(transcript string) Request {
	return Request{Transcript: transcript, MaxCandidates: DefaultMaxCandidates}
}

// Extractor proposes clip candidates from transcript text. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	hooks     []string
	emotional []string
}

func NewExtractor(v Vocabulary) *Extractor {
	return &Extractor{
		hooks:     normalizeList(v.HookPhrases),
		emotional: normalizeList(v.EmotionalWords),
	}
}

// Extract returns at most req.MaxCandidates candidates sorted by hook score,
// highest first. When fewer than two sentences carry any signal the
// transcript is cut into equal timing chunks instead.
func (x *Extractor) Extract(req Request) []types.ClipCandidate {
	if req.MaxCandidates <= 0 {
		return []types.ClipCandidate{}
	}

	sentences := SplitSentences(req.Transcript)
	duration := ResolveDuration(req.TotalDuration, req.Segments)

	var out []types.ClipCandidate
	for i, s := range sentences {
		score, reasons := x.Score(s)
		if score < 1 {
			continue
		}
		start := math.Floor(float64(i) / float64(len(sentences)) * duration)
		out = append(out, types.ClipCandidate{
			Title:      truncateTitle(s, titleLen, utf8.RuneCountInString(s) > titleLen),
			StartTime:  start,
			EndTime:    math.Min(start+clipLength, duration),
			SourceText: s,
			HookScore:  score,
			Reasons:    reasons,
		})
	}

	if len(out) < 2 {
		out = chunkByTiming(sentences, duration, req.MaxCandidates)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].HookScore > out[j].HookScore })
	if len(out) > req.MaxCandidates {
		out = out[:req.MaxCandidates]
	}
	return out
}

// SplitSentences cuts text into terminator-inclusive units and keeps those
// with at least 20 characters after trimming. Trailing text without a
// terminator is dropped unless the text has no terminators at all.
func SplitSentences(text string) []string {
	units := reSentence.FindAllString(text, -1)
	if units == nil {
		units = reTerminator.Split(text, -1)
	}
	out := make([]string, 0, len(units))
	for _, u := range units {
		u = strings.TrimSpace(u)
		if utf8.RuneCountInString(u) < minSentenceLen {
			continue
		}
		out = append(out, u)
	}
	return out
}

// ResolveDuration picks the clip timeline length in seconds.
func ResolveDuration(total float64, segments []types.TimedSegment) float64 {
	if validSeconds(total) && total > 0 {
		return total
	}
	if len(segments) > 0 {
		if d := segments[len(segments)-1].OffsetMillis / 1000; validSeconds(d) {
			return d
		}
	}
	return DefaultDuration
}

func chunkByTiming(sentences []string, duration float64, n int) []types.ClipCandidate {
	step := math.Floor(duration / float64(n))
	chunk := math.Min(maxChunkLength, duration/float64(n))

	out := make([]types.ClipCandidate, 0, n)
	for i := 0; i < n; i++ {
		start := float64(i) * step
		label := fmt.Sprintf("Segment %d", i+1)
		if len(sentences) > 0 && duration > 0 {
			idx := int(math.Floor(start / duration * float64(len(sentences))))
			if idx >= len(sentences) {
				idx = len(sentences) - 1
			}
			label = sentences[idx]
		}
		out = append(out, types.ClipCandidate{
			Title:      fmt.Sprintf("Part %d: %s", i+1, truncateTitle(label, chunkTitleLen, true)),
			StartTime:  start,
			EndTime:    math.Min(start+chunk, duration),
			SourceText: label,
			HookScore:  1,
			Reasons:    []string{chunkReason},
		})
	}
	return out
}

func truncateTitle(s string, n int, ellipsis bool) string {
	r := []rune(s)
	if len(r) > n {
		s = string(r[:n])
	}
	if ellipsis {
		s += "..."
	}
	return s
}

func validSeconds(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
