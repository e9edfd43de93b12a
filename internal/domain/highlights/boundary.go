package highlights

import (
	"sort"
	"strings"
	"time"

	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

const (
	snapExtend      = 2 * time.Second
	pauseThreshold  = 350 * time.Millisecond
	pauseLookback   = 8 * time.Second
	distancePenalty = 0.30
)

type timedWord struct {
	start, end time.Duration
	text       string
}

// SnapEnd moves a clip end onto a natural stop near the requested end: the
// best sentence-final word, else the longest pause, else the latest segment
// end. The result stays within [start+minLen, start+maxLen]. Transcripts
// without timing inside the window return end unchanged (clamped).
func SnapEnd(tr types.Transcript, start, end, minLen, maxLen time.Duration) time.Duration {
	minEnd, maxEnd := start+minLen, start+maxLen
	if end > maxEnd {
		end = maxEnd
	}
	if end < minEnd {
		end = minEnd
	}
	searchEnd := end + snapExtend
	if searchEnd > maxEnd {
		searchEnd = maxEnd
	}

	words, segEnds := collectTiming(tr)
	if e, ok := bestSentenceEnd(words, end, minEnd, searchEnd); ok {
		return e
	}
	if e, ok := longestPause(words, minEnd, searchEnd); ok {
		return e
	}
	var best time.Duration
	for _, se := range segEnds {
		if se >= minEnd && se <= searchEnd && se > best {
			best = se
		}
	}
	if best > 0 {
		return best
	}
	return end
}

func collectTiming(tr types.Transcript) ([]timedWord, []time.Duration) {
	var words []timedWord
	segEnds := make([]time.Duration, 0, len(tr.Segments))
	for _, s := range tr.Segments {
		if s.End > 0 {
			segEnds = append(segEnds, seconds(s.End))
		}
		for _, w := range s.Words {
			txt := strings.TrimSpace(w.Word)
			if txt == "" || w.End <= w.Start {
				continue
			}
			words = append(words, timedWord{start: seconds(w.Start), end: seconds(w.End), text: txt})
		}
	}
	sort.Slice(words, func(i, j int) bool { return words[i].start < words[j].start })
	return words, segEnds
}

func bestSentenceEnd(words []timedWord, requested, minEnd, searchEnd time.Duration) (time.Duration, bool) {
	found := false
	var bestEnd time.Duration
	bestScore := 0.0
	for i, w := range words {
		if w.end < minEnd || w.end > searchEnd || !endsSentence(w.text) {
			continue
		}
		var pause time.Duration
		if i+1 < len(words) && words[i+1].start > w.end {
			pause = words[i+1].start - w.end
		}
		score := -distancePenalty * absDur(w.end-requested).Seconds()
		switch {
		case pause >= 450*time.Millisecond:
			score += 1.0
		case pause >= 250*time.Millisecond:
			score += 0.4
		case pause < 120*time.Millisecond && i+1 < len(words):
			score -= 0.35
		}
		// a question usually sets up the next line
		if strings.HasSuffix(strings.TrimRight(w.text, `"')]}`), "?") && pause < 450*time.Millisecond {
			score -= 2.4
		}
		if !found || score > bestScore || (score == bestScore && w.end > bestEnd) {
			found, bestScore, bestEnd = true, score, w.end
		}
	}
	return bestEnd, found
}

func longestPause(words []timedWord, minEnd, searchEnd time.Duration) (time.Duration, bool) {
	from := searchEnd - pauseLookback
	if from < minEnd {
		from = minEnd
	}
	var bestGap, bestEnd time.Duration
	for i := 0; i+1 < len(words); i++ {
		cur, next := words[i], words[i+1]
		if cur.end < from || cur.end > searchEnd || next.start <= cur.end {
			continue
		}
		if gap := next.start - cur.end; gap >= pauseThreshold && gap > bestGap {
			bestGap, bestEnd = gap, cur.end
		}
	}
	return bestEnd, bestGap > 0
}

func endsSentence(s string) bool {
	s = strings.TrimRight(strings.TrimSpace(s), `"')]}`+"`")
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func seconds(v float64) time.Duration { return time.Duration(v * float64(time.Second)) }

func absDur(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
