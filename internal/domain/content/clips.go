package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/adewaleolaore/youtube-arsenal/internal/domain/highlights"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

// FallbackStrategy is attached to clips when the model response could not be parsed.
const FallbackStrategy = "Post during peak hours (7-9 PM), use trending hashtags"

var reNumbered = regexp.MustCompile(`^[0-9]+\.\s*`)

type rawClip struct {
	OriginalTitle  string  `json:"originalTitle"`
	ImprovedTitle  string  `json:"improvedTitle"`
	Title          string  `json:"title"`
	StartTime      float64 `json:"startTime"`
	EndTime        float64 `json:"endTime"`
	Duration       float64 `json:"duration"`
	HookScore      float64 `json:"hookScore"`
	ViralPotential string  `json:"viralPotential"`
	Reason         string  `json:"reason"`
	Strategy       string  `json:"strategy"`
	Transcript     string  `json:"transcript"`
}

// EnhanceClips merges a model response with the extractor candidates it was
// prompted with. The second return value reports whether the response was
// usable JSON; otherwise the clips are derived from the candidates alone.
func EnhanceClips(response string, cands []types.ClipCandidate) ([]types.EnhancedClip, bool) {
	if clips, err := parseClipsJSON(response, cands); err == nil {
		return clips, true
	}
	return fallbackClips(response, cands), false
}

func parseClipsJSON(response string, cands []types.ClipCandidate) ([]types.EnhancedClip, error) {
	obj, err := ExtractJSONObject(response)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Clips []rawClip `json:"clips"`
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, fmt.Errorf("decode clips: %w", err)
	}
	if len(payload.Clips) == 0 {
		return nil, errors.New("decode clips: no clips in response")
	}

	out := make([]types.EnhancedClip, 0, len(payload.Clips))
	for i, rc := range payload.Clips {
		score := int(rc.HookScore)
		clip := types.EnhancedClip{
			OriginalTitle:  rc.OriginalTitle,
			ImprovedTitle:  rc.ImprovedTitle,
			StartTime:      rc.StartTime,
			EndTime:        rc.EndTime,
			Duration:       rc.Duration,
			HookScore:      score,
			ViralPotential: normalizeViral(rc.ViralPotential, score),
			Reason:         rc.Reason,
			Strategy:       rc.Strategy,
			Transcript:     rc.Transcript,
		}
		if clip.ImprovedTitle == "" {
			clip.ImprovedTitle = rc.Title
		}
		if clip.Duration <= 0 && clip.EndTime > clip.StartTime {
			clip.Duration = clip.EndTime - clip.StartTime
		}
		if i < len(cands) {
			if clip.OriginalTitle == "" {
				clip.OriginalTitle = cands[i].Title
			}
			if cands[i].SourceText != "" {
				clip.Transcript = cands[i].SourceText
			}
		}
		out = append(out, clip)
	}
	return out, nil
}

func fallbackClips(response string, cands []types.ClipCandidate) []types.EnhancedClip {
	var titles []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if reNumbered.MatchString(line) {
			titles = append(titles, strings.TrimSpace(reNumbered.ReplaceAllString(line, "")))
		}
	}

	out := make([]types.EnhancedClip, 0, len(cands))
	for i, c := range cands {
		title := c.Title
		if i < len(titles) && titles[i] != "" {
			title = titles[i]
		}
		out = append(out, types.EnhancedClip{
			OriginalTitle:  c.Title,
			ImprovedTitle:  title,
			StartTime:      c.StartTime,
			EndTime:        c.EndTime,
			Duration:       c.EndTime - c.StartTime,
			HookScore:      c.HookScore,
			ViralPotential: highlights.ViralPotential(c.HookScore),
			Reason:         c.Reason(),
			Strategy:       FallbackStrategy,
			Transcript:     c.SourceText,
		})
	}
	return out
}

func normalizeViral(s string, score int) types.ViralPotential {
	switch v := types.ViralPotential(strings.ToUpper(strings.TrimSpace(s))); v {
	case types.ViralHigh, types.ViralMedium, types.ViralLow:
		return v
	}
	return highlights.ViralPotential(score)
}

// ExtractJSONObject locates the JSON object in a model response, skipping
// markdown fences and any surrounding prose.
func ExtractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("empty response")
	}

	if i := strings.Index(t, "```json"); i >= 0 {
		t = fenced(t[i+len("```json"):])
	} else if i := strings.Index(t, "```"); i >= 0 {
		t = fenced(t[i+len("```"):])
	}

	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}
	return "", fmt.Errorf("could not locate JSON object in: %q", head(t, 200))
}

func fenced(rest string) string {
	if j := strings.Index(rest, "```"); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

// HighViralCount counts clips rated HIGH.
func HighViralCount(clips []types.EnhancedClip) int {
	n := 0
	for _, c := range clips {
		if c.ViralPotential == types.ViralHigh {
			n++
		}
	}
	return n
}
