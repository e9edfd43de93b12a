package content

import (
	"fmt"
	"strings"

	"github.com/adewaleolaore/youtube-arsenal/internal/domain/youtube"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

const (
	// ResponseTranscriptLimit caps the transcript echoed back by the transcript endpoint.
	ResponseTranscriptLimit = 10000
	// PromptTranscriptLimit caps the transcript embedded in generation prompts.
	PromptTranscriptLimit = 8000
	keywordsTranscriptLimit = 6000
	truncatedMarker         = "...(truncated)"
)

var (
	SummaryOptions     = types.GenerateOptions{Temperature: 0.7, TopP: 0.9, TopK: 40}
	DescriptionOptions = types.GenerateOptions{Temperature: 0.8, TopP: 0.9, TopK: 40}
	KeywordsOptions    = types.GenerateOptions{Temperature: 0.6, TopP: 0.8, TopK: 40}
	ClipsOptions       = types.GenerateOptions{Temperature: 0.9, TopP: 0.95, TopK: 50}
)

// VideoText is the material a generation prompt is built from.
type VideoText struct {
	Title               string
	Transcript          string
	Description         string
	Summary             string
	OriginalDescription string
}

// Truncate keeps the first limit runes of s and appends a marker when
// anything was cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + truncatedMarker
}

func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func SummaryPrompt(v VideoText) string {
	var b strings.Builder
	b.WriteString("Please create a concise, engaging summary of this YouTube video based on its transcript.\n\n")
	fmt.Fprintf(&b, "Video Title: %q\n", v.Title)
	if v.Description != "" {
		fmt.Fprintf(&b, "Original Description: %q\n", head(v.Description, 500))
	}
	fmt.Fprintf(&b, "Transcript: %q\n\n", Truncate(v.Transcript, PromptTranscriptLimit))
	b.WriteString("Write a summary that:\n")
	b.WriteString("- Captures the main points and key takeaways\n")
	b.WriteString("- Is 150-300 words long\n")
	b.WriteString("- Uses clear, accessible language\n")
	b.WriteString("- Is organized in short paragraphs\n")
	b.WriteString("- DO NOT use emojis\n\n")
	b.WriteString("Summary:")
	return b.String()
}

func DescriptionPrompt(v VideoText) string {
	lines := []string{
		"Create an engaging YouTube video description based on this video content:",
		"",
		fmt.Sprintf("Video Title: %q", v.Title),
	}
	if v.Summary != "" {
		lines = append(lines, fmt.Sprintf("Summary: %q", v.Summary))
	}
	if v.Transcript != "" {
		lines = append(lines, fmt.Sprintf("Transcript: %q", Truncate(v.Transcript, PromptTranscriptLimit)))
	}
	if v.OriginalDescription != "" {
		lines = append(lines, fmt.Sprintf("Original Description: %q", head(v.OriginalDescription, 1000)))
	}
	lines = append(lines,
		"",
		"Generate a compelling YouTube description that:",
		"- Starts with a hook that makes people want to watch",
		"- Includes key points and value propositions",
		"- Has clear calls-to-action",
		"- Uses proper formatting with line breaks",
		"- Includes relevant hashtags at the end",
		"- Is optimized for YouTube SEO",
		"- DO NOT use emojis",
		"- Keep it professional and engaging",
		"",
		"YouTube Description:",
	)
	return strings.Join(lines, "\n")
}

func KeywordsPrompt(v VideoText) string {
	var b strings.Builder
	b.WriteString("Based on this YouTube video content, generate relevant keywords and tags for SEO optimization:\n\n")
	fmt.Fprintf(&b, "Video Title: %q\n", v.Title)
	if v.Summary != "" {
		fmt.Fprintf(&b, "Summary: %q\n", v.Summary)
	}
	if v.Transcript != "" {
		fmt.Fprintf(&b, "Transcript: %q\n", Truncate(v.Transcript, keywordsTranscriptLimit))
	}
	b.WriteString(`
Generate 15-25 relevant keywords/tags that would help this video be discovered on YouTube. Include:
- Primary keywords related to the main topic (3-5 keywords)
- Secondary keywords for broader reach (5-8 keywords)
- Long-tail keywords that people might search for (5-7 keywords)
- Trending terms in this niche if applicable (2-5 keywords)

Requirements:
- Each keyword should be 1-4 words long
- Focus on search terms people actually use
- Include both specific and general terms
- Avoid overly generic words

Return as a simple comma-separated list without quotes or numbers.`)
	return b.String()
}

// ClipsPrompt asks the model to rewrite extractor candidates into
// short-form clip suggestions. duration is in seconds; zero omits it.
func ClipsPrompt(title, transcript string, duration int, cands []types.ClipCandidate) string {
	var b strings.Builder
	b.WriteString("Based on this YouTube video content, improve these clip suggestions for YouTube Shorts and viral content:\n\n")
	fmt.Fprintf(&b, "Video Title: %q\n", title)
	if duration > 0 {
		fmt.Fprintf(&b, "Video Duration: %s\n", youtube.FormatDuration(duration))
	}
	fmt.Fprintf(&b, "Transcript excerpt: %q\n\n", Truncate(transcript, PromptTranscriptLimit))
	b.WriteString("Clip suggestions found by analysis:\n")

	items := make([]string, 0, len(cands))
	for i, c := range cands {
		items = append(items, fmt.Sprintf("%d. \"%s\" (%gs-%gs) - Score: %d\n  Reason: %s\n  Content: \"%s...\"",
			i+1, c.Title, c.StartTime, c.EndTime, c.HookScore, c.Reason(), head(c.SourceText, 150)))
	}
	b.WriteString(strings.Join(items, "\n\n"))

	b.WriteString(`

For each clip, write an attention-grabbing title, rate its viral potential and suggest a posting strategy.
Keep the original start and end times unless a nearby boundary is clearly better.
Respond with JSON only, in this format:
{
  "clips": [
    {
      "originalTitle": "original title",
      "improvedTitle": "VIRAL TITLE HERE",
      "startTime": 123,
      "endTime": 178,
      "duration": 55,
      "hookScore": 5,
      "viralPotential": "HIGH/MEDIUM/LOW",
      "reason": "why this clip works",
      "strategy": "posting tips and hashtags",
      "transcript": "actual content from the clip for preview"
    }
  ]
}`)
	return b.String()
}

// WordCount counts whitespace separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
