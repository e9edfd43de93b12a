package subtitles

import (
	"fmt"
	"strings"
	"time"

	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

// Layout selects the canvas the subtitles are positioned on.
type Layout int

const (
	Landscape Layout = iota
	Vertical
)

// RenderClipASS renders subtitles for the [start, end) window of a transcript
// with times relative to the clip start. Word timings produce karaoke lines;
// caption-only transcripts produce one event per overlapping segment.
func RenderClipASS(tr types.Transcript, start, end time.Duration, layout Layout) (string, error) {
	if end <= start {
		return "", fmt.Errorf("subtitles: empty window %s-%s", start, end)
	}
	if words := collectWords(tr, start, end); len(words) > 0 {
		return renderKaraoke(packWords(words, layout), layout), nil
	}
	return renderCues(collectCues(tr, start, end), layout), nil
}

type wword struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

type line struct {
	Start time.Duration
	End   time.Duration
	Words []wword
}

type cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

func collectWords(tr types.Transcript, start, end time.Duration) []wword {
	var out []wword
	for _, s := range tr.Segments {
		for _, w := range s.Words {
			ws, we, ok := clampWindow(dur(w.Start), dur(w.End), start, end)
			text := strings.TrimSpace(w.Word)
			if !ok || text == "" {
				continue
			}
			out = append(out, wword{Start: ws, End: we, Text: sanitizeASS(text)})
		}
	}
	return out
}

func collectCues(tr types.Transcript, start, end time.Duration) []cue {
	var out []cue
	for _, s := range tr.Segments {
		ss, se, ok := clampWindow(dur(s.Start), dur(s.End), start, end)
		text := strings.TrimSpace(s.Text)
		if !ok || text == "" {
			continue
		}
		out = append(out, cue{Start: ss, End: se, Text: sanitizeASS(text)})
	}
	return out
}

// clampWindow trims [s, e) to the clip window and shifts it to clip-local time.
func clampWindow(s, e, start, end time.Duration) (time.Duration, time.Duration, bool) {
	if e <= start || s >= end || e <= s {
		return 0, 0, false
	}
	if s < start {
		s = start
	}
	if e > end {
		e = end
	}
	return s - start, e - start, true
}

func packWords(words []wword, layout Layout) []line {
	charBudget, wordBudget := 42, 9
	if layout == Vertical {
		charBudget, wordBudget = 24, 5
	}

	var out []line
	cur := line{Start: words[0].Start}
	curLen := 0
	for i, w := range words {
		wl := len([]rune(w.Text))
		nextLen := curLen + wl
		if curLen > 0 {
			nextLen++
		}
		if len(cur.Words) > 0 && (len(cur.Words) >= wordBudget || nextLen > charBudget) {
			cur.End = cur.Words[len(cur.Words)-1].End
			out = append(out, cur)
			cur = line{Start: w.Start}
			curLen = 0
		}
		cur.Words = append(cur.Words, w)
		if curLen > 0 {
			curLen++
		}
		curLen += wl
		if i == len(words)-1 {
			cur.End = w.End
			out = append(out, cur)
		}
	}
	return out
}

func renderKaraoke(lines []line, layout Layout) string {
	var b strings.Builder
	writeHeader(&b, layout)
	for _, ln := range lines {
		writeDialogueStart(&b, ln.Start, ln.End)
		parts := make([]string, 0, len(ln.Words))
		for _, w := range ln.Words {
			cs := int((w.End - w.Start) / (10 * time.Millisecond))
			if cs < 1 {
				cs = 1
			}
			parts = append(parts, fmt.Sprintf("{\\k%d}%s", cs, w.Text))
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCues(cues []cue, layout Layout) string {
	var b strings.Builder
	writeHeader(&b, layout)
	for _, c := range cues {
		writeDialogueStart(&b, c.Start, c.End)
		b.WriteString(c.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func writeDialogueStart(b *strings.Builder, start, end time.Duration) {
	fmt.Fprintf(b, "Dialogue: 0,%s,%s,Arsenal,,0,0,0,,", assTime(start), assTime(end))
}

func writeHeader(b *strings.Builder, layout Layout) {
	resX, resY, fontSize, marginV := 1920, 1080, 78, 85
	if layout == Vertical {
		resX, resY, fontSize, marginV = 1080, 1920, 84, 320
	}
	fmt.Fprintf(b, `[Script Info]
ScriptType: v4.00+
PlayResX: %d
PlayResY: %d
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Arsenal, Inter, %d, &H00FFFFFF, &H00FFD200, &H00000000, &H64000000, 1,0,0,0,100,100,0,0,1,6,2,2, 60,60,%d,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`, resX, resY, fontSize, marginV)
}

func assTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m := int(d / time.Minute)
	d -= time.Duration(m) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	cs := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
