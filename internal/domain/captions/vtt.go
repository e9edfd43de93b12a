package captions

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

var ErrEmpty = errors.New("captions: no cues found")

var (
	reTag    = regexp.MustCompile(`<[^>]+>`)
	reHeader = regexp.MustCompile(`^(WEBVTT|Kind:|Language:|NOTE|STYLE|REGION)`)
)

// ParseVTT reads WebVTT captions into transcript segments. Inline timing and
// styling tags are stripped and the rolling repeats of auto-generated
// captions are collapsed.
func ParseVTT(r io.Reader) (types.Transcript, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		tr       types.Transcript
		cur      *types.Segment
		lastLine string
	)
	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Text) != "" {
			cur.Text = strings.TrimSpace(cur.Text)
			tr.Segments = append(tr.Segments, *cur)
		}
		cur = nil
	}

	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		switch {
		case line == "":
			flush()
			continue
		case strings.Contains(line, "-->"):
			flush()
			start, end, err := parseCueTiming(line)
			if err != nil {
				return types.Transcript{}, err
			}
			cur = &types.Segment{Start: start, End: end}
			continue
		case cur == nil:
			// cue identifiers, headers and style blocks
			continue
		case reHeader.MatchString(line):
			continue
		}

		text := strings.TrimSpace(reTag.ReplaceAllString(line, ""))
		text = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&nbsp;", " ").Replace(text)
		if text == "" || text == lastLine {
			continue
		}
		lastLine = text
		if cur.Text != "" {
			cur.Text += " "
		}
		cur.Text += text
	}
	if err := sc.Err(); err != nil {
		return types.Transcript{}, fmt.Errorf("read captions: %w", err)
	}
	flush()

	if len(tr.Segments) == 0 {
		return types.Transcript{}, ErrEmpty
	}
	return tr, nil
}

func parseCueTiming(line string) (float64, float64, error) {
	parts := strings.SplitN(line, "-->", 2)
	start, err := parseTimestamp(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("cue start %q: %w", line, err)
	}
	// cue settings follow the end timestamp
	endField := strings.Fields(parts[1])
	if len(endField) == 0 {
		return 0, 0, fmt.Errorf("cue end %q: missing", line)
	}
	end, err := parseTimestamp(endField[0])
	if err != nil {
		return 0, 0, fmt.Errorf("cue end %q: %w", line, err)
	}
	return start, end, nil
}

// parseTimestamp accepts HH:MM:SS.mmm and MM:SS.mmm, with ',' allowed as
// the fraction separator.
func parseTimestamp(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	fields := strings.Split(s, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	var total float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		if i < len(fields)-1 && strings.Contains(f, ".") {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total = total*60 + v
	}
	return total, nil
}
