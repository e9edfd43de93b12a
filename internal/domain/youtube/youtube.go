package youtube

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrNoVideoID = errors.New("could not extract video ID from URL")

var (
	reValidURL = regexp.MustCompile(`^(https?://)?(www\.|m\.)?(youtube\.com|youtu\.be)/.+`)
	reBareID   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

	idPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#/]+)`),
		regexp.MustCompile(`youtube\.com/v/([^&\n?#/]+)`),
		regexp.MustCompile(`youtube\.com/shorts/([^&\n?#/]+)`),
		regexp.MustCompile(`youtube\.com/live/([^&\n?#/]+)`),
	}
)

// IsValidURL reports whether s looks like a youtube.com or youtu.be link.
func IsValidURL(s string) bool {
	return reValidURL.MatchString(strings.TrimSpace(s))
}

// ExtractVideoID returns the video id from any supported URL shape, or s
// itself when it already is a bare 11 character id.
func ExtractVideoID(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, re := range idPatterns {
		if m := re.FindStringSubmatch(s); len(m) > 1 && m[1] != "" {
			return m[1], nil
		}
	}
	if reBareID.MatchString(s) {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNoVideoID, s)
}

// WatchURL is the canonical link handed to yt-dlp.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// FormatDuration renders seconds as H:MM:SS, or M:SS below an hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
