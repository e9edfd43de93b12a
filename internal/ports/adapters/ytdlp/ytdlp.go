package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/adewaleolaore/youtube-arsenal/internal/domain/captions"
	"github.com/adewaleolaore/youtube-arsenal/internal/domain/youtube"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

// subtitle languages in order of preference
var subLangs = []string{"en", "en-US", "en-GB", "en-orig"}

type runFunc func(ctx context.Context, args ...string) (stdout, stderr []byte, err error)

type Adapter struct {
	run runFunc
	log *logrus.Entry
}

func New(bin string, log *logrus.Logger) *Adapter {
	if bin == "" {
		bin = "yt-dlp"
	}
	entry := log.WithField("component", "ytdlp")
	return &Adapter{
		log: entry,
		run: func(ctx context.Context, args ...string) ([]byte, []byte, error) {
			entry.Debugln(bin, strings.Join(args, " "))
			cmd := exec.CommandContext(ctx, bin, args...)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr
			err := cmd.Run()
			return stdout.Bytes(), stderr.Bytes(), err
		},
	}
}

type videoInfo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Thumbnail   string  `json:"thumbnail"`
	Uploader    string  `json:"uploader"`
	Channel     string  `json:"channel"`
	ViewCount   int64   `json:"view_count"`
	UploadDate  string  `json:"upload_date"`
}

func (a *Adapter) Metadata(ctx context.Context, videoID string) (types.VideoMetadata, error) {
	stdout, stderr, err := a.run(ctx, "--dump-json", "--skip-download", "--no-warnings", "--no-playlist", youtube.WatchURL(videoID))
	if err != nil {
		return types.VideoMetadata{}, classify("yt-dlp metadata", err, stderr)
	}
	var info videoInfo
	if err := json.Unmarshal(stdout, &info); err != nil {
		return types.VideoMetadata{}, fmt.Errorf("yt-dlp metadata: decode: %w", err)
	}
	author := info.Channel
	if author == "" {
		author = info.Uploader
	}
	return types.VideoMetadata{
		VideoID:     videoID,
		Title:       info.Title,
		Description: info.Description,
		Duration:    int(info.Duration),
		Thumbnail:   info.Thumbnail,
		Author:      author,
		ViewCount:   info.ViewCount,
		PublishDate: formatUploadDate(info.UploadDate),
	}, nil
}

// Captions downloads manual or automatic English subtitles into workDir and
// parses the best match.
func (a *Adapter) Captions(ctx context.Context, videoID, workDir string) (types.Transcript, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return types.Transcript{}, err
	}
	_, stderr, err := a.run(ctx,
		"--skip-download",
		"--write-sub",
		"--write-auto-sub",
		"--sub-lang", strings.Join(subLangs, ","),
		"--sub-format", "vtt",
		"--no-warnings",
		"--no-playlist",
		"-o", filepath.Join(workDir, videoID+".%(ext)s"),
		youtube.WatchURL(videoID),
	)
	if err != nil {
		return types.Transcript{}, classify("yt-dlp captions", err, stderr)
	}

	path, ok := pickSubtitle(workDir, videoID)
	if !ok {
		return types.Transcript{}, fmt.Errorf("video %s: %w", videoID, ports.ErrNoCaptions)
	}
	f, err := os.Open(path)
	if err != nil {
		return types.Transcript{}, err
	}
	defer f.Close()

	tr, err := captions.ParseVTT(f)
	if errors.Is(err, captions.ErrEmpty) {
		return types.Transcript{}, fmt.Errorf("video %s: %w", videoID, ports.ErrNoCaptions)
	}
	if err != nil {
		return types.Transcript{}, err
	}
	a.log.WithFields(logrus.Fields{"video_id": videoID, "file": filepath.Base(path), "segments": len(tr.Segments)}).Info("captions parsed")
	return tr, nil
}

func (a *Adapter) DownloadVideo(ctx context.Context, videoID, outMP4 string) error {
	if err := os.MkdirAll(filepath.Dir(outMP4), 0o755); err != nil {
		return err
	}
	_, stderr, err := a.run(ctx,
		"-f", "bv*[ext=mp4][height<=1080]+ba[ext=m4a]/b[ext=mp4][height<=1080]/b",
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--no-warnings",
		"-o", outMP4,
		youtube.WatchURL(videoID),
	)
	if err != nil {
		return classify("yt-dlp download video", err, stderr)
	}
	return nil
}

// DownloadAudio fetches the best audio stream next to outPrefix and returns
// the written file path.
func (a *Adapter) DownloadAudio(ctx context.Context, videoID, outPrefix string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outPrefix), 0o755); err != nil {
		return "", err
	}
	_, stderr, err := a.run(ctx,
		"-f", "bestaudio",
		"--no-playlist",
		"--no-warnings",
		"-o", outPrefix+".%(ext)s",
		youtube.WatchURL(videoID),
	)
	if err != nil {
		return "", classify("yt-dlp download audio", err, stderr)
	}
	matches, _ := filepath.Glob(outPrefix + ".*")
	for _, m := range matches {
		if !strings.HasSuffix(m, ".part") {
			return m, nil
		}
	}
	return "", fmt.Errorf("yt-dlp download audio: no file written for %s", videoID)
}

func pickSubtitle(dir, videoID string) (string, bool) {
	for _, lang := range subLangs {
		p := filepath.Join(dir, fmt.Sprintf("%s.%s.vtt", videoID, lang))
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	matches, _ := filepath.Glob(filepath.Join(dir, videoID+".*.vtt"))
	if len(matches) > 0 {
		return matches[0], true
	}
	return "", false
}

var unavailableMarkers = []string{
	"video unavailable",
	"private video",
	"has been removed",
	"sign in to confirm your age",
	"is not available",
}

func classify(op string, err error, stderr []byte) error {
	msg := strings.TrimSpace(string(stderr))
	lower := strings.ToLower(msg)
	for _, m := range unavailableMarkers {
		if strings.Contains(lower, m) {
			return fmt.Errorf("%s: %w: %s", op, ports.ErrVideoUnavailable, msg)
		}
	}
	return fmt.Errorf("%s: %w\n%s", op, err, msg)
}

func formatUploadDate(s string) string {
	if len(s) != 8 {
		return s
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:]
}
