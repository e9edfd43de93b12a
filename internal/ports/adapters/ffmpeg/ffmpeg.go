package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
)

// verticalCrop keeps a centered 9:16 window of the full frame height.
const verticalCrop = "crop=ih*(9/16):ih:(iw-ow)/2:0"

// ffmpeg prints its whole banner and progress to stderr; errors keep the tail.
const maxErrOutput = 2048

type runFunc func(ctx context.Context, bin string, args ...string) ([]byte, error)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	run     runFunc
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, run: combinedOutput}
}

func combinedOutput(ctx context.Context, bin string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, bin, args...).CombinedOutput()
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	if err := os.MkdirAll(filepath.Dir(outWav), 0o755); err != nil {
		return err
	}
	out, err := a.run(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, tail(out))
	}
	return nil
}

// RenderClip re-encodes [start, end) of inMP4 so cuts land on exact frames.
func (a *Adapter) RenderClip(ctx context.Context, inMP4 string, start, end time.Duration, outMP4 string, opts ports.RenderOptions) error {
	if end <= start {
		return fmt.Errorf("ffmpeg render clip: end %s must be after start %s", end, start)
	}
	if err := os.MkdirAll(filepath.Dir(outMP4), 0o755); err != nil {
		return err
	}
	out, err := a.run(ctx, a.ffmpeg, renderArgs(inMP4, start, end, outMP4, opts)...)
	if err != nil {
		return fmt.Errorf("ffmpeg render clip: %w\n%s", err, tail(out))
	}
	return nil
}

func renderArgs(inMP4 string, start, end time.Duration, outMP4 string, opts ports.RenderOptions) []string {
	args := []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-i", inMP4,
		"-t", fmtSeconds(end - start),
	}
	var filters []string
	if opts.CropVertical {
		filters = append(filters, verticalCrop)
	}
	// subtitles are laid out for the cropped frame, so they go last
	if opts.BurnASS != "" {
		filters = append(filters, "subtitles="+escapeFilterPath(opts.BurnASS))
	}
	if len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}
	return append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "+faststart",
		outMP4,
	)
}

func (a *Adapter) ProbeDuration(ctx context.Context, inMP4 string) (time.Duration, error) {
	out, err := a.run(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inMP4,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, tail(out))
	}
	return parseDuration(string(out))
}

func parseDuration(out string) (time.Duration, error) {
	s := strings.TrimSpace(out)
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil || sec < 0 {
		return 0, fmt.Errorf("parse duration %q: invalid", s)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func fmtSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func escapeFilterPath(p string) string {
	return strings.NewReplacer(`\`, `\\`, ":", `\:`, "'", `\'`).Replace(p)
}

func tail(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrOutput {
		s = "..." + s[len(s)-maxErrOutput:]
	}
	return s
}
