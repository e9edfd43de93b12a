package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adewaleolaore/youtube-arsenal/internal/domain/captions"
	"github.com/adewaleolaore/youtube-arsenal/internal/domain/content"
	"github.com/adewaleolaore/youtube-arsenal/internal/domain/highlights"
	"github.com/adewaleolaore/youtube-arsenal/internal/domain/subtitles"
	"github.com/adewaleolaore/youtube-arsenal/internal/domain/youtube"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

const (
	snapMinClip = 10 * time.Second
	snapMaxClip = 60 * time.Second
)

// Input configures one batch run. Either URL or TranscriptFile is set.
type Input struct {
	URL            string
	TranscriptFile string
	ClipsN         int
	Distinct       bool
	Enhance        bool
	Render         bool
	Vertical       bool
	BurnSubtitles  bool
	Snap           bool
	OutDir         string
}

type Result struct {
	Manifest types.Manifest
}

type source struct {
	videoID    string
	title      string
	duration   float64
	transcript types.Transcript
	// timed is nil for transcripts without timing, which makes the
	// extractor assume its default duration.
	timed []types.TimedSegment
}

// Run extracts clips for one video or transcript file and optionally
// renders them into OutDir.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	if in.Render && in.TranscriptFile != "" {
		return Result{}, invalid("rendering needs a video URL, not a transcript file", nil)
	}

	src, err := u.loadSource(ctx, in)
	if err != nil {
		return Result{}, err
	}
	text := src.transcript.Text()
	cands := u.candidates(text, src.timed, in.ClipsN, src.duration, in.Distinct)
	u.d.Log.WithField("candidates", len(cands)).Info("candidates extracted")

	clips := plainClips(cands)
	if in.Enhance && len(cands) > 0 {
		reply, err := u.generate(ctx, "clips", content.ClipsPrompt(src.title, text, int(src.duration), cands), content.ClipsOptions)
		if err != nil {
			return Result{}, err
		}
		var ok bool
		if clips, ok = content.EnhanceClips(reply, cands); !ok {
			u.d.Log.Warn("model reply was not valid JSON, using heuristic clips")
		}
	}

	m := types.Manifest{
		Input:   firstNonEmpty(in.URL, in.TranscriptFile),
		VideoID: src.videoID,
		Title:   src.title,
		Created: time.Now().UTC(),
		Clips:   make([]types.ManifestClip, 0, len(clips)),
	}

	var (
		videoPath string
		videoLen  time.Duration
	)
	if in.Render && len(clips) > 0 {
		if videoPath, err = u.cachedVideo(ctx, src.videoID); err != nil {
			return Result{}, err
		}
		// estimated windows can run past the real end of the file
		if videoLen, err = u.d.Video.ProbeDuration(ctx, videoPath); err != nil {
			u.d.Log.WithError(err).Warn("probe duration failed, clips are not clamped")
			videoLen = 0
		}
	}

	layout := subtitles.Landscape
	if in.Vertical {
		layout = subtitles.Vertical
	}
	for i, c := range clips {
		id := fmt.Sprintf("%03d", i+1)
		start := secondsToDuration(c.StartTime)
		end := secondsToDuration(c.EndTime)
		if in.Snap {
			end = highlights.SnapEnd(src.transcript, start, end, minDur(snapMinClip, end-start), snapMaxClip)
		}
		if videoLen > 0 && end > videoLen {
			end = videoLen
		}

		mc := types.ManifestClip{
			ID:             id,
			StartSec:       start.Seconds(),
			EndSec:         end.Seconds(),
			HookScore:      c.HookScore,
			ViralPotential: string(c.ViralPotential),
			Title:          firstNonEmpty(c.ImprovedTitle, c.OriginalTitle),
			Reasons:        splitReason(c.Reason),
			Strategy:       c.Strategy,
			Text:           c.Transcript,
		}

		if in.Render && end <= start {
			u.d.Log.WithField("clip", id).Warn("skipping render of empty clip")
		} else if in.Render {
			opts := ports.RenderOptions{CropVertical: in.Vertical}
			if in.BurnSubtitles {
				ass, err := subtitles.RenderClipASS(src.transcript, start, end, layout)
				if err != nil {
					return Result{}, err
				}
				assPath := filepath.Join(in.OutDir, "subtitles", id+".ass")
				if err := writeFile(assPath, []byte(ass)); err != nil {
					return Result{}, err
				}
				opts.BurnASS = assPath
				mc.Subtitles = filepath.ToSlash(filepath.Join("subtitles", id+".ass"))
			}
			clipPath := filepath.Join(in.OutDir, "clips", id+".mp4")
			if err := u.d.Video.RenderClip(ctx, videoPath, start, end, clipPath, opts); err != nil {
				return Result{}, fmt.Errorf("render clip %s: %w", id, err)
			}
			mc.File = filepath.ToSlash(filepath.Join("clips", id+".mp4"))
			u.d.Log.WithField("clip", id).Info("clip rendered")
		}
		m.Clips = append(m.Clips, mc)
	}
	return Result{Manifest: m}, nil
}

func (u Usecase) loadSource(ctx context.Context, in Input) (source, error) {
	if in.TranscriptFile != "" {
		tr, err := ReadTranscriptFile(in.TranscriptFile)
		if err != nil {
			return source{}, err
		}
		name := strings.TrimSuffix(filepath.Base(in.TranscriptFile), filepath.Ext(in.TranscriptFile))
		src := source{title: name, transcript: tr}
		if hasTiming(tr) {
			src.timed = tr.Timed()
		}
		return src, nil
	}

	videoID, err := youtube.ExtractVideoID(in.URL)
	if err != nil {
		return source{}, invalid(MsgInvalidURL, err)
	}
	md, err := u.d.Source.Metadata(ctx, videoID)
	if err != nil {
		return source{}, fmt.Errorf("metadata: %w", err)
	}
	tr, fromASR, err := u.fetchTranscript(ctx, videoID)
	if err != nil {
		return source{}, fmt.Errorf("transcript: %w", err)
	}
	u.d.Log.WithField("asr", fromASR).Infof("transcript ready: %d segments", len(tr.Segments))
	return source{videoID: videoID, title: md.Title, duration: float64(md.Duration), transcript: tr, timed: tr.Timed()}, nil
}

// ReadTranscriptFile loads a WebVTT file or, for any other extension, plain
// text as a single untimed segment.
func ReadTranscriptFile(path string) (types.Transcript, error) {
	if strings.EqualFold(filepath.Ext(path), ".vtt") {
		f, err := os.Open(path)
		if err != nil {
			return types.Transcript{}, err
		}
		defer f.Close()
		return captions.ParseVTT(f)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Transcript{}, err
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return types.Transcript{}, invalid("transcript file is empty", nil)
	}
	return types.Transcript{Segments: []types.Segment{{Text: text}}}, nil
}

// plainClips presents raw candidates in the enhanced shape without a model pass.
func plainClips(cands []types.ClipCandidate) []types.EnhancedClip {
	out := make([]types.EnhancedClip, 0, len(cands))
	for _, c := range cands {
		out = append(out, types.EnhancedClip{
			OriginalTitle:  c.Title,
			ImprovedTitle:  c.Title,
			StartTime:      c.StartTime,
			EndTime:        c.EndTime,
			Duration:       c.EndTime - c.StartTime,
			HookScore:      c.HookScore,
			ViralPotential: highlights.ViralPotential(c.HookScore),
			Reason:         c.Reason(),
			Transcript:     c.SourceText,
		})
	}
	return out
}

func hasTiming(tr types.Transcript) bool {
	for _, s := range tr.Segments {
		if s.Start > 0 || s.End > 0 {
			return true
		}
	}
	return false
}

func splitReason(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ", ")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
