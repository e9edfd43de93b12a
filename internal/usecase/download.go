package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adewaleolaore/youtube-arsenal/internal/domain/youtube"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
)

const maxFileTitle = 50

type DownloadInput struct {
	VideoID      string
	StartTime    float64
	EndTime      float64
	CropVertical bool
	Title        string
}

type DownloadResult struct {
	Path     string
	FileName string
}

// DownloadClip cuts [StartTime, EndTime) out of the source video, fetching
// and caching the video first if needed.
func (u Usecase) DownloadClip(ctx context.Context, in DownloadInput) (DownloadResult, error) {
	if strings.TrimSpace(in.VideoID) == "" {
		return DownloadResult{}, invalid("Video ID is required", nil)
	}
	videoID, err := youtube.ExtractVideoID(in.VideoID)
	if err != nil {
		return DownloadResult{}, invalid("Invalid video ID", err)
	}
	if !finite(in.StartTime) || !finite(in.EndTime) || in.StartTime < 0 || in.EndTime <= in.StartTime {
		return DownloadResult{}, invalid("Invalid time range", nil)
	}

	src, err := u.cachedVideo(ctx, videoID)
	if err != nil {
		return DownloadResult{}, err
	}

	name := sanitizeFileName(in.Title)
	if name == "" {
		name = "clip_" + videoID
	}
	fileName := fmt.Sprintf("%s_%s.mp4", name, uuid.NewString())
	out := filepath.Join(u.d.ClipsDir, fileName)
	if err := os.MkdirAll(u.d.ClipsDir, 0o755); err != nil {
		return DownloadResult{}, err
	}

	start := secondsToDuration(in.StartTime)
	end := secondsToDuration(in.EndTime)
	if err := u.d.Video.RenderClip(ctx, src, start, end, out, ports.RenderOptions{CropVertical: in.CropVertical}); err != nil {
		return DownloadResult{}, fmt.Errorf("render clip: %w", err)
	}
	u.d.Log.WithFields(logrus.Fields{
		"video_id": videoID,
		"file":     fileName,
		"vertical": in.CropVertical,
	}).Info("clip rendered")
	return DownloadResult{Path: out, FileName: fileName}, nil
}

// cachedVideo returns the local copy of a video. Concurrent requests for the
// same video share one download.
func (u Usecase) cachedVideo(ctx context.Context, videoID string) (string, error) {
	path := filepath.Join(u.d.VideosDir, videoID+".mp4")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	_, err, _ := u.videos.Do(videoID, func() (any, error) {
		if _, err := os.Stat(path); err == nil {
			return nil, nil
		}
		u.d.Log.WithField("video_id", videoID).Info("downloading source video")
		tmp := path + ".part.mp4"
		if err := u.d.Source.DownloadVideo(ctx, videoID, tmp); err != nil {
			_ = os.Remove(tmp)
			return nil, err
		}
		return nil, os.Rename(tmp, path)
	})
	if err != nil {
		if errors.Is(err, ports.ErrVideoUnavailable) {
			return "", invalid(MsgMetadataFailed, err)
		}
		return "", fmt.Errorf("download video: %w", err)
	}
	return path, nil
}

func sanitizeFileName(title string) string {
	var b strings.Builder
	prevUnderscore := false
	for _, r := range strings.TrimSpace(title) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			prevUnderscore = false
			continue
		}
		if !prevUnderscore {
			b.WriteByte('_')
			prevUnderscore = true
		}
	}
	s := strings.Trim(b.String(), "_")
	if len(s) > maxFileTitle {
		s = strings.TrimRight(s[:maxFileTitle], "_")
	}
	return s
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
