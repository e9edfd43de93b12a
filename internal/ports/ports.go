package ports

import (
	"context"
	"errors"
	"time"

	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

var (
	ErrQuotaExceeded    = errors.New("ai quota exceeded")
	ErrNoCaptions       = errors.New("no captions available")
	ErrVideoUnavailable = errors.New("video unavailable")
	ErrNotFound         = errors.New("not found")
)

// VideoSource fetches everything the app needs from the hosting platform.
type VideoSource interface {
	Metadata(ctx context.Context, videoID string) (types.VideoMetadata, error)
	Captions(ctx context.Context, videoID, workDir string) (types.Transcript, error)
	DownloadVideo(ctx context.Context, videoID, outMP4 string) error
	DownloadAudio(ctx context.Context, videoID, outPath string) (string, error)
}

type RenderOptions struct {
	CropVertical bool
	BurnASS      string
}

type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, in, outWav string) error
	RenderClip(ctx context.Context, inMP4 string, start, end time.Duration, outMP4 string, opts RenderOptions) error
	ProbeDuration(ctx context.Context, inMP4 string) (time.Duration, error)
}

type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}

// Generator is a text-in, text-out generative model.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts types.GenerateOptions) (string, error)
}

type VideoRecord struct {
	UserID               uint
	YoutubeURL           string
	VideoID              string
	Title                string
	Description          string
	Transcript           string
	Duration             int
	ThumbnailURL         string
	Summary              string
	GeneratedDescription string
	Keywords             []string
	Clips                []ClipRecord
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type ClipRecord struct {
	Title             string
	StartTime         float64
	EndTime           float64
	TranscriptExcerpt string
	HookScore         int
	CreatedAt         time.Time
}

// Analysis holds optional generated fields; nil pointers are left untouched.
type Analysis struct {
	Summary              *string
	GeneratedDescription *string
	Keywords             []string
}

type Stats struct {
	TotalVideos int64
	TotalClips  int64
}

type VideoStore interface {
	SaveVideo(ctx context.Context, v VideoRecord) error
	UpdateAnalysis(ctx context.Context, userID uint, videoID string, a Analysis) error
	ReplaceClips(ctx context.Context, userID uint, videoID string, clips []ClipRecord) error
	GetVideo(ctx context.Context, userID uint, videoID string) (VideoRecord, error)
	ListVideos(ctx context.Context, userID uint, limit int) ([]VideoRecord, error)
	Stats(ctx context.Context, userID uint) (Stats, error)
}
