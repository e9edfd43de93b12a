package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/adewaleolaore/youtube-arsenal/internal/domain/youtube"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

const (
	MsgURLRequired      = "YouTube URL is required"
	MsgInvalidURL       = "Invalid YouTube URL format"
	MsgNoVideoID        = "Could not extract video ID from URL"
	MsgMetadataFailed   = "Failed to fetch video metadata. Video may be private or unavailable."
	MsgTranscriptFailed = "Failed to fetch video transcript. Video may not have captions available."
)

type TranscriptResult struct {
	VideoID    string
	YoutubeURL string
	Metadata   types.VideoMetadata
	Transcript types.Transcript
	// Text is the whitespace-collapsed transcript.
	Text string
	// FromASR reports that captions were missing and speech recognition was used.
	FromASR bool
}

// ExtractTranscript resolves a YouTube URL into metadata and transcript
// text and remembers the video for the user.
func (u Usecase) ExtractTranscript(ctx context.Context, userID uint, rawURL string) (TranscriptResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return TranscriptResult{}, invalid(MsgURLRequired, nil)
	}
	if !youtube.IsValidURL(rawURL) {
		return TranscriptResult{}, invalid(MsgInvalidURL, nil)
	}
	videoID, err := youtube.ExtractVideoID(rawURL)
	if err != nil {
		return TranscriptResult{}, invalid(MsgNoVideoID, err)
	}
	log := u.d.Log.WithField("video_id", videoID)

	md, err := u.d.Source.Metadata(ctx, videoID)
	if err != nil {
		log.WithError(err).Warn("metadata fetch failed")
		return TranscriptResult{}, invalid(MsgMetadataFailed, err)
	}

	tr, fromASR, err := u.fetchTranscript(ctx, videoID)
	if err != nil {
		log.WithError(err).Warn("transcript fetch failed")
		return TranscriptResult{}, invalid(MsgTranscriptFailed, err)
	}
	text := tr.Text()
	if text == "" {
		return TranscriptResult{}, invalid(MsgTranscriptFailed, ports.ErrNoCaptions)
	}

	res := TranscriptResult{
		VideoID:    videoID,
		YoutubeURL: rawURL,
		Metadata:   md,
		Transcript: tr,
		Text:       text,
		FromASR:    fromASR,
	}
	log.WithFields(logrus.Fields{"chars": len(text), "asr": fromASR}).Info("transcript extracted")

	if u.d.Store != nil && userID != 0 {
		err := u.d.Store.SaveVideo(ctx, ports.VideoRecord{
			UserID:       userID,
			YoutubeURL:   rawURL,
			VideoID:      videoID,
			Title:        md.Title,
			Description:  md.Description,
			Transcript:   text,
			Duration:     md.Duration,
			ThumbnailURL: md.Thumbnail,
		})
		if err != nil {
			log.WithError(err).Error("saving video failed")
		}
	}
	return res, nil
}

// fetchTranscript prefers published captions and falls back to local
// speech recognition when configured.
func (u Usecase) fetchTranscript(ctx context.Context, videoID string) (types.Transcript, bool, error) {
	workDir := filepath.Join(u.d.CacheDir, videoID)
	tr, err := u.d.Source.Captions(ctx, videoID, filepath.Join(workDir, "subs"))
	if err == nil {
		return tr, false, nil
	}
	if !errors.Is(err, ports.ErrNoCaptions) || u.d.ASR == nil || u.d.Video == nil {
		return types.Transcript{}, false, err
	}

	u.d.Log.WithField("video_id", videoID).Info("no captions, transcribing audio")
	audio, err := u.d.Source.DownloadAudio(ctx, videoID, filepath.Join(workDir, "audio"))
	if err != nil {
		return types.Transcript{}, false, fmt.Errorf("download audio: %w", err)
	}
	wav := filepath.Join(workDir, "audio.wav")
	if err := u.d.Video.ExtractAudioMono16k(ctx, audio, wav); err != nil {
		return types.Transcript{}, false, fmt.Errorf("extract audio: %w", err)
	}
	tr, err = u.d.ASR.Transcribe(ctx, wav, workDir)
	if err != nil {
		return types.Transcript{}, false, fmt.Errorf("transcribe: %w", err)
	}
	return tr, true, nil
}
