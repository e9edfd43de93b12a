package usecase

import (
	"context"

	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
)

const (
	DefaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (u Usecase) History(ctx context.Context, userID uint, limit int) ([]ports.VideoRecord, error) {
	if u.d.Store == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return u.d.Store.ListVideos(ctx, userID, limit)
}

func (u Usecase) Video(ctx context.Context, userID uint, videoID string) (ports.VideoRecord, error) {
	if u.d.Store == nil {
		return ports.VideoRecord{}, ErrStoreUnavailable
	}
	if videoID == "" {
		return ports.VideoRecord{}, invalid("Video ID is required", nil)
	}
	return u.d.Store.GetVideo(ctx, userID, videoID)
}

func (u Usecase) Stats(ctx context.Context, userID uint) (ports.Stats, error) {
	if u.d.Store == nil {
		return ports.Stats{}, ErrStoreUnavailable
	}
	return u.d.Store.Stats(ctx, userID)
}
