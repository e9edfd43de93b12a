package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
)

// Store persists users, videos and clips through gorm.
type Store struct {
	db  *gorm.DB
	log *logrus.Entry
}

// Open connects to sqlite (a file path) or postgres (a lib/pq DSN) and
// migrates the schema.
func Open(driver, dsn string, log *logrus.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if err := db.AutoMigrate(&User{}, &Video{}, &Clip{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, log: log.WithField("component", "storage")}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveVideo upserts on (user, video id). Generated fields already stored are
// kept unless the record carries new values.
func (s *Store) SaveVideo(ctx context.Context, v ports.VideoRecord) error {
	row := Video{
		UserID:               v.UserID,
		VideoID:              v.VideoID,
		YoutubeURL:           v.YoutubeURL,
		Title:                v.Title,
		Description:          v.Description,
		Transcript:           v.Transcript,
		Duration:             v.Duration,
		ThumbnailURL:         v.ThumbnailURL,
		Summary:              v.Summary,
		GeneratedDescription: v.GeneratedDescription,
		Keywords:             StringList(v.Keywords),
	}
	update := []string{"youtube_url", "title", "description", "transcript", "duration", "thumbnail_url", "updated_at"}
	if v.Summary != "" {
		update = append(update, "summary")
	}
	if v.GeneratedDescription != "" {
		update = append(update, "generated_description")
	}
	if len(v.Keywords) > 0 {
		update = append(update, "keywords")
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns(update),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save video %s: %w", v.VideoID, err)
	}
	s.log.WithFields(logrus.Fields{"user_id": v.UserID, "video_id": v.VideoID}).Debug("video saved")
	return nil
}

func (s *Store) UpdateAnalysis(ctx context.Context, userID uint, videoID string, a ports.Analysis) error {
	updates := map[string]any{}
	if a.Summary != nil {
		updates["summary"] = *a.Summary
	}
	if a.GeneratedDescription != nil {
		updates["generated_description"] = *a.GeneratedDescription
	}
	if a.Keywords != nil {
		updates["keywords"] = StringList(a.Keywords)
	}
	if len(updates) == 0 {
		return nil
	}
	res := s.db.WithContext(ctx).Model(&Video{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update analysis %s: %w", videoID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update analysis %s: %w", videoID, ports.ErrNotFound)
	}
	return nil
}

// ReplaceClips overwrites the stored clip set for one video.
func (s *Store) ReplaceClips(ctx context.Context, userID uint, videoID string, clips []ports.ClipRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v Video
		if err := tx.Select("id").Where("user_id = ? AND video_id = ?", userID, videoID).First(&v).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("replace clips %s: %w", videoID, ports.ErrNotFound)
			}
			return err
		}
		if err := tx.Where("user_id = ? AND video_ref_id = ?", userID, v.ID).Delete(&Clip{}).Error; err != nil {
			return fmt.Errorf("delete clips: %w", err)
		}
		if len(clips) == 0 {
			return nil
		}
		rows := make([]Clip, 0, len(clips))
		for _, c := range clips {
			rows = append(rows, Clip{
				UserID:            userID,
				VideoRefID:        v.ID,
				VideoID:           videoID,
				Title:             c.Title,
				StartTime:         c.StartTime,
				EndTime:           c.EndTime,
				TranscriptExcerpt: c.TranscriptExcerpt,
				HookScore:         c.HookScore,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert clips: %w", err)
		}
		return nil
	})
}

func (s *Store) GetVideo(ctx context.Context, userID uint, videoID string) (ports.VideoRecord, error) {
	var v Video
	err := s.db.WithContext(ctx).
		Preload("Clips", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") }).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.VideoRecord{}, fmt.Errorf("video %s: %w", videoID, ports.ErrNotFound)
	}
	if err != nil {
		return ports.VideoRecord{}, fmt.Errorf("get video %s: %w", videoID, err)
	}
	return toRecord(v), nil
}

// ListVideos returns the user's most recently updated videos with clips.
func (s *Store) ListVideos(ctx context.Context, userID uint, limit int) ([]ports.VideoRecord, error) {
	var rows []Video
	err := s.db.WithContext(ctx).
		Preload("Clips", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") }).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	out := make([]ports.VideoRecord, 0, len(rows))
	for _, v := range rows {
		out = append(out, toRecord(v))
	}
	return out, nil
}

func (s *Store) Stats(ctx context.Context, userID uint) (ports.Stats, error) {
	var st ports.Stats
	db := s.db.WithContext(ctx)
	if err := db.Model(&Video{}).Where("user_id = ?", userID).Count(&st.TotalVideos).Error; err != nil {
		return ports.Stats{}, fmt.Errorf("count videos: %w", err)
	}
	if err := db.Model(&Clip{}).Where("user_id = ?", userID).Count(&st.TotalClips).Error; err != nil {
		return ports.Stats{}, fmt.Errorf("count clips: %w", err)
	}
	return st, nil
}

func toRecord(v Video) ports.VideoRecord {
	rec := ports.VideoRecord{
		UserID:               v.UserID,
		YoutubeURL:           v.YoutubeURL,
		VideoID:              v.VideoID,
		Title:                v.Title,
		Description:          v.Description,
		Transcript:           v.Transcript,
		Duration:             v.Duration,
		ThumbnailURL:         v.ThumbnailURL,
		Summary:              v.Summary,
		GeneratedDescription: v.GeneratedDescription,
		Keywords:             []string(v.Keywords),
		CreatedAt:            v.CreatedAt,
		UpdatedAt:            v.UpdatedAt,
	}
	for _, c := range v.Clips {
		rec.Clips = append(rec.Clips, ports.ClipRecord{
			Title:             c.Title,
			StartTime:         c.StartTime,
			EndTime:           c.EndTime,
			TranscriptExcerpt: c.TranscriptExcerpt,
			HookScore:         c.HookScore,
			CreatedAt:         c.CreatedAt,
		})
	}
	return rec
}
