package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string
}

type Video struct {
	ID                   uint   `gorm:"primarykey"`
	UserID               uint   `gorm:"uniqueIndex:idx_user_video;not null"`
	VideoID              string `gorm:"uniqueIndex:idx_user_video;not null"`
	YoutubeURL           string
	Title                string
	Description          string
	Transcript           string
	Duration             int
	ThumbnailURL         string
	Summary              string
	GeneratedDescription string
	Keywords             StringList
	Clips                []Clip `gorm:"foreignKey:VideoRefID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time
	UpdatedAt            time.Time `gorm:"index"`
}

type Clip struct {
	ID                uint `gorm:"primarykey"`
	UserID            uint `gorm:"index:idx_clip_owner"`
	VideoRefID        uint `gorm:"index:idx_clip_owner"`
	VideoID           string
	Title             string
	StartTime         float64
	EndTime           float64
	TranscriptExcerpt string
	HookScore         int
	CreatedAt         time.Time
}

// StringList is stored as a JSON array in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("scan StringList: unsupported type %T", src)
	}
	if len(b) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(b, (*[]string)(l))
}

func (StringList) GormDataType() string { return "text" }
