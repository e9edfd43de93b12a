package types

import (
	"strings"
	"time"
)

type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// Text joins segment texts with single spaces.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if v := strings.TrimSpace(s.Text); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Timed converts segments into the offset form the clip extractor consumes.
func (t Transcript) Timed() []TimedSegment {
	out := make([]TimedSegment, 0, len(t.Segments))
	for _, s := range t.Segments {
		out = append(out, TimedSegment{OffsetMillis: s.Start * 1000, Text: s.Text})
	}
	return out
}

type TimedSegment struct {
	OffsetMillis float64 `json:"offsetMillis"`
	Text         string  `json:"text"`
}

type ClipCandidate struct {
	Title      string   `json:"title"`
	StartTime  float64  `json:"startTime"`
	EndTime    float64  `json:"endTime"`
	SourceText string   `json:"transcript"`
	HookScore  int      `json:"hookScore"`
	Reasons    []string `json:"reasons"`
}

// Reason renders the matched signals as a single line.
func (c ClipCandidate) Reason() string {
	return strings.Join(c.Reasons, ", ")
}

type ViralPotential string

const (
	ViralHigh   ViralPotential = "HIGH"
	ViralMedium ViralPotential = "MEDIUM"
	ViralLow    ViralPotential = "LOW"
)

type EnhancedClip struct {
	OriginalTitle  string         `json:"originalTitle"`
	ImprovedTitle  string         `json:"improvedTitle"`
	StartTime      float64        `json:"startTime"`
	EndTime        float64        `json:"endTime"`
	Duration       float64        `json:"duration"`
	HookScore      int            `json:"hookScore"`
	ViralPotential ViralPotential `json:"viralPotential"`
	Reason         string         `json:"reason"`
	Strategy       string         `json:"strategy"`
	Transcript     string         `json:"transcript"`
}

type VideoMetadata struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Thumbnail   string `json:"thumbnail"`
	Author      string `json:"author"`
	ViewCount   int64  `json:"viewCount"`
	PublishDate string `json:"publishDate"`
}

// GenerateOptions carries sampling parameters for a text generation call.
type GenerateOptions struct {
	Temperature float32
	TopP        float32
	TopK        int
}

type Manifest struct {
	Input   string         `json:"input"`
	VideoID string         `json:"video_id,omitempty"`
	Title   string         `json:"title,omitempty"`
	Created time.Time      `json:"created"`
	Clips   []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	ID             string   `json:"id"`
	StartSec       float64  `json:"start_sec"`
	EndSec         float64  `json:"end_sec"`
	HookScore      int      `json:"hook_score"`
	ViralPotential string   `json:"viral_potential"`
	Title          string   `json:"title"`
	Reasons        []string `json:"reasons"`
	Strategy       string   `json:"strategy,omitempty"`
	Text           string   `json:"text"`
	File           string   `json:"file,omitempty"`
	Subtitles      string   `json:"subtitles,omitempty"`
}
