package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/adewaleolaore/youtube-arsenal/internal/domain/content"
	"github.com/adewaleolaore/youtube-arsenal/internal/domain/youtube"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
	"github.com/adewaleolaore/youtube-arsenal/internal/usecase"
)

const msgNoClips = "No viral clip opportunities found in this video"

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

func ok(c echo.Context, data any, msg string) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data, Message: msg})
}

type transcriptRequest struct {
	YoutubeURL string `json:"youtubeUrl"`
}

type metadataJSON struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Duration          int    `json:"duration"`
	DurationFormatted string `json:"durationFormatted"`
	Thumbnail         string `json:"thumbnail"`
	Author            string `json:"author"`
	ViewCount         int64  `json:"viewCount"`
	PublishDate       string `json:"publishDate"`
}

func (s *Server) transcriptHandler(c echo.Context) error {
	var req transcriptRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	res, err := s.uc.ExtractTranscript(c.Request().Context(), userID(c), req.YoutubeURL)
	if err != nil {
		return s.fail(c, "extract transcript", err)
	}
	md := res.Metadata
	return ok(c, map[string]any{
		"videoId":    res.VideoID,
		"youtubeUrl": res.YoutubeURL,
		"metadata": metadataJSON{
			Title:             md.Title,
			Description:       md.Description,
			Duration:          md.Duration,
			DurationFormatted: youtube.FormatDuration(md.Duration),
			Thumbnail:         md.Thumbnail,
			Author:            md.Author,
			ViewCount:         md.ViewCount,
			PublishDate:       md.PublishDate,
		},
		"transcript":              content.Truncate(res.Text, content.ResponseTranscriptLimit),
		"transcriptLength":        utf8.RuneCountInString(res.Text),
		"fullTranscriptAvailable": true,
		"fromSpeechRecognition":   res.FromASR,
	}, "Transcript extracted successfully")
}

type generateRequest struct {
	VideoID             string `json:"videoId"`
	Title               string `json:"title"`
	Transcript          string `json:"transcript"`
	Description         string `json:"description"`
	Summary             string `json:"summary"`
	OriginalDescription string `json:"originalDescription"`
}

func (r generateRequest) input(userID uint) usecase.GenerateInput {
	return usecase.GenerateInput{
		UserID:              userID,
		VideoID:             r.VideoID,
		Title:               r.Title,
		Transcript:          r.Transcript,
		Description:         r.Description,
		Summary:             r.Summary,
		OriginalDescription: r.OriginalDescription,
	}
}

func (s *Server) bindGenerate(c echo.Context) (usecase.GenerateInput, error) {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return usecase.GenerateInput{}, err
	}
	return req.input(userID(c)), nil
}

func (s *Server) summaryHandler(c echo.Context) error {
	in, err := s.bindGenerate(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	summary, err := s.uc.Summarize(c.Request().Context(), in)
	if err != nil {
		return s.fail(c, "generate summary", err)
	}
	return ok(c, map[string]any{
		"summary":        summary,
		"wordCount":      content.WordCount(summary),
		"characterCount": utf8.RuneCountInString(summary),
	}, "Summary generated successfully")
}

func (s *Server) descriptionHandler(c echo.Context) error {
	in, err := s.bindGenerate(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	desc, err := s.uc.Describe(c.Request().Context(), in)
	if err != nil {
		return s.fail(c, "generate description", err)
	}
	return ok(c, map[string]any{
		"description":    desc,
		"wordCount":      content.WordCount(desc),
		"characterCount": utf8.RuneCountInString(desc),
	}, "YouTube description generated successfully")
}

func (s *Server) keywordsHandler(c echo.Context) error {
	in, err := s.bindGenerate(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	kw, err := s.uc.Keywords(c.Request().Context(), in)
	if err != nil {
		return s.fail(c, "generate keywords", err)
	}
	return ok(c, keywordsJSON(kw), "Keywords and tags generated successfully")
}

func keywordsJSON(kw usecase.KeywordsResult) map[string]any {
	return map[string]any{
		"keywords":          kw.Keywords,
		"keywordCount":      len(kw.Keywords),
		"formattedKeywords": strings.Join(kw.Keywords, ", "),
		"hashtags":          kw.Hashtags,
	}
}

func (s *Server) analyzeHandler(c echo.Context) error {
	in, err := s.bindGenerate(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	res, err := s.uc.Analyze(c.Request().Context(), in)
	if err != nil {
		return s.fail(c, "analyze video", err)
	}
	return ok(c, map[string]any{
		"summary":     res.Summary,
		"description": res.Description,
		"keywords":    keywordsJSON(res.Keywords),
	}, "Video analyzed successfully")
}

type clipsRequest struct {
	VideoID    string  `json:"videoId"`
	Title      string  `json:"title"`
	Transcript string  `json:"transcript"`
	Duration   float64 `json:"duration"`
	Distinct   bool    `json:"distinct"`
}

func (s *Server) clipsHandler(c echo.Context) error {
	var req clipsRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	res, err := s.uc.FindClips(c.Request().Context(), usecase.ClipsInput{
		UserID:     userID(c),
		VideoID:    req.VideoID,
		Title:      req.Title,
		Transcript: req.Transcript,
		Duration:   req.Duration,
		Distinct:   req.Distinct,
	})
	if err != nil {
		return s.fail(c, "generate clips", err)
	}
	if len(res.Clips) == 0 {
		return c.JSON(http.StatusOK, envelope{
			Success: true,
			Data:    map[string]any{"clips": []types.EnhancedClip{}, "message": msgNoClips},
		})
	}
	return ok(c, map[string]any{
		"clips":              res.Clips,
		"totalClips":         len(res.Clips),
		"highViralPotential": res.HighViralPotential(),
	}, "Viral clips analyzed and enhanced successfully")
}

type downloadRequest struct {
	VideoID      string   `json:"videoId"`
	StartTime    *float64 `json:"startTime"`
	EndTime      *float64 `json:"endTime"`
	CropVertical bool     `json:"cropVertical"`
	Crop         bool     `json:"crop"`
	Title        string   `json:"title"`
}

func (s *Server) downloadClipHandler(c echo.Context) error {
	var req downloadRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.VideoID == "" || req.StartTime == nil || req.EndTime == nil {
		return errorJSON(c, http.StatusBadRequest, "Missing required parameters")
	}
	res, err := s.uc.DownloadClip(c.Request().Context(), usecase.DownloadInput{
		VideoID:      req.VideoID,
		StartTime:    *req.StartTime,
		EndTime:      *req.EndTime,
		CropVertical: req.CropVertical || req.Crop,
		Title:        req.Title,
	})
	if err != nil {
		return s.fail(c, "generate clip", err)
	}
	return c.Attachment(res.Path, res.FileName)
}

func (s *Server) historyHandler(c echo.Context) error {
	limit := usecase.DefaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "limit must be a number")
		}
		limit = n
	}
	videos, err := s.uc.History(c.Request().Context(), userID(c), limit)
	if err != nil {
		return s.fail(c, "fetch history", err)
	}
	return ok(c, map[string]any{
		"videos": lo.Map(videos, func(v ports.VideoRecord, _ int) videoJSON { return toVideoJSON(v) }),
	}, "History retrieved successfully")
}

func (s *Server) videoHandler(c echo.Context) error {
	v, err := s.uc.Video(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return s.fail(c, "load video", err)
	}
	return ok(c, toVideoJSON(v), "")
}

func (s *Server) statsHandler(c echo.Context) error {
	st, err := s.uc.Stats(c.Request().Context(), userID(c))
	if err != nil {
		return s.fail(c, "load stats", err)
	}
	return ok(c, map[string]int64{
		"totalVideos": st.TotalVideos,
		"totalClips":  st.TotalClips,
	}, "")
}

type clipJSON struct {
	Title      string    `json:"title"`
	StartTime  float64   `json:"startTime"`
	EndTime    float64   `json:"endTime"`
	Transcript string    `json:"transcript"`
	HookScore  int       `json:"hookScore"`
	CreatedAt  time.Time `json:"createdAt"`
}

type videoJSON struct {
	VideoID              string     `json:"videoId"`
	YoutubeURL           string     `json:"youtubeUrl"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	ThumbnailURL         string     `json:"thumbnailUrl"`
	Duration             int        `json:"duration"`
	Transcript           string     `json:"transcript"`
	Summary              string     `json:"summary"`
	GeneratedDescription string     `json:"generatedDescription"`
	Keywords             []string   `json:"keywords"`
	Clips                []clipJSON `json:"clips"`
	ClipsCount           int        `json:"clipsCount"`

	HasTranscript  bool `json:"hasTranscript"`
	HasSummary     bool `json:"hasSummary"`
	HasDescription bool `json:"hasDescription"`
	HasKeywords    bool `json:"hasKeywords"`
	HasClips       bool `json:"hasClips"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toVideoJSON(v ports.VideoRecord) videoJSON {
	clips := lo.Map(v.Clips, func(c ports.ClipRecord, _ int) clipJSON {
		return clipJSON{
			Title:      c.Title,
			StartTime:  c.StartTime,
			EndTime:    c.EndTime,
			Transcript: c.TranscriptExcerpt,
			HookScore:  c.HookScore,
			CreatedAt:  c.CreatedAt,
		}
	})
	keywords := v.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return videoJSON{
		VideoID:              v.VideoID,
		YoutubeURL:           v.YoutubeURL,
		Title:                v.Title,
		Description:          v.Description,
		ThumbnailURL:         v.ThumbnailURL,
		Duration:             v.Duration,
		Transcript:           v.Transcript,
		Summary:              v.Summary,
		GeneratedDescription: v.GeneratedDescription,
		Keywords:             keywords,
		Clips:                clips,
		ClipsCount:           len(clips),
		HasTranscript:        v.Transcript != "",
		HasSummary:           v.Summary != "",
		HasDescription:       v.GeneratedDescription != "",
		HasKeywords:          len(v.Keywords) > 0,
		HasClips:             len(clips) > 0,
		CreatedAt:            v.CreatedAt,
		UpdatedAt:            v.UpdatedAt,
	}
}
