package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

func TestRun_BurnSubtitlesToggle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		burnSubtitles bool
	}{
		{name: "disabled", burnSubtitles: false},
		{name: "enabled", burnSubtitles: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tmp := t.TempDir()
			outDir := filepath.Join(tmp, "out")
			video := &fakeVideoTool{}
			uc := New(Deps{
				Source:    &fakeSource{md: types.VideoMetadata{Title: "Talk", Duration: 120}, tr: testTranscript()},
				Video:     video,
				VideosDir: filepath.Join(tmp, "videos"),
				CacheDir:  filepath.Join(tmp, "cache"),
			})

			res, err := uc.Run(context.Background(), Input{
				URL:           "https://youtu.be/dQw4w9WgXcQ",
				ClipsN:        1,
				Render:        true,
				BurnSubtitles: tc.burnSubtitles,
				OutDir:        outDir,
			})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if len(video.renders) != 1 {
				t.Fatalf("expected 1 rendered clip, got %d", len(video.renders))
			}
			if len(res.Manifest.Clips) != 1 {
				t.Fatalf("expected 1 clip in manifest, got %d", len(res.Manifest.Clips))
			}
			if res.Manifest.Clips[0].File != "clips/001.mp4" {
				t.Fatalf("unexpected clip file %q", res.Manifest.Clips[0].File)
			}

			subtitlesPath := filepath.Join(outDir, "subtitles", "001.ass")
			burnASS := video.renders[0].opts.BurnASS
			manifestSubtitles := res.Manifest.Clips[0].Subtitles
			if tc.burnSubtitles {
				if !strings.HasSuffix(burnASS, filepath.Join("subtitles", "001.ass")) {
					t.Fatalf("unexpected burnASS path: %q", burnASS)
				}
				if manifestSubtitles != "subtitles/001.ass" {
					t.Fatalf("unexpected manifest subtitles path: %q", manifestSubtitles)
				}
				b, err := os.ReadFile(subtitlesPath)
				if err != nil {
					t.Fatalf("read subtitles: %v", err)
				}
				if !strings.Contains(string(b), "{\\k") {
					t.Fatalf("expected karaoke tags in generated subtitles")
				}
				return
			}

			if burnASS != "" {
				t.Fatalf("expected empty burnASS path, got %q", burnASS)
			}
			if manifestSubtitles != "" {
				t.Fatalf("expected empty manifest subtitles path, got %q", manifestSubtitles)
			}
			if _, err := os.Stat(subtitlesPath); !os.IsNotExist(err) {
				t.Fatalf("expected no subtitle file, stat err=%v", err)
			}
		})
	}
}

func TestRun_ClampsToVideoLength(t *testing.T) {
	tmp := t.TempDir()
	video := &fakeVideoTool{length: 20 * time.Second}
	uc := New(Deps{
		Source:    &fakeSource{md: types.VideoMetadata{Title: "Talk", Duration: 120}, tr: testTranscript()},
		Video:     video,
		VideosDir: filepath.Join(tmp, "videos"),
		CacheDir:  filepath.Join(tmp, "cache"),
	})

	res, err := uc.Run(context.Background(), Input{
		URL:    "https://youtu.be/dQw4w9WgXcQ",
		ClipsN: 1,
		Render: true,
		OutDir: filepath.Join(tmp, "out"),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(video.renders) != 1 {
		t.Fatalf("expected 1 rendered clip, got %d", len(video.renders))
	}
	if video.renders[0].end != 20*time.Second {
		t.Fatalf("render end = %s, want 20s", video.renders[0].end)
	}
	if res.Manifest.Clips[0].EndSec != 20 {
		t.Fatalf("manifest end = %v, want 20", res.Manifest.Clips[0].EndSec)
	}
}

func TestRun_TranscriptFileOffline(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "talk.txt")
	text := "This is the secret everyone is hiding! But wait, there's more. What a shocking discovery."
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	uc := New(Deps{})
	res, err := uc.Run(context.Background(), Input{TranscriptFile: path, ClipsN: 6})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	m := res.Manifest
	if m.Title != "talk" || m.Input != path {
		t.Fatalf("unexpected manifest header: %+v", m)
	}
	if len(m.Clips) != 3 {
		t.Fatalf("expected 3 clips, got %d", len(m.Clips))
	}
	first := m.Clips[0]
	if first.HookScore != 4 || first.ViralPotential != "HIGH" || first.StartSec != 0 || first.EndSec != 45 {
		t.Fatalf("unexpected first clip %+v", first)
	}
	if len(first.Reasons) != 2 || first.File != "" {
		t.Fatalf("unexpected first clip details %+v", first)
	}
	// default duration of 600s spreads three sentences 200s apart
	if m.Clips[1].StartSec != 400 {
		t.Fatalf("expected second clip at 400s, got %v", m.Clips[1].StartSec)
	}
}

func TestRun_RenderNeedsVideo(t *testing.T) {
	uc := New(Deps{})
	_, err := uc.Run(context.Background(), Input{TranscriptFile: "x.txt", Render: true})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestExtractTranscript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		src     *fakeSource
		wantMsg string
	}{
		{name: "missing", url: " ", src: &fakeSource{}, wantMsg: MsgURLRequired},
		{name: "not youtube", url: "https://vimeo.com/123", src: &fakeSource{}, wantMsg: MsgInvalidURL},
		{name: "metadata", url: "https://youtu.be/abc", src: &fakeSource{mdErr: ports.ErrVideoUnavailable}, wantMsg: MsgMetadataFailed},
		{name: "captions", url: "https://youtu.be/abc", src: &fakeSource{trErr: ports.ErrNoCaptions}, wantMsg: MsgTranscriptFailed},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := New(Deps{Source: tt.src, CacheDir: t.TempDir()})
			_, err := uc.ExtractTranscript(context.Background(), 1, tt.url)
			var ie *InputError
			if !errors.As(err, &ie) || ie.Msg != tt.wantMsg {
				t.Fatalf("expected %q, got %v", tt.wantMsg, err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput in chain")
			}
		})
	}
}

func TestExtractTranscript_SavesVideo(t *testing.T) {
	store := newMemStore()
	uc := New(Deps{
		Source:   &fakeSource{md: types.VideoMetadata{Title: "Talk", Duration: 61, Thumbnail: "thumb"}, tr: testTranscript()},
		Store:    store,
		CacheDir: t.TempDir(),
	})

	res, err := uc.ExtractTranscript(context.Background(), 7, "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=1")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.VideoID != "dQw4w9WgXcQ" || res.Text != "hello world" || res.FromASR {
		t.Fatalf("unexpected result %+v", res)
	}
	v := store.videos[storeKey(7, "dQw4w9WgXcQ")]
	if v.Title != "Talk" || v.Transcript != "hello world" || v.ThumbnailURL != "thumb" {
		t.Fatalf("video not saved: %+v", v)
	}
}

func TestExtractTranscript_ASRFallback(t *testing.T) {
	video := &fakeVideoTool{}
	uc := New(Deps{
		Source:   &fakeSource{md: types.VideoMetadata{Title: "Talk"}, trErr: ports.ErrNoCaptions},
		Video:    video,
		ASR:      fakeASR{tr: testTranscript()},
		CacheDir: t.TempDir(),
	})
	res, err := uc.ExtractTranscript(context.Background(), 0, "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !res.FromASR || res.Text != "hello world" {
		t.Fatalf("expected ASR transcript, got %+v", res)
	}
	if video.audioExtracts != 1 {
		t.Fatalf("expected audio extraction, got %d", video.audioExtracts)
	}
}

func TestSummarize_PersistsWhenVideoGiven(t *testing.T) {
	store := newMemStore()
	store.videos[storeKey(1, "abc")] = ports.VideoRecord{UserID: 1, VideoID: "abc"}
	llm := &fakeLLM{reply: "  A tight summary.  "}
	uc := New(Deps{LLM: llm, Store: store})

	got, err := uc.Summarize(context.Background(), GenerateInput{UserID: 1, VideoID: "abc", Title: "t", Transcript: "body"})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "A tight summary." {
		t.Fatalf("unexpected summary %q", got)
	}
	if store.videos[storeKey(1, "abc")].Summary != "A tight summary." {
		t.Fatalf("summary not persisted")
	}
	if llm.opts[0].Temperature != 0.7 || llm.opts[0].TopK != 40 {
		t.Fatalf("unexpected options %+v", llm.opts[0])
	}
}

func TestGenerate_Validation(t *testing.T) {
	uc := New(Deps{LLM: &fakeLLM{reply: "x"}})
	ctx := context.Background()

	if _, err := uc.Summarize(ctx, GenerateInput{Title: "t"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("summary without transcript: %v", err)
	}
	if _, err := uc.Describe(ctx, GenerateInput{Title: "t", Summary: "s"}); err != nil {
		t.Fatalf("description from summary only should pass: %v", err)
	}
	if _, err := uc.Keywords(ctx, GenerateInput{Transcript: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("keywords without title: %v", err)
	}
}

func TestKeywords(t *testing.T) {
	uc := New(Deps{LLM: &fakeLLM{reply: "go tutorial, golang basics, , concurrency"}})
	res, err := uc.Keywords(context.Background(), GenerateInput{Title: "t", Transcript: "x"})
	if err != nil {
		t.Fatalf("keywords: %v", err)
	}
	if len(res.Keywords) != 3 || res.Hashtags[0] != "#gotutorial" {
		t.Fatalf("unexpected keywords %+v", res)
	}
}

func TestAnalyze(t *testing.T) {
	store := newMemStore()
	store.videos[storeKey(1, "abc")] = ports.VideoRecord{UserID: 1, VideoID: "abc"}
	llm := &fakeLLM{replyFor: func(prompt string) (string, error) {
		switch {
		case strings.HasPrefix(prompt, "Please create a concise"):
			return "summary", nil
		case strings.HasPrefix(prompt, "Create an engaging"):
			return "description", nil
		default:
			return "a, b", nil
		}
	}}
	uc := New(Deps{LLM: llm, Store: store})

	res, err := uc.Analyze(context.Background(), GenerateInput{UserID: 1, VideoID: "abc", Title: "t", Transcript: "x"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Summary != "summary" || res.Description != "description" || len(res.Keywords.Keywords) != 2 {
		t.Fatalf("unexpected analysis %+v", res)
	}
	v := store.videos[storeKey(1, "abc")]
	if v.Summary != "summary" || v.GeneratedDescription != "description" || len(v.Keywords) != 2 {
		t.Fatalf("analysis not persisted: %+v", v)
	}
}

func TestAnalyze_FirstErrorWins(t *testing.T) {
	llm := &fakeLLM{replyFor: func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "Based on this YouTube video content, generate") {
			return "", ports.ErrQuotaExceeded
		}
		return "ok", nil
	}}
	uc := New(Deps{LLM: llm})
	_, err := uc.Analyze(context.Background(), GenerateInput{Title: "t", Transcript: "x"})
	if !errors.Is(err, ports.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestFindClips(t *testing.T) {
	store := newMemStore()
	store.videos[storeKey(1, "abc")] = ports.VideoRecord{UserID: 1, VideoID: "abc"}
	reply := "```json\n{\"clips\":[{\"improvedTitle\":\"\",\"startTime\":0,\"endTime\":45,\"hookScore\":4,\"viralPotential\":\"HIGH\"}]}\n```"
	llm := &fakeLLM{reply: reply}
	uc := New(Deps{LLM: llm, Store: store})

	res, err := uc.FindClips(context.Background(), ClipsInput{
		UserID:     1,
		VideoID:    "abc",
		Title:      "t",
		Transcript: "This is the secret everyone is hiding! But wait, there's more. What a shocking discovery.",
		Duration:   90,
	})
	if err != nil {
		t.Fatalf("find clips: %v", err)
	}
	if !res.Enhanced || len(res.Clips) != 1 || res.HighViralPotential() != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(res.Candidates))
	}
	if !strings.Contains(llm.prompts[0], "Video Duration: 1:30") {
		t.Fatalf("prompt missing duration: %s", llm.prompts[0])
	}
	saved := store.videos[storeKey(1, "abc")].Clips
	if len(saved) != 1 || saved[0].Title != "This is the secret everyone is hiding!" {
		t.Fatalf("unexpected saved clips %+v", saved)
	}
	if saved[0].TranscriptExcerpt != "This is the secret everyone is hiding!" {
		t.Fatalf("expected excerpt from candidate, got %q", saved[0].TranscriptExcerpt)
	}
}

func TestFindClips_DistinctDropsOverlaps(t *testing.T) {
	llm := &fakeLLM{reply: "not json"}
	uc := New(Deps{LLM: llm})

	res, err := uc.FindClips(context.Background(), ClipsInput{
		Title:      "t",
		Transcript: "This is the secret everyone is hiding! But wait, there's more. What a shocking discovery.",
		Duration:   90,
		Distinct:   true,
	})
	if err != nil {
		t.Fatalf("find clips: %v", err)
	}
	// 30-75 overlaps the stronger 0-45 candidate
	if len(res.Candidates) != 2 || res.Candidates[1].StartTime != 60 {
		t.Fatalf("unexpected candidates %+v", res.Candidates)
	}
	if res.Enhanced || len(res.Clips) != 2 || res.Clips[0].Strategy == "" {
		t.Fatalf("expected fallback clips, got %+v", res)
	}
	if len(llm.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(llm.prompts))
	}
}

func TestFindClips_QuotaPropagates(t *testing.T) {
	uc := New(Deps{LLM: &fakeLLM{err: ports.ErrQuotaExceeded}})
	_, err := uc.FindClips(context.Background(), ClipsInput{Title: "t", Transcript: "What a shocking secret? Amazing 10 tips!"})
	if !errors.Is(err, ports.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestDownloadClip(t *testing.T) {
	tmp := t.TempDir()
	src := &fakeSource{}
	video := &fakeVideoTool{}
	uc := New(Deps{
		Source:    src,
		Video:     video,
		VideosDir: filepath.Join(tmp, "videos"),
		ClipsDir:  filepath.Join(tmp, "clips"),
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := uc.DownloadClip(ctx, DownloadInput{VideoID: "dQw4w9WgXcQ", StartTime: 12.5, EndTime: 40, CropVertical: true, Title: "Why 90% Fail?!"})
		if err != nil {
			t.Fatalf("download: %v", err)
		}
		if !strings.HasPrefix(res.FileName, "Why_90_Fail_") || !strings.HasSuffix(res.FileName, ".mp4") {
			t.Fatalf("unexpected file name %q", res.FileName)
		}
		if filepath.Dir(res.Path) != filepath.Join(tmp, "clips") {
			t.Fatalf("unexpected path %q", res.Path)
		}
	}
	if src.downloads != 1 {
		t.Fatalf("expected source video cached after first download, got %d downloads", src.downloads)
	}
	r := video.renders[0]
	if r.start != 12500*time.Millisecond || r.end != 40*time.Second || !r.opts.CropVertical {
		t.Fatalf("unexpected render %+v", r)
	}
	if r.in != filepath.Join(tmp, "videos", "dQw4w9WgXcQ.mp4") {
		t.Fatalf("unexpected render input %q", r.in)
	}
}

func TestDownloadClip_Validation(t *testing.T) {
	uc := New(Deps{})
	tests := []DownloadInput{
		{},
		{VideoID: "abc", StartTime: 10, EndTime: 10},
		{VideoID: "abc", StartTime: -1, EndTime: 10},
	}
	for _, in := range tests {
		if _, err := uc.DownloadClip(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", in, err)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"Why 90% Fail?!":          "Why_90_Fail",
		"  ":                      "",
		"héllo wörld":             "h_llo_w_rld",
		strings.Repeat("a", 80):   strings.Repeat("a", 50),
		"__already__underscored": "already_underscored",
	}
	for in, want := range tests {
		if got := sanitizeFileName(in); got != want {
			t.Fatalf("sanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHistory_DefaultLimit(t *testing.T) {
	store := newMemStore()
	uc := New(Deps{Store: store})
	if _, err := uc.History(context.Background(), 1, 0); err != nil {
		t.Fatalf("history: %v", err)
	}
	if store.lastLimit != DefaultHistoryLimit {
		t.Fatalf("expected default limit, got %d", store.lastLimit)
	}

	if _, err := New(Deps{}).History(context.Background(), 1, 5); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

type fakeSource struct {
	mu        sync.Mutex
	md        types.VideoMetadata
	mdErr     error
	tr        types.Transcript
	trErr     error
	downloads int
}

func (f *fakeSource) Metadata(_ context.Context, videoID string) (types.VideoMetadata, error) {
	md := f.md
	md.VideoID = videoID
	return md, f.mdErr
}

func (f *fakeSource) Captions(_ context.Context, _, _ string) (types.Transcript, error) {
	return f.tr, f.trErr
}

func (f *fakeSource) DownloadVideo(_ context.Context, _, outMP4 string) error {
	f.mu.Lock()
	f.downloads++
	f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(outMP4), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outMP4, []byte("mp4"), 0o644)
}

func (f *fakeSource) DownloadAudio(_ context.Context, _, outPath string) (string, error) {
	return outPath + ".m4a", nil
}

type renderCall struct {
	in         string
	start, end time.Duration
	out        string
	opts       ports.RenderOptions
}

type fakeVideoTool struct {
	renders       []renderCall
	audioExtracts int
	length        time.Duration
}

func (f *fakeVideoTool) ExtractAudioMono16k(_ context.Context, _, _ string) error {
	f.audioExtracts++
	return nil
}

func (f *fakeVideoTool) RenderClip(_ context.Context, in string, start, end time.Duration, out string, opts ports.RenderOptions) error {
	f.renders = append(f.renders, renderCall{in: in, start: start, end: end, out: out, opts: opts})
	return nil
}

func (f *fakeVideoTool) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	return f.length, nil
}

type fakeASR struct {
	tr types.Transcript
}

func (f fakeASR) Transcribe(_ context.Context, _, _ string) (types.Transcript, error) {
	return f.tr, nil
}

type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	replyFor func(prompt string) (string, error)
	prompts  []string
	opts     []types.GenerateOptions
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, opts types.GenerateOptions) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	f.mu.Unlock()
	if f.replyFor != nil {
		return f.replyFor(prompt)
	}
	return f.reply, f.err
}

type memStore struct {
	mu        sync.Mutex
	videos    map[string]ports.VideoRecord
	lastLimit int
}

func newMemStore() *memStore { return &memStore{videos: map[string]ports.VideoRecord{}} }

func storeKey(userID uint, videoID string) string {
	return strings.Join([]string{string(rune('0' + userID)), videoID}, "/")
}

func (s *memStore) SaveVideo(_ context.Context, v ports.VideoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[storeKey(v.UserID, v.VideoID)] = v
	return nil
}

func (s *memStore) UpdateAnalysis(_ context.Context, userID uint, videoID string, a ports.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[storeKey(userID, videoID)]
	if !ok {
		return ports.ErrNotFound
	}
	if a.Summary != nil {
		v.Summary = *a.Summary
	}
	if a.GeneratedDescription != nil {
		v.GeneratedDescription = *a.GeneratedDescription
	}
	if a.Keywords != nil {
		v.Keywords = a.Keywords
	}
	s.videos[storeKey(userID, videoID)] = v
	return nil
}

func (s *memStore) ReplaceClips(_ context.Context, userID uint, videoID string, clips []ports.ClipRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[storeKey(userID, videoID)]
	if !ok {
		return ports.ErrNotFound
	}
	v.Clips = clips
	s.videos[storeKey(userID, videoID)] = v
	return nil
}

func (s *memStore) GetVideo(_ context.Context, userID uint, videoID string) (ports.VideoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[storeKey(userID, videoID)]
	if !ok {
		return ports.VideoRecord{}, ports.ErrNotFound
	}
	return v, nil
}

func (s *memStore) ListVideos(_ context.Context, userID uint, limit int) ([]ports.VideoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	var out []ports.VideoRecord
	for _, v := range s.videos {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memStore) Stats(_ context.Context, userID uint) (ports.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st ports.Stats
	for _, v := range s.videos {
		if v.UserID == userID {
			st.TotalVideos++
			st.TotalClips += int64(len(v.Clips))
		}
	}
	return st, nil
}

func testTranscript() types.Transcript {
	return types.Transcript{
		Segments: []types.Segment{
			{
				Start: 0,
				End:   5,
				Text:  "hello world",
				Words: []types.Word{
					{Start: 0.1, End: 0.7, Word: "hello"},
					{Start: 0.8, End: 1.4, Word: "world"},
				},
			},
		},
	}
}
