package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/adewaleolaore/youtube-arsenal/internal/config"
	"github.com/adewaleolaore/youtube-arsenal/internal/domain/highlights"
	"github.com/adewaleolaore/youtube-arsenal/internal/domain/youtube"
	"github.com/adewaleolaore/youtube-arsenal/internal/logging"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports/adapters/ffmpeg"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports/adapters/gemini"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports/adapters/openrouter"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports/adapters/whispercpp"
	"github.com/adewaleolaore/youtube-arsenal/internal/ports/adapters/ytdlp"
	"github.com/adewaleolaore/youtube-arsenal/internal/usecase"
)

// Config is one `arsenal clips` invocation.
type Config struct {
	URL            string
	TranscriptFile string
	OutDir         string
	ClipsN         int

	Distinct      bool
	Enhance       bool
	Render        bool
	Vertical      bool
	BurnSubtitles bool
	Snap          bool

	App config.Config
	Log *logrus.Logger
}

func (c Config) Validate() error {
	switch {
	case c.URL == "" && c.TranscriptFile == "":
		return errors.New("input is empty: pass a YouTube URL or --transcript-file")
	case c.URL != "" && c.TranscriptFile != "":
		return errors.New("pass either a YouTube URL or --transcript-file, not both")
	}
	if c.TranscriptFile != "" {
		if _, err := os.Stat(c.TranscriptFile); err != nil {
			return fmt.Errorf("stat transcript file: %w", err)
		}
		if c.Enhance || c.Render {
			return errors.New("--enhance and --render need a YouTube URL")
		}
	}
	if c.URL != "" {
		if _, err := youtube.ExtractVideoID(c.URL); err != nil {
			return err
		}
	}
	if c.ClipsN <= 0 {
		return fmt.Errorf("clips must be > 0")
	}
	if (c.BurnSubtitles || c.Vertical) && !c.Render {
		return errors.New("--subtitles and --vertical need --render")
	}
	if (c.App.WhisperBin == "") != (c.App.WhisperModel == "") {
		return errors.New("ARSENAL_WHISPER_BIN and ARSENAL_WHISPER_MODEL must be set together")
	}
	if c.Enhance {
		return c.App.ValidateProvider()
	}
	return nil
}

// NewGenerator builds the configured text generation provider.
func NewGenerator(cfg config.Config, log *logrus.Logger) (ports.Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, log), nil
	case config.ProviderOpenRouter:
		return openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL, log), nil
	default:
		return nil, fmt.Errorf("unknown ARSENAL_LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

// NewExtractor builds the clip extractor, honoring a vocabulary override file.
func NewExtractor(cfg config.Config) (*highlights.Extractor, error) {
	v := highlights.DefaultVocabulary()
	if cfg.VocabularyFile != "" {
		var err error
		if v, err = highlights.LoadVocabulary(cfg.VocabularyFile); err != nil {
			return nil, err
		}
	}
	return highlights.NewExtractor(v), nil
}

// Deps wires adapters for the usecase layer. store may be nil.
func Deps(cfg config.Config, log *logrus.Logger, store ports.VideoStore) (usecase.Deps, error) {
	extractor, err := NewExtractor(cfg)
	if err != nil {
		return usecase.Deps{}, err
	}
	d := usecase.Deps{
		Source:    ytdlp.New(cfg.YtdlpPath, log),
		Video:     ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		Store:     store,
		Extractor: extractor,
		Log:       logging.Component(log, "usecase"),
		VideosDir: cfg.VideosDir(),
		ClipsDir:  cfg.ClipsDir(),
		CacheDir:  cfg.CacheDir(),
	}
	if cfg.ASREnabled() {
		d.ASR = whispercpp.New(cfg.WhisperBin, cfg.WhisperModel)
	}
	if cfg.ValidateProvider() == nil {
		if d.LLM, err = NewGenerator(cfg, log); err != nil {
			return usecase.Deps{}, err
		}
	}
	return d, nil
}

func Run(ctx context.Context, cfg Config) error {
	log := cfg.Log
	if log == nil {
		log = logging.Discard()
	}
	plog := logging.Component(log, "pipeline")

	deps, err := Deps(cfg.App, log, nil)
	if err != nil {
		return err
	}
	uc := usecase.New(deps)

	input := cfg.TranscriptFile
	if cfg.URL != "" {
		input = cfg.URL
	}
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, runName(cfg), input, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return err
	}
	plog.Infof("output run dir: %s", runOutDir)

	res, err := uc.Run(ctx, usecase.Input{
		URL:            cfg.URL,
		TranscriptFile: cfg.TranscriptFile,
		ClipsN:         cfg.ClipsN,
		Distinct:       cfg.Distinct,
		Enhance:        cfg.Enhance,
		Render:         cfg.Render,
		Vertical:       cfg.Vertical,
		BurnSubtitles:  cfg.BurnSubtitles,
		Snap:           cfg.Snap,
		OutDir:         runOutDir,
	})
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return err
	}
	plog.Infof("manifest written (%d clips): %s", len(res.Manifest.Clips), manifestPath)
	return nil
}

func runName(cfg Config) string {
	if cfg.TranscriptFile != "" {
		return strings.TrimSuffix(filepath.Base(cfg.TranscriptFile), filepath.Ext(cfg.TranscriptFile))
	}
	id, _ := youtube.ExtractVideoID(cfg.URL)
	return id
}

func buildRunOutDir(outRoot, name, input string, now time.Time) string {
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.VideoSource = (*ytdlp.Adapter)(nil)
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.Generator = (*gemini.Adapter)(nil)
var _ ports.Generator = (*openrouter.Adapter)(nil)
