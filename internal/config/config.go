package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adewaleolaore/youtube-arsenal/internal/ports/adapters/openrouter"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	minSessionKeyLen = 32
)

type Config struct {
	Addr     string
	DataDir  string
	LogLevel string

	DatabaseDriver string
	DatabaseDSN    string

	SessionKey    []byte
	Secure        bool
	AdminUsername string
	AdminPassword string

	LLMProvider string

	GeminiAPIKey string
	GeminiModel  string

	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterBaseURL      string
	OpenRouterAllowedHosts []string

	YtdlpPath   string
	FFmpegPath  string
	FFprobePath string

	// Optional ASR fallback for videos without captions.
	WhisperBin   string
	WhisperModel string

	VocabularyFile string
}

// Load reads configuration from the environment. Call godotenv first if a
// .env file should be honored.
func Load() Config {
	dataDir := getenvDefault("ARSENAL_DATA_DIR", "data")
	return Config{
		Addr:     getenvDefault("ARSENAL_ADDR", ":8080"),
		DataDir:  dataDir,
		LogLevel: getenvDefault("ARSENAL_LOG_LEVEL", "info"),

		DatabaseDriver: strings.ToLower(getenvDefault("ARSENAL_DB_DRIVER", DriverSQLite)),
		DatabaseDSN:    getenvDefault("ARSENAL_DB_DSN", filepath.Join(dataDir, "arsenal.db")),

		SessionKey:    []byte(os.Getenv("ARSENAL_SESSION_KEY")),
		Secure:        getBool("ARSENAL_SECURE"),
		AdminUsername: os.Getenv("ARSENAL_ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ARSENAL_ADMIN_PASSWORD"),

		LLMProvider: strings.ToLower(getenvDefault("ARSENAL_LLM_PROVIDER", ProviderGemini)),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenvDefault("GEMINI_MODEL", "gemini-2.0-flash-exp"),

		OpenRouterAPIKey:       os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:        getenvDefault("OPENROUTER_MODEL", "z-ai/glm-4.5-air:free"),
		OpenRouterBaseURL:      getenvDefault("OPENROUTER_BASE_URL", "https://openrouter.ai"),
		OpenRouterAllowedHosts: splitList(os.Getenv("OPENROUTER_ALLOWED_HOSTS")),

		YtdlpPath:   getenvDefault("ARSENAL_YTDLP", "yt-dlp"),
		FFmpegPath:  getenvDefault("ARSENAL_FFMPEG", "ffmpeg"),
		FFprobePath: getenvDefault("ARSENAL_FFPROBE", "ffprobe"),

		WhisperBin:   os.Getenv("ARSENAL_WHISPER_BIN"),
		WhisperModel: os.Getenv("ARSENAL_WHISPER_MODEL"),

		VocabularyFile: os.Getenv("ARSENAL_VOCABULARY_FILE"),
	}
}

// Validate checks settings shared by every command that talks to an AI provider.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q (want %s or %s)", c.DatabaseDriver, DriverSQLite, DriverPostgres)
	}
	if c.DatabaseDSN == "" {
		return errors.New("ARSENAL_DB_DSN is required")
	}
	if (c.WhisperBin == "") != (c.WhisperModel == "") {
		return errors.New("ARSENAL_WHISPER_BIN and ARSENAL_WHISPER_MODEL must be set together")
	}
	return c.ValidateProvider()
}

func (c Config) ValidateProvider() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required (set it in .env)")
		}
		return nil
	case ProviderOpenRouter:
		if c.OpenRouterAPIKey == "" {
			return errors.New("OPENROUTER_API_KEY is required (set it in .env)")
		}
		return openrouter.ValidateBaseURL(c.OpenRouterBaseURL, c.OpenRouterAllowedHosts)
	default:
		return fmt.Errorf("unknown ARSENAL_LLM_PROVIDER %q (want %s or %s)", c.LLMProvider, ProviderGemini, ProviderOpenRouter)
	}
}

// ValidateServe adds the checks only the web server needs.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("ARSENAL_SESSION_KEY must be at least %d bytes", minSessionKeyLen)
	}
	if c.Addr == "" {
		return errors.New("listen address is empty")
	}
	return nil
}

func (c Config) ASREnabled() bool { return c.WhisperBin != "" && c.WhisperModel != "" }

func (c Config) VideosDir() string { return filepath.Join(c.DataDir, "videos") }

func (c Config) ClipsDir() string { return filepath.Join(c.DataDir, "clips") }

func (c Config) CacheDir() string { return filepath.Join(c.DataDir, "cache") }

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getBool(k string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "on", "1", "true", "yes":
		return true
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
