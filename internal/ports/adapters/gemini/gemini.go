package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

const DefaultModel = "gemini-2.0-flash-exp"

var ErrMissingAPIKey = errors.New("gemini: GEMINI_API_KEY is required")

type Adapter struct {
	apiKey string
	model  string
	log    *logrus.Entry

	once   sync.Once
	client *genai.Client
	err    error
}

func New(apiKey, model string, log *logrus.Logger) *Adapter {
	if model == "" {
		model = DefaultModel
	}
	return &Adapter{
		apiKey: apiKey,
		model:  model,
		log:    log.WithField("component", "gemini"),
	}
}

func (a *Adapter) Model() string { return a.model }

func (a *Adapter) connect(ctx context.Context) (*genai.Client, error) {
	a.once.Do(func() {
		if strings.TrimSpace(a.apiKey) == "" {
			a.err = ErrMissingAPIKey
			return
		}
		a.client, a.err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  a.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return a.client, a.err
}

func (a *Adapter) Generate(ctx context.Context, prompt string, opts types.GenerateOptions) (string, error) {
	client, err := a.connect(ctx)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(opts.Temperature)
	}
	if opts.TopP > 0 {
		cfg.TopP = genai.Ptr(opts.TopP)
	}
	if opts.TopK > 0 {
		cfg.TopK = genai.Ptr(float32(opts.TopK))
	}

	a.log.WithFields(logrus.Fields{"model": a.model, "prompt_chars": len(prompt)}).Debug("generate content")
	resp, err := client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", classify(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

func classify(err error) error {
	msg := err.Error()
	if isQuota(msg) {
		return fmt.Errorf("gemini: %w: %s", ports.ErrQuotaExceeded, msg)
	}
	return fmt.Errorf("gemini: %w", err)
}

func isQuota(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "429") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "quota")
}
