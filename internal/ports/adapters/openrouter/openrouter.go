package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/adewaleolaore/youtube-arsenal/internal/ports"
	"github.com/adewaleolaore/youtube-arsenal/internal/types"
)

const (
	DefaultModel   = "google/gemini-2.0-flash-exp:free"
	requestTimeout = 90 * time.Second
)

var ErrMissingAPIKey = errors.New("openrouter: OPENROUTER_API_KEY is required")

// Adapter talks to OpenRouter through its OpenAI compatible chat API.
type Adapter struct {
	key    string
	model  string
	client *openai.Client
	log    *logrus.Entry
}

func New(apiKey, model, baseURL string, log *logrus.Logger) *Adapter {
	if model == "" {
		model = DefaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = normalizeBaseURL(baseURL) + "/api/v1"
	cfg.HTTPClient = &http.Client{Timeout: 5 * time.Minute}
	return &Adapter{
		key:    apiKey,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
		log:    log.WithField("component", "openrouter"),
	}
}

func (a *Adapter) Model() string { return a.model }

func (a *Adapter) Generate(ctx context.Context, prompt string, opts types.GenerateOptions) (string, error) {
	if strings.TrimSpace(a.key) == "" {
		return "", ErrMissingAPIKey
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
	}

	a.log.WithFields(logrus.Fields{"model": a.model, "prompt_chars": len(prompt)}).Debug("chat completion")
	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", a.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openrouter: no choices in response")
	}
	content := messageContent(resp.Choices[0].Message)
	if strings.TrimSpace(content) == "" {
		return "", errors.New("openrouter: empty content")
	}
	return content, nil
}

func (a *Adapter) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("openrouter: %w: %s", ports.ErrQuotaExceeded, truncate(redactSecrets(apiErr.Message, a.key), 300))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("openrouter: %w", ports.ErrQuotaExceeded)
	}
	return fmt.Errorf("openrouter: %s", truncate(redactSecrets(err.Error(), a.key), 500))
}

// messageContent joins multi-part responses, which some providers return
// instead of a plain string.
func messageContent(m openai.ChatCompletionMessage) string {
	if m.Content != "" {
		return m.Content
	}
	var b strings.Builder
	for _, p := range m.MultiContent {
		if p.Type == openai.ChatMessagePartTypeText {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
