// Package generator turns a project description into a scaffolded code artifact through an
// AI provider. Provider SDK types stay inside this package.
package generator

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/saas-factory/api/internal/config"
	"github.com/saas-factory/api/internal/modules/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("generator is not configured")
	ErrUpstream      = errors.New("generator upstream error")
	ErrEmptyOutput   = errors.New("generator returned no usable output")
)

// Request is the project description fed into the prompt.
type Request struct {
	Title             string
	Description       string
	Category          string
	Features          string
	DesignPreferences string
	TechRequirements  string
}

type Prompt struct {
	System  string
	User    string
	Request Request
}

type Generator interface {
	Name() string
	Model() string
	Generate(ctx context.Context, p Prompt) (*model.GeneratedCode, error)
}

// New builds the configured provider. Missing credentials yield a generator that fails
// every call with ErrNotConfigured rather than an error at boot.
func New(cfg *config.Config, log *zap.Logger) Generator {
	hc := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	g := cfg.Generator
	switch g.Provider {
	case "openai":
		if g.OpenAIAPIKey == "" {
			return unconfigured{provider: "openai"}
		}
		return NewOpenAI(g.OpenAIAPIKey, g.OpenAIBaseURL, g.Model, g.MaxOutputTokens, hc)
	case "gemini":
		if g.GeminiAPIKey == "" {
			return unconfigured{provider: "gemini"}
		}
		gen, err := NewGemini(context.Background(), g.GeminiAPIKey, g.Model, g.MaxOutputTokens, hc)
		if err != nil {
			log.Warn("gemini client init failed", zap.Error(err))
			return unconfigured{provider: "gemini"}
		}
		return gen
	default:
		if g.AnthropicAPIKey == "" {
			return unconfigured{provider: "anthropic"}
		}
		return NewAnthropic(g.AnthropicAPIKey, g.Model, g.MaxOutputTokens, hc)
	}
}

type unconfigured struct{ provider string }

func (u unconfigured) Name() string  { return u.provider }
func (u unconfigured) Model() string { return "" }
func (u unconfigured) Generate(context.Context, Prompt) (*model.GeneratedCode, error) {
	return nil, ErrNotConfigured
}

// upstreamError wraps a provider failure with the api key scrubbed from its text.
type upstreamError struct {
	provider string
	msg      string
}

func (e *upstreamError) Error() string { return e.provider + ": " + e.msg }
func (e *upstreamError) Unwrap() error { return ErrUpstream }

func wrapUpstream(provider string, err error, secrets ...string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &upstreamError{provider: provider, msg: Mask(err.Error(), secrets...)}
}

// Mask replaces every secret occurrence in s.
func Mask(s string, secrets ...string) string {
	for _, sec := range secrets {
		if len(sec) < 4 {
			continue
		}
		s = strings.ReplaceAll(s, sec, "****"+sec[len(sec)-4:])
	}
	return s
}

func maxTokens(n int) int {
	if n <= 0 {
		return 16000
	}
	return n
}
