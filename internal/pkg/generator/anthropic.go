package generator

import (
	"context"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/saas-factory/api/internal/modules/model"
)

const defaultAnthropicModel = "claude-sonnet-4-5"

type Anthropic struct {
	client    anthropic.Client
	apiKey    string
	model     string
	maxTokens int
}

func NewAnthropic(apiKey, modelName string, maxOut int, hc *http.Client) *Anthropic {
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	return &Anthropic{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey), option.WithHTTPClient(hc)),
		apiKey:    apiKey,
		model:     modelName,
		maxTokens: maxTokens(maxOut),
	}
}

func (a *Anthropic) Name() string  { return "anthropic" }
func (a *Anthropic) Model() string { return a.model }

func (a *Anthropic) Generate(ctx context.Context, p Prompt) (*model.GeneratedCode, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: p.System}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.User)),
		},
	})
	if err != nil {
		return nil, wrapUpstream(a.Name(), err, a.apiKey)
	}

	var out strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	gc, err := ParseArtifact(out.String())
	if err != nil {
		return nil, err
	}
	gc.Provider, gc.Model = a.Name(), a.model
	return gc, nil
}
