package generator

import (
	"context"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/saas-factory/api/internal/modules/model"
)

const defaultOpenAIModel = "gpt-4.1"

type OpenAI struct {
	client    openai.Client
	apiKey    string
	model     string
	maxTokens int
}

func NewOpenAI(apiKey, baseURL, modelName string, maxOut int, hc *http.Client) *OpenAI {
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithHTTPClient(hc)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{
		client:    openai.NewClient(opts...),
		apiKey:    apiKey,
		model:     modelName,
		maxTokens: maxTokens(maxOut),
	}
}

func (o *OpenAI) Name() string  { return "openai" }
func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Generate(ctx context.Context, p Prompt) (*model.GeneratedCode, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		},
		MaxCompletionTokens: openai.Int(int64(o.maxTokens)),
	})
	if err != nil {
		return nil, wrapUpstream(o.Name(), err, o.apiKey)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyOutput
	}
	gc, err := ParseArtifact(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	gc.Provider, gc.Model = o.Name(), o.model
	return gc, nil
}
