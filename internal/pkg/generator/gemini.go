package generator

import (
	"context"
	"net/http"

	"github.com/saas-factory/api/internal/modules/model"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-pro"

type Gemini struct {
	client    *genai.Client
	apiKey    string
	model     string
	maxTokens int
}

func NewGemini(ctx context.Context, apiKey, modelName string, maxOut int, hc *http.Client) (*Gemini, error) {
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, apiKey: apiKey, model: modelName, maxTokens: maxTokens(maxOut)}, nil
}

func (g *Gemini) Name() string  { return "gemini" }
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Generate(ctx context.Context, p Prompt) (*model.GeneratedCode, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
		MaxOutputTokens:   int32(g.maxTokens),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return nil, wrapUpstream(g.Name(), err, g.apiKey)
	}
	gc, err := ParseArtifact(resp.Text())
	if err != nil {
		return nil, err
	}
	gc.Provider, gc.Model = g.Name(), g.model
	return gc, nil
}
