package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const VercelAPI = "https://api.vercel.com"

type VercelClient struct {
	baseClient
	teamID string
}

func NewVercelClient(baseURL, token, teamID string, hc *http.Client, log *zap.Logger) *VercelClient {
	if baseURL == "" {
		baseURL = VercelAPI
	}
	return &VercelClient{
		baseClient: baseClient{service: "vercel", baseURL: strings.TrimRight(baseURL, "/"), token: token, httpClient: hc, log: log},
		teamID:     teamID,
	}
}

type VercelFile struct {
	File     string `json:"file"`
	Data     string `json:"data"`
	Encoding string `json:"encoding,omitempty"`
}

type VercelDeploymentRequest struct {
	Name            string                 `json:"name"`
	Files           []VercelFile           `json:"files"`
	Target          string                 `json:"target,omitempty"`
	ProjectSettings *VercelProjectSettings `json:"projectSettings,omitempty"`
}

type VercelProjectSettings struct {
	Framework *string `json:"framework"`
}

type VercelDeployment struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	ReadyState string `json:"readyState"`
}

// CreateDeployment uploads files inline and returns the deployment with an absolute URL.
func (c *VercelClient) CreateDeployment(ctx context.Context, req VercelDeploymentRequest) (*VercelDeployment, error) {
	endpoint := "/v13/deployments"
	if c.teamID != "" {
		endpoint += "?teamId=" + url.QueryEscape(c.teamID)
	}
	var out VercelDeployment
	if err := c.doJSON(ctx, http.MethodPost, endpoint, req, &out); err != nil {
		return nil, err
	}
	if out.URL != "" && !strings.HasPrefix(out.URL, "http") {
		out.URL = "https://" + out.URL
	}
	return &out, nil
}
