package httpclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const GithubAPI = "https://api.github.com"

type GithubClient struct {
	baseClient
	owner string
}

// NewGithubClient creates repositories under owner when it is an organisation, or under
// the token's user when owner is empty.
func NewGithubClient(baseURL, token, owner string, hc *http.Client, log *zap.Logger) *GithubClient {
	if baseURL == "" {
		baseURL = GithubAPI
	}
	return &GithubClient{
		baseClient: baseClient{service: "github", baseURL: strings.TrimRight(baseURL, "/"), token: token, httpClient: hc, log: log},
		owner:      owner,
	}
}

type GithubRepo struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

type createRepoReq struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init"`
}

func (c *GithubClient) CreateRepo(ctx context.Context, name, description string, private bool) (*GithubRepo, error) {
	endpoint := "/user/repos"
	if c.owner != "" {
		endpoint = "/orgs/" + url.PathEscape(c.owner) + "/repos"
	}
	var out GithubRepo
	err := c.doJSON(ctx, http.MethodPost, endpoint, createRepoReq{
		Name:        name,
		Description: description,
		Private:     private,
		AutoInit:    true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type putContentReq struct {
	Message string `json:"message"`
	Content string `json:"content"`
}

// PutFile commits one file through the contents API.
func (c *GithubClient) PutFile(ctx context.Context, fullName, path, content, message string) error {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	endpoint := fmt.Sprintf("/repos/%s/contents/%s", fullName, strings.Join(segments, "/"))
	return c.doJSON(ctx, http.MethodPut, endpoint, putContentReq{
		Message: message,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
	}, nil)
}
