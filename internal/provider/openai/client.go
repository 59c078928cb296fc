package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nulzo/model-capability-api/internal/httpclient"
	"github.com/nulzo/model-capability-api/pkg/api"
)

// chatClient talks to an OpenAI-compatible endpoint. It is deliberately
// dumb: no retries, no streaming, no parameter decisions.
type chatClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ CompletionClient = (*chatClient)(nil)

func newChatClient(apiKey, baseURL string) *chatClient {
	return &chatClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *chatClient) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}
}

// upstreamErrorResponse mirrors the standard OpenAI error shape
type upstreamErrorResponse struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Param   interface{} `json:"param"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

func (c *chatClient) handleUpstreamError(err error) error {
	var upstreamErr *httpclient.UpstreamError
	if !errors.As(err, &upstreamErr) {
		return err
	}

	// parse the specific upstream error format
	var apiErr upstreamErrorResponse
	if jsonErr := json.Unmarshal(upstreamErr.Body, &apiErr); jsonErr != nil || apiErr.Error.Message == "" {
		// if we can't parse it, return a generic upstream error
		return api.NewError(
			upstreamErr.StatusCode,
			"Upstream Error",
			string(upstreamErr.Body),
			api.WithLog(err),
		)
	}

	// create a nice RFC 9457 problem
	return api.NewError(
		upstreamErr.StatusCode,
		"Upstream Provider Error",
		apiErr.Error.Message,
		api.WithType("about:blank"),
		api.WithExtension("upstream_code", apiErr.Error.Code),
		api.WithExtension("upstream_type", apiErr.Error.Type),
		api.WithExtension("upstream_param", apiErr.Error.Param),
		api.WithLog(err),
	)
}

func (c *chatClient) Complete(ctx context.Context, req *api.CompletionRequest) (*api.ChatResponse, error) {
	var resp api.ChatResponse

	err := httpclient.SendRequest(ctx, c.client, http.MethodPost, c.baseURL+"/chat/completions", c.headers(), req, &resp)
	if err != nil {
		return nil, c.handleUpstreamError(err)
	}

	if resp.Error != nil {
		return nil, api.NewError(http.StatusBadGateway, "Upstream Provider Error", resp.Error.Message)
	}

	return &resp, nil
}

func (c *chatClient) ListModels(ctx context.Context) ([]string, error) {
	var resp api.ModelListResponse

	err := httpclient.SendRequest(ctx, c.client, http.MethodGet, c.baseURL+"/models", c.headers(), nil, &resp)
	if err != nil {
		return nil, c.handleUpstreamError(err)
	}

	ids := make([]string, 0, len(resp.Data))
	for _, m := range resp.Data {
		ids = append(ids, m.ID)
	}

	return ids, nil
}
