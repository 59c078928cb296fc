package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nulzo/model-capability-api/internal/audit"
	"github.com/nulzo/model-capability-api/internal/config"
	"github.com/nulzo/model-capability-api/internal/gateway"
	"github.com/nulzo/model-capability-api/internal/provider"
	"github.com/nulzo/model-capability-api/internal/provider/openai"
	"github.com/nulzo/model-capability-api/internal/restriction"
	"github.com/nulzo/model-capability-api/internal/server"
	"github.com/nulzo/model-capability-api/internal/store/cache"
	"github.com/nulzo/model-capability-api/pkg/api"
)

// These tests run the whole service in process: a mock OpenAI-compatible
// upstream, the real provider on top of it, the gateway, and the public
// HTTP surface. Nothing between the router and the wire is stubbed.

const apiKey = "e2e-test-key"

const customBlob = `{
	"nano-local": {
		"context_window": 16384,
		"max_output_tokens": 2048,
		"aliases": ["nano"],
		"description": "Self-hosted test model"
	}
}`

// upstreamRecorder remembers what the mock upstream saw, so tests can
// assert on the exact wire form the provider produced.
type upstreamRecorder struct {
	mu          sync.Mutex
	completions []api.CompletionRequest
	listCount   int
}

func (r *upstreamRecorder) record(req api.CompletionRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions = append(r.completions, req)
}

func (r *upstreamRecorder) last(t *testing.T) api.CompletionRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.completions, "upstream never received a completion request")
	return r.completions[len(r.completions)-1]
}

func (r *upstreamRecorder) listCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCount
}

func newUpstream(t *testing.T, rec *upstreamRecorder) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/models"):
			rec.mu.Lock()
			rec.listCount++
			rec.mu.Unlock()
			writeJSON(t, w, api.ModelListResponse{
				Object: "list",
				Data: []api.ModelInfo{
					{ID: "o3", Object: "model", OwnedBy: "openai"},
					{ID: "o4-mini", Object: "model", OwnedBy: "openai"},
				},
			})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/chat/completions"):
			var req api.CompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			rec.record(req)
			writeJSON(t, w, api.ChatResponse{
				ID:     "chatcmpl-test",
				Model:  req.Model,
				Object: "chat.completion",
				Choices: []api.Choice{{
					Message:      &api.ChatMessage{Role: api.Assistant, Content: "pong"},
					FinishReason: "stop",
				}},
				Usage: &api.ResponseUsage{PromptTokens: 3, CompletionTokens: 1, TotalTokens: 4},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// newStack builds the service end to end against a fresh mock upstream.
// denied is a comma-separated deny list for the openai provider; empty
// means no policy at all.
func newStack(t *testing.T, customModels, denied string) (http.Handler, *upstreamRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := &upstreamRecorder{}
	upstream := newUpstream(t, rec)

	var policy restriction.Policy
	if denied != "" {
		policy = restriction.New(map[api.ProviderKind]restriction.Rules{
			api.ProviderOpenAI: {Denied: restriction.ParseList(denied)},
		})
	}

	p, err := openai.New(provider.Config{
		Kind:         api.ProviderOpenAI,
		APIKey:       "sk-upstream-test",
		BaseURL:      upstream.URL + "/v1",
		CustomModels: customModels,
		Policy:       policy,
		Log:          zap.NewNop(),
	})
	require.NoError(t, err)

	svc := gateway.NewService(zap.NewNop(), audit.Nop{}, cache.NewMemoryCache(), time.Minute)
	svc.RegisterProvider(p)

	cfg := &config.Config{}
	cfg.Server.APIKeys = []string{apiKey}
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 1000

	return server.New(cfg, zap.NewNop(), svc, nil, nil).Handler(), rec
}

func doRequest(t *testing.T, h http.Handler, method, path, key string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "response was not valid JSON: %s", w.Body.String())
}

func TestHealthIsOpen(t *testing.T) {
	h, _ := newStack(t, "", "")

	w := doRequest(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health api.HealthResponse
	decode(t, w, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.NotEmpty(t, health.Version)
	assert.Contains(t, health.Providers, "openai")
}

func TestModelsRequireAPIKey(t *testing.T) {
	h, _ := newStack(t, "", "")

	w := doRequest(t, h, http.MethodGet, "/v1/models", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, h, http.MethodGet, "/v1/models", "wrong-key", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListModelsIncludesCustomEntries(t *testing.T) {
	h, _ := newStack(t, customBlob, "")

	w := doRequest(t, h, http.MethodGet, "/v1/models", apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Object string             `json:"object"`
		Data   []api.ModelSummary `json:"data"`
	}
	decode(t, w, &list)
	assert.Equal(t, "list", list.Object)

	byName := make(map[string]api.ModelSummary, len(list.Data))
	for _, m := range list.Data {
		byName[m.Model] = m
	}
	assert.Contains(t, byName, "o3")
	assert.Contains(t, byName, "gpt-4.1-2025-04-14")

	nano, ok := byName["nano-local"]
	require.True(t, ok, "custom model missing from listing")
	assert.Equal(t, 16384, nano.ContextWindow)
	assert.Equal(t, 2048, nano.MaxOutputTokens)
	assert.Contains(t, nano.Aliases, "nano")
}

func TestAliasLookupIsCaseInsensitive(t *testing.T) {
	h, _ := newStack(t, "", "")

	w := doRequest(t, h, http.MethodGet, "/v1/models/MINI", apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var caps api.ModelCapabilities
	decode(t, w, &caps)
	assert.Equal(t, "o4-mini", caps.ModelName)
	assert.Equal(t, api.ProviderOpenAI, caps.Provider)
	assert.False(t, caps.SupportsTemperature)
}

func TestUnknownAndRestrictedShareOneShape(t *testing.T) {
	h, _ := newStack(t, "", "o3")

	unknown := doRequest(t, h, http.MethodGet, "/v1/models/martian-9", apiKey, nil)
	restricted := doRequest(t, h, http.MethodGet, "/v1/models/o3", apiKey, nil)

	require.Equal(t, http.StatusNotFound, unknown.Code)
	require.Equal(t, http.StatusNotFound, restricted.Code)

	var unknownBody, restrictedBody map[string]interface{}
	decode(t, unknown, &unknownBody)
	decode(t, restricted, &restrictedBody)

	assert.Equal(t, unknownBody["title"], restrictedBody["title"])
	assert.Equal(t, "martian-9", unknownBody["model"])
	assert.Equal(t, "o3", restrictedBody["model"])

	// the deny list must not leak through the public surface
	assert.NotContains(t, restricted.Body.String(), "restricted")
	assert.NotContains(t, restricted.Body.String(), "policy")
}

func TestValidateNeverFails(t *testing.T) {
	h, _ := newStack(t, "", "o3")

	w := doRequest(t, h, http.MethodGet, "/v1/models/o3/validate", apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res api.ValidateResult
	decode(t, w, &res)
	assert.Equal(t, "o3", res.Model)
	assert.False(t, res.Valid)

	w = doRequest(t, h, http.MethodGet, "/v1/models/mini/validate", apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.True(t, res.Valid)
}

func TestGenerateShapesTheUpstreamRequest(t *testing.T) {
	h, rec := newStack(t, "", "")

	temp := 0.9
	payload := api.GenerationRequest{
		Model:        "mini",
		Prompt:       "say hi",
		SystemPrompt: "be terse",
		Temperature:  &temp,
	}

	w := doRequest(t, h, http.MethodPost, "/v1/generate", apiKey, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.ModelResponse
	decode(t, w, &resp)
	assert.Equal(t, "o4-mini", resp.Model)
	assert.Equal(t, "pong", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)

	sent := rec.last(t)
	assert.Equal(t, "o4-mini", sent.Model, "upstream must see the canonical name")
	assert.Nil(t, sent.Temperature, "fixed-temperature models must not receive the parameter")
	assert.Equal(t, 65536, sent.MaxTokens)
	require.Len(t, sent.Messages, 2)
	assert.Equal(t, api.System, sent.Messages[0].Role)
	assert.Equal(t, "be terse", sent.Messages[0].Content)
	assert.Equal(t, api.User, sent.Messages[1].Role)
	assert.Equal(t, "say hi", sent.Messages[1].Content)
}

func TestGenerateKeepsTemperatureWhenSupported(t *testing.T) {
	h, rec := newStack(t, "", "")

	temp := 0.3
	payload := api.GenerationRequest{Model: "gpt4.1", Prompt: "say hi", Temperature: &temp}

	w := doRequest(t, h, http.MethodPost, "/v1/generate", apiKey, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sent := rec.last(t)
	assert.Equal(t, "gpt-4.1-2025-04-14", sent.Model)
	require.NotNil(t, sent.Temperature)
	assert.InDelta(t, 0.3, *sent.Temperature, 1e-9)
}

func TestGenerateThroughCustomAlias(t *testing.T) {
	h, rec := newStack(t, customBlob, "")

	payload := api.GenerationRequest{Model: "NANO", Prompt: "ping"}
	w := doRequest(t, h, http.MethodPost, "/v1/generate", apiKey, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.ModelResponse
	decode(t, w, &resp)
	assert.Equal(t, "nano-local", resp.Model)

	sent := rec.last(t)
	assert.Equal(t, "nano-local", sent.Model)
	assert.Equal(t, 2048, sent.MaxTokens)
}

func TestGenerateUnknownModelIs404(t *testing.T) {
	h, _ := newStack(t, "", "")

	payload := api.GenerationRequest{Model: "martian-9", Prompt: "hi"}
	w := doRequest(t, h, http.MethodPost, "/v1/generate", apiKey, payload)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateRejectsMissingFields(t *testing.T) {
	h, _ := newStack(t, "", "")

	w := doRequest(t, h, http.MethodPost, "/v1/generate", apiKey, map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "Validation Error", body["title"])

	fields, ok := body["errors"].(map[string]interface{})
	require.True(t, ok, "validation problem must carry an errors map")
	assert.Contains(t, fields, "model")
	assert.Contains(t, fields, "prompt")
}

func TestVerifyHitsUpstreamOnceThenCaches(t *testing.T) {
	h, rec := newStack(t, "", "")

	w := doRequest(t, h, http.MethodGet, "/v1/models/mini/verify", apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var first api.VerifyResult
	decode(t, w, &first)
	assert.Equal(t, "mini", first.Model)
	assert.Equal(t, "o4-mini", first.Canonical)
	assert.True(t, first.Upstream)
	assert.False(t, first.Cached)

	w = doRequest(t, h, http.MethodGet, "/v1/models/mini/verify", apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var second api.VerifyResult
	decode(t, w, &second)
	assert.True(t, second.Upstream)
	assert.True(t, second.Cached)

	assert.Equal(t, 1, rec.listCalls(), "second verify must come from the cache")
}
