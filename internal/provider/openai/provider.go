package openai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nulzo/model-capability-api/internal/modeldata"
	"github.com/nulzo/model-capability-api/internal/provider"
	"github.com/nulzo/model-capability-api/internal/registry"
	"github.com/nulzo/model-capability-api/internal/restriction"
	"github.com/nulzo/model-capability-api/pkg/api"
)

func init() {
	provider.Register(api.ProviderOpenAI, New)
}

// CompletionClient is the upstream execution path. The facade resolves
// names and shapes parameters; the client only speaks the wire protocol.
type CompletionClient interface {
	Complete(ctx context.Context, req *api.CompletionRequest) (*api.ChatResponse, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Provider is the OpenAI capability facade. Construction seeds an owned
// registry with the built-in table and merges the custom-models blob on
// top; after that the registry never changes.
type Provider struct {
	registry *registry.Registry
	policy   restriction.Policy
	client   CompletionClient
	log      *zap.Logger
}

var _ provider.Provider = (*Provider)(nil)

func New(cfg provider.Config) (provider.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Policy == nil {
		cfg.Policy = restriction.AllowAll()
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	reg := registry.New(api.ProviderOpenAI)

	// a broken built-in table is a bug in this repo, not runtime input
	if err := reg.Seed(modeldata.OpenAIModels); err != nil {
		return nil, fmt.Errorf("seeding built-in openai models: %w", err)
	}

	// a broken custom config must never take the built-ins down
	result, err := reg.LoadCustomJSON(cfg.CustomModels)
	if err != nil {
		cfg.Log.Warn("invalid custom model configuration, serving built-ins only", zap.Error(err))
	}
	for _, s := range result.Skipped {
		cfg.Log.Warn("skipping custom model",
			zap.String("model", s.Name),
			zap.String("reason", s.Reason),
		)
	}
	if len(result.Loaded) > 0 {
		cfg.Log.Info("loaded custom openai models", zap.Strings("models", result.Loaded))
	}

	return &Provider{
		registry: reg,
		policy:   cfg.Policy,
		client:   newChatClient(cfg.APIKey, cfg.BaseURL),
		log:      cfg.Log,
	}, nil
}

func (p *Provider) Kind() api.ProviderKind {
	return api.ProviderOpenAI
}

func (p *Provider) Canonicalize(name string) string {
	return p.registry.Canonicalize(name)
}

func (p *Provider) GetCapabilities(name string) (api.ModelCapabilities, error) {
	canonical := p.registry.Canonicalize(name)

	caps, ok := p.registry.Lookup(canonical)
	if !ok {
		return api.ModelCapabilities{}, provider.UnsupportedModel(api.ProviderOpenAI, name)
	}

	if !p.policy.IsAllowed(api.ProviderOpenAI, canonical, name) {
		return api.ModelCapabilities{}, provider.RestrictedModel(api.ProviderOpenAI, name)
	}

	return caps, nil
}

func (p *Provider) ValidateModelName(name string) bool {
	_, err := p.GetCapabilities(name)
	return err == nil
}

func (p *Provider) GenerateContent(ctx context.Context, req *api.GenerationRequest) (*api.ModelResponse, error) {
	caps, err := p.GetCapabilities(req.Model)
	if err != nil {
		return nil, err
	}

	// the upstream only ever sees the canonical name
	upstream := buildCompletionRequest(caps, req)

	resp, err := p.client.Complete(ctx, upstream)
	if err != nil {
		return nil, err
	}

	return modelResponse(caps, resp), nil
}

// SupportsThinkingMode is a statement about the provider's chat surface,
// not about any particular name, so it deliberately skips resolution: no
// OpenAI chat completion model runs an extended thinking pass here.
func (p *Provider) SupportsThinkingMode(name string) bool {
	return false
}

func (p *Provider) ModelOrigin(name string) string {
	return p.registry.Origin(p.registry.Canonicalize(name))
}

func (p *Provider) ListCapabilities() []api.ModelCapabilities {
	return p.registry.All()
}

func (p *Provider) ListUpstreamModels(ctx context.Context) ([]string, error) {
	return p.client.ListModels(ctx)
}

// buildCompletionRequest shapes a generation into the upstream wire form,
// honoring what the record says the model accepts: fixed-temperature
// models get no temperature field at all, system prompts are folded in
// only when supported, and the output budget defaults from the record.
func buildCompletionRequest(caps api.ModelCapabilities, req *api.GenerationRequest) *api.CompletionRequest {
	out := &api.CompletionRequest{
		Model:     caps.ModelName,
		MaxTokens: req.MaxOutputTokens,
	}
	if out.MaxTokens <= 0 {
		out.MaxTokens = caps.MaxOutputTokens
	}

	if req.SystemPrompt != "" && caps.SupportsSystemPrompts {
		out.Messages = append(out.Messages, api.ChatMessage{Role: api.System, Content: req.SystemPrompt})
	}
	out.Messages = append(out.Messages, api.ChatMessage{Role: api.User, Content: req.Prompt})

	if req.Temperature != nil && caps.SupportsTemperature {
		out.Temperature = req.Temperature
	}

	if req.JSONMode && caps.SupportsJSONMode {
		out.ResponseFormat = &api.ResponseFormat{Type: "json_object"}
	}

	return out
}

func modelResponse(caps api.ModelCapabilities, resp *api.ChatResponse) *api.ModelResponse {
	out := &api.ModelResponse{
		Model:        caps.ModelName,
		FriendlyName: caps.FriendlyName,
		Usage:        resp.Usage,
	}

	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		if choice.Message != nil {
			out.Content = choice.Message.Content
		}
		out.FinishReason = choice.FinishReason
	}

	return out
}
