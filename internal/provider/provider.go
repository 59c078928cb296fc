package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/nulzo/model-capability-api/internal/restriction"
	"github.com/nulzo/model-capability-api/pkg/api"
)

// Provider is the capability facade for one upstream kind. Every instance
// owns its registry outright: two providers built from different configs
// never see each other's models. Implementations accept any known alias
// wherever a model name is expected and resolve it before doing anything
// else.
type Provider interface {
	Kind() api.ProviderKind

	// Canonicalize maps any known alias to its canonical model name.
	// Unknown names come back unchanged; the call is idempotent.
	Canonicalize(name string) string

	// GetCapabilities resolves the name and returns its record. Failure
	// wraps ErrUnsupportedModel or ErrRestrictedModel; both carry the
	// name the caller supplied, never the canonical form.
	GetCapabilities(name string) (api.ModelCapabilities, error)

	// ValidateModelName is GetCapabilities as a predicate: false for
	// unknown names and for known-but-denied ones. It never errors.
	ValidateModelName(name string) bool

	// GenerateContent resolves req.Model to its canonical name, shapes
	// the parameters to what the record says the model accepts, and
	// hands the request to the upstream execution path.
	GenerateContent(ctx context.Context, req *api.GenerationRequest) (*api.ModelResponse, error)

	// SupportsThinkingMode reports whether the named model can run an
	// extended thinking pass.
	SupportsThinkingMode(name string) bool

	// ModelOrigin resolves the name and reports where its record came
	// from ("builtin" or "custom"), or "" for unknown names.
	ModelOrigin(name string) string

	// ListCapabilities returns every record in load order.
	ListCapabilities() []api.ModelCapabilities

	// ListUpstreamModels fetches the provider's live model listing.
	ListUpstreamModels(ctx context.Context) ([]string, error)
}

// Config is everything a facade needs at construction time. The
// bootstrap assembles it from the service configuration; tests build it
// by hand.
type Config struct {
	Kind    api.ProviderKind
	APIKey  string
	BaseURL string

	// CustomModels is the raw custom-models JSON blob, usually the
	// value of OPENAI_CUSTOM_MODELS. Empty means built-ins only.
	CustomModels string

	Policy restriction.Policy
	Log    *zap.Logger
}
