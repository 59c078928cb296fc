package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nulzo/model-capability-api/internal/audit"
	"github.com/nulzo/model-capability-api/internal/provider"
	"github.com/nulzo/model-capability-api/internal/store/cache"
	"github.com/nulzo/model-capability-api/internal/store/model"
	"github.com/nulzo/model-capability-api/pkg/api"
)

var ErrProviderNotFound = errors.New("provider not found")

// Service is the single surface over every registered capability
// provider: lookups walk the providers in registration order, generation
// routes to the owning provider, and every resolution lands in the audit
// trail.
type Service interface {
	RegisterProvider(p provider.Provider)
	Provider(kind api.ProviderKind) (provider.Provider, error)
	Kinds() []api.ProviderKind

	GetCapabilities(ctx context.Context, name string) (api.ModelCapabilities, error)
	ValidateModel(ctx context.Context, name string) api.ValidateResult
	ListModels(ctx context.Context) []api.ModelSummary
	Generate(ctx context.Context, req *api.GenerationRequest) (*api.ModelResponse, error)
	VerifyUpstream(ctx context.Context, name string) (api.VerifyResult, error)
}

type service struct {
	logger    *zap.Logger
	ingestor  audit.Ingestor
	cache     cache.CacheService
	verifyTTL time.Duration

	mu        sync.RWMutex
	providers map[api.ProviderKind]provider.Provider
	order     []api.ProviderKind
}

func NewService(logger *zap.Logger, ingestor audit.Ingestor, cacheSvc cache.CacheService, verifyTTL time.Duration) Service {
	if verifyTTL <= 0 {
		verifyTTL = 5 * time.Minute
	}
	return &service{
		logger:    logger,
		ingestor:  ingestor,
		cache:     cacheSvc,
		verifyTTL: verifyTTL,
		providers: make(map[api.ProviderKind]provider.Provider),
	}
}

func (s *service) RegisterProvider(p provider.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := p.Kind()
	if _, exists := s.providers[kind]; !exists {
		s.order = append(s.order, kind)
	}
	s.providers[kind] = p
}

func (s *service) Provider(kind api.ProviderKind) (provider.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, exists := s.providers[kind]; exists {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, kind)
}

func (s *service) Kinds() []api.ProviderKind {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.ProviderKind, len(s.order))
	copy(out, s.order)
	return out
}

func (s *service) GetCapabilities(ctx context.Context, name string) (api.ModelCapabilities, error) {
	_, caps, err := s.resolveOwner(name, time.Now())
	return caps, err
}

func (s *service) ValidateModel(ctx context.Context, name string) api.ValidateResult {
	caps, err := s.GetCapabilities(ctx, name)
	if err != nil {
		return api.ValidateResult{Model: name, Valid: false}
	}
	return api.ValidateResult{Model: name, Valid: true, Provider: caps.Provider}
}

func (s *service) ListModels(ctx context.Context) []api.ModelSummary {
	var out []api.ModelSummary
	for _, p := range s.ordered() {
		for _, m := range p.ListCapabilities() {
			out = append(out, api.ModelSummary{
				Model:           m.ModelName,
				FriendlyName:    m.FriendlyName,
				Provider:        m.Provider,
				ContextWindow:   m.ContextWindow,
				MaxOutputTokens: m.MaxOutputTokens,
				Aliases:         m.Aliases,
			})
		}
	}
	return out
}

func (s *service) Generate(ctx context.Context, req *api.GenerationRequest) (*api.ModelResponse, error) {
	owner, _, err := s.resolveOwner(req.Model, time.Now())
	if err != nil {
		return nil, err
	}
	return owner.GenerateContent(ctx, req)
}

// upstreamListing is the cached shape of one provider's live /models ids.
type upstreamListing struct {
	Models    []string  `json:"models"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (s *service) VerifyUpstream(ctx context.Context, name string) (api.VerifyResult, error) {
	owner, caps, err := s.resolveOwner(name, time.Now())
	if err != nil {
		return api.VerifyResult{}, err
	}

	res := api.VerifyResult{
		Model:     name,
		Canonical: caps.ModelName,
		Provider:  caps.Provider,
	}

	key := fmt.Sprintf("upstream:models:%s", caps.Provider)
	var listing upstreamListing
	if s.cache.Get(ctx, key, &listing) == nil {
		res.Cached = true
	} else {
		ids, err := owner.ListUpstreamModels(ctx)
		if err != nil {
			return api.VerifyResult{}, api.ProviderError("failed to list upstream models", err)
		}
		listing = upstreamListing{Models: ids, FetchedAt: time.Now()}
		if err := s.cache.Set(ctx, key, listing, s.verifyTTL); err != nil {
			s.logger.Warn("Failed to cache upstream model listing", zap.Error(err))
		}
	}

	for _, id := range listing.Models {
		if id == caps.ModelName {
			res.Upstream = true
			break
		}
	}

	return res, nil
}

// resolveOwner finds the first provider that serves the name and emits
// exactly one audit record for the attempt. When every provider refuses,
// a restriction outranks not-found: the model exists somewhere, policy
// just won't serve it.
func (s *service) resolveOwner(name string, start time.Time) (provider.Provider, api.ModelCapabilities, error) {
	var firstErr, restrictedErr error
	var restrictedBy provider.Provider

	for _, p := range s.ordered() {
		caps, err := p.GetCapabilities(name)
		if err == nil {
			s.record(name, caps.ModelName, p.Kind(), model.DecisionServed, p.ModelOrigin(name), start)
			return p, caps, nil
		}
		if errors.Is(err, provider.ErrRestrictedModel) && restrictedErr == nil {
			restrictedErr = err
			restrictedBy = p
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	if restrictedErr != nil {
		s.record(name, restrictedBy.Canonicalize(name), restrictedBy.Kind(), model.DecisionRestricted, restrictedBy.ModelOrigin(name), start)
		return nil, api.ModelCapabilities{}, restrictedErr
	}

	if firstErr == nil {
		firstErr = fmt.Errorf("%w: no provider registered for %q", provider.ErrUnsupportedModel, name)
	}
	s.record(name, "", "", model.DecisionUnsupported, model.SourceNone, start)
	return nil, api.ModelCapabilities{}, firstErr
}

func (s *service) ordered() []provider.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]provider.Provider, 0, len(s.order))
	for _, kind := range s.order {
		out = append(out, s.providers[kind])
	}
	return out
}

func (s *service) record(requested, canonical string, kind api.ProviderKind, decision, source string, start time.Time) {
	if source == "" {
		source = model.SourceNone
	}
	s.ingestor.Record(&model.ResolutionLog{
		ID:             uuid.NewString(),
		RequestedModel: requested,
		CanonicalModel: canonical,
		ProviderKind:   string(kind),
		Decision:       decision,
		Source:         source,
		LatencyMS:      time.Since(start).Milliseconds(),
		CreatedAt:      time.Now(),
	})
}
