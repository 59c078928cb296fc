package registry

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/nulzo/model-capability-api/pkg/api"
)

var validate = validator.New()

// Record origins, reported by Origin and carried into the audit trail.
const (
	OriginBuiltin = "builtin"
	OriginCustom  = "custom"
)

// Registry holds the capability records of one provider instance: the
// built-in seed merged with whatever the custom-models blob adds. Every
// provider owns its own Registry; nothing is shared across instances.
// After construction finishes the registry only ever answers lookups.
// It is thread-safe.
type Registry struct {
	mu      sync.RWMutex
	kind    api.ProviderKind
	models  map[string]api.ModelCapabilities
	order   []string // insertion order, newest last
	origins map[string]string
}

// LoadResult reports what a custom-models load did. Skipped entries carry
// the reason so callers can log each one.
type LoadResult struct {
	Loaded  []string
	Skipped []SkippedEntry
}

type SkippedEntry struct {
	Name   string
	Reason string
}

func New(kind api.ProviderKind) *Registry {
	return &Registry{
		kind:    kind,
		models:  make(map[string]api.ModelCapabilities),
		origins: make(map[string]string),
	}
}

// Seed installs the built-in records. Two built-ins colliding on a
// canonical name or alias is a bug in the shipped table, not runtime
// input, so Seed refuses the whole set and the caller treats that as
// fatal. A record restating its own canonical name as an alias is fine.
func (r *Registry) Seed(records []api.ModelCapabilities) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	canonical := make(map[string]string, len(records))
	for _, m := range records {
		if m.ModelName == "" {
			return fmt.Errorf("built-in record with empty model name")
		}
		key := strings.ToLower(m.ModelName)
		if owner, dup := canonical[key]; dup {
			return fmt.Errorf("built-in models %q and %q collide on canonical name", owner, m.ModelName)
		}
		canonical[key] = m.ModelName
	}

	aliases := make(map[string]string)
	for _, m := range records {
		for _, alias := range m.Aliases {
			key := strings.ToLower(alias)
			if owner, ok := canonical[key]; ok && owner != m.ModelName {
				return fmt.Errorf("alias %q of built-in %q shadows canonical name %q", alias, m.ModelName, owner)
			}
			if owner, ok := aliases[key]; ok && owner != m.ModelName {
				return fmt.Errorf("alias %q claimed by built-ins %q and %q", alias, owner, m.ModelName)
			}
			aliases[key] = m.ModelName
		}
	}

	for _, m := range records {
		r.insertLocked(m, OriginBuiltin)
	}

	return nil
}

// LoadCustomJSON merges the custom-models blob into the registry. The
// blob is an object keyed by canonical model name; entries are applied in
// document order, each insertion replacing any existing record under the
// same name entirely. A blob that does not parse leaves the registry
// untouched and comes back as an error; individual entries that fail
// validation are skipped with a reason while their siblings still load.
// An empty blob is not an error.
func (r *Registry) LoadCustomJSON(blob string) (LoadResult, error) {
	var result LoadResult

	if strings.TrimSpace(blob) == "" {
		return result, nil
	}

	entries, err := decodeCustomModels(blob)
	if err != nil {
		return result, fmt.Errorf("invalid custom model configuration: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		if strings.TrimSpace(e.name) == "" {
			result.Skipped = append(result.Skipped, SkippedEntry{Name: e.name, Reason: "empty model name"})
			continue
		}
		if e.cfg.ContextWindow <= 0 {
			result.Skipped = append(result.Skipped, SkippedEntry{Name: e.name, Reason: "missing or non-positive context_window"})
			continue
		}
		if err := validate.Struct(e.cfg); err != nil {
			result.Skipped = append(result.Skipped, SkippedEntry{Name: e.name, Reason: err.Error()})
			continue
		}

		r.insertLocked(customRecord(r.kind, e.name, e.cfg), OriginCustom)
		result.Loaded = append(result.Loaded, e.name)
	}

	return result, nil
}

// Lookup fetches a record by canonical name, case-sensitive. Callers
// resolve aliases first.
func (r *Registry) Lookup(canonical string) (api.ModelCapabilities, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[canonical]
	return m, ok
}

// Origin reports where the record under a canonical name came from:
// "builtin", "custom", or "" for names the registry does not hold. A
// built-in overwritten by a custom entry reports "custom".
func (r *Registry) Origin(canonical string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.origins[canonical]
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.models)
}

// Names returns the canonical names in load order, oldest first.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns every record in load order.
func (r *Registry) All() []api.ModelCapabilities {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]api.ModelCapabilities, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.models[name])
	}
	return out
}

// insertLocked replaces any record under the same canonical name and
// moves the name to the newest position, so alias scans prefer it.
func (r *Registry) insertLocked(m api.ModelCapabilities, origin string) {
	if _, exists := r.models[m.ModelName]; exists {
		for i, name := range r.order {
			if name == m.ModelName {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.order = append(r.order, m.ModelName)
	r.models[m.ModelName] = m
	r.origins[m.ModelName] = origin
}

type customEntry struct {
	name string
	cfg  api.CustomModelConfig
}

// decodeCustomModels walks the blob with a token decoder instead of
// unmarshalling into a map, because document order decides who wins when
// names or aliases collide.
func decodeCustomModels(blob string) ([]customEntry, error) {
	dec := json.NewDecoder(strings.NewReader(blob))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object of model configs, got %v", tok)
	}

	var entries []customEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)

		var cfg api.CustomModelConfig
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}

		entries = append(entries, customEntry{name: name, cfg: cfg})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return entries, nil
}

// customRecord builds a full record from a custom entry, filling the
// documented defaults for anything the entry leaves unset. The
// temperature constraint always derives from supports_temperature.
func customRecord(kind api.ProviderKind, name string, cfg api.CustomModelConfig) api.ModelCapabilities {
	m := api.ModelCapabilities{
		Provider:                 kind,
		ModelName:                name,
		FriendlyName:             fmt.Sprintf("%s Custom (%s)", kind.Label(), name),
		ContextWindow:            cfg.ContextWindow,
		MaxOutputTokens:          intOr(cfg.MaxOutputTokens, 4096),
		SupportsExtendedThinking: boolOr(cfg.SupportsExtendedThinking, false),
		SupportsSystemPrompts:    boolOr(cfg.SupportsSystemPrompts, true),
		SupportsStreaming:        boolOr(cfg.SupportsStreaming, true),
		SupportsFunctionCalling:  boolOr(cfg.SupportsFunctionCalling, true),
		SupportsJSONMode:         boolOr(cfg.SupportsJSONMode, true),
		SupportsImages:           boolOr(cfg.SupportsImages, false),
		MaxImageSizeMB:           floatOr(cfg.MaxImageSizeMB, 20.0),
		SupportsTemperature:      boolOr(cfg.SupportsTemperature, true),
		Aliases:                  cfg.Aliases,
		Description:              cfg.Description,
	}

	if m.SupportsTemperature {
		m.Temperature = api.TemperatureRange
	} else {
		m.Temperature = api.TemperatureFixed
	}

	if m.Description == "" {
		m.Description = fmt.Sprintf("Custom %s model: %s", kind.Label(), name)
	}

	return m
}

func intOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func boolOr(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}

func floatOr(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}
