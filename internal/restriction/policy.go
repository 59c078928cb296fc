package restriction

import (
	"strings"

	"github.com/nulzo/model-capability-api/pkg/api"
)

// Policy decides whether a resolved model may be used. It is consulted
// with both the canonical name and the name the caller originally typed,
// after resolution and after the model is known to exist. A denial is not
// "not found": the model is real, someone just said no.
type Policy interface {
	IsAllowed(kind api.ProviderKind, canonical, original string) bool
}

// Rules are the raw allow/deny lists for one provider kind. Name matching
// is case-insensitive and whitespace-tolerant; either the canonical name
// or the original user-supplied form may match, so an allow list written
// in terms of aliases still admits those aliases.
type Rules struct {
	Allowed []string
	Denied  []string
}

// Ensure implementations satisfy the interface.
var _ Policy = (*Service)(nil)

// Service is the allow/deny implementation. An empty allow list admits
// everything; the deny list always overrides the allow list.
type Service struct {
	rules  map[api.ProviderKind]kindRules
	onDeny DenialHandler
}

type kindRules struct {
	allowed map[string]struct{}
	denied  map[string]struct{}
}

type Option func(*Service)

// WithDenialHandler installs a callback invoked on every denial.
func WithDenialHandler(h DenialHandler) Option {
	return func(s *Service) {
		s.onDeny = h
	}
}

func New(rules map[api.ProviderKind]Rules, opts ...Option) *Service {
	s := &Service{
		rules:  make(map[api.ProviderKind]kindRules, len(rules)),
		onDeny: &NopDenialHandler{},
	}

	for kind, r := range rules {
		kr := kindRules{
			allowed: toSet(r.Allowed),
			denied:  toSet(r.Denied),
		}
		if len(kr.allowed) == 0 && len(kr.denied) == 0 {
			continue
		}
		s.rules[kind] = kr
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AllowAll is the policy used when nothing is configured.
func AllowAll() Policy {
	return New(nil)
}

func (s *Service) IsAllowed(kind api.ProviderKind, canonical, original string) bool {
	kr, ok := s.rules[kind]
	if !ok {
		return true
	}

	names := candidateNames(canonical, original)

	for _, n := range names {
		if _, denied := kr.denied[n]; denied {
			s.onDeny.OnDenial(kind, original, "matched deny list")
			return false
		}
	}

	if len(kr.allowed) == 0 {
		return true
	}

	for _, n := range names {
		if _, allowed := kr.allowed[n]; allowed {
			return true
		}
	}

	s.onDeny.OnDenial(kind, original, "not in allow list")
	return false
}

// ParseList splits a comma-separated restriction list from the
// environment into names. Empty segments vanish.
func ParseList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func candidateNames(canonical, original string) []string {
	c := normalize(canonical)
	o := normalize(original)
	if c == o {
		return []string{c}
	}
	return []string{c, o}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func toSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if k := normalize(n); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
