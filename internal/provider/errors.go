package provider

import (
	"errors"
	"fmt"

	"github.com/nulzo/model-capability-api/pkg/api"
)

// The two ways a model name can be refused. They stay distinguishable
// with errors.Is inside the service; the HTTP boundary collapses both
// into one not-found category so callers cannot probe which models exist
// behind a restriction.
var (
	ErrUnsupportedModel = errors.New("unsupported model")
	ErrRestrictedModel  = errors.New("model restricted by policy")
)

// UnsupportedModel wraps ErrUnsupportedModel with the name the caller
// supplied. Always the original spelling, never the canonical form, so
// the message matches what the user typed.
func UnsupportedModel(kind api.ProviderKind, name string) error {
	return fmt.Errorf("%w: %s has no model %q", ErrUnsupportedModel, kind.Label(), name)
}

// RestrictedModel wraps ErrRestrictedModel with the original name.
func RestrictedModel(kind api.ProviderKind, name string) error {
	return fmt.Errorf("%w: %s model %q", ErrRestrictedModel, kind.Label(), name)
}
