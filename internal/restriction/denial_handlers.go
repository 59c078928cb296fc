package restriction

import (
	"go.uber.org/zap"

	"github.com/nulzo/model-capability-api/pkg/api"
)

// DenialHandler is called when a policy check denies a model. The model
// argument is the name the caller originally supplied.
type DenialHandler interface {
	OnDenial(kind api.ProviderKind, model, reason string)
}

// Ensure implementations satisfy the interface.
var (
	_ DenialHandler = (*ZapDenialHandler)(nil)
	_ DenialHandler = (*NopDenialHandler)(nil)
)

// ZapDenialHandler logs denials as warnings.
type ZapDenialHandler struct {
	Log *zap.Logger
}

func (h *ZapDenialHandler) OnDenial(kind api.ProviderKind, model, reason string) {
	h.Log.Warn("model blocked by restriction policy",
		zap.String("provider", string(kind)),
		zap.String("model", model),
		zap.String("reason", reason),
	)
}

// NopDenialHandler does nothing.
type NopDenialHandler struct{}

func (h *NopDenialHandler) OnDenial(kind api.ProviderKind, model, reason string) {}
