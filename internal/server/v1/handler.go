package v1

import (
	"errors"
	"fmt"

	"github.com/nulzo/model-capability-api/internal/provider"
	"github.com/nulzo/model-capability-api/pkg/api"
)

// modelProblem maps a resolution failure to its wire problem. Unknown and
// restricted models produce the same 404 on purpose, so callers cannot
// probe the restriction policy; the real reason travels in the server log
// and the audit trail only.
func modelProblem(name string, err error) *api.Problem {
	if errors.Is(err, provider.ErrUnsupportedModel) || errors.Is(err, provider.ErrRestrictedModel) {
		return api.NotFoundError(
			fmt.Sprintf("Model %q is not supported.", name),
			api.WithExtension("model", name),
			api.WithLog(err),
		)
	}

	var problem *api.Problem
	if errors.As(err, &problem) {
		return problem
	}

	return api.InternalError("Failed to resolve model", err)
}
