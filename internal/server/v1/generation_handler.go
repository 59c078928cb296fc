package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/model-capability-api/internal/gateway"
	"github.com/nulzo/model-capability-api/internal/server/validator"
	"github.com/nulzo/model-capability-api/pkg/api"
)

type GenerationHandler struct {
	service gateway.Service
}

func NewGenerationHandler(service gateway.Service) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// Generate runs a single prompt through the owning provider of the
// requested model. Parameters the resolved model cannot honor are shaped
// by the provider before the upstream call.
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req api.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(modelProblem(req.Model, err))
		return
	}

	c.JSON(http.StatusOK, resp)
}
