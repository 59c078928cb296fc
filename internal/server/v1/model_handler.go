package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/model-capability-api/internal/gateway"
	"github.com/nulzo/model-capability-api/pkg/api"
)

type ModelHandler struct {
	service gateway.Service
}

func NewModelHandler(service gateway.Service) *ModelHandler {
	return &ModelHandler{service: service}
}

// ListModels returns every model the registered providers expose,
// aliases included.
func (h *ModelHandler) ListModels(c *gin.Context) {
	models := h.service.ListModels(c.Request.Context())
	if models == nil {
		models = []api.ModelSummary{}
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   models,
	})
}

// GetModel returns the full capability record for one model. The path
// segment may be a canonical name or any alias.
func (h *ModelHandler) GetModel(c *gin.Context) {
	name := c.Param("name")

	caps, err := h.service.GetCapabilities(c.Request.Context(), name)
	if err != nil {
		_ = c.Error(modelProblem(name, err))
		return
	}

	c.JSON(http.StatusOK, caps)
}

// ValidateModel reports whether a name resolves to a usable model. The
// answer is always 200; unknown or restricted names come back valid=false.
func (h *ModelHandler) ValidateModel(c *gin.Context) {
	result := h.service.ValidateModel(c.Request.Context(), c.Param("name"))
	c.JSON(http.StatusOK, result)
}

// VerifyModel checks a locally registered model against the provider's
// live model listing. Results may be served from cache.
func (h *ModelHandler) VerifyModel(c *gin.Context) {
	name := c.Param("name")

	result, err := h.service.VerifyUpstream(c.Request.Context(), name)
	if err != nil {
		_ = c.Error(modelProblem(name, err))
		return
	}

	c.JSON(http.StatusOK, result)
}
