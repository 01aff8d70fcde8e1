// Package api exposes the ingestion engine over HTTP. The handler is a
// thin boundary: decode, validate once, forward, write the envelope.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"site_ingest/internal/domain"
	"site_ingest/internal/payload"
)

// Ingester is the engine operation the handler forwards to.
type Ingester interface {
	Ingest(ctx context.Context, p *domain.IngestPayload) domain.Result
}

type IngestHandler struct {
	svc Ingester
}

func NewIngestHandler(svc Ingester) *IngestHandler {
	return &IngestHandler{svc: svc}
}

// IngestSite handles POST /v1/sites/ingest.
func (h *IngestHandler) IngestSite(c *gin.Context) {
	var req payload.Payload
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, domain.Result{
			OK:    false,
			Error: "malformed JSON payload: " + bindErr.Error(),
			Code:  domain.CodeValidation,
		})
		return
	}

	p, err := req.Validate()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, domain.Failure(err))
		return
	}

	res := h.svc.Ingest(c.Request.Context(), p)
	c.JSON(statusFor(res), res)
}

func statusFor(r domain.Result) int {
	if r.OK {
		return http.StatusOK
	}
	switch r.Code {
	case domain.CodeValidation:
		return http.StatusUnprocessableEntity
	case domain.CodeConstraint:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}
