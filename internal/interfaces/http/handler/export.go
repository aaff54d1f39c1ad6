package handler

import (
	amazonapp "github.com/erp/mws-connector/internal/application/amazon"
	"github.com/erp/mws-connector/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExportHandler handles SKU resolution and direct feed exports
type ExportHandler struct {
	BaseHandler
	exportService *amazonapp.ExportService
	resolver      *amazonapp.ProductResolver
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *amazonapp.ExportService, resolver *amazonapp.ProductResolver) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		resolver:      resolver,
	}
}

// Resolve finds the product for a seller SKU, importing it from the
// marketplace when no local product has that code
// POST /amazon/accounts/:id/resolve
func (h *ExportHandler) Resolve(c *gin.Context) {
	accountID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req amazonapp.ResolveSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.resolver.ResolveBySKU(c.Request.Context(), accountID, req.SKU)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, amazonapp.ToProductResponse(product))
}

// Export builds and submits one feed for the given products
// POST /amazon/accounts/:id/exports/:kind
func (h *ExportHandler) Export(c *gin.Context) {
	accountID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	kind, ok := h.parseKindParam(c)
	if !ok {
		return
	}

	var req amazonapp.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	submission, err := h.exportService.Export(c.Request.Context(), kind, accountID, req.ProductIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("Export submitted",
		zap.String("kind", kind.String()),
		zap.String("submission_id", submission.SubmissionID),
		zap.Int("products", len(req.ProductIDs)),
	)
	h.Created(c, amazonapp.ToSubmissionResponse(submission))
}
