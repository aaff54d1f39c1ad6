package handler

import (
	amazonapp "github.com/erp/mws-connector/internal/application/amazon"
	"github.com/gin-gonic/gin"
)

// IdentifierHandler handles the marketplace identifiers attached to products
type IdentifierHandler struct {
	BaseHandler
	identifierService *amazonapp.IdentifierService
}

// NewIdentifierHandler creates a new IdentifierHandler
func NewIdentifierHandler(identifierService *amazonapp.IdentifierService) *IdentifierHandler {
	return &IdentifierHandler{identifierService: identifierService}
}

// List returns a product's identifiers in the order they were added
// GET /amazon/products/:id/identifiers
func (h *IdentifierHandler) List(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	identifiers, err := h.identifierService.List(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, identifiers)
}

// Add attaches an identifier to a product
// POST /amazon/products/:id/identifiers
func (h *IdentifierHandler) Add(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req amazonapp.AddIdentifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	identifier, err := h.identifierService.Add(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, identifier)
}

// Remove deletes an identifier
// DELETE /amazon/identifiers/:id
func (h *IdentifierHandler) Remove(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.identifierService.Remove(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
