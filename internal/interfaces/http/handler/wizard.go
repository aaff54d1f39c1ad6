package handler

import (
	"context"

	amazonapp "github.com/erp/mws-connector/internal/application/amazon"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WizardHandler drives the two-step export wizards
type WizardHandler struct {
	BaseHandler
	wizardService *amazonapp.WizardService
}

// NewWizardHandler creates a new WizardHandler
func NewWizardHandler(wizardService *amazonapp.WizardService) *WizardHandler {
	return &WizardHandler{wizardService: wizardService}
}

// Begin opens a wizard on its selection screen
// POST /amazon/accounts/:id/wizards/:kind
func (h *WizardHandler) Begin(c *gin.Context) {
	accountID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	kind, ok := h.parseKindParam(c)
	if !ok {
		return
	}

	session, err := h.wizardService.Begin(c.Request.Context(), kind, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// Get returns a wizard session
// GET /amazon/wizards/:session
func (h *WizardHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "session")
	if !ok {
		return
	}

	session, err := h.wizardService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Continue submits the selection. An empty body ends the wizard.
// POST /amazon/wizards/:session/continue
func (h *WizardHandler) Continue(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "session")
	if !ok {
		return
	}

	var req amazonapp.ContinueWizardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	session, err := h.wizardService.Continue(c.Request.Context(), id, req.ProductIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Cancel leaves the selection screen without exporting
// POST /amazon/wizards/:session/cancel
func (h *WizardHandler) Cancel(c *gin.Context) {
	h.transition(c, h.wizardService.Cancel)
}

// Finish closes the result screen
// POST /amazon/wizards/:session/finish
func (h *WizardHandler) Finish(c *gin.Context) {
	h.transition(c, h.wizardService.Finish)
}

func (h *WizardHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*amazonapp.WizardResponse, error)) {
	id, ok := h.parseUUIDParam(c, "session")
	if !ok {
		return
	}

	session, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}
