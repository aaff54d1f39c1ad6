package handler

import (
	amazonapp "github.com/erp/mws-connector/internal/application/amazon"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles MWS account endpoints
type AccountHandler struct {
	BaseHandler
	accountService *amazonapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *amazonapp.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create registers an MWS account
// POST /amazon/accounts
func (h *AccountHandler) Create(c *gin.Context) {
	var req amazonapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// GetByID returns one account
// GET /amazon/accounts/:id
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// List returns a page of accounts
// GET /amazon/accounts
func (h *AccountHandler) List(c *gin.Context) {
	var filter amazonapp.AccountListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	accounts, total, err := h.accountService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, accounts, total, max(filter.Page, 1), filter.PageSize)
}
