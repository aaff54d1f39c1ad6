package handler

import (
	"errors"
	"net/http"

	"github.com/erp/mws-connector/internal/domain/amazon"
	"github.com/erp/mws-connector/internal/domain/shared"
	"github.com/erp/mws-connector/internal/infrastructure/logger"
	"github.com/erp/mws-connector/internal/infrastructure/mws"
	"github.com/erp/mws-connector/internal/interfaces/http/dto"
	"github.com/erp/mws-connector/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// sentinelCodes maps errors returned without a domain code to API codes.
// Order matters: the first match wins.
var sentinelCodes = []struct {
	err  error
	code string
}{
	{amazon.ErrAccountNotFound, dto.ErrCodeNotFound},
	{amazon.ErrIdentifierNotFound, dto.ErrCodeNotFound},
	{amazon.ErrWizardSessionNotFound, dto.ErrCodeNotFound},
	{amazon.ErrProductNotFound, dto.ErrCodeNotFound},
	{amazon.ErrProductNotFoundOnMarketplace, dto.ErrCodeNotFoundOnMarketplace},
	{amazon.ErrInvalidCodeType, dto.ErrCodeInvalidInput},
	{amazon.ErrIdentifierCodeRequired, dto.ErrCodeInvalidInput},
	{amazon.ErrInvalidWizardKind, dto.ErrCodeInvalidInput},
	{amazon.ErrInvalidProductID, dto.ErrCodeInvalidInput},
	{amazon.ErrInvalidAccountID, dto.ErrCodeInvalidInput},
	{amazon.ErrInvalidTransition, dto.ErrCodeInvalidState},
	{amazon.ErrDuplicateIdentifier, dto.ErrCodeDuplicateIdentifier},
	{amazon.ErrDuplicateProductCode, dto.ErrCodeDuplicateProductCode},
	{mws.ErrMWSThrottled, dto.ErrCodeMWSThrottled},
	{mws.ErrMWSUnavailable, dto.ErrCodeMWSUnavailable},
	{mws.ErrMWSInvalidResponse, dto.ErrCodeMWSInvalidResponse},
	{mws.ErrMWSRequestFailed, dto.ErrCodeMWSRequestFailed},
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// BindError answers a failed ShouldBind call, listing field errors when the
// validator produced them
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		middleware.HandleValidationError(c, err)
		return
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed request body")
}

// HandleError converts service errors to HTTP responses. Domain errors keep
// their code, known sentinels are mapped and anything else is a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			h.Error(c, dto.GetHTTPStatus(s.code), s.code, err.Error())
			return
		}
	}

	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// parseUUIDParam reads a UUID path parameter, answering 400 when it is malformed
func (h *BaseHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// parseKindParam reads the export kind path parameter
func (h *BaseHandler) parseKindParam(c *gin.Context) (amazon.WizardKind, bool) {
	kind := amazon.WizardKind(c.Param("kind"))
	if !kind.IsValid() {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Export kind must be one of catalog, pricing, inventory")
		return "", false
	}
	return kind, true
}
