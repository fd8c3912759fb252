package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/iwtcode/bambuService/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse возвращает стандартизированный ответ с ошибкой
func (h *Handler) ErrorResponse(c *gin.Context, err error, statusCode int, message string, showError bool) {
	errorMessage := message
	if showError && err != nil {
		errorMessage = message + ": " + err.Error()
	}

	h.logger.Error(message, "error", err, "statusCode", statusCode)
	c.AbortWithStatusJSON(statusCode, gin.H{
		"status": "error",
		"error": gin.H{
			"code":    statusCode,
			"message": errorMessage,
		},
	})
}

// BadRequest возвращает ошибку 400
func (h *Handler) BadRequest(c *gin.Context, err error, message string) {
	if message == "" {
		message = errors.BadRequest
	}
	h.ErrorResponse(c, err, http.StatusBadRequest, message, true)
}

// InternalError возвращает ошибку 500
func (h *Handler) InternalError(c *gin.Context, err error) {
	h.ErrorResponse(c, err, http.StatusInternalServerError, errors.InternalServerError, false)
}

// NotFound возвращает ошибку 404
func (h *Handler) NotFound(c *gin.Context, err error) {
	h.ErrorResponse(c, err, http.StatusNotFound, errors.NotFound, true)
}

// RespondError подбирает HTTP-статус по сентинельным ошибкам печатного API:
// отсутствие записи - 404, принтер не подключен - 503, недоступность
// файлового хранилища принтера - 502, остальное - 500.
func (h *Handler) RespondError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, errors.ErrDataNotFound):
		h.NotFound(c, err)
	case stderrors.Is(err, errors.ErrNotConnected):
		h.ErrorResponse(c, err, http.StatusServiceUnavailable, "Printer is not connected", false)
	case stderrors.Is(err, errors.ErrAssetFetch):
		h.ErrorResponse(c, err, http.StatusBadGateway, "Printer file storage is unavailable", false)
	default:
		h.InternalError(c, err)
	}
}
