package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"nexushub_back/models"
	"nexushub_back/pkg/middleware"
	"nexushub_back/pkg/service"
)

func (h *Handler) BeginTransaction(c *gin.Context) {
	var req models.TxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	view, ok := h.service.Transactions.Begin(middleware.Wallet(c), req)
	if !ok {
		wrapOkJSON(c, map[string]interface{}{
			"ok": false,
		})
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"ok":   true,
		"data": view,
	})
}

func (h *Handler) GetTransaction(c *gin.Context) {
	view, err := h.service.Transactions.View(c.Param("id"))
	if err != nil {
		flowError(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": view,
	})
}

func (h *Handler) CloseTransaction(c *gin.Context) {
	if err := h.service.Transactions.Close(c.Param("id")); err != nil {
		flowError(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"closed": c.Param("id"),
	})
}

func (h *Handler) RetryTransaction(c *gin.Context) {
	view, err := h.service.Transactions.Retry(c.Param("id"))
	if err != nil {
		flowError(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"data": view,
	})
}

func (h *Handler) GetHistory(c *gin.Context) {
	wallet := middleware.Wallet(c)
	if !wallet.Connected() {
		newErrorResponse(c, http.StatusUnauthorized, "wallet is not connected")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			newErrorResponse(c, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	records, err := h.service.Transactions.History(wallet.Address, limit)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "cannot load transaction history")
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"transactions": records,
	})
}

func flowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFlowNotFound):
		newErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotRetryable):
		newErrorResponse(c, http.StatusConflict, err.Error())
	default:
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
