package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexushub_back/models"
	"nexushub_back/pkg/middleware"
)

// GetBalance loads a fresh balance. Pass ?token=<contract> for a token,
// nothing for the native currency.
func (h *Handler) GetBalance(c *gin.Context) {
	wallet := middleware.Wallet(c)
	if !wallet.Connected() {
		newErrorResponse(c, http.StatusUnauthorized, "wallet is not connected")
		return
	}

	res, err := h.service.Wallet.Balance(c.Request.Context(), wallet.Address, c.Query("token"))
	if err != nil {
		newErrorResponse(c, http.StatusBadGateway, err.Error())
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"data": res,
	})
}

// CheckBalance runs the pre-flight gate. A failed check is reported as
// ok=false together with a queued notification, not as an HTTP error.
func (h *Handler) CheckBalance(c *gin.Context) {
	var input models.CheckBalanceInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"ok": h.service.Wallet.CheckBalance(middleware.Wallet(c), input),
	})
}
