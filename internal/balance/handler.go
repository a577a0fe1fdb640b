package balance

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/auth"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/wallet"
)

type Handler struct {
	hub    *Hub
	ledger wallet.Ledger
}

func NewHandler(hub *Hub, ledger wallet.Ledger) *Handler {
	return &Handler{hub: hub, ledger: ledger}
}

// StreamBalance godoc
// @Summary      Stream balance updates
// @Description  Server-sent events stream of the caller's wallet balance. The current balance is sent first, then one event per committed change.
// @Tags         wallet
// @Security     BearerAuth
// @Produce      text/event-stream
// @Success      200  {object}  Update
// @Failure      500  {object}  gin.H
// @Router       /wallet/stream [get]
func (h *Handler) StreamBalance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	current, err := h.ledger.GetBalance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balance"})
		return
	}

	updates, cancel := h.hub.Subscribe(userID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("balance", Update{UserID: userID, BalanceCoins: current})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case update, open := <-updates:
			if !open {
				return false
			}
			c.SSEvent("balance", update)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
