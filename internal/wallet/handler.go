package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/auth"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/metrics"
)

type Handler struct {
	repo             Ledger
	testCoinsEnabled bool
}

func NewHandler(repo Ledger, testCoinsEnabled bool) *Handler {
	return &Handler{
		repo:             repo,
		testCoinsEnabled: testCoinsEnabled,
	}
}

// GetBalance godoc
// @Summary      Get coin balance
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  BalanceResponse
// @Failure      401  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /wallet [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	balance, err := h.repo.GetBalance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load balance"})
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{UserID: userID, BalanceCoins: balance})
}

// CreditTestCoins godoc
// @Summary      Credit test coins
// @Description  Credits free coins to the authenticated user. Dev/test only.
// @Tags         wallet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      TestCoinsRequest  true  "Amount to credit"
// @Success      200      {object}  Transaction
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /wallet/test-coins [post]
func (h *Handler) CreditTestCoins(c *gin.Context) {
	if !h.testCoinsEnabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req TestCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AmountCoins <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_coins must be positive"})
		return
	}

	record, err := h.repo.CreditTestCoins(c.Request.Context(), userID, req.AmountCoins)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount_coins must be positive"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to credit coins"})
		return
	}

	metrics.RecordTestCoinsCredit()

	c.JSON(http.StatusOK, record)
}

// ListTransactions godoc
// @Summary      Transaction history
// @Description  Returns the user's ledger entries, newest first.
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 50)"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {array}   Transaction
// @Failure      401     {object}  gin.H
// @Failure      500     {object}  gin.H
// @Router       /wallet/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.repo.GetTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}
