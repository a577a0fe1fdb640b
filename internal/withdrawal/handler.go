package withdrawal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/auth"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/db"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/wallet"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RequestWithdrawal godoc
// @Summary      Request withdrawal
// @Description  Debits the amount from the wallet and queues a payout request for admin review. An optional idempotency key (body or Idempotency-Key header) makes retries safe.
// @Tags         withdrawals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Amount, payout contact and optional idempotency key"
// @Success      201      {object}  WithdrawalRequest
// @Failure      400      {object}  gin.H
// @Failure      402      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /withdrawals [post]
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount and contact are required"})
		return
	}

	idemKey := req.IdempotencyKey
	if idemKey == "" {
		idemKey = c.GetHeader("Idempotency-Key")
	}

	request, err := h.service.RequestWithdrawal(c.Request.Context(), userID, req.AmountCoins, req.Contact, idemKey)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		case errors.Is(err, wallet.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Not enough coins to withdraw"})
		case errors.Is(err, wallet.ErrIdempotencyKeyReused):
			c.JSON(http.StatusConflict, gin.H{"error": "Idempotency key was already used for a different request"})
		case errors.Is(err, db.ErrConflictRetryExhausted):
			c.JSON(http.StatusConflict, gin.H{"error": "Too much contention, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request withdrawal"})
		}
		return
	}

	if request.Replayed {
		c.JSON(http.StatusOK, request)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListMyWithdrawals godoc
// @Summary      List my withdrawal requests
// @Tags         withdrawals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   WithdrawalRequest
// @Failure      500  {object}  gin.H
// @Router       /withdrawals [get]
func (h *Handler) ListMyWithdrawals(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requests, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch withdrawal requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ListPending godoc
// @Summary      List pending withdrawal requests
// @Description  Returns the payout review queue, oldest first. Admin only.
// @Tags         withdrawals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   WithdrawalWithUser
// @Failure      500  {object}  gin.H
// @Router       /admin/withdrawals [get]
func (h *Handler) ListPending(c *gin.Context) {
	requests, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// Approve godoc
// @Summary      Approve withdrawal request
// @Tags         withdrawals
// @Security     BearerAuth
// @Produce      json
// @Param        requestID  path      int  true  "Request ID"
// @Success      200        {object}  WithdrawalRequest
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /admin/withdrawals/{requestID}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, true)
}

// Reject godoc
// @Summary      Reject withdrawal request
// @Description  Marks the request rejected and refunds the coins to the wallet.
// @Tags         withdrawals
// @Security     BearerAuth
// @Produce      json
// @Param        requestID  path      int  true  "Request ID"
// @Success      200        {object}  WithdrawalRequest
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /admin/withdrawals/{requestID}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *Handler) decide(c *gin.Context, approve bool) {
	requestID, err := strconv.Atoi(c.Param("requestID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var request *WithdrawalRequest
	if approve {
		request, err = h.service.Approve(c.Request.Context(), requestID)
	} else {
		request, err = h.service.Reject(c.Request.Context(), requestID)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Withdrawal request not found"})
		case errors.Is(err, ErrNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "Request has already been decided"})
		case errors.Is(err, db.ErrConflictRetryExhausted):
			c.JSON(http.StatusConflict, gin.H{"error": "Too much contention, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decide withdrawal request"})
		}
		return
	}

	c.JSON(http.StatusOK, request)
}
