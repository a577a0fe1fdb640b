package registration

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/auth"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/db"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/event"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/wallet"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// JoinTournament godoc
// @Summary      Join event
// @Description  Debits the entry fee and registers the user, atomically. An optional idempotency key (body or Idempotency-Key header) makes retries safe.
// @Tags         registrations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        eventID  path      int          true   "Event ID"
// @Param        request  body      JoinRequest  false  "Optional idempotency key"
// @Success      201      {object}  JoinResult
// @Failure      400      {object}  gin.H
// @Failure      402      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /events/{eventID}/join [post]
func (h *Handler) JoinTournament(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req JoinRequest
	_ = c.ShouldBindJSON(&req)
	idemKey := req.IdempotencyKey
	if idemKey == "" {
		idemKey = c.GetHeader("Idempotency-Key")
	}

	result, err := h.service.JoinTournament(c.Request.Context(), userID, eventID, idemKey)
	if err != nil {
		switch {
		case errors.Is(err, event.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, ErrEventStarted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event has already started"})
		case errors.Is(err, ErrAlreadyJoined):
			c.JSON(http.StatusConflict, gin.H{"error": "You already joined this event"})
		case errors.Is(err, wallet.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Not enough coins to join"})
		case errors.Is(err, wallet.ErrIdempotencyKeyReused):
			c.JSON(http.StatusConflict, gin.H{"error": "Idempotency key was already used for a different request"})
		case errors.Is(err, db.ErrConflictRetryExhausted):
			c.JSON(http.StatusConflict, gin.H{"error": "Too much contention, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join event"})
		}
		return
	}

	if result.Replayed {
		c.JSON(http.StatusOK, result)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// CancelRegistration godoc
// @Summary      Cancel registration
// @Description  Refunds the entry fee and frees the roster slot, atomically.
// @Tags         registrations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        eventID  path      int            true   "Event ID"
// @Param        request  body      CancelRequest  false  "Optional explicit refund amount"
// @Success      200      {object}  CancelResult
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /events/{eventID}/cancel [post]
func (h *Handler) CancelRegistration(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.service.CancelRegistration(c.Request.Context(), userID, eventID, req.EntryFeeCoins)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotRegistered):
			c.JSON(http.StatusNotFound, gin.H{"error": "You are not registered for this event"})
		case errors.Is(err, event.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, db.ErrConflictRetryExhausted):
			c.JSON(http.StatusConflict, gin.H{"error": "Too much contention, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel registration"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListMyRegistrations godoc
// @Summary      List my registrations
// @Tags         registrations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   RegistrationWithEvent
// @Failure      500  {object}  gin.H
// @Router       /registrations [get]
func (h *Handler) ListMyRegistrations(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	regs, err := h.service.GetUserRegistrations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch registrations"})
		return
	}

	c.JSON(http.StatusOK, regs)
}

// ListParticipants godoc
// @Summary      List event participants
// @Description  Returns the roster for an event. Admin only.
// @Tags         registrations
// @Security     BearerAuth
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   ParticipantWithUser
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/events/{eventID}/participants [get]
func (h *Handler) ListParticipants(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	participants, err := h.service.GetEventParticipants(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participants"})
		return
	}

	c.JSON(http.StatusOK, participants)
}
