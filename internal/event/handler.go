package event

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Catalog
}

func NewHandler(repo Catalog) *Handler {
	return &Handler{repo: repo}
}

// ListEvents godoc
// @Summary      List events
// @Description  Returns the event catalog with participant counts.
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        upcoming  query     bool  false  "Only events that have not started yet"
// @Success      200       {array}   EventWithParticipants
// @Failure      500       {object}  gin.H
// @Router       /events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	onlyUpcoming := c.DefaultQuery("upcoming", "false") == "true"

	events, err := h.repo.GetAllEvents(c.Request.Context(), onlyUpcoming)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary      Get event
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  Event
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /events/{eventID} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	ev, err := h.repo.GetEventByID(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, ev)
}

// CreateEvent godoc
// @Summary      Create event
// @Description  Creates a catalog event. Admin only.
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateEventRequest  true  "Event data"
// @Success      201      {object}  Event
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be RFC3339"})
		return
	}

	if req.EntryFeeCoins < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry_fee_coins cannot be negative"})
		return
	}

	ev, err := h.repo.CreateEvent(c.Request.Context(), req.Name, req.EntryFeeCoins, startTime, req.Location, req.Rules)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, ev)
}
