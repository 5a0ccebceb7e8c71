package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RastaBela/ticketing-system/pkg/auth"
	"github.com/RastaBela/ticketing-system/services/events-service/internal/domain"
	"github.com/RastaBela/ticketing-system/services/events-service/internal/service"
)

type EventHandler struct {
	svc *service.EventSvc
}

func NewEventHandler(svc *service.EventSvc) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) Routes(r *gin.Engine) {
	g := r.Group("/api/events")
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	org := g.Group("", auth.JWTAuth(), auth.RequireRole(auth.RoleOrganizer))
	org.POST("", h.Create)
	org.PUT("/:id", h.Update)
	org.DELETE("/:id", h.Delete)
}

type eventInput struct {
	Title            string  `json:"title" binding:"required"`
	Description      string  `json:"description"`
	Price            float64 `json:"price" binding:"min=0"`
	Date             string  `json:"date" binding:"required"` // RFC3339
	AvailableTickets int     `json:"availableTickets" binding:"min=0"`
}

// POST /api/events (organizer)
func (h *EventHandler) Create(c *gin.Context) {
	var in eventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(time.RFC3339, in.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be RFC3339"})
		return
	}
	sub, _ := c.Get("sub")
	organizerID, _ := sub.(string)

	e, err := h.svc.Create(c.Request.Context(), service.CreateEventInput{
		Title:            in.Title,
		Description:      in.Description,
		Price:            in.Price,
		Date:             date,
		AvailableTickets: in.AvailableTickets,
		OrganizerID:      organizerID,
	})
	if err != nil {
		if e != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "event": e})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while creating the event"})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// PUT /api/events/:id (organizer, own event)
func (h *EventHandler) Update(c *gin.Context) {
	var in eventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(time.RFC3339, in.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be RFC3339"})
		return
	}
	sub, _ := c.Get("sub")
	organizerID, _ := sub.(string)

	e := &domain.Event{
		ID:               c.Param("id"),
		Title:            in.Title,
		Description:      in.Description,
		Price:            in.Price,
		Date:             date,
		AvailableTickets: in.AvailableTickets,
	}
	updated, err := h.svc.Update(c.Request.Context(), organizerID, e)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
		case updated != nil:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "event": updated})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while updating the event"})
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/events/:id (organizer, own event)
func (h *EventHandler) Delete(c *gin.Context) {
	sub, _ := c.Get("sub")
	organizerID, _ := sub.(string)
	if err := h.svc.Delete(c.Request.Context(), organizerID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while deleting the event"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while getting the event"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while getting the events"})
		return
	}
	c.JSON(http.StatusOK, out)
}
