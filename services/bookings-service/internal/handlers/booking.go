package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RastaBela/ticketing-system/pkg/auth"
	"github.com/RastaBela/ticketing-system/services/bookings-service/internal/domain"
	"github.com/RastaBela/ticketing-system/services/bookings-service/internal/service"
)

type BookingHandler struct {
	svc *service.BookingSvc
}

func NewBookingHandler(svc *service.BookingSvc) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) Routes(r *gin.Engine) {
	g := r.Group("/api/bookings", auth.JWTAuth())
	g.POST("", h.Create)
	g.GET("/my/bookings", h.ListOwn)
	g.GET("/:id", h.Get)
	g.GET("", auth.RequireRole(auth.RoleAdmin), h.List)
	g.DELETE("/:id", auth.RequireRole(auth.RoleAdmin), h.Delete)
}

// POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var in struct {
		EventID  string `json:"eventId" binding:"required"`
		Quantity int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, _ := c.Get("sub")
	userID, _ := sub.(string)
	email, _ := c.Get("email")
	userEmail, _ := email.(string)

	b, err := h.svc.Create(c.Request.Context(), service.CreateBookingInput{
		UserID:   userID,
		Email:    userEmail,
		EventID:  in.EventID,
		Quantity: in.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		case errors.Is(err, domain.ErrInsufficientTickets):
			c.JSON(http.StatusConflict, gin.H{"message": "Not enough tickets available"})
		case b != nil:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "booking": b})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while creating the booking"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking successfully created", "booking": b})
}

// GET /api/bookings/my/bookings
func (h *BookingHandler) ListOwn(c *gin.Context) {
	sub, _ := c.Get("sub")
	userID, _ := sub.(string)
	out, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while getting the bookings"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "This booking doesn't exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while getting the booking"})
		return
	}
	sub, _ := c.Get("sub")
	role, _ := c.Get("role")
	if b.UserID != sub && role != auth.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden: not your booking"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings (admin)
func (h *BookingHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while getting the bookings"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/bookings/:id (admin)
func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "This booking doesn't exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while deleting the booking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "The booking has been successfully deleted"})
}
