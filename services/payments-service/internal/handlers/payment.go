package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RastaBela/ticketing-system/pkg/auth"
	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/payments-service/internal/service"
)

type PaymentHandler struct {
	svc *service.PaymentSvc
}

func NewPaymentHandler(svc *service.PaymentSvc) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) Routes(r *gin.Engine) {
	g := r.Group("/api/payments", auth.JWTAuth())
	g.POST("", h.Create)
	g.POST("/charge", h.Charge)
	g.GET("/charges/:id", h.GetCharge)
}

// POST /api/payments
// Manual completion of a pending booking through the simulated processor.
func (h *PaymentHandler) Create(c *gin.Context) {
	var in struct {
		BookingID string  `json:"bookingId" binding:"required"`
		Amount    float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, _ := c.Get("sub")
	userID, _ := sub.(string)

	if err := h.svc.Process(c.Request.Context(), events.PaymentRequested{
		BookingID: in.BookingID,
		UserID:    userID,
		Amount:    in.Amount,
	}); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment completed", "bookingId": in.BookingID})
}

// POST /api/payments/charge
func (h *PaymentHandler) Charge(c *gin.Context) {
	var in struct {
		BookingID string `json:"bookingId" binding:"required"`
		Amount    int64  `json:"amount" binding:"required,min=1"`
		Currency  string `json:"currency" binding:"required"`
		CardToken string `json:"cardToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, _ := c.Get("sub")
	userID, _ := sub.(string)

	ch, err := h.svc.ChargeCard(c.Request.Context(), service.CardChargeInput{
		BookingID: in.BookingID,
		UserID:    userID,
		Amount:    in.Amount,
		Currency:  in.Currency,
		CardToken: in.CardToken,
	})
	if err != nil {
		if ch != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "charge": ch})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"charge": ch})
}

// GET /api/payments/charges/:id
func (h *PaymentHandler) GetCharge(c *gin.Context) {
	ch, err := h.svc.GetCharge(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"charge": ch})
}
