package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/payments-service/internal/service"
)

// WebhookHandler settles charges that were pending when ChargeCard returned.
// The incoming payload is never trusted: the event is re-fetched from Omise
// by id before anything is published.
type WebhookHandler struct {
	omc *omise.Client
	pub service.EventPublisher
}

func NewWebhookHandler(omc *omise.Client, pub service.EventPublisher) *WebhookHandler {
	return &WebhookHandler{omc: omc, pub: pub}
}

func (h *WebhookHandler) Routes(r *gin.Engine) {
	r.POST("/webhooks/omise", h.Handle)
}

type incomingEvent struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	var inc incomingEvent
	if err := c.ShouldBindJSON(&inc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ev := &omise.Event{}
	if err := h.omc.Do(ev, &operations.RetrieveEvent{EventID: inc.ID}); err != nil {
		log.Printf("[payments] webhook retrieve event %s: %v", inc.ID, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if ev.Key != "charge.complete" {
		c.Status(http.StatusOK)
		return
	}

	raw, err := json.Marshal(ev.Data)
	if err != nil {
		log.Printf("[payments] webhook marshal event data: %v", err)
		c.Status(http.StatusOK)
		return
	}
	var ch omise.Charge
	if err := json.Unmarshal(raw, &ch); err != nil {
		log.Printf("[payments] webhook unmarshal charge: %v", err)
		c.Status(http.StatusOK)
		return
	}

	bookingID, _ := ch.Metadata["booking_id"].(string)
	userID, _ := ch.Metadata["user_id"].(string)

	if string(ch.Status) == "successful" {
		err = h.pub.PublishJSON(c.Request.Context(), events.SubjectPaymentCompleted, events.PaymentCompleted{
			BookingID: bookingID,
			UserID:    userID,
			Status:    "COMPLETED",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	} else {
		var fc string
		if ch.FailureCode != nil {
			fc = *ch.FailureCode
		}
		err = h.pub.PublishJSON(c.Request.Context(), events.SubjectPaymentFailed, events.PaymentFailed{
			BookingID:   bookingID,
			FailureCode: fc,
		})
	}
	if err != nil {
		// the webhook will be retried by Omise; do not ack with 200
		log.Printf("[payments] webhook publish for booking %s: %v", bookingID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "publish failed"})
		return
	}
	c.Status(http.StatusOK)
}
