package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"atelier_back_end/internal/domain"
	"atelier_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"
)

// CreatePaymentIntent crée un PaymentIntent Stripe pour une commande en
// attente de paiement du client connecté. Le montant vient de la commande,
// jamais du client.
func CreatePaymentIntent(c *gin.Context) {
	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	orderID, err := gocql.ParseUUID(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id invalide"})
		return
	}

	order, err := orderStore.GetByID(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	if order.UserID != c.GetString("user_id") {
		respondError(c, domain.ErrForbidden)
		return
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		c.JSON(http.StatusConflict, gin.H{"error": "commande déjà payée"})
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(order.TotalAmount * 100)), // en centimes
		Currency: stripe.String("usd"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", order.ID.String())

	intent, err := paymentintent.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := orderStore.SetPaymentReference(c.Request.Context(), order.ID, intent.ID); err != nil {
		log.Printf("⚠️ Référence paiement non persistée pour %s: %v", order.OrderNumber, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": intent.ClientSecret,
	})
}

//
// 🔔 Stripe Webhook : confirmation du paiement
//
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lecture corps échouée"})
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	event, err := webhook.ConstructEvent(payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			break
		}
		log.Printf("✅ Paiement confirmé : %s (%.2f$)", pi.ID, float64(pi.Amount)/100)

		if raw, ok := pi.Metadata["order_id"]; ok {
			if orderID, err := gocql.ParseUUID(raw); err == nil {
				if err := orderStore.MarkPaid(c.Request.Context(), orderID, pi.ID); err != nil {
					log.Printf("❌ Marquage payé impossible pour %s: %v", raw, err)
				}
			}
		}

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err == nil {
			log.Printf("⚠️ Paiement échoué : %s", pi.ID)
		}
	}

	c.Status(http.StatusOK)
}
