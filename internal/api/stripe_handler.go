package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"rentiva/internal/logger"
	"rentiva/internal/service"
)

// StripeWebhookHandler receives Checkout lifecycle events. Confirmation and
// refunds are driven from here, never from the browser redirect.
type StripeWebhookHandler struct {
	webhookSecret string
	bookings      *service.BookingService
}

func NewStripeWebhookHandler(webhookSecret string, bookings *service.BookingService) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		webhookSecret: webhookSecret,
		bookings:      bookings,
	}
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("webhook: error reading body", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.webhookSecret)
	if err != nil {
		logger.Warn("webhook: signature verification failed", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			logger.Error("webhook: error parsing checkout.session", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if sess.ID == "" {
			logger.Warn("webhook: checkout.session.completed without session id")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		paymentIntentID := ""
		if sess.PaymentIntent != nil {
			paymentIntentID = sess.PaymentIntent.ID
		}
		if err := h.bookings.ConfirmBySessionID(r.Context(), sess.ID, paymentIntentID); err != nil {
			logger.Error("webhook: failed to confirm booking", "session_id", sess.ID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			logger.Error("webhook: error parsing charge", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
			sessionID, err := h.bookings.SessionIDForPaymentIntent(charge.PaymentIntent.ID)
			if err != nil {
				logger.Warn("webhook: no session for payment intent", "payment_intent", charge.PaymentIntent.ID, "error", err)
				w.WriteHeader(http.StatusOK)
				return
			}
			if err := h.bookings.MarkRefundedBySessionID(r.Context(), sessionID); err != nil {
				logger.Error("webhook: failed to mark booking refunded", "session_id", sessionID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}

	default:
		logger.Debug("webhook: unhandled event type", "type", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
