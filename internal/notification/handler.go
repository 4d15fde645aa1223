package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Karla-castillo01/EasyShopApp/internal/domain/cart"
	"github.com/Karla-castillo01/EasyShopApp/internal/domain/user"
	"github.com/Karla-castillo01/EasyShopApp/internal/email"
	"github.com/Karla-castillo01/EasyShopApp/internal/infrastructure/kafka"
)

// Sender sends notification emails.
type Sender interface {
	SendWelcome(to, username string) error
}

// Handler processes account and cart events for sending notifications
type Handler struct {
	emailService Sender
}

// NewHandler creates a new notification handler
func NewHandler(emailSvc Sender) *Handler {
	return &Handler{emailService: emailSvc}
}

var _ Sender = (*email.Service)(nil)

// HandleEvent dispatches one decoded event from the consumer
func (h *Handler) HandleEvent(ctx context.Context, key string, envelope kafka.Envelope) error {
	switch envelope.EventType {
	case user.EventUserRegistered:
		return h.handleUserRegistered(envelope)
	case cart.EventItemAdded, cart.EventQuantitySet, cart.EventItemRemoved, cart.EventCartCleared:
		return h.handleCartActivity(envelope)
	}

	return nil
}

func (h *Handler) handleUserRegistered(envelope kafka.Envelope) error {
	var e user.UserRegistered
	if err := json.Unmarshal(envelope.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal UserRegistered event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing UserRegistered event for user %d (%s)", e.UserID, e.Username)

	if err := h.emailService.SendWelcome(e.Email, e.Username); err != nil {
		log.Printf("[Notifier] Failed to send welcome email to %s: %v", e.Email, err)
		return err
	}

	log.Printf("[Notifier] Welcome email sent to %s", e.Email)
	return nil
}

// handleCartActivity records cart events for later auditing. Cart events
// carry no email, so logging is all the notifier does with them.
func (h *Handler) handleCartActivity(envelope kafka.Envelope) error {
	switch envelope.EventType {
	case cart.EventItemAdded:
		var e cart.ItemAdded
		if err := json.Unmarshal(envelope.Data, &e); err != nil {
			return err
		}
		log.Printf("[Notifier] User %d added product %d to their cart", e.UserID, e.ProductID)
	case cart.EventQuantitySet:
		var e cart.QuantitySet
		if err := json.Unmarshal(envelope.Data, &e); err != nil {
			return err
		}
		log.Printf("[Notifier] User %d set product %d quantity to %d", e.UserID, e.ProductID, e.Quantity)
	case cart.EventItemRemoved:
		var e cart.ItemRemoved
		if err := json.Unmarshal(envelope.Data, &e); err != nil {
			return err
		}
		log.Printf("[Notifier] User %d removed product %d from their cart", e.UserID, e.ProductID)
	case cart.EventCartCleared:
		var e cart.Cleared
		if err := json.Unmarshal(envelope.Data, &e); err != nil {
			return err
		}
		log.Printf("[Notifier] User %d cleared their cart", e.UserID)
	}
	return nil
}
