package cart

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/Karla-castillo01/EasyShopApp/internal/domain/catalog"
	"github.com/Karla-castillo01/EasyShopApp/internal/infrastructure/store"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductNotInCart = errors.New("product not in cart")
	ErrInvalidQuantity  = errors.New("quantity must not be negative")
)

// EventPublisher publishes cart activity events. A nil publisher disables
// publishing.
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, data any) error
}

// Service orchestrates the cart store and the catalog lookup behind the
// operations the HTTP layer calls. Callers pass an already-resolved userID;
// resolving it from an authenticated principal is their responsibility.
type Service struct {
	store    store.CartStoreInterface
	products catalog.ProductLookup
	events   EventPublisher
}

func NewService(cartStore store.CartStoreInterface, products catalog.ProductLookup, events EventPublisher) *Service {
	return &Service{
		store:    cartStore,
		products: products,
		events:   events,
	}
}

// GetCart returns the user's current cart. A user with no rows gets an
// empty cart with total 0; dangling product references never make it fail.
func (s *Service) GetCart(ctx context.Context, userID int) (Cart, error) {
	rows, err := s.store.RowsForUser(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	return Hydrate(ctx, userID, rows, s.products)
}

// AddProduct puts one more unit of the product into the user's cart.
// Repeated calls strictly increase the quantity, never reset it to 1.
func (s *Service) AddProduct(ctx context.Context, userID, productID int) error {
	_, ok, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}

	if err := s.store.Increment(ctx, userID, productID); err != nil {
		return err
	}

	s.publish(ctx, userID, EventItemAdded, ItemAdded{
		UserID:    userID,
		ProductID: productID,
		AddedAt:   time.Now(),
	})
	return nil
}

// SetProductQuantity overwrites the quantity of a product already in the
// cart. A quantity of 0 is treated as removal so a zero-quantity row never
// persists. The existence check and the store write are not one transaction;
// a concurrent Remove between them can resurrect the row, which is an
// accepted narrow race.
func (s *Service) SetProductQuantity(ctx context.Context, userID, productID, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	current, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	if !current.Contains(productID) {
		return ErrProductNotInCart
	}

	if quantity == 0 {
		if err := s.store.Remove(ctx, userID, productID); err != nil {
			return err
		}
		s.publish(ctx, userID, EventItemRemoved, ItemRemoved{
			UserID:    userID,
			ProductID: productID,
			RemovedAt: time.Now(),
		})
		return nil
	}

	if err := s.store.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return err
	}

	s.publish(ctx, userID, EventQuantitySet, QuantitySet{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		SetAt:     time.Now(),
	})
	return nil
}

// RemoveProduct takes the product out of the cart. The store delete is
// idempotent, but the existence check makes this operation fail with
// ErrProductNotInCart on a second call.
func (s *Service) RemoveProduct(ctx context.Context, userID, productID int) error {
	current, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	if !current.Contains(productID) {
		return ErrProductNotInCart
	}

	if err := s.store.Remove(ctx, userID, productID); err != nil {
		return err
	}

	s.publish(ctx, userID, EventItemRemoved, ItemRemoved{
		UserID:    userID,
		ProductID: productID,
		RemovedAt: time.Now(),
	})
	return nil
}

// ClearCart empties the user's cart. Clearing an already-empty cart
// succeeds.
func (s *Service) ClearCart(ctx context.Context, userID int) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		return err
	}

	s.publish(ctx, userID, EventCartCleared, Cleared{
		UserID:    userID,
		ClearedAt: time.Now(),
	})
	return nil
}

// publish is fire-and-forget: a broker fault must not fail a cart mutation
// that already committed.
func (s *Service) publish(ctx context.Context, userID int, eventType string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, strconv.Itoa(userID), eventType, data); err != nil {
		log.Printf("[Cart] Failed to publish %s event for user %d: %v", eventType, userID, err)
	}
}
