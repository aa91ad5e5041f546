package cart

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"learnhub-storefront-api/models"
	"learnhub-storefront-api/services/notification"
	"learnhub-storefront-api/utils"
)

// lowStockThreshold is where the storefront starts warning buyers that a
// product is about to run out.
const lowStockThreshold = 5

const persistTimeout = 2 * time.Second

// Service owns one cart aggregate. All mutations go through its methods; the
// in-memory state is authoritative and the store is a write-behind snapshot.
// A failed store write is logged and the session carries on.
type Service struct {
	mu       sync.Mutex
	key      string
	cart     models.Cart
	store    Store
	notifier notification.Notifier
}

// NewService restores the cart stored under key, or starts empty when the
// store has nothing usable.
func NewService(key string, store Store, notifier notification.Notifier) *Service {
	s := &Service{key: key, store: store, notifier: notifier}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	snapshot, err := store.Load(ctx, key)
	if err != nil {
		log.Printf("Warning: failed to load cart %s, starting empty: %v", key, err)
		return s
	}
	if snapshot != nil {
		s.cart = models.Cart{
			Items:         append([]models.CartLine(nil), snapshot.Items...),
			TotalQuantity: snapshot.TotalQuantity,
			TotalAmount:   snapshot.TotalAmount,
		}
	}
	return s
}

// AddItem applies the stock policy and merges the request into the cart.
// Lines are identified by (productID, variantKey): adding the same selection
// twice grows the existing line instead of creating a new one.
func (s *Service) AddItem(productID int, name string, price float64, quantity int, variants map[string]string, image string, stock int, isInStock bool) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !isInStock || stock <= 0 {
		s.notify(notification.LevelError, fmt.Sprintf("%s is out of stock", name))
		return ErrOutOfStock
	}

	variantKey := models.VariantKey(variants)

	existing := -1
	existingQuantity := 0
	for i, line := range s.cart.Items {
		if line.ProductID == productID && line.VariantKey == variantKey {
			existing = i
			existingQuantity = line.Quantity
			break
		}
	}

	requestedTotal := quantity + existingQuantity
	if requestedTotal > stock {
		if stock <= lowStockThreshold {
			s.notify(notification.LevelError,
				fmt.Sprintf("Only %d of %s left in stock", stock, name))
		} else {
			s.notify(notification.LevelError,
				fmt.Sprintf("Not enough stock of %s for %d more", name, quantity))
		}
		return ErrInsufficientStock
	}

	if existing >= 0 {
		s.cart.Items[existing].Quantity = requestedTotal
	} else {
		s.cart.Items = append(s.cart.Items, models.CartLine{
			ID:         uuid.NewString(),
			ProductID:  productID,
			Name:       name,
			Price:      price,
			Image:      image,
			Quantity:   quantity,
			Variants:   variants,
			VariantKey: variantKey,
			Stock:      stock,
		})
	}

	s.cart.TotalQuantity += quantity
	s.cart.TotalAmount = utils.Round(s.cart.TotalAmount + utils.LineSubtotal(price, quantity))
	s.persist()

	if stock <= lowStockThreshold {
		s.notify(notification.LevelWarning,
			fmt.Sprintf("%s added to cart, but stock is running low", name))
	} else {
		s.notify(notification.LevelSuccess, fmt.Sprintf("%s added to cart", name))
	}
	return nil
}

// RemoveItem deletes a line. Unknown line ids are a silent no-op.
func (s *Service) RemoveItem(lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.cart.Items {
		if line.ID == lineID {
			s.cart.TotalQuantity -= line.Quantity
			s.cart.TotalAmount = utils.Round(s.cart.TotalAmount - utils.LineSubtotal(line.Price, line.Quantity))
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
			s.persist()
			s.notify(notification.LevelInfo, fmt.Sprintf("%s removed from cart", line.Name))
			return
		}
	}
}

// SetQuantity replaces a line's quantity. Zero or negative quantities are a
// no-op: the frontend routes those through RemoveItem. Increases are checked
// against the stock recorded when the line was added.
func (s *Service) SetQuantity(lineID string, quantity int) error {
	if quantity <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.cart.Items {
		if line.ID != lineID {
			continue
		}
		if quantity > line.Stock {
			s.notify(notification.LevelError,
				fmt.Sprintf("Only %d of %s left in stock", line.Stock, line.Name))
			return ErrInsufficientStock
		}

		delta := quantity - line.Quantity
		s.cart.Items[i].Quantity = quantity
		s.cart.TotalQuantity += delta
		s.cart.TotalAmount = utils.Round(s.cart.TotalAmount + utils.LineSubtotal(line.Price, delta))
		s.persist()
		return nil
	}
	return nil
}

// Clear empties the cart. Safe to call on an already-empty cart.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Items = nil
	s.cart.TotalQuantity = 0
	s.cart.TotalAmount = 0
	s.persist()
	s.notify(notification.LevelInfo, "Cart cleared")
}

// SetVisibility flips the drawer flag. Never persisted.
func (s *Service) SetVisibility(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.IsOpen = open
}

func (s *Service) ToggleVisibility() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.IsOpen = !s.cart.IsOpen
}

// Cart returns a copy of the current aggregate.
func (s *Service) Cart() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.Cart{
		Items:         append([]models.CartLine(nil), s.cart.Items...),
		TotalQuantity: s.cart.TotalQuantity,
		TotalAmount:   s.cart.TotalAmount,
		IsOpen:        s.cart.IsOpen,
	}
}

// persist writes the snapshot behind the mutation that just happened. Store
// failures degrade to session-only state, they never roll back the cart.
// Callers hold s.mu.
func (s *Service) persist() {
	snapshot := models.CartSnapshot{
		Items:         append([]models.CartLine(nil), s.cart.Items...),
		TotalQuantity: s.cart.TotalQuantity,
		TotalAmount:   s.cart.TotalAmount,
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.store.Save(ctx, s.key, snapshot); err != nil {
		log.Printf("Warning: failed to persist cart %s: %v", s.key, err)
	}
}

func (s *Service) notify(level notification.Level, message string) {
	if s.notifier != nil {
		s.notifier.Notify(level, message)
	}
}
