package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/lockmart/lockmart/pkg/api"
)

// ErrNotInCart is returned when removing a product that is not there
var ErrNotInCart = errors.New("product is not in the cart")

// Store is the slice of the session cache the cart needs
type Store interface {
	SaveCart(ctx context.Context, items []api.CartItem) error
	Cart(ctx context.Context) []api.CartItem
}

// Cart is the client-side shopping cart. Every mutation reads the
// persisted state first, so concurrent CLI invocations see each
// other's changes.
type Cart struct {
	store Store
}

// New creates a cart over the given cache
func New(store Store) *Cart {
	return &Cart{store: store}
}

// Add puts a product in the cart. Adding a product that is already
// there merges the quantities into one line.
func (c *Cart) Add(ctx context.Context, product *api.Product, quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}

	items := c.store.Cart(ctx)

	merged := false
	for i := range items {
		if items[i].ProductID == product.ID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, api.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		})
	}

	if err := c.store.SaveCart(ctx, items); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Remove drops a product's line entirely
func (c *Cart) Remove(ctx context.Context, productID string) error {
	items := c.store.Cart(ctx)

	kept := items[:0]
	found := false
	for _, item := range items {
		if item.ProductID == productID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return ErrNotInCart
	}

	if err := c.store.SaveCart(ctx, kept); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Items returns the current cart lines
func (c *Cart) Items(ctx context.Context) []api.CartItem {
	return c.store.Cart(ctx)
}

// Total returns the cart total in minor currency units
func (c *Cart) Total(ctx context.Context) int64 {
	var total int64
	for _, item := range c.store.Cart(ctx) {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// Clear empties the cart
func (c *Cart) Clear(ctx context.Context) error {
	if err := c.store.SaveCart(ctx, nil); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
