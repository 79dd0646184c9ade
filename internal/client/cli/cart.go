package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (c *Cli) runCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.runCartList(ctx)
	}

	switch args[0] {
	case "add":
		return c.runCartAdd(ctx, args[1:])
	case "remove":
		return c.runCartRemove(ctx, args[1:])
	case "list":
		return c.runCartList(ctx)
	case "clear":
		return c.runCartClear(ctx)
	default:
		return fmt.Errorf("unknown cart subcommand: %s. Use: add, remove, list, or clear", args[0])
	}
}

func (c *Cli) runCartAdd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing product id. Usage: lockmart cart add <product-id> [quantity]")
	}

	quantity := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity: %s", args[1])
		}
		quantity = n
	}

	product, err := c.backend.GetProduct(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}

	if err := c.cart.Add(ctx, product, quantity); err != nil {
		return err
	}

	c.io.Printf("✓ Added %d × %s to the cart.\n", quantity, product.Name)
	return nil
}

func (c *Cli) runCartRemove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing product id. Usage: lockmart cart remove <product-id>")
	}

	if err := c.cart.Remove(ctx, args[0]); err != nil {
		return err
	}

	c.io.Println("✓ Removed from the cart.")
	return nil
}

func (c *Cli) runCartList(ctx context.Context) error {
	items := c.cart.Items(ctx)

	c.io.Println("=== Shopping Cart ===")
	c.io.Println()

	if len(items) == 0 {
		c.io.Println("Your cart is empty.")
		return nil
	}

	for i, item := range items {
		c.io.Printf("%d. %s\n", i+1, item.Name)
		c.io.Printf("   %d × %s = %s\n", item.Quantity, formatPrice(item.Price), formatPrice(item.Price*int64(item.Quantity)))
	}
	c.io.Println()
	c.io.Printf("Total: %s\n", formatPrice(c.cart.Total(ctx)))

	return nil
}

func (c *Cli) runCartClear(ctx context.Context) error {
	if err := c.cart.Clear(ctx); err != nil {
		return err
	}

	c.io.Println("✓ Cart cleared.")
	return nil
}
