package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runProducts(ctx context.Context, args []string) error {
	category := ""
	if len(args) > 0 {
		category = args[0]
	}

	products, err := c.backend.ListProducts(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	if category != "" {
		c.io.Printf("=== Products: %s ===\n", category)
	} else {
		c.io.Println("=== Products ===")
	}
	c.io.Println()

	if len(products) == 0 {
		c.io.Println("No products found.")
		return nil
	}

	for i, p := range products {
		c.io.Printf("%d. %s (%s)\n", i+1, p.Name, p.Brand)
		c.io.Printf("   ID:       %s\n", p.ID)
		c.io.Printf("   Category: %s\n", p.Category)
		c.io.Printf("   Price:    %s\n", formatPrice(p.Price))
		if p.Stock == 0 {
			c.io.Println("   Out of stock")
		}
		c.io.Println()
	}

	c.io.Println("Use 'lockmart product <id>' for details, 'lockmart cart add <id>' to buy.")

	return nil
}

func (c *Cli) runProduct(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing product id. Usage: lockmart product <id>")
	}

	p, err := c.backend.GetProduct(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}

	c.io.Printf("=== %s ===\n", p.Name)
	c.io.Println()
	c.io.Printf("Brand:    %s\n", p.Brand)
	c.io.Printf("Category: %s\n", p.Category)
	c.io.Printf("Price:    %s\n", formatPrice(p.Price))
	c.io.Printf("Stock:    %d\n", p.Stock)
	if p.Description != "" {
		c.io.Println()
		c.io.Println(p.Description)
	}

	return nil
}
