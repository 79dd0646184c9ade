package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lockmart/lockmart/pkg/api"
)

func (c *Cli) runAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing admin subcommand. Use: users, roles, delete, product, or leads")
	}

	switch args[0] {
	case "users":
		return c.runAdminUsers(ctx)
	case "roles":
		return c.runAdminRoles(ctx, args[1:])
	case "delete":
		return c.runAdminDelete(ctx, args[1:])
	case "product":
		return c.runAdminProduct(ctx)
	case "leads":
		return c.runAdminLeads(ctx)
	default:
		return fmt.Errorf("unknown admin subcommand: %s. Use: users, roles, delete, product, or leads", args[0])
	}
}

func (c *Cli) runAdminUsers(ctx context.Context) error {
	users, err := c.backend.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	c.io.Println("=== Users ===")
	c.io.Println()

	for i, u := range users {
		c.io.Printf("%d. %s <%s>\n", i+1, u.Name, u.Email)
		c.io.Printf("   ID:    %s\n", u.ID)
		c.io.Printf("   Roles: %s\n", roleLine(&u))
	}
	c.io.Printf("\n%d user(s) total.\n", len(users))

	return nil
}

func (c *Cli) runAdminRoles(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing user id. Usage: lockmart admin roles <user-id>")
	}
	userID := args[0]

	isAdmin, err := c.io.Confirm("Grant admin access?")
	if err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}

	req := api.RoleUpdateRequest{IsAdmin: &isAdmin}

	if isAdmin {
		until, err := c.io.ReadInput("Admin until (RFC3339, empty for permanent): ")
		if err != nil {
			return fmt.Errorf("failed to read deadline: %w", err)
		}
		if until != "" {
			deadline, err := time.Parse(time.RFC3339, until)
			if err != nil {
				return fmt.Errorf("invalid deadline %q: %w", until, err)
			}
			req.AdminUntil = &deadline
		}
	}

	isBusiness, err := c.io.Confirm("Mark as business customer?")
	if err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}
	req.IsBusiness = &isBusiness

	user, err := c.backend.UpdateUserRoles(ctx, userID, req)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Roles updated for %s: %s\n", user.Email, roleLine(user))

	return nil
}

func (c *Cli) runAdminDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing user id. Usage: lockmart admin delete <user-id>")
	}
	userID := args[0]

	confirmed, err := c.io.Confirm(fmt.Sprintf("Really delete user %s?", userID))
	if err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}
	if !confirmed {
		c.io.Println("Aborted.")
		return nil
	}

	if err := c.backend.DeleteUser(ctx, userID); err != nil {
		return err
	}

	c.io.Println("✓ User deleted.")
	return nil
}

func (c *Cli) runAdminProduct(ctx context.Context) error {
	c.io.Println("=== New Product ===")
	c.io.Println()

	name, err := c.io.ReadInput("Name: ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}

	brand, err := c.io.ReadInput("Brand: ")
	if err != nil {
		return fmt.Errorf("failed to read brand: %w", err)
	}

	category, err := c.io.ReadInput("Category: ")
	if err != nil {
		return fmt.Errorf("failed to read category: %w", err)
	}

	priceRaw, err := c.io.ReadInput("Price (minor units, e.g. 4990): ")
	if err != nil {
		return fmt.Errorf("failed to read price: %w", err)
	}
	price, err := strconv.ParseInt(priceRaw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid price: %s", priceRaw)
	}

	stockRaw, err := c.io.ReadInput("Stock: ")
	if err != nil {
		return fmt.Errorf("failed to read stock: %w", err)
	}
	stock, err := strconv.Atoi(stockRaw)
	if err != nil {
		return fmt.Errorf("invalid stock: %s", stockRaw)
	}

	description, err := c.io.ReadInput("Description (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read description: %w", err)
	}

	product, err := c.backend.CreateProduct(ctx, api.ProductRequest{
		Name:        name,
		Brand:       brand,
		Category:    category,
		Price:       price,
		Stock:       stock,
		Description: description,
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ Product created with ID %s.\n", product.ID)

	return nil
}

func (c *Cli) runAdminLeads(ctx context.Context) error {
	leads, err := c.backend.ListLeads(ctx)
	if err != nil {
		return fmt.Errorf("failed to list leads: %w", err)
	}

	c.io.Println("=== Leads ===")
	c.io.Println()

	if len(leads) == 0 {
		c.io.Println("No leads yet.")
		return nil
	}

	for i, l := range leads {
		c.io.Printf("%d. %s <%s>\n", i+1, l.Name, l.Email)
		if l.Phone != "" {
			c.io.Printf("   Phone: %s\n", l.Phone)
		}
		c.io.Printf("   At:    %s\n", l.CreatedAt.Format(time.RFC3339))
	}

	return nil
}
