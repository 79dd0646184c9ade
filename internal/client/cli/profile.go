package cli

import (
	"context"
	"fmt"

	"github.com/lockmart/lockmart/pkg/api"
)

func (c *Cli) runProfile(ctx context.Context, args []string) error {
	if !c.auth.IsAuthenticated(ctx) {
		return fmt.Errorf("not signed in. Please run 'lockmart login' first")
	}

	if len(args) > 0 && args[0] == "update" {
		return c.runProfileUpdate(ctx)
	}

	user, err := c.backend.Me(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	c.io.Println("=== Profile ===")
	c.io.Println()
	c.io.Printf("Name:  %s\n", user.Name)
	c.io.Printf("Email: %s\n", user.Email)
	if user.Phone != "" {
		c.io.Printf("Phone: %s\n", user.Phone)
	}
	c.io.Printf("Roles: %s\n", roleLine(user))

	return nil
}

func (c *Cli) runProfileUpdate(ctx context.Context) error {
	c.io.Println("=== Edit Profile ===")
	c.io.Println()

	name, err := c.io.ReadInput("Name: ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}

	phone, err := c.io.ReadInput("Phone (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read phone: %w", err)
	}

	user, err := c.backend.UpdateMe(ctx, api.ProfileUpdateRequest{Name: name, Phone: phone})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("✓ Profile updated: %s <%s>\n", user.Name, user.Email)

	return nil
}
