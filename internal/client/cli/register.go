package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Create Account ===")
	c.io.Println()

	name, err := c.io.ReadInput("Name: ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	phone, err := c.io.ReadInput("Phone (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read phone: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	c.io.Println()
	c.io.Println("Creating account...")

	user, err := c.auth.Register(ctx, name, email, password, phone)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Account created!")
	c.io.Printf("Signed in as %s <%s>\n", user.Name, user.Email)

	return nil
}
