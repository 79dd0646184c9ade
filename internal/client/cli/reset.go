package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runPasswordReset(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "confirm" {
		return c.runPasswordResetConfirm(ctx)
	}

	c.io.Println("=== Password Reset ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	if err := c.backend.RequestPasswordReset(ctx, email); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("If that address has an account, a reset link is on its way.")
	c.io.Println("Use 'lockmart password-reset confirm' once you have the token.")

	return nil
}

func (c *Cli) runPasswordResetConfirm(ctx context.Context) error {
	c.io.Println("=== Confirm Password Reset ===")
	c.io.Println()

	token, err := c.io.ReadInput("Reset token: ")
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	password, err := c.io.ReadPassword("New password: ")
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

	if err := c.backend.ConfirmPasswordReset(ctx, token, password); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Password changed. Sign in with the new one.")

	return nil
}
