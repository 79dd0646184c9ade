package cli

import (
	"context"
	"fmt"

	"github.com/lockmart/lockmart/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Sign In ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	user, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Signed in!")
	c.printLanding(user)

	return nil
}

func (c *Cli) runLoginGoogle(ctx context.Context) error {
	c.io.Println("=== Sign In with Google ===")
	c.io.Println()
	c.io.Println("Opening your browser to finish signing in...")

	result, err := c.bridge.SignIn(ctx)
	if err != nil {
		return err
	}

	if err := c.auth.AdoptSession(ctx, result.Token, result.User); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Signed in!")
	c.printLanding(result.User)

	return nil
}

// printLanding greets the user according to their role
func (c *Cli) printLanding(user *api.User) {
	c.io.Printf("Welcome, %s!\n", user.Name)
	switch {
	case user.IsAdmin:
		c.io.Println("You have store administration access. Try 'lockmart admin users'.")
	case user.IsBusiness:
		c.io.Println("Business pricing is active on your account.")
	}
}
