package cli

import "context"

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Session Status ===")
	c.io.Println()

	if !c.auth.IsAuthenticated(ctx) {
		c.io.Println("Not signed in.")
		c.io.Println()
		c.io.Println("Use 'lockmart login' or 'lockmart login-google' to sign in.")
		return nil
	}

	user, err := c.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}

	c.io.Printf("Signed in as: %s <%s>\n", user.Name, user.Email)
	if user.Phone != "" {
		c.io.Printf("Phone:        %s\n", user.Phone)
	}
	c.io.Printf("Roles:        %s\n", roleLine(user))
	c.io.Printf("Theme:        %s\n", c.themes.Theme(ctx))

	if items := c.cart.Items(ctx); len(items) > 0 {
		c.io.Printf("Cart:         %d line(s), total %s\n", len(items), formatPrice(c.cart.Total(ctx)))
	}

	return nil
}

func (c *Cli) runRefresh(ctx context.Context) error {
	if !c.auth.IsAuthenticated(ctx) {
		c.io.Println("Not signed in.")
		return nil
	}

	if _, err := c.auth.Refresh(ctx); err != nil {
		return err
	}

	c.io.Println("✓ Session renewed.")
	return nil
}
