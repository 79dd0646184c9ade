package cli

import "context"

func (c *Cli) runLogout(ctx context.Context) error {
	if !c.auth.IsAuthenticated(ctx) {
		c.io.Println("Not signed in.")
		return nil
	}

	if err := c.auth.Logout(ctx); err != nil {
		return err
	}

	c.io.Println("✓ Signed out.")
	return nil
}
