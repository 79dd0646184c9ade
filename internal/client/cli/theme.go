package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runTheme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.io.Printf("Current theme: %s\n", c.themes.Theme(ctx))
		return nil
	}

	theme := args[0]
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("unknown theme: %s. Use: light or dark", theme)
	}

	if err := c.themes.SaveTheme(ctx, theme); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	c.io.Printf("✓ Theme set to %s.\n", theme)
	return nil
}
