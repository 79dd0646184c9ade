package cli

import (
	"context"
	"fmt"
)

// Run dispatches a command. Unknown commands print usage and fail.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "login-google":
		return c.runLoginGoogle(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "refresh":
		return c.runRefresh(ctx)
	case "products":
		return c.runProducts(ctx, args)
	case "product":
		return c.runProduct(ctx, args)
	case "articles":
		return c.runArticles(ctx)
	case "article":
		return c.runArticle(ctx, args)
	case "cart":
		return c.runCart(ctx, args)
	case "lead":
		return c.runLead(ctx)
	case "contact":
		return c.runContact(ctx)
	case "password-reset":
		return c.runPasswordReset(ctx, args)
	case "profile":
		return c.runProfile(ctx, args)
	case "theme":
		return c.runTheme(ctx, args)
	case "admin":
		return c.runAdmin(ctx, args)
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}
