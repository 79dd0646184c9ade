package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runArticles(ctx context.Context) error {
	articles, err := c.backend.ListArticles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}

	c.io.Println("=== Learning Articles ===")
	c.io.Println()

	if len(articles) == 0 {
		c.io.Println("No articles yet.")
		return nil
	}

	for i, a := range articles {
		c.io.Printf("%d. %s\n", i+1, a.Title)
		c.io.Printf("   ID: %s\n", a.ID)
	}
	c.io.Println()
	c.io.Println("Use 'lockmart article <id>' to read one.")

	return nil
}

func (c *Cli) runArticle(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing article id. Usage: lockmart article <id>")
	}

	a, err := c.backend.GetArticle(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get article: %w", err)
	}

	c.io.Printf("=== %s ===\n", a.Title)
	c.io.Println()
	c.io.Println(a.Body)

	return nil
}
