package cli

import (
	"context"
	"fmt"

	"github.com/lockmart/lockmart/pkg/api"
)

func (c *Cli) runLead(ctx context.Context) error {
	c.io.Println("=== Request a Callback ===")
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

	if err := c.backend.CreateLead(ctx, api.LeadRequest{Name: name, Email: email, Phone: phone}); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Thanks! Our sales team will reach out shortly.")

	return nil
}

func (c *Cli) runContact(ctx context.Context) error {
	c.io.Println("=== Contact Support ===")
	c.io.Println()

	name, err := c.io.ReadInput("Name: ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	subject, err := c.io.ReadInput("Subject (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read subject: %w", err)
	}

	body, err := c.io.ReadInput("Message: ")
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}

	req := api.ContactRequest{Name: name, Email: email, Subject: subject, Body: body}
	if err := c.backend.CreateContact(ctx, req); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Message sent. We usually answer within one business day.")

	return nil
}
