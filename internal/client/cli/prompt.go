package cli

import (
	"context"

	"github.com/lockmart/lockmart/internal/client/iocli"
)

// RenewalPrompter asks on the terminal whether to keep the session
// alive when the token is about to expire
type RenewalPrompter struct {
	io iocli.IO
}

func NewRenewalPrompter(io iocli.IO) *RenewalPrompter {
	return &RenewalPrompter{io: io}
}

func (p *RenewalPrompter) PromptRenewal(ctx context.Context) bool {
	p.io.Println()
	p.io.Println("Your session is about to expire.")
	answer, err := p.io.Confirm("Stay signed in?")
	if err != nil {
		return false
	}
	return answer
}
