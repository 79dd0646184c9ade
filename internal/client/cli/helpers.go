package cli

import (
	"fmt"
	"strings"

	"github.com/lockmart/lockmart/pkg/api"
)

// formatPrice renders minor currency units as a decimal amount
func formatPrice(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func roleLine(user *api.User) string {
	var roles []string
	if user.IsAdmin {
		roles = append(roles, "admin")
	}
	if user.IsBusiness {
		roles = append(roles, "business")
	}
	if user.IsUser {
		roles = append(roles, "user")
	}
	if len(roles) == 0 {
		return "none"
	}
	return strings.Join(roles, ", ")
}
