package cli

import (
	"context"

	"github.com/lockmart/lockmart/internal/client/iocli"
	"github.com/lockmart/lockmart/internal/client/oauth"
	"github.com/lockmart/lockmart/pkg/api"
)

// AuthService is the session lifecycle as the commands see it
type AuthService interface {
	Register(ctx context.Context, name, email, password, phone string) (*api.User, error)
	Login(ctx context.Context, email, password string) (*api.User, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (string, error)
	AdoptSession(ctx context.Context, token string, user *api.User) error
	CurrentUser(ctx context.Context) (*api.User, error)
	IsAuthenticated(ctx context.Context) bool
}

// Backend is the slice of the API client the commands use directly
type Backend interface {
	ListProducts(ctx context.Context, category string) ([]api.Product, error)
	GetProduct(ctx context.Context, id string) (*api.Product, error)
	ListArticles(ctx context.Context) ([]api.Article, error)
	GetArticle(ctx context.Context, id string) (*api.Article, error)
	CreateLead(ctx context.Context, req api.LeadRequest) error
	CreateContact(ctx context.Context, req api.ContactRequest) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, password string) error
	Me(ctx context.Context) (*api.User, error)
	UpdateMe(ctx context.Context, req api.ProfileUpdateRequest) (*api.User, error)
	ListUsers(ctx context.Context) ([]api.User, error)
	UpdateUserRoles(ctx context.Context, userID string, req api.RoleUpdateRequest) (*api.User, error)
	DeleteUser(ctx context.Context, userID string) error
	CreateProduct(ctx context.Context, req api.ProductRequest) (*api.Product, error)
	ListLeads(ctx context.Context) ([]api.Lead, error)
}

// CartService is the client-side shopping cart
type CartService interface {
	Add(ctx context.Context, product *api.Product, quantity int) error
	Remove(ctx context.Context, productID string) error
	Items(ctx context.Context) []api.CartItem
	Total(ctx context.Context) int64
	Clear(ctx context.Context) error
}

// SignIn runs the browser-based provider flow
type SignIn interface {
	SignIn(ctx context.Context) (*oauth.Result, error)
}

// ThemeStore persists the UI theme preference
type ThemeStore interface {
	SaveTheme(ctx context.Context, theme string) error
	Theme(ctx context.Context) string
}

type Cli struct {
	io      iocli.IO
	auth    AuthService
	backend Backend
	cart    CartService
	bridge  SignIn
	themes  ThemeStore
}

func New(io iocli.IO, auth AuthService, backend Backend, cart CartService, bridge SignIn, themes ThemeStore) *Cli {
	return &Cli{
		io:      io,
		auth:    auth,
		backend: backend,
		cart:    cart,
		bridge:  bridge,
		themes:  themes,
	}
}

func (c *Cli) PrintUsage() {
	c.io.Println("LockMart Client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  lockmart [OPTIONS] COMMAND")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  --version          Show version information")
	c.io.Println("  --server URL       Server URL (default: http://localhost:8080)")
	c.io.Println("  --db PATH          Path to local session cache (default: lockmart-client.db)")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  register                    Create an account")
	c.io.Println("  login                       Sign in with email and password")
	c.io.Println("  login-google                Sign in with Google in the browser")
	c.io.Println("  logout                      Sign out")
	c.io.Println("  status                      Show session status")
	c.io.Println("  refresh                     Renew the current session token")
	c.io.Println("  products [category]         Browse the catalog")
	c.io.Println("  product <id>                Show one product")
	c.io.Println("  articles                    List learning articles")
	c.io.Println("  article <id>                Read an article")
	c.io.Println("  cart add <product-id> [n]   Put a product in the cart")
	c.io.Println("  cart remove <product-id>    Take a product out of the cart")
	c.io.Println("  cart list                   Show the cart")
	c.io.Println("  cart clear                  Empty the cart")
	c.io.Println("  lead                        Request a callback from sales")
	c.io.Println("  contact                     Send a message to support")
	c.io.Println("  password-reset [confirm]    Reset a forgotten password")
	c.io.Println("  profile [update]            Show or edit your profile")
	c.io.Println("  theme [light|dark]          Show or set the UI theme")
	c.io.Println("  admin <subcommand>          Store administration (users, roles, products, leads)")
	c.io.Println()
	c.io.Println("Examples:")
	c.io.Println("  lockmart register")
	c.io.Println("  lockmart products locks")
	c.io.Println("  lockmart cart add b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5 2")
	c.io.Println("  lockmart --server https://shop.example.com login-google")
}
