package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockmart/lockmart/internal/client/iocli"
	"github.com/lockmart/lockmart/internal/client/oauth"
	"github.com/lockmart/lockmart/pkg/api"
)

// quietIO swallows output and feeds scripted answers to prompts
func quietIO() *iocli.IOMock {
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) {},
		PrintfFunc:  func(format string, a ...any) {},
	}
}

// scriptedIO answers ReadInput/ReadPassword prompts from queues
func scriptedIO(inputs, passwords []string) *iocli.IOMock {
	mock := quietIO()
	mock.ReadInputFunc = func(prompt string) (string, error) {
		if len(inputs) == 0 {
			return "", errors.New("no scripted input left")
		}
		next := inputs[0]
		inputs = inputs[1:]
		return next, nil
	}
	mock.ReadPasswordFunc = func(prompt string) (string, error) {
		if len(passwords) == 0 {
			return "", errors.New("no scripted password left")
		}
		next := passwords[0]
		passwords = passwords[1:]
		return next, nil
	}
	return mock
}

// printedLines flattens all Println/Printf output for assertions
func printedLines(mock *iocli.IOMock) []string {
	var lines []string
	for _, call := range mock.PrintlnCalls() {
		for _, a := range call.A {
			if s, ok := a.(string); ok {
				lines = append(lines, s)
			}
		}
	}
	for _, call := range mock.PrintfCalls() {
		lines = append(lines, call.Format)
	}
	return lines
}

func containsLine(lines []string, want string) bool {
	for _, line := range lines {
		if line == want {
			return true
		}
	}
	return false
}

type fakeAuth struct {
	registerFunc func(ctx context.Context, name, email, password, phone string) (*api.User, error)
	loginFunc    func(ctx context.Context, email, password string) (*api.User, error)
	logoutFunc   func(ctx context.Context) error
	refreshFunc  func(ctx context.Context) (string, error)
	adoptFunc    func(ctx context.Context, token string, user *api.User) error
	currentFunc  func(ctx context.Context) (*api.User, error)
	authedFunc   func(ctx context.Context) bool
}

func (f *fakeAuth) Register(ctx context.Context, name, email, password, phone string) (*api.User, error) {
	return f.registerFunc(ctx, name, email, password, phone)
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*api.User, error) {
	return f.loginFunc(ctx, email, password)
}

func (f *fakeAuth) Logout(ctx context.Context) error { return f.logoutFunc(ctx) }

func (f *fakeAuth) Refresh(ctx context.Context) (string, error) { return f.refreshFunc(ctx) }

func (f *fakeAuth) AdoptSession(ctx context.Context, token string, user *api.User) error {
	return f.adoptFunc(ctx, token, user)
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (*api.User, error) { return f.currentFunc(ctx) }

func (f *fakeAuth) IsAuthenticated(ctx context.Context) bool { return f.authedFunc(ctx) }

type fakeBackend struct {
	listProductsFunc func(ctx context.Context, category string) ([]api.Product, error)
	getProductFunc   func(ctx context.Context, id string) (*api.Product, error)
	listArticlesFunc func(ctx context.Context) ([]api.Article, error)
	getArticleFunc   func(ctx context.Context, id string) (*api.Article, error)
	createLeadFunc   func(ctx context.Context, req api.LeadRequest) error
	createContact    func(ctx context.Context, req api.ContactRequest) error
	requestResetFunc func(ctx context.Context, email string) error
	confirmResetFunc func(ctx context.Context, token, password string) error
	meFunc           func(ctx context.Context) (*api.User, error)
	updateMeFunc     func(ctx context.Context, req api.ProfileUpdateRequest) (*api.User, error)
	listUsersFunc    func(ctx context.Context) ([]api.User, error)
	updateRolesFunc  func(ctx context.Context, userID string, req api.RoleUpdateRequest) (*api.User, error)
	deleteUserFunc   func(ctx context.Context, userID string) error
	createProduct    func(ctx context.Context, req api.ProductRequest) (*api.Product, error)
	listLeadsFunc    func(ctx context.Context) ([]api.Lead, error)
}

func (f *fakeBackend) ListProducts(ctx context.Context, category string) ([]api.Product, error) {
	return f.listProductsFunc(ctx, category)
}

func (f *fakeBackend) GetProduct(ctx context.Context, id string) (*api.Product, error) {
	return f.getProductFunc(ctx, id)
}

func (f *fakeBackend) ListArticles(ctx context.Context) ([]api.Article, error) {
	return f.listArticlesFunc(ctx)
}

func (f *fakeBackend) GetArticle(ctx context.Context, id string) (*api.Article, error) {
	return f.getArticleFunc(ctx, id)
}

func (f *fakeBackend) CreateLead(ctx context.Context, req api.LeadRequest) error {
	return f.createLeadFunc(ctx, req)
}

func (f *fakeBackend) CreateContact(ctx context.Context, req api.ContactRequest) error {
	return f.createContact(ctx, req)
}

func (f *fakeBackend) RequestPasswordReset(ctx context.Context, email string) error {
	return f.requestResetFunc(ctx, email)
}

func (f *fakeBackend) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	return f.confirmResetFunc(ctx, token, password)
}

func (f *fakeBackend) Me(ctx context.Context) (*api.User, error) { return f.meFunc(ctx) }

func (f *fakeBackend) UpdateMe(ctx context.Context, req api.ProfileUpdateRequest) (*api.User, error) {
	return f.updateMeFunc(ctx, req)
}

func (f *fakeBackend) ListUsers(ctx context.Context) ([]api.User, error) {
	return f.listUsersFunc(ctx)
}

func (f *fakeBackend) UpdateUserRoles(ctx context.Context, userID string, req api.RoleUpdateRequest) (*api.User, error) {
	return f.updateRolesFunc(ctx, userID, req)
}

func (f *fakeBackend) DeleteUser(ctx context.Context, userID string) error {
	return f.deleteUserFunc(ctx, userID)
}

func (f *fakeBackend) CreateProduct(ctx context.Context, req api.ProductRequest) (*api.Product, error) {
	return f.createProduct(ctx, req)
}

func (f *fakeBackend) ListLeads(ctx context.Context) ([]api.Lead, error) {
	return f.listLeadsFunc(ctx)
}

type fakeCart struct {
	addFunc    func(ctx context.Context, product *api.Product, quantity int) error
	removeFunc func(ctx context.Context, productID string) error
	itemsFunc  func(ctx context.Context) []api.CartItem
	totalFunc  func(ctx context.Context) int64
	clearFunc  func(ctx context.Context) error
}

func (f *fakeCart) Add(ctx context.Context, product *api.Product, quantity int) error {
	return f.addFunc(ctx, product, quantity)
}

func (f *fakeCart) Remove(ctx context.Context, productID string) error {
	return f.removeFunc(ctx, productID)
}

func (f *fakeCart) Items(ctx context.Context) []api.CartItem { return f.itemsFunc(ctx) }

func (f *fakeCart) Total(ctx context.Context) int64 { return f.totalFunc(ctx) }

func (f *fakeCart) Clear(ctx context.Context) error { return f.clearFunc(ctx) }

type fakeBridge struct {
	signInFunc func(ctx context.Context) (*oauth.Result, error)
}

func (f *fakeBridge) SignIn(ctx context.Context) (*oauth.Result, error) { return f.signInFunc(ctx) }

type fakeThemes struct {
	theme string
}

func (f *fakeThemes) SaveTheme(ctx context.Context, theme string) error {
	f.theme = theme
	return nil
}

func (f *fakeThemes) Theme(ctx context.Context) string {
	if f.theme == "" {
		return "light"
	}
	return f.theme
}

func TestCli_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the prompted credentials to the auth service", func(t *testing.T) {
		io := scriptedIO([]string{"dana@example.com"}, []string{"Secret1!"})

		var gotEmail, gotPassword string
		auth := &fakeAuth{
			loginFunc: func(ctx context.Context, email, password string) (*api.User, error) {
				gotEmail, gotPassword = email, password
				return &api.User{Name: "Dana", Email: email, IsUser: true}, nil
			},
		}

		cli := New(io, auth, &fakeBackend{}, &fakeCart{}, &fakeBridge{}, &fakeThemes{})
		require.NoError(t, cli.Run(ctx, "login", nil))

		assert.Equal(t, "dana@example.com", gotEmail)
		assert.Equal(t, "Secret1!", gotPassword)
	})

	t.Run("admin landing mentions administration", func(t *testing.T) {
		io := scriptedIO([]string{"root@example.com"}, []string{"Secret1!"})
		auth := &fakeAuth{
			loginFunc: func(ctx context.Context, email, password string) (*api.User, error) {
				return &api.User{Name: "Root", Email: email, IsAdmin: true}, nil
			},
		}

		cli := New(io, auth, &fakeBackend{}, &fakeCart{}, &fakeBridge{}, &fakeThemes{})
		require.NoError(t, cli.Run(ctx, "login", nil))

		lines := printedLines(io)
		assert.True(t, containsLine(lines, "You have store administration access. Try 'lockmart admin users'."))
	})

	t.Run("failed login surfaces the error", func(t *testing.T) {
		io := scriptedIO([]string{"dana@example.com"}, []string{"Wrong1!!"})
		auth := &fakeAuth{
			loginFunc: func(ctx context.Context, email, password string) (*api.User, error) {
				return nil, errors.New("login failed: invalid email or password")
			},
		}

		cli := New(io, auth, &fakeBackend{}, &fakeCart{}, &fakeBridge{}, &fakeThemes{})
		err := cli.Run(ctx, "login", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid email or password")
	})
}

func TestCli_LoginGoogle(t *testing.T) {
	ctx := context.Background()

	t.Run("adopts the session delivered by the bridge", func(t *testing.T) {
		io := quietIO()

		user := &api.User{ID: "u1", Name: "Dana", Email: "dana@example.com", IsUser: true}
		bridge := &fakeBridge{
			signInFunc: func(ctx context.Context) (*oauth.Result, error) {
				return &oauth.Result{Token: "oauth-token", User: user}, nil
			},
		}

		var adoptedToken string
		auth := &fakeAuth{
			adoptFunc: func(ctx context.Context, token string, u *api.User) error {
				adoptedToken = token
				assert.Equal(t, user, u)
				return nil
			},
		}

		cli := New(io, auth, &fakeBackend{}, &fakeCart{}, bridge, &fakeThemes{})
		require.NoError(t, cli.Run(ctx, "login-google", nil))

		assert.Equal(t, "oauth-token", adoptedToken)
	})

	t.Run("a declined consent is not adopted", func(t *testing.T) {
		io := quietIO()
		bridge := &fakeBridge{
			signInFunc: func(ctx context.Context) (*oauth.Result, error) {
				return nil, oauth.ErrDeclined
			},
		}

		adopted := false
		auth := &fakeAuth{
			adoptFunc: func(ctx context.Context, token string, u *api.User) error {
				adopted = true
				return nil
			},
		}

		cli := New(io, auth, &fakeBackend{}, &fakeCart{}, bridge, &fakeThemes{})
		err := cli.Run(ctx, "login-google", nil)
		require.ErrorIs(t, err, oauth.ErrDeclined)
		assert.False(t, adopted)
	})
}

func TestCli_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("mismatched password confirmation never reaches the server", func(t *testing.T) {
		io := scriptedIO(
			[]string{"Dana", "dana@example.com", "0501234567"},
			[]string{"Secret1!", "Different1!"},
		)

		called := false
		auth := &fakeAuth{
			registerFunc: func(ctx context.Context, name, email, password, phone string) (*api.User, error) {
				called = true
				return nil, nil
			},
		}

		cli := New(io, auth, &fakeBackend{}, &fakeCart{}, &fakeBridge{}, &fakeThemes{})
		err := cli.Run(ctx, "register", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "do not match")
		assert.False(t, called)
	})
}

func TestCli_CartAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches the product and adds it with the given quantity", func(t *testing.T) {
		io := quietIO()

		backend := &fakeBackend{
			getProductFunc: func(ctx context.Context, id string) (*api.Product, error) {
				assert.Equal(t, "p1", id)
				return &api.Product{ID: "p1", Name: "Smart Lock", Price: 4990}, nil
			},
		}

		var addedQty int
		cart := &fakeCart{
			addFunc: func(ctx context.Context, product *api.Product, quantity int) error {
				assert.Equal(t, "p1", product.ID)
				addedQty = quantity
				return nil
			},
		}

		cli := New(io, &fakeAuth{}, backend, cart, &fakeBridge{}, &fakeThemes{})
		require.NoError(t, cli.Run(ctx, "cart", []string{"add", "p1", "2"}))

		assert.Equal(t, 2, addedQty)
	})

	t.Run("quantity defaults to one", func(t *testing.T) {
		io := quietIO()
		backend := &fakeBackend{
			getProductFunc: func(ctx context.Context, id string) (*api.Product, error) {
				return &api.Product{ID: id, Name: "Smart Lock", Price: 4990}, nil
			},
		}

		var addedQty int
		cart := &fakeCart{
			addFunc: func(ctx context.Context, product *api.Product, quantity int) error {
				addedQty = quantity
				return nil
			},
		}

		cli := New(io, &fakeAuth{}, backend, cart, &fakeBridge{}, &fakeThemes{})
		require.NoError(t, cli.Run(ctx, "cart", []string{"add", "p1"}))

		assert.Equal(t, 1, addedQty)
	})

	t.Run("unknown product fails before touching the cart", func(t *testing.T) {
		io := quietIO()
		backend := &fakeBackend{
			getProductFunc: func(ctx context.Context, id string) (*api.Product, error) {
				return nil, errors.New("server error (404): product not found")
			},
		}

		touched := false
		cart := &fakeCart{
			addFunc: func(ctx context.Context, product *api.Product, quantity int) error {
				touched = true
				return nil
			},
		}

		cli := New(io, &fakeAuth{}, backend, cart, &fakeBridge{}, &fakeThemes{})
		require.Error(t, cli.Run(ctx, "cart", []string{"add", "nope"}))
		assert.False(t, touched)
	})
}

func TestCli_Products(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the catalog", func(t *testing.T) {
		io := quietIO()
		backend := &fakeBackend{
			listProductsFunc: func(ctx context.Context, category string) ([]api.Product, error) {
				assert.Equal(t, "locks", category)
				return []api.Product{
					{ID: "p1", Name: "Smart Lock S1", Brand: "Sesamo", Category: "locks", Price: 4990, Stock: 3},
				}, nil
			},
		}

		cli := New(io, &fakeAuth{}, backend, &fakeCart{}, &fakeBridge{}, &fakeThemes{})
		require.NoError(t, cli.Run(ctx, "products", []string{"locks"}))

		var printedName string
		for _, call := range io.PrintfCalls() {
			if call.Format == "%d. %s (%s)\n" && len(call.A) == 3 {
				printedName, _ = call.A[1].(string)
			}
		}
		assert.Equal(t, "Smart Lock S1", printedName)
	})

	t.Run("empty catalog prints a hint", func(t *testing.T) {
		io := quietIO()
		backend := &fakeBackend{
			listProductsFunc: func(ctx context.Context, category string) ([]api.Product, error) {
				return nil, nil
			},
		}

		cli := New(io, &fakeAuth{}, backend, &fakeCart{}, &fakeBridge{}, &fakeThemes{})
		require.NoError(t, cli.Run(ctx, "products", nil))

		assert.True(t, containsLine(printedLines(io), "No products found."))
	})
}

func TestCli_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("signed out", func(t *testing.T) {
		io := quietIO()
		auth := &fakeAuth{authedFunc: func(ctx context.Context) bool { return false }}

		cli := New(io, auth, &fakeBackend{}, &fakeCart{}, &fakeBridge{}, &fakeThemes{})
		require.NoError(t, cli.Run(ctx, "status", nil))

		assert.True(t, containsLine(printedLines(io), "Not signed in."))
	})

	t.Run("signed in shows user, theme and cart", func(t *testing.T) {
		io := quietIO()
		auth := &fakeAuth{
			authedFunc: func(ctx context.Context) bool { return true },
			currentFunc: func(ctx context.Context) (*api.User, error) {
				return &api.User{Name: "Dana", Email: "dana@example.com", IsUser: true}, nil
			},
		}
		cart := &fakeCart{
			itemsFunc: func(ctx context.Context) []api.CartItem {
				return []api.CartItem{{ProductID: "p1", Quantity: 2, Price: 4990}}
			},
			totalFunc: func(ctx context.Context) int64 { return 9980 },
		}

		cli := New(io, auth, &fakeBackend{}, cart, &fakeBridge{}, &fakeThemes{theme: "dark"})
		require.NoError(t, cli.Run(ctx, "status", nil))

		formats := make(map[string]bool)
		for _, call := range io.PrintfCalls() {
			formats[call.Format] = true
		}
		assert.True(t, formats["Signed in as: %s <%s>\n"])
		assert.True(t, formats["Theme:        %s\n"])
		assert.True(t, formats["Cart:         %d line(s), total %s\n"])
	})
}

func TestCli_Theme(t *testing.T) {
	ctx := context.Background()

	t.Run("sets a valid theme", func(t *testing.T) {
		themes := &fakeThemes{}
		cli := New(quietIO(), &fakeAuth{}, &fakeBackend{}, &fakeCart{}, &fakeBridge{}, themes)

		require.NoError(t, cli.Run(ctx, "theme", []string{"dark"}))
		assert.Equal(t, "dark", themes.theme)
	})

	t.Run("rejects an unknown theme", func(t *testing.T) {
		themes := &fakeThemes{}
		cli := New(quietIO(), &fakeAuth{}, &fakeBackend{}, &fakeCart{}, &fakeBridge{}, themes)

		require.Error(t, cli.Run(ctx, "theme", []string{"solarized"}))
		assert.Empty(t, themes.theme)
	})
}

func TestCli_UnknownCommand(t *testing.T) {
	cli := New(quietIO(), &fakeAuth{}, &fakeBackend{}, &fakeCart{}, &fakeBridge{}, &fakeThemes{})

	err := cli.Run(context.Background(), "frobnicate", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRenewalPrompter(t *testing.T) {
	t.Run("yes means renew", func(t *testing.T) {
		io := quietIO()
		io.ConfirmFunc = func(prompt string) (bool, error) { return true, nil }

		assert.True(t, NewRenewalPrompter(io).PromptRenewal(context.Background()))
	})

	t.Run("a failed prompt means sign out", func(t *testing.T) {
		io := quietIO()
		io.ConfirmFunc = func(prompt string) (bool, error) { return false, errors.New("stdin closed") }

		assert.False(t, NewRenewalPrompter(io).PromptRenewal(context.Background()))
	})
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "49.90", formatPrice(4990))
	assert.Equal(t, "0.05", formatPrice(5))
	assert.Equal(t, "0.00", formatPrice(0))
	assert.Equal(t, "-12.34", formatPrice(-1234))
}
