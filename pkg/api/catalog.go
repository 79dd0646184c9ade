package api

import "time"

// Product is a catalog entry as served to clients
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Price       int64     `json:"price"` // minor currency units
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductRequest is the body for product create/update (admin only)
type ProductRequest struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
}

// LeadRequest is the body of the public lead-capture form
type LeadRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Lead is a captured sales lead (admin view)
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactRequest is the body of the public contact form
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// ContactMessage is a stored customer message (admin view)
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Article is a learning-content entry (installation guides and such)
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleRequest is the body for article create (admin only)
type ArticleRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CartItem is a line in the client-side shopping cart
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// RoleUpdateRequest changes a user's role flags (admin only).
// AdminUntil grants temporary admin rights until the given instant;
// nil with IsAdmin=true grants them indefinitely.
type RoleUpdateRequest struct {
	IsAdmin    *bool      `json:"is_admin,omitempty"`
	IsBusiness *bool      `json:"is_business,omitempty"`
	AdminUntil *time.Time `json:"admin_until,omitempty"`
}

// ProfileUpdateRequest edits the caller's own profile
type ProfileUpdateRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}
