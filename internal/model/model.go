// Package model defines domain entities used by services, stores and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Product statuses.
const (
	StatusInStock    = "in_stock"
	StatusOutOfOrder = "out_of_order"
)

// User is a storefront account. The password is stored in plaintext by design;
// this is a demo data model with no hardening guarantees.
type User struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username" validate:"required,min=3,max=20"`
	Email      string    `json:"email" validate:"required,email"`
	Password   string    `json:"password" validate:"required,min=6"`
	Role       string    `json:"role,omitempty"`
	ProfilePic string    `json:"profilePic,omitempty"` // data URI
	CreatedAt  time.Time `json:"createdAt"`
}

// Product is a catalog entry, immutable within a session.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Rating      int     `json:"rating"` // 1..5
	Status      string  `json:"status"` // in_stock | out_of_order
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool { return p.Status != StatusOutOfOrder }

// CartItem is a product snapshot placed in the cart.
type CartItem struct {
	ProductID int     `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	AddedAt   int64   `json:"addedAt"` // epoch millis
}

// WishlistItem is a product snapshot saved for later.
type WishlistItem struct {
	ProductID int     `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// CompareEntry is a product snapshot on the compare sheet (at most three).
type CompareEntry struct {
	ProductID int     `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Rating    int     `json:"rating"`
	Status    string  `json:"status"`
}

// ChatMessage is a single entry in a pair conversation log.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Time   int64  `json:"time"` // epoch millis
}

// Passcode is a live one-time code gating account creation. At most one per email.
type Passcode struct {
	Email    string `json:"email"`
	Code     string `json:"code"`      // 6 digits
	IssuedAt int64  `json:"timestamp"` // epoch millis
	TTL      int64  `json:"expiresIn"` // millis
}

// Activity is an audit trail entry attributed to a user.
type Activity struct {
	User   string `json:"user"`
	Action string `json:"action"`
	Time   int64  `json:"time"` // epoch millis
}

// AuditRecord is the server-side counterpart of Activity.
type AuditRecord struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	Action string    `json:"action"`
	Meta   string    `json:"meta,omitempty"`
	Time   time.Time `json:"time"`
}

// AIMessage is one turn of the assistant conversation history.
type AIMessage struct {
	Role string `json:"role"` // user | assistant
	Text string `json:"text"`
	Time int64  `json:"time"` // epoch millis
}
