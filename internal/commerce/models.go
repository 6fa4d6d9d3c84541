package commerce

import "time"

// Product is a catalog entry. Rating and ReviewCount are derived from the
// product's reviews and maintained by the store on every review insert.
type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int       `json:"price"` // minor currency units
	ImageURL    string    `json:"imageUrl"`
	Category    string    `json:"category"`
	Rating      int       `json:"rating"` // 0-5, rounded mean
	ReviewCount int       `json:"reviewCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Review is created once via submission and never mutated or deleted.
// Username, Title, and Content are untrusted text stored verbatim.
type Review struct {
	ID        int       `json:"id"`
	ProductID int       `json:"productId"`
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"` // 1-5
	CreatedAt time.Time `json:"createdAt"`
}

// InsertReview is the store-level input for creating a review.
type InsertReview struct {
	ProductID int
	UserID    int
	Username  string
	Title     string
	Content   string
	Rating    int
}

// CartItem is logically keyed by (UserID, ProductID): at most one row exists
// per pair, and adds against an existing pair merge into it. Note is
// untrusted text stored verbatim.
type CartItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	ProductID int       `json:"productId"`
	Quantity  int       `json:"quantity"` // >= 1 always
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
