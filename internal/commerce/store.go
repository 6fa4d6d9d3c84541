package commerce

import "context"

// Store is the persistence boundary for products, reviews, and cart items.
// Implementations must keep the derived product aggregates and the
// one-row-per-(user,product) cart invariant under concurrent use: CreateReview
// recomputes rating/reviewCount atomically with the insert, and AddCartItem
// merges per key atomically. Stores return pkg/platform/sentinel errors;
// services translate them into domain errors.
type Store interface {
	// Products
	ListProducts(ctx context.Context) ([]Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	SearchProducts(ctx context.Context, query string) ([]Product, error)

	// Reviews
	ListReviewsByProduct(ctx context.Context, productID int) ([]Review, error)
	CreateReview(ctx context.Context, input InsertReview) (*Review, error)

	// Cart
	ListCartItemsByUser(ctx context.Context, userID int) ([]CartItem, error)
	GetCartItem(ctx context.Context, id int) (*CartItem, error)
	AddCartItem(ctx context.Context, userID, productID, quantity int) (*CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, id, quantity int) (*CartItem, error)
	UpdateCartItemNote(ctx context.Context, id int, note string) (*CartItem, error)
	RemoveCartItem(ctx context.Context, id int) error
}
