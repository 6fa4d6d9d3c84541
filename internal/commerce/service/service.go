package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"vulnshop/internal/commerce"
	"vulnshop/internal/security"
	dErrors "vulnshop/pkg/domain-errors"
	"vulnshop/pkg/platform/sentinel"
)

// ProductCache is an optional read-through cache for product listings.
// A nil cache disables caching.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]commerce.Product, bool)
	SetProducts(ctx context.Context, products []commerce.Product)
	Invalidate(ctx context.Context)
}

// Service enforces the domain rules on top of the store: quantity and rating
// validation, cart-row ownership, and submission-time injection scanning.
// Stored text is never modified here; escaping belongs to render time.
type Service struct {
	store    commerce.Store
	detector *security.Detector
	cache    ProductCache
	logger   *slog.Logger
}

func New(store commerce.Store, detector *security.Detector, cache ProductCache, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		detector: detector,
		cache:    cache,
		logger:   logger,
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]commerce.Product, error) {
	if s.cache != nil {
		if products, ok := s.cache.GetProducts(ctx); ok {
			return products, nil
		}
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetProducts(ctx, products)
	}
	return products, nil
}

func (s *Service) ListProductsByCategory(ctx context.Context, category string) ([]commerce.Product, error) {
	return s.store.ListProductsByCategory(ctx, category)
}

func (s *Service) GetProduct(ctx context.Context, id int) (*commerce.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "Product not found")
	}
	return product, err
}

// Search scans the query for injection markers before running it. The scan
// is observation only: tainted queries still execute.
func (s *Service) Search(ctx context.Context, query string) ([]commerce.Product, error) {
	s.detector.Scan(security.SurfaceSearch, query)
	return s.store.SearchProducts(ctx, query)
}

func (s *Service) ListReviewsByProduct(ctx context.Context, productID int) ([]commerce.Review, error) {
	return s.store.ListReviewsByProduct(ctx, productID)
}

// CreateReview persists the review verbatim. The detector sees every
// submission; the store keeps the product aggregate consistent with the
// insert.
func (s *Service) CreateReview(ctx context.Context, input commerce.InsertReview) (*commerce.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, dErrors.New(dErrors.CodeValidation, "rating must be between 1 and 5")
	}

	s.detector.Scan(security.SurfaceReview, input.Username, input.Title, input.Content)

	review, err := s.store.CreateReview(ctx, input)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "Product not found")
	}
	if err != nil {
		return nil, err
	}

	// The write changed the owning product's aggregate; a cached listing
	// would keep serving the old rating and review count.
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return review, nil
}

// CartEntry is a cart row with its product attached.
type CartEntry struct {
	commerce.CartItem
	Product *commerce.Product `json:"product"`
}

// ListCart returns the user's cart rows with product details, fetched
// concurrently per row.
func (s *Service) ListCart(ctx context.Context, userID int) ([]CartEntry, error) {
	items, err := s.store.ListCartItemsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]CartEntry, len(items))
	g, ctx := errgroup.WithContext(ctx)
	for i, item := range items {
		entries[i].CartItem = item
		g.Go(func() error {
			product, err := s.store.GetProduct(ctx, item.ProductID)
			if err != nil {
				return err
			}
			entries[i].Product = product
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddCartItem merges per (user, product). Quantity must be positive.
func (s *Service) AddCartItem(ctx context.Context, userID, productID, quantity int) (*CartEntry, error) {
	if quantity < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "quantity must be at least 1")
	}

	item, err := s.store.AddCartItem(ctx, userID, productID, quantity)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "Product not found")
	}
	if err != nil {
		return nil, err
	}
	return s.attachProduct(ctx, item)
}

// UpdateCartItemQuantity overwrites the quantity after an ownership check.
func (s *Service) UpdateCartItemQuantity(ctx context.Context, userID, id, quantity int) (*CartEntry, error) {
	if quantity < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "quantity must be at least 1")
	}
	if err := s.requireOwnership(ctx, userID, id); err != nil {
		return nil, err
	}

	item, err := s.store.UpdateCartItemQuantity(ctx, id, quantity)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "Cart item not found")
	}
	if err != nil {
		return nil, err
	}
	return s.attachProduct(ctx, item)
}

// UpdateCartItemNote stores the note verbatim after scanning it. The note is
// never escaped or validated at storage time.
func (s *Service) UpdateCartItemNote(ctx context.Context, userID, id int, note string) (*CartEntry, error) {
	if err := s.requireOwnership(ctx, userID, id); err != nil {
		return nil, err
	}

	s.detector.Scan(security.SurfaceCartNote, note)

	item, err := s.store.UpdateCartItemNote(ctx, id, note)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "Cart item not found")
	}
	if err != nil {
		return nil, err
	}
	return s.attachProduct(ctx, item)
}

func (s *Service) RemoveCartItem(ctx context.Context, userID, id int) error {
	if err := s.requireOwnership(ctx, userID, id); err != nil {
		return err
	}
	err := s.store.RemoveCartItem(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Cart item not found")
	}
	return err
}

// requireOwnership resolves the row and rejects operations on another
// user's cart. Missing rows surface as not-found, never silently allowed.
func (s *Service) requireOwnership(ctx context.Context, userID, id int) error {
	item, err := s.store.GetCartItem(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Cart item not found")
	}
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return dErrors.New(dErrors.CodeForbidden, "Not authorized")
	}
	return nil
}

func (s *Service) attachProduct(ctx context.Context, item *commerce.CartItem) (*CartEntry, error) {
	product, err := s.store.GetProduct(ctx, item.ProductID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}
	return &CartEntry{CartItem: *item, Product: product}, nil
}
