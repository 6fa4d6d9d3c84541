package commerce

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"vulnshop/pkg/platform/sentinel"
	"vulnshop/pkg/requestcontext"
)

// InMemoryStore keeps the whole catalog in process. All aggregate
// maintenance happens under the write lock, so the lost-update hazards of
// read-then-write review and cart operations cannot occur.
type InMemoryStore struct {
	mu        sync.RWMutex
	products  map[int]*Product
	reviews   map[int]*Review
	cartItems map[int]*CartItem

	nextProductID  int
	nextReviewID   int
	nextCartItemID int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products:       make(map[int]*Product),
		reviews:        make(map[int]*Review),
		cartItems:      make(map[int]*CartItem),
		nextProductID:  1,
		nextReviewID:   1,
		nextCartItemID: 1,
	}
}

func (s *InMemoryStore) ListProducts(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectProducts(func(*Product) bool { return true }), nil
}

func (s *InMemoryStore) ListProductsByCategory(_ context.Context, category string) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectProducts(func(p *Product) bool { return p.Category == category }), nil
}

func (s *InMemoryStore) GetProduct(_ context.Context, id int) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryStore) SearchProducts(_ context.Context, query string) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lowered := strings.ToLower(query)
	return s.collectProducts(func(p *Product) bool {
		return strings.Contains(strings.ToLower(p.Name), lowered) ||
			strings.Contains(strings.ToLower(p.Description), lowered)
	}), nil
}

// collectProducts returns copies of matching products ordered by id.
// Callers must hold at least the read lock.
func (s *InMemoryStore) collectProducts(match func(*Product) bool) []Product {
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if match(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *InMemoryStore) ListReviewsByProduct(_ context.Context, productID int) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Review, 0)
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateReview inserts the review and recomputes the owning product's rating
// and review count in the same critical section, so no observer ever sees
// one without the other.
func (s *InMemoryStore) CreateReview(ctx context.Context, input InsertReview) (*Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[input.ProductID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	review := &Review{
		ID:        s.nextReviewID,
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Username:  input.Username,
		Title:     input.Title,
		Content:   input.Content,
		Rating:    input.Rating,
		CreatedAt: requestcontext.Now(ctx),
	}
	s.nextReviewID++
	s.reviews[review.ID] = review

	var sum, count int
	for _, r := range s.reviews {
		if r.ProductID == product.ID {
			sum += r.Rating
			count++
		}
	}
	product.Rating = roundMean(sum, count)
	product.ReviewCount = count

	cp := *review
	return &cp, nil
}

// roundMean computes round-half-up(sum/count), or 0 when count is 0.
func roundMean(sum, count int) int {
	if count == 0 {
		return 0
	}
	return (2*sum + count) / (2 * count)
}

func (s *InMemoryStore) ListCartItemsByUser(_ context.Context, userID int) ([]CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CartItem, 0)
	for _, item := range s.cartItems {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) GetCartItem(_ context.Context, id int) (*CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.cartItems[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

// AddCartItem merges into the existing (userID, productID) row under the
// write lock, keeping at most one row per pair.
func (s *InMemoryStore) AddCartItem(ctx context.Context, userID, productID, quantity int) (*CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return nil, sentinel.ErrNotFound
	}

	for _, item := range s.cartItems {
		if item.UserID == userID && item.ProductID == productID {
			item.Quantity += quantity
			cp := *item
			return &cp, nil
		}
	}

	item := &CartItem{
		ID:        s.nextCartItemID,
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: requestcontext.Now(ctx),
	}
	s.nextCartItemID++
	s.cartItems[item.ID] = item
	cp := *item
	return &cp, nil
}

func (s *InMemoryStore) UpdateCartItemQuantity(_ context.Context, id, quantity int) (*CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.cartItems[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	item.Quantity = quantity
	cp := *item
	return &cp, nil
}

// UpdateCartItemNote stores the note verbatim. Sanitization is deferred to
// render time, never applied at storage time.
func (s *InMemoryStore) UpdateCartItemNote(_ context.Context, id int, note string) (*CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.cartItems[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	item.Note = note
	cp := *item
	return &cp, nil
}

func (s *InMemoryStore) RemoveCartItem(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cartItems[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.cartItems, id)
	return nil
}

// AddProduct inserts a product, assigning the next id. Used by seeding and
// tests; product administration has no public endpoint.
func (s *InMemoryStore) AddProduct(p Product) Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextProductID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.nextProductID++
	s.products[p.ID] = &p
	return p
}
