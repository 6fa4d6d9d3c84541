package commerce

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vulnshop/pkg/platform/sentinel"
	"vulnshop/pkg/requestcontext"
)

func newSeededStore(t *testing.T) *InMemoryStore {
	t.Helper()
	store := NewInMemoryStore()
	SeedSampleCatalog(store)
	return store
}

func TestInMemoryStore_Products(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	t.Run("ListProducts returns the full catalog", func(t *testing.T) {
		products, err := store.ListProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 8)
	})

	t.Run("ListProductsByCategory filters", func(t *testing.T) {
		products, err := store.ListProductsByCategory(ctx, "Accessories")
		require.NoError(t, err)
		require.Len(t, products, 2)
		for _, p := range products {
			assert.Equal(t, "Accessories", p.Category)
		}
	})

	t.Run("GetProduct missing id", func(t *testing.T) {
		_, err := store.GetProduct(ctx, 999)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("SearchProducts matches name and description case-insensitively", func(t *testing.T) {
		byName, err := store.SearchProducts(ctx, "wireless")
		require.NoError(t, err)
		assert.Len(t, byName, 2) // headphones and mouse

		byDescription, err := store.SearchProducts(ctx, "noise cancellation")
		require.NoError(t, err)
		require.Len(t, byDescription, 1)
		assert.Equal(t, "Wireless Headphones", byDescription[0].Name)
	})
}

func TestInMemoryStore_CreateReviewAggregates(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	p := store.AddProduct(Product{Name: "Gadget", Description: "A gadget", Price: 100, Category: "Electronics"})

	ratings := []int{5, 4, 4}
	for _, rating := range ratings {
		_, err := store.CreateReview(ctx, InsertReview{
			ProductID: p.ID, UserID: 1, Username: "u", Title: "t", Content: "c", Rating: rating,
		})
		require.NoError(t, err)
	}

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ReviewCount)
	assert.Equal(t, 4, got.Rating, "mean 4.33 rounds to 4")

	reviews, err := store.ListReviewsByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
}

func TestInMemoryStore_CreateReviewMissingProduct(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.CreateReview(context.Background(), InsertReview{ProductID: 42, Rating: 5})
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRoundMean(t *testing.T) {
	tests := []struct {
		sum, count, want int
	}{
		{0, 0, 0},
		{13, 3, 4}, // 4.33 -> 4
		{9, 2, 5},  // 4.5 rounds half up
		{5, 1, 5},
		{7, 3, 2}, // 2.33 -> 2
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundMean(tt.sum, tt.count), "roundMean(%d, %d)", tt.sum, tt.count)
	}
}

func TestInMemoryStore_CreateReviewConcurrent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	p := store.AddProduct(Product{Name: "Gadget", Description: "d", Price: 1, Category: "c"})

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, err := store.CreateReview(ctx, InsertReview{
				ProductID: p.ID, UserID: 1, Username: "u", Title: "t", Content: "c", Rating: 4,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, goroutines, got.ReviewCount, "no review may be lost under concurrency")
	assert.Equal(t, 4, got.Rating)
}

func TestInMemoryStore_AddCartItemMerges(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	first, err := store.AddCartItem(ctx, 7, 1, 2)
	require.NoError(t, err)
	second, err := store.AddCartItem(ctx, 7, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "merge must reuse the existing row")
	assert.Equal(t, 5, second.Quantity)

	items, err := store.ListCartItemsByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 1, "at most one row per (user, product)")
	assert.Equal(t, 5, items[0].Quantity)
}

func TestInMemoryStore_AddCartItemConcurrentMerge(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, err := store.AddCartItem(ctx, 7, 1, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := store.ListCartItemsByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, goroutines, items[0].Quantity, "no add may be lost under concurrency")
}

func TestInMemoryStore_CartLifecycle(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	item, err := store.AddCartItem(ctx, 7, 2, 1)
	require.NoError(t, err)

	t.Run("quantity update overwrites", func(t *testing.T) {
		updated, err := store.UpdateCartItemQuantity(ctx, item.ID, 9)
		require.NoError(t, err)
		assert.Equal(t, 9, updated.Quantity)
	})

	t.Run("note stored verbatim", func(t *testing.T) {
		payload := `<img src=x onerror=alert(1)>`
		updated, err := store.UpdateCartItemNote(ctx, item.ID, payload)
		require.NoError(t, err)
		assert.Equal(t, payload, updated.Note, "storage must never escape")
	})

	t.Run("remove then not found", func(t *testing.T) {
		require.NoError(t, store.RemoveCartItem(ctx, item.ID))
		assert.ErrorIs(t, store.RemoveCartItem(ctx, item.ID), sentinel.ErrNotFound)
		_, err := store.GetCartItem(ctx, item.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("updates on missing ids", func(t *testing.T) {
		_, err := store.UpdateCartItemQuantity(ctx, 999, 1)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		_, err = store.UpdateCartItemNote(ctx, 999, "n")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("add for missing product", func(t *testing.T) {
		_, err := store.AddCartItem(ctx, 7, 999, 1)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestInMemoryStore_TimestampsFollowRequestTime(t *testing.T) {
	store := newSeededStore(t)
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)

	review, err := store.CreateReview(ctx, InsertReview{
		ProductID: 1, UserID: 1, Username: "u", Title: "t", Content: "c", Rating: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, at, review.CreatedAt, "review timestamps come from the request time")

	item, err := store.AddCartItem(ctx, 7, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, at, item.CreatedAt, "cart timestamps come from the request time")
}

func TestSeedSampleCatalog_StarterReviews(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	reviews, err := store.ListReviewsByProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	// Seeding goes through CreateReview, so the first product's aggregate
	// reflects its real reviews.
	p, err := store.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, p.ReviewCount)
	assert.Equal(t, 5, p.Rating, "mean 4.5 rounds half up")
}
