package commerce

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"vulnshop/pkg/platform/sentinel"
)

// PostgresStore persists the catalog in PostgreSQL. The lost-update hazards
// around review aggregates and cart merges are closed in SQL: aggregates are
// recomputed under a product row lock inside the insert transaction, and cart
// merges ride on the (user_id, product_id) unique constraint with an upsert.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const productColumns = `id, name, description, price, image_url, category, rating, review_count, created_at`

func (s *PostgresStore) ListProducts(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (s *PostgresStore) ListProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("query products by category: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p Product
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
		&p.Category, &p.Rating, &p.ReviewCount, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	// ILIKE over name and description, mirroring the in-memory substring match.
	q := `SELECT ` + productColumns + ` FROM products
		WHERE name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, query)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
			&p.Category, &p.Rating, &p.ReviewCount, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) ListReviewsByProduct(ctx context.Context, productID int) ([]Review, error) {
	query := `SELECT id, product_id, user_id, username, title, content, rating, created_at
		FROM reviews WHERE product_id = $1 ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		var r Review
		if err := rows.Scan(
			&r.ID, &r.ProductID, &r.UserID, &r.Username,
			&r.Title, &r.Content, &r.Rating, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// CreateReview inserts the review and recomputes the product aggregate from
// the persisted review set in one transaction. The product row is locked
// first: under READ COMMITTED a concurrent transaction could otherwise
// recompute against a snapshot that misses a just-committed review. The lock
// also detects the missing product before the insert.
func (s *PostgresStore) CreateReview(ctx context.Context, input InsertReview) (*Review, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin review tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var productID int
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM products WHERE id = $1 FOR UPDATE`, input.ProductID,
	).Scan(&productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock product row: %w", err)
	}

	var review Review
	err = tx.QueryRowContext(ctx, `
		INSERT INTO reviews (product_id, user_id, username, title, content, rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, product_id, user_id, username, title, content, rating, created_at`,
		input.ProductID, input.UserID, input.Username, input.Title, input.Content, input.Rating,
	).Scan(
		&review.ID, &review.ProductID, &review.UserID, &review.Username,
		&review.Title, &review.Content, &review.Rating, &review.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	// Recompute against the full review set while the row lock is held.
	_, err = tx.ExecContext(ctx, `
		UPDATE products SET
			rating = agg.rating,
			review_count = agg.review_count
		FROM (
			SELECT COALESCE(ROUND(AVG(rating)), 0)::int AS rating, COUNT(*)::int AS review_count
			FROM reviews WHERE product_id = $1
		) agg
		WHERE products.id = $1`,
		input.ProductID,
	)
	if err != nil {
		return nil, fmt.Errorf("update product aggregate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit review tx: %w", err)
	}
	return &review, nil
}

const cartColumns = `id, user_id, product_id, quantity, note, created_at`

func (s *PostgresStore) ListCartItemsByUser(ctx context.Context, userID int) ([]CartItem, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_items WHERE user_id = $1 ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]CartItem, 0)
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID,
			&item.Quantity, &item.Note, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) GetCartItem(ctx context.Context, id int) (*CartItem, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_items WHERE id = $1`
	var item CartItem
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.UserID, &item.ProductID,
		&item.Quantity, &item.Note, &item.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart item: %w", err)
	}
	return &item, nil
}

// AddCartItem merges per (user_id, product_id) atomically via upsert on the
// unique constraint.
func (s *PostgresStore) AddCartItem(ctx context.Context, userID, productID, quantity int) (*CartItem, error) {
	var item CartItem
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING `+cartColumns,
		userID, productID, quantity,
	).Scan(
		&item.ID, &item.UserID, &item.ProductID,
		&item.Quantity, &item.Note, &item.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) UpdateCartItemQuantity(ctx context.Context, id, quantity int) (*CartItem, error) {
	var item CartItem
	err := s.db.QueryRowContext(ctx, `
		UPDATE cart_items SET quantity = $2 WHERE id = $1
		RETURNING `+cartColumns,
		id, quantity,
	).Scan(
		&item.ID, &item.UserID, &item.ProductID,
		&item.Quantity, &item.Note, &item.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update cart quantity: %w", err)
	}
	return &item, nil
}

// UpdateCartItemNote stores the note verbatim; sanitization happens at
// render time only.
func (s *PostgresStore) UpdateCartItemNote(ctx context.Context, id int, note string) (*CartItem, error) {
	var item CartItem
	err := s.db.QueryRowContext(ctx, `
		UPDATE cart_items SET note = $2 WHERE id = $1
		RETURNING `+cartColumns,
		id, note,
	).Scan(
		&item.ID, &item.UserID, &item.ProductID,
		&item.Quantity, &item.Note, &item.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update cart note: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) RemoveCartItem(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
