package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vulnshop/internal/commerce"
	"vulnshop/internal/commerce/service"
	"vulnshop/internal/render"
	dErrors "vulnshop/pkg/domain-errors"
	"vulnshop/pkg/platform/httputil"
	"vulnshop/pkg/requestcontext"
)

// Service defines the storefront operations the handler depends on.
type Service interface {
	ListProducts(ctx context.Context) ([]commerce.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]commerce.Product, error)
	GetProduct(ctx context.Context, id int) (*commerce.Product, error)
	Search(ctx context.Context, query string) ([]commerce.Product, error)
	ListReviewsByProduct(ctx context.Context, productID int) ([]commerce.Review, error)
	CreateReview(ctx context.Context, input commerce.InsertReview) (*commerce.Review, error)
	ListCart(ctx context.Context, userID int) ([]service.CartEntry, error)
	AddCartItem(ctx context.Context, userID, productID, quantity int) (*service.CartEntry, error)
	UpdateCartItemQuantity(ctx context.Context, userID, id, quantity int) (*service.CartEntry, error)
	UpdateCartItemNote(ctx context.Context, userID, id int, note string) (*service.CartEntry, error)
	RemoveCartItem(ctx context.Context, userID, id int) error
}

// Handler exposes the storefront API. User-authored text passes through the
// render policy on the way out, so what the client sees depends on the
// security mode at read time, not at write time.
type Handler struct {
	service Service
	policy  *render.Policy
	logger  *slog.Logger
}

func New(service Service, policy *render.Policy, logger *slog.Logger) *Handler {
	return &Handler{service: service, policy: policy, logger: logger}
}

// Register mounts the storefront routes. Cart and review submission require
// an authenticated user; auth is the middleware enforcing that.
func (h *Handler) Register(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/products", h.handleListProducts)
	r.Get("/products/{id}", h.handleGetProduct)
	r.Get("/products/{id}/reviews", h.handleListReviews)
	r.Get("/categories/{category}", h.handleListByCategory)
	r.Get("/search", h.handleSearch)

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/reviews", h.handleCreateReview)
		r.Get("/cart", h.handleListCart)
		r.Post("/cart", h.handleAddCartItem)
		r.Patch("/cart/{id}/quantity", h.handleUpdateQuantity)
		r.Patch("/cart/{id}/note", h.handleUpdateNote)
		r.Delete("/cart/{id}", h.handleRemoveCartItem)
	})
}

type searchResponse struct {
	Products []commerce.Product `json:"products"`
	Query    string             `json:"query"`
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "list products", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "get product", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) handleListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	products, err := h.service.ListProductsByCategory(r.Context(), category)
	if err != nil {
		h.writeServiceError(w, r, "list products by category", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, products)
}

// handleSearch echoes the query back in the response. The echo goes through
// the render policy: this is the reflected injection surface.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	products, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.writeServiceError(w, r, "search products", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, searchResponse{
		Products: products,
		Query:    h.policy.Text(query),
	})
}

func (h *Handler) handleListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	reviews, err := h.service.ListReviewsByProduct(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "list reviews", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.policy.Reviews(reviews))
}

func (h *Handler) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[createReviewRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	username := req.Username
	if username == "" {
		username = requestcontext.Username(ctx)
	}
	if username == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "username is required"))
		return
	}

	review, err := h.service.CreateReview(ctx, commerce.InsertReview{
		ProductID: req.ProductID,
		UserID:    requestcontext.UserID(ctx),
		Username:  username,
		Title:     req.Title,
		Content:   req.Content,
		Rating:    req.Rating,
	})
	if err != nil {
		h.writeServiceError(w, r, "create review", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, h.policy.Review(*review))
}

func (h *Handler) handleListCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := h.service.ListCart(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.writeServiceError(w, r, "list cart", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.policy.CartEntries(entries))
}

func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[addCartItemRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	entry, err := h.service.AddCartItem(ctx, requestcontext.UserID(ctx), req.ProductID, req.Quantity)
	if err != nil {
		h.writeServiceError(w, r, "add cart item", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, h.policy.CartEntry(*entry))
}

func (h *Handler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[updateQuantityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	entry, err := h.service.UpdateCartItemQuantity(ctx, requestcontext.UserID(ctx), id, req.Quantity)
	if err != nil {
		h.writeServiceError(w, r, "update cart quantity", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.policy.CartEntry(*entry))
}

func (h *Handler) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[updateNoteRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	entry, err := h.service.UpdateCartItemNote(ctx, requestcontext.UserID(ctx), id, req.Note)
	if err != nil {
		h.writeServiceError(w, r, "update cart note", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.policy.CartEntry(*entry))
}

func (h *Handler) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.RemoveCartItem(ctx, requestcontext.UserID(ctx), id); err != nil {
		h.writeServiceError(w, r, "remove cart item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid "+name))
		return 0, false
	}
	return id, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, op+" failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
