package handler

import (
	dErrors "vulnshop/pkg/domain-errors"
)

type createReviewRequest struct {
	ProductID int    `json:"productId"`
	Username  string `json:"username"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
}

// Validate checks everything except Username, which may be omitted: the
// handler falls back to the authenticated display name.
func (r *createReviewRequest) Validate() error {
	if r.ProductID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "productId is required")
	}
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if r.Content == "" {
		return dErrors.New(dErrors.CodeValidation, "content is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return dErrors.New(dErrors.CodeValidation, "rating must be between 1 and 5")
	}
	return nil
}

type addCartItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (r *addCartItemRequest) Validate() error {
	if r.ProductID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "productId is required")
	}
	// An omitted quantity means one unit.
	if r.Quantity == 0 {
		r.Quantity = 1
	}
	if r.Quantity < 1 {
		return dErrors.New(dErrors.CodeValidation, "quantity must be at least 1")
	}
	return nil
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (r *updateQuantityRequest) Validate() error {
	if r.Quantity < 1 {
		return dErrors.New(dErrors.CodeValidation, "quantity must be at least 1")
	}
	return nil
}

type updateNoteRequest struct {
	Note string `json:"note"`
}

// Validate accepts any note, markup included. The note must reach storage
// unmodified.
func (r *updateNoteRequest) Validate() error {
	return nil
}
