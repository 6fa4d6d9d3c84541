package jwttoken

import (
	"vulnshop/internal/platform/middleware"
)

// MiddlewareAdapter bridges JWTService to the middleware.JWTValidator
// interface so the transport layer never imports jwt internals.
type MiddlewareAdapter struct {
	svc *JWTService
}

func NewMiddlewareAdapter(svc *JWTService) *MiddlewareAdapter {
	return &MiddlewareAdapter{svc: svc}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.svc.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{
		UserID:   claims.UserID,
		Username: claims.Username,
	}, nil
}
