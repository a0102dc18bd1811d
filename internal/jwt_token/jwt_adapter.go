package jwttoken

import (
	authmw "assetgov/pkg/platform/middleware/auth"
)

// JWTServiceAdapter lets the auth middleware validate tokens without knowing
// about JWT claims.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	principal, err := claims.Principal()
	if err != nil {
		return nil, err
	}
	return &authmw.Claims{Principal: principal, TokenID: claims.ID}, nil
}

var _ authmw.TokenValidator = (*JWTServiceAdapter)(nil)
