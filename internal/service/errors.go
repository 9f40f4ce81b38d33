package service

import "errors"

// Sentinel errors the API layer maps to response codes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrEmptyCart          = errors.New("cart has no items")
	ErrAlreadyInWishlist  = errors.New("product already in wishlist")
)
