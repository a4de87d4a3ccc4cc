package auth

import "errors"

// Access token errors.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")
)

// Refresh token errors. The API answers these with 403 rather than 401.
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrWrongTokenType means an access token was presented as a refresh
	// token or the other way round.
	ErrWrongTokenType = errors.New("wrong token type")
)
