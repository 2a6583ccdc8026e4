package domain

import "errors"

var (
	ErrTransport            = errors.New("backend request failed")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrInconsistentFavorite = errors.New("favorite record could not be resolved")
	ErrValidation           = errors.New("validation failed")
	ErrToggleInProgress     = errors.New("another favorite toggle is in progress")
	ErrTokenInvalid         = errors.New("token is invalid or expired")
	ErrPropertyNotFound     = errors.New("property not found")
)
