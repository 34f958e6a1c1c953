package apperrors

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrRefreshInProgress     = errors.New("refresh already in progress")
	ErrPhotosLibraryNotFound = errors.New("photos database not found")
	ErrInvalidSettings       = errors.New("invalid settings")
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
)
