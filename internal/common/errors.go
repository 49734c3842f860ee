package common

import (
	"errors"
	"net/http"
)

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("resource already exists")
	ErrInvalidInput = errors.New("invalid input")

	// Content errors
	ErrSlugConflict      = errors.New("slug already in use")
	ErrInvalidStatus     = errors.New("invalid content status")
	ErrInvalidType       = errors.New("unknown content type")
	ErrAuthorHasContent  = errors.New("author still owns content")
	ErrAuthorLinked      = errors.New("user already linked to an author")
	ErrInvalidFileType   = errors.New("invalid file type")
	ErrFileTooLarge      = errors.New("file too large")
	ErrStorageDisabled   = errors.New("object storage is not configured")
	ErrSearchUnavailable = errors.New("search is not available")

	// Wiki errors
	ErrCircularReference = errors.New("parent would create a circular reference")
	ErrSelfParent        = errors.New("page cannot be its own parent")
	ErrParentNotFound    = errors.New("parent page not found")
	ErrHasChildren       = errors.New("page has child pages")

	// Comment / rating errors
	ErrInvalidParentComment = errors.New("parent comment belongs to different content")
	ErrInvalidScore         = errors.New("score must be between 1 and 5")

	// Version errors
	ErrVersionMismatch = errors.New("versions belong to different content")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrSessionNotFound    = errors.New("session not found")
	ErrAccountDisabled    = errors.New("account disabled")
)

// StatusFor maps a (possibly wrapped) business error to an HTTP status code
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrSlugConflict),
		errors.Is(err, ErrEmailTaken), errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrAuthorLinked):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrCircularReference), errors.Is(err, ErrSelfParent), errors.Is(err, ErrParentNotFound),
		errors.Is(err, ErrHasChildren), errors.Is(err, ErrAuthorHasContent), errors.Is(err, ErrInvalidFileType),
		errors.Is(err, ErrInvalidParentComment), errors.Is(err, ErrInvalidScore), errors.Is(err, ErrVersionMismatch),
		errors.Is(err, ErrBlockedLink), errors.Is(err, ErrTooManyLinks):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken), errors.Is(err, ErrTokenRevoked), errors.Is(err, ErrAccountDisabled):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrStorageDisabled), errors.Is(err, ErrSearchUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
