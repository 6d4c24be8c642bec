package domain

import "errors"

// --- ERREURS DU DOMAINE ---
var (
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrDisplayNameMissing = errors.New("display name is required")
	ErrInvalidUsername    = errors.New("username must be 3 to 20 characters (a-z, 0-9, _)")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmptyContent       = errors.New("post content is required")
	ErrSelfConnection     = errors.New("cannot connect to yourself")
	ErrBlocked            = errors.New("connection blocked")
	ErrConnectionExists   = errors.New("connection already exists")
	ErrInvalidTheme       = errors.New("invalid theme")
)
