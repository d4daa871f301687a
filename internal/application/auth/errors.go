package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid email")
	ErrInvalidUsername       = errors.New("Invalid username")
	ErrWeakPassword          = errors.New("Password must be at least 8 characters with a letter, number and special character")
	ErrEmailTaken            = errors.New("Email already registered")
	ErrUsernameTaken         = errors.New("Username already taken")
	ErrIncorrectPassword     = errors.New("Incorrect password")
	ErrNotAuthenticated      = errors.New("Not authenticated")
)
