package auth

import "errors"

// Signup conflicts are reported per field so the HTTP layer can tell the
// caller which value collided. Login failures never carry that detail.
var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)
