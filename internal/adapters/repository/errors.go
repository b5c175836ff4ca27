package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrActivityFull     = errors.New("activity is full")
)
