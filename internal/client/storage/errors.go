package storage

import "errors"

// ErrSessionNotFound indicates that no one is logged in
var ErrSessionNotFound = errors.New("session not found")
