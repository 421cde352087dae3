// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory).
package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by conditional writes whose expectation no longer holds.
	ErrConflict = errors.New("conditional write conflict")
	// ErrDuplicateKey is returned by Insert when the storage key already belongs to a document.
	ErrDuplicateKey = errors.New("storage key already registered")
)
