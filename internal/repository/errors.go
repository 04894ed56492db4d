// Package repository holds the stores behind every service: the in-memory
// credential and token stores of the OAuth issuer and the MySQL-backed
// company, statistics and import repositories.
package repository

import "errors"

// ErrNotFound is returned when a lookup by key matches no row. Handlers
// translate it into a 404 not_found response.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when credentials declare the same client id,
// user id or username twice.
var ErrDuplicate = errors.New("duplicate credential")
