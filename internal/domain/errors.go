package domain

import "errors"

// Sentinel errors for the request pipeline. Message text is part of the
// public API contract; legacy clients match on it.
var (
	// ErrNotFound signals that no shape could be resolved.
	ErrNotFound = errors.New("not found")
	// ErrMissingQuery signals a search request without a query string.
	ErrMissingQuery = errors.New("Must provide query string `?q=<query string>`")
	// ErrRadiusTooSmall signals a radius below the allowed minimum.
	ErrRadiusTooSmall = errors.New("radius must be greater than 1")
)
