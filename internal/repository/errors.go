package repository

import "errors"

var (
	// ErrCacheMiss is returned when a cache key is absent, expired, or its
	// stored value cannot be decoded.
	ErrCacheMiss = errors.New("cache miss")

	// ErrMissingCredential is returned by a collaborator whose API key was
	// never configured. It is fatal for the stage that hits it.
	ErrMissingCredential = errors.New("required API credential is not configured")
)
