package domain

import "errors"

var (
	// ErrFeedUnavailable is returned when the menu feed cannot be fetched
	ErrFeedUnavailable = errors.New("menu feed unavailable")

	// ErrMalformedFeed is returned when the feed cannot be parsed even after recovery
	ErrMalformedFeed = errors.New("menu feed is malformed beyond recovery")

	// ErrMealNotFound is returned when a meal is not present in the catalog
	ErrMealNotFound = errors.New("meal not found in catalog")

	// ErrRefreshInProgress is returned when a refresh is requested while one is running
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrScoringTransient is returned for retryable scoring failures (429, 5xx, timeout)
	ErrScoringTransient = errors.New("transient scoring service failure")

	// ErrScoringFatal is returned for scoring failures that must not be retried
	ErrScoringFatal = errors.New("scoring service rejected the request")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
