package domain

import "errors"

var (
	// ErrArtifactMissing signals that a required precomputed artifact is absent on disk.
	ErrArtifactMissing = errors.New("artifact missing")
	// ErrArtifactCorrupt signals an unreadable or malformed artifact.
	ErrArtifactCorrupt = errors.New("artifact corrupt")
	// ErrBootstrapFailed signals that artifact regeneration did not complete.
	ErrBootstrapFailed = errors.New("bootstrap failed")
	// ErrCustomerNotFound signals a missing customer record.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrInsightsQuotaExceeded signals an exhausted text-generation quota.
	ErrInsightsQuotaExceeded = errors.New("insights quota exceeded")
	// ErrInsightsInvalidCredentials signals a rejected text-generation API key.
	ErrInsightsInvalidCredentials = errors.New("insights credentials invalid")
	// ErrInsightsUnavailable signals that the text-generation service cannot serve.
	ErrInsightsUnavailable = errors.New("insights unavailable")
)
