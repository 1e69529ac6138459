package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMoodRequired indicates the caller submitted an empty mood.
	ErrMoodRequired = errors.New("domain: mood text is required")

	// ErrMalformedResponse indicates generation output that could not be
	// parsed even after repair. Fatal for the request that hit it.
	ErrMalformedResponse = errors.New("malformed generation response")

	// ErrGenerationUnavailable indicates the text-generation collaborator
	// was unreachable or errored. Fatal for the request that hit it.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// MalformedResponseError carries a snippet of the unparseable output.
type MalformedResponseError struct {
	Snippet string
}

func (e *MalformedResponseError) Error() string {
	if e.Snippet == "" {
		return ErrMalformedResponse.Error()
	}
	return fmt.Sprintf("malformed generation response: %q", e.Snippet)
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
