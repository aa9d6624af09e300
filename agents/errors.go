package agents

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when the model answered with no content
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrNoClient is returned when an agent runs without a client
	ErrNoClient = errors.New("agent client not configured")
	// ErrMissingAPIKey is returned when building a client without credential
	ErrMissingAPIKey = errors.New("llm api key is missing")
)

// RemoteServiceError wraps a failure of the model provider
type RemoteServiceError struct {
	Provider   Provider
	Model      string
	StatusCode int
	Err        error
}

func (e *RemoteServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s model %s failed with status %d: %v", e.Provider, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s model %s failed: %v", e.Provider, e.Model, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}
