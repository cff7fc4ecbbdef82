package service

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by constructors when no credential is available.
var ErrNotConfigured = errors.New("completion service not configured")

// CompletionService sends one prompt to a text-completion model and returns
// the raw reply text.
type CompletionService interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}
