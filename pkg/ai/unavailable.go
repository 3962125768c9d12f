package ai

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by UnavailableProvider for every call. Callers
// map it to the AI_UNAVAILABLE error code.
var ErrUnavailable = errors.New("ai provider is not configured")

// UnavailableProvider is wired in when no AI credentials are present, so the
// rest of the system degrades with a stable error instead of nil checks.
type UnavailableProvider struct{}

var _ LLMProvider = &UnavailableProvider{}

func NewUnavailableProvider() *UnavailableProvider {
	return &UnavailableProvider{}
}

func (u *UnavailableProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return "", ErrUnavailable
}

func (u *UnavailableProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return "", ErrUnavailable
}
