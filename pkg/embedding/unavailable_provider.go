package embedding

import "errors"

// ErrUnavailable is returned when no embedding backend is configured.
var ErrUnavailable = errors.New("embedding provider is not configured")

// UnavailableProvider stands in when no credentials or local backend exist,
// letting material processing finish without chunk embeddings.
type UnavailableProvider struct{}

func NewUnavailableProvider() EmbeddingProvider {
	return &UnavailableProvider{}
}

func (p *UnavailableProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	return nil, ErrUnavailable
}
