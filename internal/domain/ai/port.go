package ai

import (
	"context"

	"github.com/bryanwahyu/purelabel/internal/domain/labels"
)

// Client is a hosted model that reads ingredient labels and answers follow-ups.
// Analyze returns the raw JSON document produced by the model.
type Client interface {
	Analyze(ctx context.Context, in labels.Input) (string, error)
	Converse(ctx context.Context, history []labels.Message, productContext string) (string, error)
}

// Cache stores raw model answers keyed by an input digest.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
