package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrEmptyResponse means the provider answered without any choice.
var ErrEmptyResponse = errors.New("ai returned no choices")

// ErrCacheMiss is returned by a Cache when the key is unknown.
var ErrCacheMiss = errors.New("ai cache miss")
