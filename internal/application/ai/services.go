package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bryanwahyu/purelabel/internal/domain/ai"
	"github.com/bryanwahyu/purelabel/internal/domain/labels"
)

// Service is the cloud engine: it turns raw model answers into results and
// implements labels.Analyzer and labels.Conversationalist.
type Service struct {
	client ai.Client
	cache  ai.Cache
	log    *zap.Logger
}

// NewService wires the engine; cache may be nil.
func NewService(client ai.Client, cache ai.Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{client: client, cache: cache, log: log}
}

// Analyze calls the model once, no retry.
func (s *Service) Analyze(ctx context.Context, in labels.Input) (*labels.AnalysisResult, error) {
	key := CacheKey(in)
	if res, ok := s.cached(ctx, key); ok {
		return res, nil
	}

	raw, err := s.client.Analyze(ctx, in)
	if err != nil {
		return nil, &labels.RemoteError{Op: "analyze", Cause: err}
	}
	res, err := DecodeResult(raw)
	if err != nil {
		return nil, &labels.RemoteError{Op: "decode", Cause: err}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, raw); err != nil {
			s.log.Warn("cache store failed", zap.Error(err))
		}
	}
	return res, nil
}

func (s *Service) cached(ctx context.Context, key string) (*labels.AnalysisResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ai.ErrCacheMiss) {
			s.log.Warn("cache lookup failed", zap.Error(err))
		}
		return nil, false
	}
	res, err := DecodeResult(raw)
	if err != nil {
		s.log.Warn("dropping unreadable cache entry", zap.Error(err))
		return nil, false
	}
	s.log.Debug("cloud analysis served from cache", zap.String("key", key))
	return res, true
}

// Converse forwards the follow-up; an empty answer becomes a rephrase hint.
func (s *Service) Converse(ctx context.Context, history []labels.Message, productContext string) (string, error) {
	reply, err := s.client.Converse(ctx, history, productContext)
	if err != nil {
		return "", &labels.ConversationError{Cause: err}
	}
	if strings.TrimSpace(reply) == "" {
		return labels.RephraseReply, nil
	}
	return reply, nil
}

// DecodeResult parses the model's JSON, tolerating a markdown code fence.
func DecodeResult(raw string) (*labels.AnalysisResult, error) {
	body := strings.TrimSpace(raw)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	}
	if body == "" {
		return nil, errors.New("empty model answer")
	}
	var res labels.AnalysisResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return nil, fmt.Errorf("invalid analysis JSON: %w", err)
	}
	res.Normalize()
	return &res, nil
}

// CacheKey is a digest of the input kind and payload.
func CacheKey(in labels.Input) string {
	h := sha256.New()
	h.Write([]byte(in.Kind()))
	h.Write([]byte{0})
	if in.Image != nil {
		h.Write([]byte(in.Image.ContentType))
		h.Write([]byte{0})
		h.Write(in.Image.Data)
	} else {
		h.Write([]byte(in.Text))
	}
	return hex.EncodeToString(h.Sum(nil))
}
