// Package local is the offline analysis engine: OCR for photos, then keyword
// matching against a static knowledge base and a deterministic verdict.
package local

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/purelabel/internal/domain/labels"
)

// Result bounds, applied after deduplication.
const (
	MaxInsights     = 5
	MaxTradeoffs    = 3
	MaxTranslations = 8

	insightCategory = "Ingredient Analysis"
)

// DefaultDelay is the pause applied to text input so clients can show progress.
const DefaultDelay = 800 * time.Millisecond

var errNoExtractor = errors.New("no text extractor configured")

// SuggestedQuestions are offered after every local analysis.
var SuggestedQuestions = []string{
	"Is this okay for children?",
	"Are there better alternatives?",
	"What is the main health concern here?",
}

type Engine struct {
	extractor labels.TextExtractor
	delay     time.Duration
	log       *zap.Logger
}

// New builds the engine. extractor may be nil, in which case image input
// always fails with an ExtractionError.
func New(extractor labels.TextExtractor, delay time.Duration, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{extractor: extractor, delay: delay, log: log}
}

// Analyze implements labels.Analyzer. Only the image path can fail.
func (e *Engine) Analyze(ctx context.Context, in labels.Input) (*labels.AnalysisResult, error) {
	if in.Image == nil {
		e.pause(ctx)
		return Evaluate(in.Text), nil
	}

	if e.extractor == nil {
		return nil, &labels.ExtractionError{Cause: errNoExtractor}
	}
	text, err := e.extractor.ExtractText(ctx, *in.Image)
	if err != nil {
		e.log.Warn("text extraction failed", zap.Error(err), zap.Int("image_bytes", len(in.Image.Data)))
		return nil, &labels.ExtractionError{Cause: err}
	}
	e.log.Debug("text extracted", zap.Int("chars", len(text)))
	return Evaluate(text), nil
}

// pause never fails; a cancelled context just ends it early.
func (e *Engine) pause(ctx context.Context) {
	if e.delay <= 0 {
		return
	}
	t := time.NewTimer(e.delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Evaluate turns raw label text into a result. It is pure and safe for
// concurrent use.
func Evaluate(text string) *labels.AnalysisResult {
	normalized := strings.ToLower(text)

	var (
		score        Score
		insights     []labels.Insight
		tradeoffs    []labels.Tradeoff
		translations []labels.Translation
	)
	for _, entry := range knowledgeBase {
		if !strings.Contains(normalized, entry.Key) {
			continue
		}
		insights = append(insights, labels.Insight{
			Category:    insightCategory,
			Title:       entry.SimpleName,
			Explanation: entry.Explanation,
			Impact:      entry.Impact,
		})
		translations = append(translations, labels.Translation{
			Original:   entry.Key,
			SimpleName: entry.SimpleName,
			Purpose:    entry.Purpose,
		})
		if entry.Tradeoff != nil {
			tradeoffs = append(tradeoffs, *entry.Tradeoff)
		}
		score.Add(entry.Impact)
	}

	v := Judge(score)
	res := &labels.AnalysisResult{
		ProductName:        DetectProduct(normalized),
		Verdict:            v.Label,
		Summary:            v.Summary,
		HumanImpact:        v.HumanImpact,
		Insights:           limit(uniqueBy(insights, func(i labels.Insight) string { return i.Title }), MaxInsights),
		Tradeoffs:          limit(tradeoffs, MaxTradeoffs),
		Uncertainties:      []labels.Uncertainty{},
		Translations:       limit(uniqueBy(translations, func(t labels.Translation) string { return t.SimpleName }), MaxTranslations),
		SuggestedQuestions: append([]string(nil), SuggestedQuestions...),
	}
	res.Normalize()
	return res
}

// uniqueBy keeps the first element for each key, preserving order.
func uniqueBy[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
