package labels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/purelabel/internal/application"
	domain "github.com/bryanwahyu/purelabel/internal/domain/labels"
)

// Observer receives one call per finished analysis (metrics).
type Observer interface {
	ObserveAnalysis(engine, outcome string, d time.Duration)
}

// Service implements the label use-cases.
// Service is designed to be used concurrently; it holds no per-request state.
type Service struct {
	Engines       map[domain.Engine]domain.Analyzer
	Chat          domain.Conversationalist
	DefaultEngine domain.Engine

	// optional
	Repo     domain.Repository
	Images   domain.ImageStore
	Observer Observer

	Clock application.Clock
	Log   *zap.Logger
}

//
// ==== USE CASES ====
//

// AnalyzeCommand carries exactly one of Text or Image.
type AnalyzeCommand struct {
	Engine string
	Text   string
	Image  *domain.Image
}

type AnalyzeResult struct {
	ID     domain.ScanID          `json:"id,omitempty"`
	Engine domain.Engine          `json:"engine"`
	Result *domain.AnalysisResult `json:"result"`
}

// Analyze runs the selected engine once. Failures come back as
// *domain.AnalysisFailure; nothing partial is returned.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*AnalyzeResult, error) {
	engine, err := domain.ParseEngine(cmd.Engine, s.defaultEngine())
	if err != nil {
		return nil, err
	}
	in, err := cmd.input()
	if err != nil {
		return nil, err
	}
	analyzer, ok := s.Engines[engine]
	if !ok || analyzer == nil {
		return nil, fmt.Errorf("%w: engine %q is not configured", domain.ErrInvalidInput, engine)
	}

	log := s.logger().With(zap.String("engine", string(engine)), zap.String("input", string(in.Kind())))
	start := s.now()
	res, err := analyzer.Analyze(ctx, in)
	elapsed := s.now().Sub(start)
	if err != nil {
		log.Warn("analysis failed", zap.Error(err), zap.Duration("took", elapsed))
		s.observe(engine, "error", elapsed)
		return nil, &domain.AnalysisFailure{Engine: engine, Cause: err}
	}
	log.Info("analysis done",
		zap.String("product", res.ProductName),
		zap.String("verdict", res.Verdict),
		zap.Int("insights", len(res.Insights)),
		zap.Duration("took", elapsed))
	s.observe(engine, "ok", elapsed)

	out := &AnalyzeResult{Engine: engine, Result: res}
	if s.Repo != nil {
		id, err := s.record(ctx, engine, in, res)
		if err != nil {
			// history is best effort; the caller still gets its result
			log.Error("record scan failed", zap.Error(err))
		} else {
			out.ID = id
		}
	}
	return out, nil
}

func (c AnalyzeCommand) input() (domain.Input, error) {
	hasText := strings.TrimSpace(c.Text) != ""
	switch {
	case hasText && c.Image != nil:
		return domain.Input{}, fmt.Errorf("%w: provide either text or image, not both", domain.ErrInvalidInput)
	case c.Image != nil:
		if len(c.Image.Data) == 0 {
			return domain.Input{}, fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
		}
		mediaType, _, err := mime.ParseMediaType(c.Image.ContentType)
		if err != nil || !strings.HasPrefix(mediaType, "image/") {
			return domain.Input{}, fmt.Errorf("%w: unsupported content type %q", domain.ErrInvalidInput, c.Image.ContentType)
		}
		return domain.ImageInput(c.Image.Data, mediaType), nil
	case hasText:
		return domain.TextInput(c.Text), nil
	}
	return domain.Input{}, fmt.Errorf("%w: text or image is required", domain.ErrInvalidInput)
}

func (s *Service) record(ctx context.Context, engine domain.Engine, in domain.Input, res *domain.AnalysisResult) (domain.ScanID, error) {
	now := s.now()
	id := domain.ScanID(uuid.New().String())

	body, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	scan := &domain.Scan{
		ID:           id,
		Engine:       engine,
		InputKind:    in.Kind(),
		ProductName:  res.ProductName,
		Verdict:      res.Verdict,
		InsightCount: len(res.Insights),
		Result:       body,
		CreatedAt:    now,
	}

	if in.Image != nil && s.Images != nil {
		key := fmt.Sprintf("scans/%s/%s%s", now.Format("2006/01/02"), id, imageExt(in.Image.ContentType))
		url, err := s.Images.UploadImage(ctx, key, *in.Image)
		if err != nil {
			s.logger().Warn("archive image failed", zap.String("scan_id", string(id)), zap.Error(err))
		} else {
			scan.ImageURL = url
		}
	}

	if err := s.Repo.Save(ctx, scan); err != nil {
		return "", err
	}
	return id, nil
}

// AskCommand is one follow-up question with the whole conversation so far.
type AskCommand struct {
	History []domain.Message
	Result  *domain.AnalysisResult
}

// Ask answers a follow-up. On failure it returns the apology text together
// with a *domain.ConversationError so callers can degrade gracefully.
func (s *Service) Ask(ctx context.Context, cmd AskCommand) (string, error) {
	if err := domain.ValidateHistory(cmd.History); err != nil {
		return "", err
	}
	if cmd.Result == nil {
		return "", fmt.Errorf("%w: analysis result is required", domain.ErrInvalidInput)
	}
	if s.Chat == nil {
		return domain.ApologyReply, &domain.ConversationError{Cause: errors.New("conversation engine not configured")}
	}

	reply, err := s.Chat.Converse(ctx, cmd.History, cmd.Result.ProductContext())
	if err != nil {
		s.logger().Warn("follow-up failed", zap.Int("turns", len(cmd.History)), zap.Error(err))
		var ce *domain.ConversationError
		if !errors.As(err, &ce) {
			err = &domain.ConversationError{Cause: err}
		}
		return domain.ApologyReply, err
	}
	return reply, nil
}

// Latest returns the N most recent scans.
func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.Scan, error) {
	if s.Repo == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return s.Repo.Latest(ctx, limit)
}

// Get returns one scan by id.
func (s *Service) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	if s.Repo == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return s.Repo.Get(ctx, id)
}

// helpers

func (s *Service) defaultEngine() domain.Engine {
	if s.DefaultEngine == "" {
		return domain.EngineCloud
	}
	return s.DefaultEngine
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Service) observe(engine domain.Engine, outcome string, d time.Duration) {
	if s.Observer != nil {
		s.Observer.ObserveAnalysis(string(engine), outcome, d)
	}
}

func imageExt(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ".img"
}
