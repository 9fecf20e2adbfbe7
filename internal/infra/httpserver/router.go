package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	applabels "github.com/bryanwahyu/purelabel/internal/application/labels"
	domai "github.com/bryanwahyu/purelabel/internal/domain/ai"
	domain "github.com/bryanwahyu/purelabel/internal/domain/labels"
	"github.com/bryanwahyu/purelabel/internal/middleware"
)

const defaultBodyLimit = 10 << 20

// Options carries the optional pieces of the HTTP stack. Zero values
// disable the matching feature.
type Options struct {
	Log         *zap.Logger
	Metrics     *middleware.Metrics
	Limiter     *middleware.RateLimiter
	APIKeys     map[string]string
	CORSOrigins []string
	BodyLimit   int64
	Checks      map[string]middleware.HealthChecker
}

type Router struct {
	labelsSvc *applabels.Service
	log       *zap.Logger
	bodyLimit int64
}

func NewRouter(labelsSvc *applabels.Service, opts Options) http.Handler {
	r := &Router{labelsSvc: labelsSvc, log: opts.Log, bodyLimit: opts.BodyLimit}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.bodyLimit <= 0 {
		r.bodyLimit = defaultBodyLimit
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Logging(r.log))
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	if opts.Limiter != nil {
		mux.Use(middleware.RateLimitMiddleware(opts.Limiter))
	}

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/readyz", middleware.HealthHandler(opts.Checks))
	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics.Handler())
	}

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/chat", r.wrap(r.handleChat))
		rt.Get("/scans", r.wrap(r.handleLatest))
		rt.Get("/scans/{id}", r.wrap(r.handleGet))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		req.Body = http.MaxBytesReader(w, req.Body, r.bodyLimit)
		if err := h(w, req); err != nil {
			status, msg := r.classify(err)
			if status >= http.StatusInternalServerError {
				r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			}
			writeJSON(w, status, map[string]string{"error": msg})
		}
	}
}

func (r *Router) classify(err error) (int, string) {
	var failure *domain.AnalysisFailure
	if errors.As(err, &failure) {
		var ext *domain.ExtractionError
		var remote *domain.RemoteError
		switch {
		case errors.As(err, &ext):
			return http.StatusUnprocessableEntity, failure.UserMessage()
		case errors.Is(err, domai.ErrQuotaExceeded):
			return http.StatusTooManyRequests, failure.UserMessage()
		case errors.As(err, &remote):
			return http.StatusBadGateway, failure.UserMessage()
		}
		return http.StatusInternalServerError, failure.UserMessage()
	}

	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit)
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrHistoryDisabled):
		return http.StatusServiceUnavailable, err.Error()
	}
	return http.StatusInternalServerError, "internal error"
}

// POST /v1/analyze
// JSON: {"engine":"local","text":"..."} or {"engine":"cloud","image":"data:image/jpeg;base64,..."}
// or multipart/form-data with fields engine, text and file image.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var cmd applabels.AnalyzeCommand

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.readMultipart(req, &cmd); err != nil {
			return err
		}
	} else {
		var body struct {
			Engine string `json:"engine"`
			Text   string `json:"text"`
			Image  string `json:"image"`
		}
		if err := decodeJSON(req, &body); err != nil {
			return err
		}
		cmd.Engine, cmd.Text = body.Engine, body.Text
		if body.Image != "" {
			img, err := domain.ParseDataURI(body.Image)
			if err != nil {
				return err
			}
			cmd.Image = &img
		}
	}

	if err := middleware.ValidateText("text", cmd.Text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	res, err := r.labelsSvc.Analyze(req.Context(), cmd)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

func (r *Router) readMultipart(req *http.Request, cmd *applabels.AnalyzeCommand) error {
	if err := req.ParseMultipartForm(r.bodyLimit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		return fmt.Errorf("%w: invalid multipart body: %v", domain.ErrInvalidInput, err)
	}
	cmd.Engine = req.FormValue("engine")
	cmd.Text = req.FormValue("text")

	file, header, err := req.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	cmd.Image = &domain.Image{Data: data, ContentType: contentType}
	return nil
}

// POST /v1/chat
// Body: {"history":[{"role":"user","content":"..."}],"result":{...}}
// A failed model call still answers 200 with the apology and "degraded": true.
func (r *Router) handleChat(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		History []domain.Message       `json:"history"`
		Result  *domain.AnalysisResult `json:"result"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	for i := range body.History {
		body.History[i].Content = middleware.SanitizeString(body.History[i].Content)
		if err := middleware.ValidateText("message", body.History[i].Content); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}

	reply, err := r.labelsSvc.Ask(req.Context(), applabels.AskCommand{History: body.History, Result: body.Result})
	var convErr *domain.ConversationError
	switch {
	case errors.As(err, &convErr):
		writeJSON(w, http.StatusOK, map[string]any{"reply": reply, "degraded": true})
		return nil
	case err != nil:
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
	return nil
}

// GET /v1/scans?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.labelsSvc.Latest(req.Context(), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Scan{}
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /v1/scans/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateScanID(id); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	scan, err := r.labelsSvc.Get(req.Context(), domain.ScanID(id))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, scan)
	return nil
}

func decodeJSON(req *http.Request, v any) error {
	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", domain.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidInput, strings.TrimPrefix(err.Error(), "json: "))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
