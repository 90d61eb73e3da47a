package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/stylist"
	"github.com/aretw0/stylist/internal/logging"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// Engine defines what the HTTP API needs from the session engine.
type Engine interface {
	Open(ctx context.Context, sessionID string) (*stylist.Session, error)
	Sessions(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, sessionID string) error
	Catalog() []domain.Outfit
}

// DefaultMaxBodyBytes caps request bodies when WithMaxBodyBytes is not given.
const DefaultMaxBodyBytes int64 = 8 << 20

// Server exposes the guided flow over HTTP.
type Server struct {
	Engine  Engine
	Streams *StreamManager

	metrics  http.Handler
	logger   *slog.Logger
	upgrader websocket.Upgrader
	maxBody  int64
}

// Option configures the Server.
type Option func(*Server)

// WithStreams attaches the stream manager fed by the engine's lifecycle hooks.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetricsHandler mounts a Prometheus handler on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBodyBytes caps the size of JSON request bodies. Larger bodies get 413.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:  engine,
		logger:  logging.NewNop(),
		maxBody: DefaultMaxBodyBytes,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Streams == nil {
		server.Streams = NewStreamManager()
	}

	r := chi.NewRouter()
	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/outfits", server.ListOutfits)
	if server.metrics != nil {
		r.Handle("/metrics", server.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", server.ListSessions)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", server.GetSession)
			r.Delete("/", server.DeleteSession)
			r.Get("/stream", server.Stream)
			r.Post("/start", server.Start)
			r.Post("/capture", server.Capture)
			r.Post("/recording", server.Recording)
			r.Post("/likes/{outfitID}", server.ToggleLike)
			r.Post("/continue", server.Continue)
			r.Post("/requests", server.Submit)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CaptureRequest is the body of POST /sessions/{id}/capture.
type CaptureRequest struct {
	ImageRef string `json:"image_ref"`
}

// RecordingRequest is the body of POST /sessions/{id}/recording.
// Audio is base64 encoded in JSON.
type RecordingRequest struct {
	Audio []byte `json:"audio"`
}

// SubmitRequest is the body of POST /sessions/{id}/requests.
type SubmitRequest struct {
	Text string `json:"text"`
}

// LikeResponse is returned by POST /sessions/{id}/likes/{outfitID}.
type LikeResponse struct {
	OutfitID domain.OutfitID `json:"outfit_id"`
	Liked    bool            `json:"liked"`
	Session  domain.Snapshot `json:"session"`
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "stylist-http",
		"version": stylist.Version,
	})
}

// ListOutfits handles the GET /outfits request.
func (s *Server) ListOutfits(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Catalog())
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Sessions(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetSession handles the GET /sessions/{id} request. Unknown sessions are seeded.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Start handles the POST /sessions/{id}/start request.
func (s *Server) Start(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	p, err := sess.Start(r.Context())
	s.respond(w, r, sess, p, err)
}

// Capture handles the POST /sessions/{id}/capture request.
func (s *Server) Capture(w http.ResponseWriter, r *http.Request) {
	var body CaptureRequest
	if !s.decode(w, r, &body) {
		return
	}
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	p, err := sess.Capture(r.Context(), body.ImageRef)
	s.respond(w, r, sess, p, err)
}

// Recording handles the POST /sessions/{id}/recording request.
func (s *Server) Recording(w http.ResponseWriter, r *http.Request) {
	var body RecordingRequest
	if !s.decode(w, r, &body) {
		return
	}
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	p, err := sess.Recording(r.Context(), body.Audio)
	s.respond(w, r, sess, p, err)
}

// ToggleLike handles the POST /sessions/{id}/likes/{outfitID} request.
func (s *Server) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "outfitID"))
	if err != nil {
		http.Error(w, "Invalid outfit id", http.StatusBadRequest)
		return
	}
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	liked, err := sess.ToggleLike(r.Context(), domain.OutfitID(id))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, LikeResponse{
		OutfitID: domain.OutfitID(id),
		Liked:    liked,
		Session:  sess.Snapshot(),
	})
}

// Continue handles the POST /sessions/{id}/continue request.
func (s *Server) Continue(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	p, err := sess.Continue(r.Context())
	s.respond(w, r, sess, p, err)
}

// Submit handles the POST /sessions/{id}/requests request.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	var body SubmitRequest
	if !s.decode(w, r, &body) {
		return
	}
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	p, err := sess.Submit(r.Context(), body.Text)
	s.respond(w, r, sess, p, err)
}

// -- Helpers --

func (s *Server) open(w http.ResponseWriter, r *http.Request) (*stylist.Session, bool) {
	sess, err := s.Engine.Open(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			s.logger.Warn("Request body too large", "path", r.URL.Path, "limit", tooLarge.Limit)
			return false
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		return false
	}
	return true
}

// respond answers 202 with the snapshot, or waits for the issued work when ?wait=true.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, sess *stylist.Session, p *stylist.Pending, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); !wait {
		s.writeJSON(w, http.StatusAccepted, sess.Snapshot())
		return
	}

	if _, err := p.Wait(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrStepMismatch),
		errors.Is(err, domain.ErrNoLikedOutfits),
		errors.Is(err, domain.ErrBusy),
		errors.Is(err, domain.ErrSessionClosed):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEmptyRequest),
		errors.Is(err, domain.ErrEmptyCapture),
		errors.Is(err, domain.ErrInvalidSessionID):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

// writeWait bounds websocket writes.
const writeWait = 10 * time.Second
