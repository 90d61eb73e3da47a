package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/stylist/internal/logging"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const pingPeriod = 54 * time.Second

// SnapshotEvent is the first frame sent on a stream.
type SnapshotEvent struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	Session   domain.Snapshot `json:"session"`
}

// StreamManager fans session events out to websocket subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan []byte]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan []byte]struct{}),
		logger:      logging.NewNop(),
	}
}

// SetLogger replaces the manager's logger.
func (sm *StreamManager) SetLogger(logger *slog.Logger) {
	sm.logger = logger
}

// Subscribe registers a channel for the session's events. The returned function unsubscribes.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan []byte, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan []byte, 16)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan []byte]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast sends an encoded event to every subscriber of the session.
func (sm *StreamManager) Broadcast(sessionID string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		sm.logger.Error("StreamManager: encode failed", "session_id", sessionID, "err", err)
		return
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- payload:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("Stream: Client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every session event.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			sm.Broadcast(e.SessionID, e)
		},
		OnMessageAppend: func(_ context.Context, e *domain.MessageEvent) {
			sm.Broadcast(e.SessionID, e)
		},
		OnLikeToggle: func(_ context.Context, e *domain.LikeEvent) {
			sm.Broadcast(e.SessionID, e)
		},
		OnReply: func(_ context.Context, e *domain.ReplyEvent) {
			sm.Broadcast(e.SessionID, e)
		},
	}
}

// Stream handles the GET /sessions/{id}/stream request (websocket).
// It sends a snapshot, then every event of the session as a JSON text frame.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Stream: upgrade failed", "session_id", sessionID, "err", err)
		return
	}
	defer conn.Close()

	// Subscribe before the snapshot so no event falls in between.
	ch, unsubscribe := s.Streams.Subscribe(sessionID)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read pump: the stream is one-way, reads only detect the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Debug("Stream: read error", "session_id", sessionID, "err", err)
				}
				return
			}
		}
	}()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(SnapshotEvent{Type: "snapshot", SessionID: sessionID, Session: sess.Snapshot()}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
