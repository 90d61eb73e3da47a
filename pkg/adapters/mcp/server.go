package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stylist"
	"github.com/aretw0/stylist/internal/logging"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const outfitsURI = "stylist://outfits"

// SessionResponse provides a unified structure for every session tool.
type SessionResponse struct {
	Session domain.Snapshot `json:"session" jsonschema_description:"The session after the operation landed"`
	Reply   *domain.Message `json:"reply,omitempty" jsonschema_description:"The assistant message produced by the operation, if any"`
	Liked   *bool           `json:"liked,omitempty" jsonschema_description:"Whether the toggled outfit is now liked"`
}

// SessionArgs identifies the session a tool acts on.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// CaptureArgs are the arguments of capture_photo.
type CaptureArgs struct {
	SessionID string `json:"session_id"`
	ImageRef  string `json:"image_ref"`
}

// RecordingArgs are the arguments of record_lifestyle.
type RecordingArgs struct {
	SessionID string `json:"session_id"`
	Audio     string `json:"audio"`
}

// LikeArgs are the arguments of toggle_like.
type LikeArgs struct {
	SessionID string `json:"session_id"`
	OutfitID  int    `json:"outfit_id"`
}

// SubmitArgs are the arguments of submit_request.
type SubmitArgs struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	Open(ctx context.Context, sessionID string) (*stylist.Session, error)
	Catalog() []domain.Outfit
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("stylist-mcp", strings.TrimSpace(stylist.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sessionID := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier (letters, digits, '-' and '_')"))

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Return the current step, conversation and liked outfits of a session. Unknown sessions start fresh."),
		sessionID,
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetSession))

	s.mcpServer.AddTool(mcp.NewTool("start",
		mcp.WithDescription("Leave the welcome step and ask for a photo."),
		sessionID,
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("capture_photo",
		mcp.WithDescription("Record the captured photo and move on to the lifestyle question."),
		sessionID,
		mcp.WithString("image_ref", mcp.Required(), mcp.Description("Image reference, usually a data URL")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleCapture))

	s.mcpServer.AddTool(mcp.NewTool("record_lifestyle",
		mcp.WithDescription("Submit the voice recording describing the user's lifestyle."),
		sessionID,
		mcp.WithString("audio", mcp.Description("Base64 encoded recording (optional)")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleRecording))

	s.mcpServer.AddTool(mcp.NewTool("toggle_like",
		mcp.WithDescription("Like or unlike an outfit of the catalog."),
		sessionID,
		mcp.WithNumber("outfit_id", mcp.Required(), mcp.Description("Outfit identifier from list_outfits")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleToggleLike))

	s.mcpServer.AddTool(mcp.NewTool("continue",
		mcp.WithDescription("Confirm the liked outfits and move on to the final request."),
		sessionID,
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleContinue))

	s.mcpServer.AddTool(mcp.NewTool("submit_request",
		mcp.WithDescription("Send a free-text request and wait for the stylist's reply."),
		sessionID,
		mcp.WithString("text", mcp.Required(), mcp.Description("The request")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))

	s.mcpServer.AddTool(mcp.NewTool("list_outfits",
		mcp.WithDescription("List the outfit catalog."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.engine.Catalog())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleGetSession(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (SessionResponse, error) {
	sess, err := s.engine.Open(ctx, args.SessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{Session: sess.Snapshot()}, nil
}

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (SessionResponse, error) {
	return s.run(ctx, "start", args.SessionID, func(sess *stylist.Session) (*stylist.Pending, error) {
		return sess.Start(ctx)
	})
}

func (s *Server) handleCapture(ctx context.Context, _ mcp.CallToolRequest, args CaptureArgs) (SessionResponse, error) {
	return s.run(ctx, "capture_photo", args.SessionID, func(sess *stylist.Session) (*stylist.Pending, error) {
		return sess.Capture(ctx, args.ImageRef)
	})
}

func (s *Server) handleRecording(ctx context.Context, _ mcp.CallToolRequest, args RecordingArgs) (SessionResponse, error) {
	var audio []byte
	if args.Audio != "" {
		decoded, err := base64.StdEncoding.DecodeString(args.Audio)
		if err != nil {
			return SessionResponse{}, fmt.Errorf("audio is not valid base64: %w", err)
		}
		audio = decoded
	}
	return s.run(ctx, "record_lifestyle", args.SessionID, func(sess *stylist.Session) (*stylist.Pending, error) {
		return sess.Recording(ctx, audio)
	})
}

func (s *Server) handleToggleLike(ctx context.Context, _ mcp.CallToolRequest, args LikeArgs) (SessionResponse, error) {
	sess, err := s.engine.Open(ctx, args.SessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	liked, err := sess.ToggleLike(ctx, domain.OutfitID(args.OutfitID))
	if err != nil {
		return SessionResponse{}, fmt.Errorf("toggle_like failed: %w", err)
	}
	return SessionResponse{Session: sess.Snapshot(), Liked: &liked}, nil
}

func (s *Server) handleContinue(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (SessionResponse, error) {
	return s.run(ctx, "continue", args.SessionID, func(sess *stylist.Session) (*stylist.Pending, error) {
		return sess.Continue(ctx)
	})
}

func (s *Server) handleSubmit(ctx context.Context, _ mcp.CallToolRequest, args SubmitArgs) (SessionResponse, error) {
	return s.run(ctx, "submit_request", args.SessionID, func(sess *stylist.Session) (*stylist.Pending, error) {
		return sess.Submit(ctx, args.Text)
	})
}

// run issues an operation and waits for it to land, so tool results always carry the outcome.
func (s *Server) run(ctx context.Context, tool, sessionID string, op func(*stylist.Session) (*stylist.Pending, error)) (SessionResponse, error) {
	sess, err := s.engine.Open(ctx, sessionID)
	if err != nil {
		return SessionResponse{}, err
	}

	p, err := op(sess)
	if err != nil {
		if !errors.Is(err, domain.ErrStepMismatch) && !errors.Is(err, domain.ErrBusy) {
			s.logger.Warn("MCP: operation rejected", "tool", tool, "session_id", sessionID, "err", err)
		}
		return SessionResponse{}, fmt.Errorf("%s failed: %w", tool, err)
	}

	reply, err := p.Wait(ctx)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("%s interrupted: %w", tool, err)
	}
	return SessionResponse{Session: sess.Snapshot(), Reply: reply}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(outfitsURI, "Outfit Catalog",
		mcp.WithMIMEType("application/json"),
	), s.readOutfits)
}

func (s *Server) readOutfits(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.engine.Catalog())
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      outfitsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
