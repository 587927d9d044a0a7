// Package mcp exposes calculator sessions as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// SessionsURI is the resource listing every stored session.
const SessionsURI = "abacus://sessions"

// SessionResult aligns with the HTTP API response and is shared by the session tools.
type SessionResult = runner.RichResponse

// EvaluateResult is returned by the evaluate tool.
type EvaluateResult struct {
	Expression string `json:"expression" jsonschema_description:"The sanitized expression"`
	Result     string `json:"result" jsonschema_description:"The formatted result"`
}

// EvaluateArgs are the arguments of the evaluate tool.
type EvaluateArgs struct {
	Expression string `json:"expression"`
	AngleMode  string `json:"angle_mode,omitempty"`
}

// SessionArgs identify the session for get_state and clear_history.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// PressKeysArgs are the arguments of the press_keys tool.
type PressKeysArgs struct {
	SessionID string   `json:"session_id"`
	Keys      []string `json:"keys"`
}

// RunCommandArgs are the arguments of the run_command tool.
type RunCommandArgs struct {
	SessionID string `json:"session_id"`
	Command   string `json:"command"`
	Arg       string `json:"arg,omitempty"`
}

// TypeExpressionArgs are the arguments of the type_expression tool.
type TypeExpressionArgs struct {
	SessionID  string `json:"session_id"`
	Expression string `json:"expression"`
	Continue   bool   `json:"continue,omitempty"`
}

// Server wraps the calculator and exposes it as an MCP Server.
type Server struct {
	engine    ports.Calculator
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer

	maxInputSize int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInputSize bounds expressions and command arguments in bytes.
func WithMaxInputSize(limit int) Option {
	return func(s *Server) {
		s.maxInputSize = limit
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Calculator, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("abacus-mcp", abacus.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate a standalone expression such as 2^10 or sin(30). No session is touched."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("Expression using + - * / ^ ( ), sin cos tan log ln sqrt and pi/e")),
		mcp.WithString("angle_mode", mcp.Description("deg or rad; defaults to the server setting"), mcp.Enum("deg", "rad")),
		mcp.WithOutputSchema[EvaluateResult](),
	), mcp.NewStructuredToolHandler(s.handleEvaluate))

	s.mcpServer.AddTool(mcp.NewTool("press_keys",
		mcp.WithDescription("Press keyboard keys in order on a session calculator (digits, operators, Enter, Backspace, Escape)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID; unknown sessions are started")),
		mcp.WithArray("keys", mcp.Required(), mcp.Description("Keys to press"), mcp.WithStringItems()),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handlePressKeys))

	s.mcpServer.AddTool(mcp.NewTool("run_command",
		mcp.WithDescription("Press a calculator button: append, clear, backspace, evaluate, percent, power, sin, cos, tan, log, ln, sqrt, mc, mr, m+, m-, history_clear, theme_toggle, angle_toggle, deg, rad."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID; unknown sessions are started")),
		mcp.WithString("command", mcp.Required(), mcp.Description("Command name or alias")),
		mcp.WithString("arg", mcp.Description("Text to type for append")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleRunCommand))

	s.mcpServer.AddTool(mcp.NewTool("type_expression",
		mcp.WithDescription("Type an expression into a session and evaluate it, recording it in the history."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID; unknown sessions are started")),
		mcp.WithString("expression", mcp.Required(), mcp.Description("Expression to type")),
		mcp.WithBoolean("continue", mcp.Description("Append to the current buffer instead of replacing it")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleTypeExpression))

	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the state of a session with its full display, history and theme."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	s.mcpServer.AddTool(mcp.NewTool("clear_history",
		mcp.WithDescription("Clear the history log of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleClearHistory))
}

func (s *Server) handleEvaluate(ctx context.Context, _ mcp.CallToolRequest, args EvaluateArgs) (EvaluateResult, error) {
	expr, err := s.sanitize(args.Expression)
	if err != nil {
		s.logger.Warn("MCP evaluate: input rejected", "err", err, "size", len(args.Expression))
		return EvaluateResult{}, fmt.Errorf("input rejected: %w", err)
	}
	result, err := s.engine.Calculate(ctx, expr, domain.AngleMode(args.AngleMode))
	if err != nil {
		return EvaluateResult{}, err
	}
	return EvaluateResult{Expression: expr, Result: result}, nil
}

func (s *Server) sanitize(input string) (string, error) {
	return runner.SanitizeInputWithLimit(input, s.maxInputSize)
}

func (s *Server) handlePressKeys(ctx context.Context, _ mcp.CallToolRequest, args PressKeysArgs) (SessionResult, error) {
	return s.update(ctx, args.SessionID, func(state *domain.State) (*SessionResult, error) {
		return runner.PressKeysAndRender(ctx, s.engine, state, args.Keys...), nil
	})
}

func (s *Server) handleRunCommand(ctx context.Context, _ mcp.CallToolRequest, args RunCommandArgs) (SessionResult, error) {
	arg, err := s.sanitize(args.Arg)
	if err != nil {
		return SessionResult{}, fmt.Errorf("input rejected: %w", err)
	}
	cmd, err := domain.ParseCommand(args.Command, arg)
	if err != nil {
		return SessionResult{}, err
	}
	return s.update(ctx, args.SessionID, func(state *domain.State) (*SessionResult, error) {
		return runner.ApplyAndRender(ctx, s.engine, state, cmd)
	})
}

func (s *Server) handleTypeExpression(ctx context.Context, _ mcp.CallToolRequest, args TypeExpressionArgs) (SessionResult, error) {
	expr, err := s.sanitize(args.Expression)
	if err != nil {
		return SessionResult{}, fmt.Errorf("input rejected: %w", err)
	}
	return s.update(ctx, args.SessionID, func(state *domain.State) (*SessionResult, error) {
		return runner.TypeAndEvaluate(ctx, s.engine, state, expr, args.Continue)
	})
}

func (s *Server) handleGetState(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (SessionResult, error) {
	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return SessionResult{}, fmt.Errorf("get_state failed: %w", err)
	}
	return SessionResult{State: state, Actions: s.engine.Render(ctx, state)}, nil
}

func (s *Server) handleClearHistory(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (SessionResult, error) {
	return s.update(ctx, args.SessionID, func(state *domain.State) (*SessionResult, error) {
		return runner.ApplyAndRender(ctx, s.engine, state, domain.Command{Name: domain.CmdHistoryClear})
	})
}

// update runs fn on the session under its lock and persists the result.
func (s *Server) update(ctx context.Context, sessionID string, fn func(*domain.State) (*SessionResult, error)) (SessionResult, error) {
	if sessionID == "" {
		return SessionResult{}, fmt.Errorf("session_id is required")
	}
	var resp *SessionResult
	_, err := s.sessions.Update(ctx, sessionID, func(current *domain.State) (*domain.State, error) {
		var err error
		resp, err = fn(current)
		if err != nil {
			return nil, err
		}
		return resp.State, nil
	})
	if err != nil {
		return SessionResult{}, err
	}
	s.logger.Debug("MCP session updated", "session_id", sessionID, "version", resp.State.Version)
	return *resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SessionsURI, "Stored calculator sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		data, err := json.Marshal(ids)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SessionsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
