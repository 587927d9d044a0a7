package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	engine, err := abacus.New()
	require.NoError(t, err)
	sessions := session.NewManager(memory.NewStore(), session.WithStart(engine.Start))
	return NewServer(engine, sessions, opts...)
}

func TestEvaluate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	got, err := s.handleEvaluate(ctx, mcp.CallToolRequest{}, EvaluateArgs{Expression: " 2^10 "})
	require.NoError(t, err)
	assert.Equal(t, "2^10", got.Expression)
	assert.Equal(t, "1024", got.Result)

	got, err = s.handleEvaluate(ctx, mcp.CallToolRequest{}, EvaluateArgs{Expression: "sin(pi/2)", AngleMode: "rad"})
	require.NoError(t, err)
	assert.Equal(t, "1", got.Result)

	_, err = s.handleEvaluate(ctx, mcp.CallToolRequest{}, EvaluateArgs{Expression: "2+*"})
	assert.True(t, errors.Is(err, domain.ErrEvaluation))

	_, err = s.handleEvaluate(ctx, mcp.CallToolRequest{}, EvaluateArgs{Expression: strings.Repeat("1", 1<<20)})
	assert.Error(t, err)
}

func TestMaxInputSize(t *testing.T) {
	s := newTestServer(t, WithMaxInputSize(4))
	ctx := context.Background()

	_, err := s.handleEvaluate(ctx, mcp.CallToolRequest{}, EvaluateArgs{Expression: "12345"})
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)

	_, err = s.handleTypeExpression(ctx, mcp.CallToolRequest{}, TypeExpressionArgs{SessionID: "s1", Expression: "1+2+3"})
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)

	_, err = s.handleRunCommand(ctx, mcp.CallToolRequest{}, RunCommandArgs{SessionID: "s1", Command: "append", Arg: "99999"})
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)

	got, err := s.handleEvaluate(ctx, mcp.CallToolRequest{}, EvaluateArgs{Expression: "2*21"})
	require.NoError(t, err)
	assert.Equal(t, "42", got.Result)
}

func TestRunCommand_AngleAliases(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for _, name := range []string{"deg", "deg", "rad", "rad"} {
		res, err := s.handleRunCommand(ctx, mcp.CallToolRequest{}, RunCommandArgs{SessionID: "s1", Command: name})
		require.NoError(t, err)
		assert.Equal(t, domain.AngleMode(name), res.State.AngleMode)
	}
}

func TestSessionTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handlePressKeys(ctx, mcp.CallToolRequest{}, PressKeysArgs{
		SessionID: "s1",
		Keys:      []string{"2", "+", "3", "Enter", "F13"},
	})
	require.NoError(t, err)
	assert.Equal(t, "5", res.State.Buffer)
	assert.Equal(t, []string{"2+3 = 5"}, res.State.History)
	assert.Equal(t, []string{"F13"}, res.Unhandled)

	res, err = s.handleRunCommand(ctx, mcp.CallToolRequest{}, RunCommandArgs{SessionID: "s1", Command: "m+"})
	require.NoError(t, err)
	assert.Equal(t, domain.Register(5), res.State.Memory)

	res, err = s.handleTypeExpression(ctx, mcp.CallToolRequest{}, TypeExpressionArgs{SessionID: "s1", Expression: "10/4"})
	require.NoError(t, err)
	assert.Equal(t, "2.5", res.State.Buffer)
	assert.Equal(t, []string{"10/4 = 2.5", "2+3 = 5"}, res.State.History)

	state, err := s.handleGetState(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "2.5", state.State.Buffer)
	assert.NotEmpty(t, state.Actions)

	res, err = s.handleClearHistory(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "s1"})
	require.NoError(t, err)
	assert.Empty(t, res.State.History)
	assert.Equal(t, domain.Register(5), res.State.Memory)
}

func TestSessionTools_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleGetState(ctx, mcp.CallToolRequest{}, SessionArgs{SessionID: "missing"})
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))

	_, err = s.handleRunCommand(ctx, mcp.CallToolRequest{}, RunCommandArgs{SessionID: "s1", Command: "launch"})
	assert.True(t, errors.Is(err, domain.ErrUnknownCommand))

	_, err = s.handlePressKeys(ctx, mcp.CallToolRequest{}, PressKeysArgs{Keys: []string{"1"}})
	assert.Error(t, err)
}

func TestProtocol_ListsToolsAndSessions(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handlePressKeys(ctx, mcp.CallToolRequest{}, PressKeysArgs{SessionID: "alpha", Keys: []string{"7"}})
	require.NoError(t, err)

	resp := s.MCPServer().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"evaluate", "press_keys", "run_command", "type_expression", "get_state", "clear_history"} {
		assert.Contains(t, string(raw), `"name":"`+name+`"`)
	}

	resp = s.MCPServer().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"resources/read","params":{"uri":"abacus://sessions"}}`))
	raw, err = json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `[\"alpha\"]`)
}

func TestProtocol_ToolErrorIsReported(t *testing.T) {
	s := newTestServer(t)

	resp := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"evaluate","arguments":{"expression":"2+*"}}}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"isError":true`)
}
