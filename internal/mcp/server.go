// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/glossalab/glossa"
	"github.com/glossalab/glossa/domain/annotation"
	"github.com/glossalab/glossa/domain/quiz"
	"github.com/glossalab/glossa/infrastructure/api/events"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with tools that drive the annotation
// session: setting text, managing highlights, and running the quiz.
type Server struct {
	mcpServer *server.MCPServer
	client    *glossa.Client
	hub       *events.Hub
	logger    *slog.Logger
}

// NewServer creates a new MCP server over the given client. hub may be
// nil; when set, mutating tools broadcast the same events as the HTTP
// API so connected views stay current.
func NewServer(client *glossa.Client, hub *events.Hub, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		client: client,
		hub:    hub,
		logger: logger,
	}

	mcpServer := server.NewMCPServer(
		"glossa",
		version,
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

// registerTools registers all glossa tools with the MCP server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	setTextTool := mcp.NewTool("set_text",
		mcp.WithDescription("Replace the session's source text. Existing highlights and any quiz in progress are discarded."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The passage to annotate"),
		),
	)
	mcpServer.AddTool(setTextTool, s.handleSetText)

	getSessionTool := mcp.NewTool("get_session",
		mcp.WithDescription("Get the session state: wizard step, play mode, theme, text, and highlight count"),
	)
	mcpServer.AddTool(getSessionTool, s.handleGetSession)

	listHighlightsTool := mcp.NewTool("list_highlights",
		mcp.WithDescription("List the highlights in ascending start order, with rune offsets into the passage"),
	)
	mcpServer.AddTool(listHighlightsTool, s.handleListHighlights)

	addHighlightTool := mcp.NewTool("add_highlight",
		mcp.WithDescription("Highlight [start, end) rune offsets of the passage. The interval snaps outward to whole words. Overlapping an existing highlight fails."),
		mcp.WithNumber("start",
			mcp.Required(),
			mcp.Description("Start rune offset, inclusive"),
		),
		mcp.WithNumber("end",
			mcp.Required(),
			mcp.Description("End rune offset, exclusive"),
		),
		mcp.WithString("note",
			mcp.Description("Translation or note revealed in play. When omitted, a configured note prompter may fill it in."),
		),
	)
	mcpServer.AddTool(addHighlightTool, s.handleAddHighlight)

	removeHighlightTool := mcp.NewTool("remove_highlight",
		mcp.WithDescription("Remove a highlight by its id"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The highlight id"),
		),
	)
	mcpServer.AddTool(removeHighlightTool, s.handleRemoveHighlight)

	getSegmentsTool := mcp.NewTool("get_segments",
		mcp.WithDescription("Get the passage split into alternating plain and highlight segments, in text order"),
	)
	mcpServer.AddTool(getSegmentsTool, s.handleGetSegments)

	startQuizTool := mcp.NewTool("start_quiz",
		mcp.WithDescription("Start a quiz over the current highlights and return its items"),
	)
	mcpServer.AddTool(startQuizTool, s.handleStartQuiz)

	answerQuizTool := mcp.NewTool("answer_quiz",
		mcp.WithDescription("Answer one quiz item and grade it. Matching ignores case and surrounding whitespace."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The highlight id the item covers"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("The guessed text"),
		),
	)
	mcpServer.AddTool(answerQuizTool, s.handleAnswerQuiz)

	revealQuizTool := mcp.NewTool("reveal_quiz",
		mcp.WithDescription("Reveal the answer of an incorrectly answered quiz item"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The highlight id the item covers"),
		),
	)
	mcpServer.AddTool(revealQuizTool, s.handleRevealQuiz)

	resetQuizTool := mcp.NewTool("reset_quiz",
		mcp.WithDescription("Return one quiz item to unanswered with an empty input"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The highlight id the item covers"),
		),
	)
	mcpServer.AddTool(resetQuizTool, s.handleResetQuiz)
}

type sessionResult struct {
	Step       string `json:"step"`
	Mode       string `json:"mode"`
	Theme      string `json:"theme"`
	Text       string `json:"text"`
	RangeCount int    `json:"range_count"`
	QuizActive bool   `json:"quiz_active"`
}

type highlightResult struct {
	ID    string `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Note  string `json:"note,omitempty"`
}

type segmentResult struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
	RangeID string `json:"range_id,omitempty"`
	Note    string `json:"note,omitempty"`
}

type quizItemResult struct {
	ID     string `json:"id"`
	Input  string `json:"input"`
	State  string `json:"state"`
	Answer string `json:"answer,omitempty"`
}

func newHighlightResult(r annotation.Range) highlightResult {
	return highlightResult{
		ID:    r.ID(),
		Start: r.Start(),
		End:   r.End(),
		Text:  r.Text(),
		Note:  r.Translation(),
	}
}

func newQuizItemResult(item quiz.Item) quizItemResult {
	out := quizItemResult{
		ID:    item.RangeID(),
		Input: item.Input(),
		State: string(item.State()),
	}
	if item.State() == quiz.StateIncorrectShown {
		out.Answer = item.Answer()
	}
	return out
}

// handleSetText handles the set_text tool invocation.
func (s *Server) handleSetText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil
	}

	if err := s.client.SetText(text); err != nil {
		s.logger.Error("set text failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("set text failed: %v", err)), nil
	}

	s.broadcastStep(events.TypeTextSet)
	return s.sessionResult()
}

// handleGetSession handles the get_session tool invocation.
func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.sessionResult()
}

// handleListHighlights handles the list_highlights tool invocation.
func (s *Server) handleListHighlights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ranges, err := s.client.Ranges()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list highlights failed: %v", err)), nil
	}

	results := make([]highlightResult, len(ranges))
	for i, r := range ranges {
		results[i] = newHighlightResult(r)
	}
	return jsonResult(results)
}

// handleAddHighlight handles the add_highlight tool invocation.
func (s *Server) handleAddHighlight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, err := request.RequireInt("start")
	if err != nil {
		return mcp.NewToolResultError("start is required"), nil
	}
	end, err := request.RequireInt("end")
	if err != nil {
		return mcp.NewToolResultError("end is required"), nil
	}
	note := request.GetString("note", "")

	r, rejection, err := s.client.Highlight(ctx, start, end, note)
	if err != nil {
		s.logger.Error("add highlight failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("add highlight failed: %v", err)), nil
	}
	if rejection != nil {
		return mcp.NewToolResultError(rejection.String()), nil
	}

	s.hub.Broadcast(events.Message{Type: events.TypeRangeAdded, RangeID: r.ID()})
	return jsonResult(newHighlightResult(r))
}

// handleRemoveHighlight handles the remove_highlight tool invocation.
func (s *Server) handleRemoveHighlight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}

	removed, err := s.client.Remove(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("remove highlight failed: %v", err)), nil
	}
	if !removed {
		return mcp.NewToolResultError(fmt.Sprintf("no highlight with id %s", id)), nil
	}

	s.hub.Broadcast(events.Message{Type: events.TypeRangeRemoved, RangeID: id})
	return jsonResult(map[string]string{"removed": id})
}

// handleGetSegments handles the get_segments tool invocation.
func (s *Server) handleGetSegments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	segments, err := s.client.Segments()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get segments failed: %v", err)), nil
	}

	results := make([]segmentResult, len(segments))
	for i, seg := range segments {
		out := segmentResult{Kind: "plain", Content: seg.Content()}
		if r, ok := seg.Range(); ok {
			out.Kind = "highlight"
			out.RangeID = r.ID()
			out.Note = r.Translation()
		}
		results[i] = out
	}
	return jsonResult(results)
}

// handleStartQuiz handles the start_quiz tool invocation.
func (s *Server) handleStartQuiz(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.client.StartQuiz()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("start quiz failed: %v", err)), nil
	}

	s.broadcastStep(events.TypeQuizStarted)
	return quizItemsResult(items)
}

// handleAnswerQuiz handles the answer_quiz tool invocation: it records
// the guess and grades it in one step.
func (s *Server) handleAnswerQuiz(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value is required"), nil
	}

	if _, err := s.client.QuizInput(id, value); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answer quiz failed: %v", err)), nil
	}
	item, err := s.client.QuizCheck(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answer quiz failed: %v", err)), nil
	}

	s.hub.Broadcast(events.Message{Type: events.TypeQuizChecked, RangeID: id})
	return jsonResult(newQuizItemResult(item))
}

// handleRevealQuiz handles the reveal_quiz tool invocation.
func (s *Server) handleRevealQuiz(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}

	item, err := s.client.QuizReveal(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reveal quiz failed: %v", err)), nil
	}

	s.hub.Broadcast(events.Message{Type: events.TypeQuizRevealed, RangeID: id})
	return jsonResult(newQuizItemResult(item))
}

// handleResetQuiz handles the reset_quiz tool invocation.
func (s *Server) handleResetQuiz(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}

	item, err := s.client.QuizReset(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reset quiz failed: %v", err)), nil
	}

	s.hub.Broadcast(events.Message{Type: events.TypeQuizReset, RangeID: id})
	return jsonResult(newQuizItemResult(item))
}

// sessionResult gathers the session state into a JSON tool result.
func (s *Server) sessionResult() (*mcp.CallToolResult, error) {
	step, err := s.client.Step()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get session failed: %v", err)), nil
	}
	mode, err := s.client.Mode()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get session failed: %v", err)), nil
	}
	theme, err := s.client.Theme()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get session failed: %v", err)), nil
	}
	text, err := s.client.Text()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get session failed: %v", err)), nil
	}
	count, err := s.client.RangeCount()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get session failed: %v", err)), nil
	}

	return jsonResult(sessionResult{
		Step:       string(step),
		Mode:       string(mode),
		Theme:      theme,
		Text:       text,
		RangeCount: count,
		QuizActive: s.client.QuizActive(),
	})
}

func quizItemsResult(items []quiz.Item) (*mcp.CallToolResult, error) {
	results := make([]quizItemResult, len(items))
	for i, item := range items {
		results[i] = newQuizItemResult(item)
	}
	return jsonResult(results)
}

// jsonResult marshals v into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// broadcastStep emits an event carrying the wizard step it left the
// session in.
func (s *Server) broadcastStep(eventType string) {
	msg := events.Message{Type: eventType}
	if step, err := s.client.Step(); err == nil {
		msg.Step = string(step)
	}
	s.hub.Broadcast(msg)
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
