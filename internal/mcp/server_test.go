package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/glossalab/glossa"
	"github.com/mark3labs/mcp-go/mcp"
)

// sendMessage marshals a JSON-RPC request, sends it through HandleMessage,
// and returns the JSONRPCResponse. It fatals on marshal failure or unexpected
// response type.
func sendMessage(t *testing.T, srv *Server, method string, id int, params map[string]any) mcp.JSONRPCResponse {
	t.Helper()

	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		msg["params"] = params
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	result := srv.MCPServer().HandleMessage(context.Background(), raw)

	resp, ok := result.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T: %+v", result, result)
	}
	return resp
}

// callTool invokes one tool through the JSON-RPC surface.
func callTool(t *testing.T, srv *Server, id int, name string, args map[string]any) mcp.CallToolResult {
	t.Helper()

	resp := sendMessage(t, srv, "tools/call", id, map[string]any{
		"name":      name,
		"arguments": args,
	})

	var result mcp.CallToolResult
	resultJSON(t, resp, &result)
	return result
}

// resultJSON re-marshals the Result field through JSON into dst.
func resultJSON(t *testing.T, resp mcp.JSONRPCResponse, dst any) {
	t.Helper()
	b, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		t.Fatalf("unmarshal result into %T: %v", dst, err)
	}
}

func testServer(t *testing.T) *Server {
	t.Helper()

	next := 0
	client, err := glossa.New(glossa.WithIDGenerator(func() string {
		next++
		return fmt.Sprintf("r%d", next)
	}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return NewServer(client, nil, "0.1.0-test", nil)
}

func initializeParams() map[string]any {
	return map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "test-client",
			"version": "0.0.1",
		},
	}
}

func TestServer_Initialize(t *testing.T) {
	srv := testServer(t)
	resp := sendMessage(t, srv, "initialize", 1, initializeParams())

	var result mcp.InitializeResult
	resultJSON(t, resp, &result)

	if result.ServerInfo.Name != "glossa" {
		t.Errorf("expected server name glossa, got %s", result.ServerInfo.Name)
	}
	if result.ServerInfo.Version != "0.1.0-test" {
		t.Errorf("expected version 0.1.0-test, got %s", result.ServerInfo.Version)
	}
	if result.Capabilities.Tools == nil {
		t.Error("expected tools capability to be present")
	}
}

func TestServer_ListTools(t *testing.T) {
	srv := testServer(t)

	sendMessage(t, srv, "initialize", 1, initializeParams())

	resp := sendMessage(t, srv, "tools/list", 2, nil)

	var result mcp.ListToolsResult
	resultJSON(t, resp, &result)

	if len(result.Tools) != 10 {
		t.Fatalf("expected 10 tools, got %d", len(result.Tools))
	}

	tools := map[string]mcp.Tool{}
	for _, tool := range result.Tools {
		tools[tool.Name] = tool
	}

	expected := []string{
		"set_text",
		"get_session",
		"list_highlights",
		"add_highlight",
		"remove_highlight",
		"get_segments",
		"start_quiz",
		"answer_quiz",
		"reveal_quiz",
		"reset_quiz",
	}
	for _, name := range expected {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing tool: %s", name)
		}
	}

	addTool := tools["add_highlight"]
	props := addTool.InputSchema.Properties
	if props == nil {
		t.Fatal("add_highlight tool has no properties")
	}
	for _, param := range []string{"start", "end", "note"} {
		if _, ok := props[param]; !ok {
			t.Errorf("add_highlight tool missing %s parameter", param)
		}
	}
	if !contains(addTool.InputSchema.Required, "start") {
		t.Error("start should be required")
	}
	if !contains(addTool.InputSchema.Required, "end") {
		t.Error("end should be required")
	}
	if contains(addTool.InputSchema.Required, "note") {
		t.Error("note should be optional")
	}
}

func TestServer_SetText(t *testing.T) {
	srv := testServer(t)
	sendMessage(t, srv, "initialize", 1, initializeParams())

	result := callTool(t, srv, 2, "set_text", map[string]any{
		"text": "The quick brown fox",
	})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}

	var session struct {
		Step       string `json:"step"`
		Mode       string `json:"mode"`
		Text       string `json:"text"`
		RangeCount int    `json:"range_count"`
	}
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &session); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if session.Step != "select" {
		t.Errorf("expected step select, got %s", session.Step)
	}
	if session.Mode != "hover" {
		t.Errorf("expected mode hover, got %s", session.Mode)
	}
	if session.Text != "The quick brown fox" {
		t.Errorf("unexpected text: %q", session.Text)
	}
	if session.RangeCount != 0 {
		t.Errorf("expected 0 ranges, got %d", session.RangeCount)
	}
}

func TestServer_SetTextMissingArgument(t *testing.T) {
	srv := testServer(t)
	sendMessage(t, srv, "initialize", 1, initializeParams())

	result := callTool(t, srv, 2, "set_text", map[string]any{})

	if !result.IsError {
		t.Fatal("expected error response")
	}
	if text := textFromContent(t, result); !strings.Contains(text, "text is required") {
		t.Errorf("expected error text containing 'text is required', got: %s", text)
	}
}

func TestServer_HighlightLifecycle(t *testing.T) {
	srv := testServer(t)
	sendMessage(t, srv, "initialize", 1, initializeParams())
	callTool(t, srv, 2, "set_text", map[string]any{"text": "The quick brown fox"})

	// Offsets inside "quick" snap outward to the whole word.
	result := callTool(t, srv, 3, "add_highlight", map[string]any{
		"start": 5,
		"end":   7,
		"note":  "rapide",
	})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}

	var created struct {
		ID    string `json:"id"`
		Start int    `json:"start"`
		End   int    `json:"end"`
		Text  string `json:"text"`
		Note  string `json:"note"`
	}
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &created); err != nil {
		t.Fatalf("unmarshal highlight: %v", err)
	}
	if created.ID != "r1" {
		t.Errorf("expected id r1, got %s", created.ID)
	}
	if created.Start != 4 || created.End != 9 {
		t.Errorf("expected snapped interval [4, 9), got [%d, %d)", created.Start, created.End)
	}
	if created.Text != "quick" {
		t.Errorf("expected text quick, got %q", created.Text)
	}
	if created.Note != "rapide" {
		t.Errorf("expected note rapide, got %q", created.Note)
	}

	// Overlaps are tool errors carrying the rejection, not protocol errors.
	overlap := callTool(t, srv, 4, "add_highlight", map[string]any{"start": 6, "end": 8})
	if !overlap.IsError {
		t.Fatal("expected overlap rejection")
	}
	if text := textFromContent(t, overlap); !strings.Contains(text, "overlaps") {
		t.Errorf("expected overlap rejection text, got: %s", text)
	}

	listed := callTool(t, srv, 5, "list_highlights", map[string]any{})
	if listed.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, listed))
	}
	var items []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(textFromContent(t, listed)), &items); err != nil {
		t.Fatalf("unmarshal highlights: %v", err)
	}
	if len(items) != 1 || items[0].ID != "r1" {
		t.Fatalf("expected single highlight r1, got %+v", items)
	}

	segs := callTool(t, srv, 6, "get_segments", map[string]any{})
	if segs.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, segs))
	}
	var segments []struct {
		Kind    string `json:"kind"`
		Content string `json:"content"`
		RangeID string `json:"range_id"`
	}
	if err := json.Unmarshal([]byte(textFromContent(t, segs)), &segments); err != nil {
		t.Fatalf("unmarshal segments: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[0].Kind != "plain" || segments[0].Content != "The " {
		t.Errorf("unexpected first segment: %+v", segments[0])
	}
	if segments[1].Kind != "highlight" || segments[1].Content != "quick" || segments[1].RangeID != "r1" {
		t.Errorf("unexpected highlight segment: %+v", segments[1])
	}
	if segments[2].Kind != "plain" || segments[2].Content != " brown fox" {
		t.Errorf("unexpected last segment: %+v", segments[2])
	}

	removed := callTool(t, srv, 7, "remove_highlight", map[string]any{"id": "r1"})
	if removed.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, removed))
	}

	missing := callTool(t, srv, 8, "remove_highlight", map[string]any{"id": "r1"})
	if !missing.IsError {
		t.Fatal("expected error for unknown highlight")
	}
	if text := textFromContent(t, missing); !strings.Contains(text, "no highlight with id r1") {
		t.Errorf("expected missing highlight error, got: %s", text)
	}
}

func TestServer_QuizFlow(t *testing.T) {
	srv := testServer(t)
	sendMessage(t, srv, "initialize", 1, initializeParams())

	// Answering before a quiz exists is a tool error.
	early := callTool(t, srv, 2, "answer_quiz", map[string]any{"id": "r1", "value": "x"})
	if !early.IsError {
		t.Fatal("expected error before quiz start")
	}

	callTool(t, srv, 3, "set_text", map[string]any{"text": "The quick brown fox"})
	callTool(t, srv, 4, "add_highlight", map[string]any{"start": 0, "end": 3, "note": "le"})
	callTool(t, srv, 5, "add_highlight", map[string]any{"start": 4, "end": 9, "note": "rapide"})

	started := callTool(t, srv, 6, "start_quiz", map[string]any{})
	if started.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, started))
	}
	var quizItems []struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	if err := json.Unmarshal([]byte(textFromContent(t, started)), &quizItems); err != nil {
		t.Fatalf("unmarshal quiz items: %v", err)
	}
	if len(quizItems) != 2 {
		t.Fatalf("expected 2 quiz items, got %d", len(quizItems))
	}
	for _, item := range quizItems {
		if item.State != "unanswered" {
			t.Errorf("expected item %s unanswered, got %s", item.ID, item.State)
		}
	}

	type gradedItem struct {
		ID     string `json:"id"`
		Input  string `json:"input"`
		State  string `json:"state"`
		Answer string `json:"answer"`
	}

	// Matching ignores case and surrounding whitespace.
	answered := callTool(t, srv, 7, "answer_quiz", map[string]any{"id": "r2", "value": " Quick "})
	var graded gradedItem
	if err := json.Unmarshal([]byte(textFromContent(t, answered)), &graded); err != nil {
		t.Fatalf("unmarshal graded item: %v", err)
	}
	if graded.State != "correct" {
		t.Errorf("expected correct, got %s", graded.State)
	}

	wrong := callTool(t, srv, 8, "answer_quiz", map[string]any{"id": "r1", "value": "la"})
	if err := json.Unmarshal([]byte(textFromContent(t, wrong)), &graded); err != nil {
		t.Fatalf("unmarshal graded item: %v", err)
	}
	if graded.State != "incorrect_hidden" {
		t.Errorf("expected incorrect_hidden, got %s", graded.State)
	}
	if graded.Answer != "" {
		t.Errorf("answer must stay hidden until revealed, got %q", graded.Answer)
	}

	revealed := callTool(t, srv, 9, "reveal_quiz", map[string]any{"id": "r1"})
	if err := json.Unmarshal([]byte(textFromContent(t, revealed)), &graded); err != nil {
		t.Fatalf("unmarshal revealed item: %v", err)
	}
	if graded.State != "incorrect_shown" {
		t.Errorf("expected incorrect_shown, got %s", graded.State)
	}
	if graded.Answer != "The" {
		t.Errorf("expected revealed answer The, got %q", graded.Answer)
	}

	reset := callTool(t, srv, 10, "reset_quiz", map[string]any{"id": "r1"})
	if err := json.Unmarshal([]byte(textFromContent(t, reset)), &graded); err != nil {
		t.Fatalf("unmarshal reset item: %v", err)
	}
	if graded.State != "unanswered" || graded.Input != "" {
		t.Errorf("expected cleared unanswered item, got %+v", graded)
	}

	unknown := callTool(t, srv, 11, "answer_quiz", map[string]any{"id": "zz", "value": "x"})
	if !unknown.IsError {
		t.Fatal("expected error for unknown quiz item")
	}
}

// textFromContent extracts the text string from the first content item
// of a CallToolResult. It round-trips through JSON because in-process
// responses may hold the content as a map rather than a typed struct.
func textFromContent(t *testing.T, result mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	b, err := json.Marshal(result.Content[0])
	if err != nil {
		t.Fatalf("marshal content: %v", err)
	}
	var tc struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(b, &tc); err != nil {
		t.Fatalf("unmarshal text content: %v", err)
	}
	return tc.Text
}

func contains(items []string, target string) bool {
	for _, s := range items {
		if s == target {
			return true
		}
	}
	return false
}
