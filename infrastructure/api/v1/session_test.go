package v1_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	v1 "github.com/glossalab/glossa/infrastructure/api/v1"
)

func TestSessionRouter_Get(t *testing.T) {
	client := newTestClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response sessionDocument
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if response.Data.Type != "session" {
		t.Errorf("type = %v, want session", response.Data.Type)
	}
	if response.Data.ID != "current" {
		t.Errorf("id = %v, want current", response.Data.ID)
	}

	attrs := response.Data.Attributes
	if attrs.Step != "input" {
		t.Errorf("step = %v, want input", attrs.Step)
	}
	if attrs.Mode != "hover" {
		t.Errorf("mode = %v, want hover", attrs.Mode)
	}
	if attrs.Theme != "plain" {
		t.Errorf("theme = %v, want plain", attrs.Theme)
	}
	if attrs.Text != "" {
		t.Errorf("text = %q, want empty", attrs.Text)
	}
	if attrs.RangeCount != 0 {
		t.Errorf("range_count = %v, want 0", attrs.RangeCount)
	}
	if attrs.QuizActive {
		t.Error("quiz_active = true, want false")
	}
}

func TestSessionRouter_SetText(t *testing.T) {
	client := newTestClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	body := `{"text":"The quick brown fox"}`
	req := httptest.NewRequest(http.MethodPut, "/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response sessionDocument
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	attrs := response.Data.Attributes
	if attrs.Text != "The quick brown fox" {
		t.Errorf("text = %q, want the installed text", attrs.Text)
	}
	if attrs.Step != "select" {
		t.Errorf("step = %v, want select", attrs.Step)
	}
}

func TestSessionRouter_SetText_DiscardsHighlights(t *testing.T) {
	client := newAnnotatedClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	body := `{"text":"A different text"}`
	req := httptest.NewRequest(http.MethodPut, "/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response sessionDocument
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if response.Data.Attributes.RangeCount != 0 {
		t.Errorf("range_count = %v, want 0 after replacing the text",
			response.Data.Attributes.RangeCount)
	}
}

func TestSessionRouter_SetText_InvalidBody(t *testing.T) {
	client := newTestClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	req := httptest.NewRequest(http.MethodPut, "/text", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestSessionRouter_Step(t *testing.T) {
	client := newTestClient(t)
	if err := client.SetText("The quick brown fox"); err != nil {
		t.Fatalf("set text: %v", err)
	}

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	step := func(direction string) sessionDocument {
		t.Helper()
		body := `{"direction":"` + direction + `"}`
		req := httptest.NewRequest(http.MethodPost, "/step", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		routes.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
		}
		var response sessionDocument
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return response
	}

	if got := step("next").Data.Attributes.Step; got != "play" {
		t.Errorf("step after next = %v, want play", got)
	}
	if got := step("back").Data.Attributes.Step; got != "select" {
		t.Errorf("step after back = %v, want select", got)
	}
}

func TestSessionRouter_Step_InvalidDirection(t *testing.T) {
	client := newTestClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	body := `{"direction":"sideways"}`
	req := httptest.NewRequest(http.MethodPost, "/step", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var response errorBody
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Error != "direction must be next or back" {
		t.Errorf("error = %q, want direction message", response.Error)
	}
}

func TestSessionRouter_Step_WithoutText(t *testing.T) {
	client := newTestClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	body := `{"direction":"next"}`
	req := httptest.NewRequest(http.MethodPost, "/step", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusConflict, w.Body.String())
	}
}

func TestSessionRouter_SetMode(t *testing.T) {
	client := newTestClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	body := `{"mode":"quiz"}`
	req := httptest.NewRequest(http.MethodPut, "/mode", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response sessionDocument
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Data.Attributes.Mode != "quiz" {
		t.Errorf("mode = %v, want quiz", response.Data.Attributes.Mode)
	}
}

func TestSessionRouter_SetMode_Unknown(t *testing.T) {
	client := newTestClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	body := `{"mode":"karaoke"}`
	req := httptest.NewRequest(http.MethodPut, "/mode", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var response errorBody
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(response.Error, "unknown play mode") {
		t.Errorf("error = %q, want unknown play mode message", response.Error)
	}
}

func TestSessionRouter_SetTheme(t *testing.T) {
	client := newTestClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	body := `{"theme":"night"}`
	req := httptest.NewRequest(http.MethodPut, "/theme", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response sessionDocument
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Data.Attributes.Theme != "night" {
		t.Errorf("theme = %v, want night", response.Data.Attributes.Theme)
	}
}

func TestSessionRouter_SetTheme_Empty(t *testing.T) {
	client := newTestClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	body := `{"theme":""}`
	req := httptest.NewRequest(http.MethodPut, "/theme", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestSessionRouter_Upload(t *testing.T) {
	client := newTestClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "fable.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("The quick brown fox")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/text/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response sessionDocument
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Data.Attributes.Text != "The quick brown fox" {
		t.Errorf("text = %q, want the uploaded text", response.Data.Attributes.Text)
	}
}

func TestSessionRouter_Upload_MissingFile(t *testing.T) {
	client := newTestClient(t)

	router := v1.NewSessionRouter(client, nil)
	routes := router.Routes()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("name", "fable"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/text/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
