package v1_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	v1 "github.com/glossalab/glossa/infrastructure/api/v1"
)

func TestRangesRouter_List(t *testing.T) {
	client := newAnnotatedClient(t)

	router := v1.NewRangesRouter(client, nil)
	routes := router.Routes()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response rangeListDocument
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(response.Data) != 1 {
		t.Fatalf("len(Data) = %v, want 1", len(response.Data))
	}
	r := response.Data[0]
	if r.Type != "range" {
		t.Errorf("type = %v, want range", r.Type)
	}
	if r.ID != "r1" {
		t.Errorf("id = %v, want r1", r.ID)
	}
	if r.Attributes.Start != 4 || r.Attributes.End != 9 {
		t.Errorf("interval = [%d, %d), want [4, 9)", r.Attributes.Start, r.Attributes.End)
	}
	if r.Attributes.Text != "quick" {
		t.Errorf("text = %q, want quick", r.Attributes.Text)
	}
	if r.Attributes.Note != "rapide" {
		t.Errorf("note = %q, want rapide", r.Attributes.Note)
	}
}

func TestRangesRouter_Create_SnapsToWord(t *testing.T) {
	client := newTestClient(t)
	if err := client.SetText("The quick brown fox"); err != nil {
		t.Fatalf("set text: %v", err)
	}

	router := v1.NewRangesRouter(client, nil)
	routes := router.Routes()

	// Mid-word offsets; the engine widens them to the whole word.
	body := `{"start":11,"end":13,"note":"brun"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var response rangeDocument
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	attrs := response.Data.Attributes
	if attrs.Start != 10 || attrs.End != 15 {
		t.Errorf("interval = [%d, %d), want [10, 15)", attrs.Start, attrs.End)
	}
	if attrs.Text != "brown" {
		t.Errorf("text = %q, want brown", attrs.Text)
	}
}

func TestRangesRouter_Create_OverlapLeavesStateUnchanged(t *testing.T) {
	client := newAnnotatedClient(t)

	router := v1.NewRangesRouter(client, nil)
	routes := router.Routes()

	// [6, 8) falls inside the committed "quick" range.
	body := `{"start":6,"end":8}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusConflict, w.Body.String())
	}

	var rejection rejectionDocument
	if err := json.NewDecoder(w.Body).Decode(&rejection); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rejection.Errors) != 1 || rejection.Errors[0].Code != "overlap" {
		t.Errorf("errors = %+v, want one overlap error", rejection.Errors)
	}

	ranges, err := client.Ranges()
	if err != nil {
		t.Fatalf("list ranges: %v", err)
	}
	if len(ranges) != 1 || ranges[0].ID() != "r1" {
		t.Errorf("ranges changed after rejection: %+v", ranges)
	}
}

func TestRangesRouter_Create_CollapsedSelectionRejected(t *testing.T) {
	client := newTestClient(t)
	if err := client.SetText("one , two"); err != nil {
		t.Fatalf("set text: %v", err)
	}

	router := v1.NewRangesRouter(client, nil)
	routes := router.Routes()

	// A collapsed caret between two non-word characters stays empty
	// after expansion.
	body := `{"start":4,"end":4}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusUnprocessableEntity, w.Body.String())
	}
	count, err := client.RangeCount()
	if err != nil {
		t.Fatalf("range count: %v", err)
	}
	if count != 0 {
		t.Errorf("range count = %d, want 0", count)
	}
}

func TestRangesRouter_CreateFromSelection(t *testing.T) {
	client := newAnnotatedClient(t)

	router := v1.NewRangesRouter(client, nil)
	routes := router.Routes()

	// Segments are ["The ", "quick", " brown fox"]; carets inside the
	// trailing plain segment land mid-"brown" and snap to the word.
	body := `{"anchor":{"segment":2,"offset":2},"focus":{"segment":2,"offset":4}}`
	req := httptest.NewRequest(http.MethodPost, "/selection", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var response rangeDocument
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	attrs := response.Data.Attributes
	if attrs.Start != 10 || attrs.End != 15 {
		t.Errorf("interval = [%d, %d), want [10, 15)", attrs.Start, attrs.End)
	}
	if attrs.Text != "brown" {
		t.Errorf("text = %q, want brown", attrs.Text)
	}
}

func TestRangesRouter_CreateFromSelection_BadCaret(t *testing.T) {
	client := newAnnotatedClient(t)

	router := v1.NewRangesRouter(client, nil)
	routes := router.Routes()

	body := `{"anchor":{"segment":9,"offset":0},"focus":{"segment":9,"offset":2}}`
	req := httptest.NewRequest(http.MethodPost, "/selection", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusUnprocessableEntity, w.Body.String())
	}
}

func TestRangesRouter_Delete(t *testing.T) {
	client := newAnnotatedClient(t)

	router := v1.NewRangesRouter(client, nil)
	routes := router.Routes()

	req := httptest.NewRequest(http.MethodDelete, "/r1", nil)
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusNoContent, w.Body.String())
	}
	count, err := client.RangeCount()
	if err != nil {
		t.Fatalf("range count: %v", err)
	}
	if count != 0 {
		t.Errorf("range count = %d, want 0", count)
	}
}

func TestRangesRouter_Delete_UnknownIDIsNoOp(t *testing.T) {
	client := newAnnotatedClient(t)

	router := v1.NewRangesRouter(client, nil)
	routes := router.Routes()

	req := httptest.NewRequest(http.MethodDelete, "/no-such-range", nil)
	w := httptest.NewRecorder()

	routes.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusNoContent, w.Body.String())
	}
	count, err := client.RangeCount()
	if err != nil {
		t.Fatalf("range count: %v", err)
	}
	if count != 1 {
		t.Errorf("range count = %d, want 1", count)
	}
}
