package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/lox-expression/internal/token"
)

func newTestHandler() *httpHandler {
	base := time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC)
	var n int
	return &httpHandler{
		now: func() time.Time {
			n++
			return base.Add(time.Duration(n) * time.Second)
		},
	}
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
}

func TestEvaluations(t *testing.T) {
	t.Parallel()

	h := newTestHandler()

	rec := doRequest(t, h, http.MethodPost, "/v1/evaluations", `{"expression": "1 + 2 * 3"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var succeeded map[string]any
	decodeBody(t, rec, &succeeded)
	expected := map[string]any{
		"name":       "/v1/evaluations/0000000000000001",
		"expression": "1 + 2 * 3",
		"state":      "SUCCEEDED",
		"type":       "Number",
		"result":     float64(7),
		"rendered":   "7",
		"createTime": "2022-08-01T00:00:01Z",
	}
	if diff := cmp.Diff(expected, succeeded); diff != "" {
		t.Errorf("unexpected evaluation (-want +got):\n%s", diff)
	}

	rec = doRequest(t, h, http.MethodPost, "/v1/evaluations", `{"expression": "1 + \"a\""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var failed struct {
		State string         `json:"state"`
		Error map[string]any `json:"error"`
	}
	decodeBody(t, rec, &failed)
	if failed.State != "FAILED" {
		t.Errorf("unexpected state: %s", failed.State)
	}
	if failed.Error["message"] != "operands must be two numbers or two strings" || failed.Error["lexeme"] != "+" {
		t.Errorf("unexpected error: %v", failed.Error)
	}

	rec = doRequest(t, h, http.MethodGet, "/v1/evaluations/0000000000000001", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var got map[string]any
	decodeBody(t, rec, &got)
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected evaluation (-want +got):\n%s", diff)
	}

	rec = doRequest(t, h, http.MethodGet, "/v1/evaluations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var list struct {
		Evaluations []struct {
			Name  string `json:"name"`
			State string `json:"state"`
		} `json:"evaluations"`
	}
	decodeBody(t, rec, &list)
	if len(list.Evaluations) != 2 ||
		list.Evaluations[0].State != "SUCCEEDED" ||
		list.Evaluations[1].Name != "/v1/evaluations/0000000000000002" {
		t.Errorf("unexpected list: %+v", list)
	}

	if rec := doRequest(t, h, http.MethodGet, "/v1/evaluations/unknown", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unexpected status: %d", rec.Code)
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, newTestHandler(), http.MethodPost, "/v1/expressions:tokenize", `{"expression": "1+\"s\""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var res struct {
		Tokens []token.Token `json:"tokens"`
	}
	decodeBody(t, rec, &res)
	expected := []token.Token{
		{Kind: token.Number, Lexeme: "1", Line: 1, Number: 1},
		{Kind: token.Plus, Lexeme: "+", Line: 1},
		{Kind: token.String, Lexeme: `"s"`, Line: 1, Text: "s"},
		{Kind: token.EOF, Line: 1},
	}
	if diff := cmp.Diff(expected, res.Tokens); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	h := newTestHandler()

	rec := doRequest(t, h, http.MethodPost, "/v1/expressions:format", `{"expression": "1+2*3"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var res map[string]string
	decodeBody(t, rec, &res)
	expected := map[string]string{
		"infix":  "(1 + (2 * 3))",
		"prefix": "(+ 1 (* 2 3))",
	}
	if diff := cmp.Diff(expected, res); diff != "" {
		t.Errorf("unexpected renderings (-want +got):\n%s", diff)
	}

	rec = doRequest(t, h, http.MethodPost, "/v1/expressions:format", `{"expression": "(1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var errRes struct {
		Error map[string]any `json:"error"`
	}
	decodeBody(t, rec, &errRes)
	if errRes.Error["message"] != "expected ')' after expression" {
		t.Errorf("unexpected error: %v", errRes.Error)
	}
}

func TestRouting(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		method string
		path   string
		body   string
		status int
	}{
		{method: http.MethodGet, path: "/", status: http.StatusNotFound},
		{method: http.MethodDelete, path: "/v1/evaluations", status: http.StatusMethodNotAllowed},
		{method: http.MethodPost, path: "/v1/evaluations/1", status: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/v1/expressions:tokenize", status: http.StatusMethodNotAllowed},
		{method: http.MethodPost, path: "/v1/expressions:compile", body: `{}`, status: http.StatusNotFound},
		{method: http.MethodPost, path: "/v1/evaluations", body: `not json`, status: http.StatusBadRequest},
		{method: http.MethodPost, path: "/v1/expressions:tokenize", body: `[`, status: http.StatusBadRequest},
	} {
		tt := tt
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			if rec := doRequest(t, newTestHandler(), tt.method, tt.path, tt.body); rec.Code != tt.status {
				t.Errorf("expect status %d but got %d", tt.status, rec.Code)
			}
		})
	}
}
