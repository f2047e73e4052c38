// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/omnimatchdev/omnimatch/server/pkg/filtersvc"
)

func makeTestServer() *Server {
	return MakeServer(filtersvc.NewManager(4, nil))
}

func postJson(t *testing.T, router http.Handler, path string, body any) map[string]any {
	t.Helper()
	barr, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(barr))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST %s status = %d", path, rec.Code)
	}
	rtn := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &rtn); err != nil {
		t.Fatalf("POST %s bad response body: %v", path, err)
	}
	return rtn
}

func TestHealthEndpoint(t *testing.T) {
	router := makeTestServer().MakeRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	rtn := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &rtn); err != nil {
		t.Fatal(err)
	}
	if rtn["success"] != true {
		t.Errorf("health response = %v", rtn)
	}
}

func TestMatchEndpoint(t *testing.T) {
	router := makeTestServer().MakeRouter()
	rtn := postJson(t, router, "/api/match", MatchRequest{
		Pattern:    "abc",
		Candidates: []string{"xxabcxx", "nope"},
	})
	if rtn["success"] != true {
		t.Fatalf("response = %v", rtn)
	}
	data := rtn["data"].(map[string]any)
	if data["sessionid"] == "" {
		t.Error("missing session id")
	}
	results := data["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	first := results[0].(map[string]any)
	if first["found"] != true || first["position"].(float64) != 2 || first["triggered"].(float64) != 3 {
		t.Errorf("results[0] = %v", first)
	}
	second := results[1].(map[string]any)
	if second["found"] != false {
		t.Errorf("results[1] = %v", second)
	}
}

func TestMatchEndpointSessionReuse(t *testing.T) {
	server := makeTestServer()
	router := server.MakeRouter()
	rtn := postJson(t, router, "/api/match", MatchRequest{Pattern: "a*c", Candidates: []string{"abc"}})
	sessionId := rtn["data"].(map[string]any)["sessionid"].(string)

	postJson(t, router, "/api/match", MatchRequest{SessionId: sessionId, Pattern: "a*c", Candidates: []string{"axc"}})
	if server.Manager.NumSessions() != 1 {
		t.Errorf("session count = %d, want 1", server.Manager.NumSessions())
	}
}

func TestMatchEndpointBadBody(t *testing.T) {
	router := makeTestServer().MakeRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/match", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	rtn := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &rtn); err != nil {
		t.Fatal(err)
	}
	if _, hasErr := rtn["error"]; !hasErr {
		t.Errorf("expected json error envelope, got %v", rtn)
	}
}

func TestStatusEndpoint(t *testing.T) {
	router := makeTestServer().MakeRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	rtn := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &rtn); err != nil {
		t.Fatal(err)
	}
	if rtn["success"] != true {
		t.Fatalf("response = %v", rtn)
	}
	data := rtn["data"].(map[string]any)
	if data["pid"].(float64) <= 0 {
		t.Errorf("status = %v", data)
	}
}
