// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package web serves the omnimatch HTTP and websocket API.
package web

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/sirupsen/logrus"

	"github.com/omnimatchdev/omnimatch/server/pkg/filtersvc"
	"github.com/omnimatchdev/omnimatch/server/pkg/serverbase"
)

const (
	CacheControlHeaderKey     = "Cache-Control"
	CacheControlHeaderNoCache = "no-cache"

	ContentTypeHeaderKey = "Content-Type"
	ContentTypeJson      = "application/json"
)

const HttpReadTimeout = 5 * time.Second
const HttpWriteTimeout = 21 * time.Second
const HttpMaxHeaderBytes = 60000
const HttpTimeoutDuration = 21 * time.Second

const MaxMatchRequestBytes = 4 * 1024 * 1024

type WebFnType = func(http.ResponseWriter, *http.Request)

type WebFnOpts struct {
	AllowCaching bool
	JsonErrors   bool
}

// Server ties the HTTP surface to the session manager
type Server struct {
	Manager *filtersvc.Manager
}

func MakeServer(manager *filtersvc.Manager) *Server {
	return &Server{Manager: manager}
}

func WriteJsonError(w http.ResponseWriter, errVal error) {
	w.Header().Set(ContentTypeHeaderKey, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	errMap := make(map[string]interface{})
	errMap["error"] = errVal.Error()
	barr, _ := json.Marshal(errMap)
	w.Write(barr)
}

func WriteJsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set(ContentTypeHeaderKey, ContentTypeJson)
	rtnMap := make(map[string]interface{})
	rtnMap["success"] = true
	if data != nil {
		rtnMap["data"] = data
	}
	barr, err := json.Marshal(rtnMap)
	if err != nil {
		WriteJsonError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(barr)
}

func WebFnWrap(opts WebFnOpts, fn WebFnType) WebFnType {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recErr := recover(); recErr != nil {
				logrus.Errorf("[web] panic in handler: %v", recErr)
				if opts.JsonErrors {
					WriteJsonError(w, fmt.Errorf("internal server error"))
				} else {
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}
		}()
		if !opts.AllowCaching {
			w.Header().Set(CacheControlHeaderKey, CacheControlHeaderNoCache)
		}
		fn(w, r)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJsonSuccess(w, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UnixMilli(),
	})
}

// MatchRequest is the body of POST /api/match
type MatchRequest struct {
	SessionId  string   `json:"sessionid,omitempty"`
	Pattern    string   `json:"pattern"`
	Candidates []string `json:"candidates"`
}

// MatchResponse is the payload of POST /api/match
type MatchResponse struct {
	SessionId string                  `json:"sessionid"`
	Pattern   string                  `json:"pattern"`
	Results   []filtersvc.MatchResult `json:"results"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJsonError(w, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	var req MatchRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxMatchRequestBytes))
	if err := decoder.Decode(&req); err != nil {
		WriteJsonError(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	sessionId, results := s.Manager.Match(req.SessionId, req.Pattern, req.Candidates)
	WriteJsonSuccess(w, MatchResponse{
		SessionId: sessionId,
		Pattern:   req.Pattern,
		Results:   results,
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	WriteJsonSuccess(w, s.Manager.GetAllSessionInfos())
}

// StatusInfo is the payload of GET /api/status
type StatusInfo struct {
	Version        string  `json:"version"`
	Pid            int     `json:"pid"`
	CPUUsage       float64 `json:"cpuusage"`
	MemHeapAlloc   uint64  `json:"memheapalloc"`
	MemSys         uint64  `json:"memsys"`
	GoRoutineCount int     `json:"goroutinecount"`
	NumSessions    int     `json:"numsessions"`
	CacheHits      int64   `json:"cachehits"`
	CacheMisses    int64   `json:"cachemisses"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	pid := os.Getpid()
	cpuPercent := 0.0
	proc, err := process.NewProcess(int32(pid))
	if err == nil {
		// Might return 0 on first call.
		cpuPercent, _ = proc.CPUPercent()
	}

	hits, misses := s.Manager.CacheStats()
	WriteJsonSuccess(w, StatusInfo{
		Version:        serverbase.OmnimatchVersion,
		Pid:            pid,
		CPUUsage:       cpuPercent,
		MemHeapAlloc:   memStats.HeapAlloc,
		MemSys:         memStats.Sys,
		GoRoutineCount: runtime.NumGoroutine(),
		NumSessions:    s.Manager.NumSessions(),
		CacheHits:      hits,
		CacheMisses:    misses,
	})
}

// MakeRouter builds the API router (also used by tests)
func (s *Server) MakeRouter() *mux.Router {
	gr := mux.NewRouter()
	wrap := func(fn WebFnType) WebFnType {
		return WebFnWrap(WebFnOpts{AllowCaching: false, JsonErrors: true}, fn)
	}
	gr.HandleFunc("/api/health", wrap(handleHealth))
	gr.HandleFunc("/api/match", wrap(s.handleMatch))
	gr.HandleFunc("/api/sessions", wrap(s.handleSessions))
	gr.HandleFunc("/api/status", wrap(s.handleStatus))
	gr.HandleFunc("/ws", s.HandleWs)
	return gr
}

func MakeTCPListener(serviceName string, addr string) (net.Listener, error) {
	if addr == "" {
		addr = "127.0.0.1:0" // Use any available port
	}
	rtn, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("error creating listener at %v: %v", addr, err)
	}
	logrus.Infof("[web] server [%s] listening on %s", serviceName, rtn.Addr())
	return rtn, nil
}

// RunWebServer serves the API on listener. Blocking.
func (s *Server) RunWebServer(listener net.Listener) {
	gr := s.MakeRouter()

	// The websocket route cannot sit behind the timeout handler.
	var handler http.Handler = gr
	if serverbase.IsDev() {
		handler = handlers.CORS(handlers.AllowedOrigins([]string{"*"}))(handler)
	}

	server := &http.Server{
		ReadTimeout:    HttpReadTimeout,
		WriteTimeout:   HttpWriteTimeout,
		MaxHeaderBytes: HttpMaxHeaderBytes,
		Handler:        handler,
	}
	err := server.Serve(listener)
	if err != nil {
		logrus.Errorf("[web] server error: %v", err)
	}
}
