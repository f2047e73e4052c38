// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const wsReadWaitTimeout = 15 * time.Second
const wsWriteWaitTimeout = 10 * time.Second
const wsPingPeriodTickTime = 10 * time.Second
const wsInitialPingTime = 1 * time.Second

var GlobalLock = &sync.Mutex{}
var ConnIdMap = map[string]*websocket.Conn{} // connId => conn

var WebSocketUpgrader = websocket.Upgrader{
	ReadBufferSize:   4 * 1024,
	WriteBufferSize:  32 * 1024,
	HandshakeTimeout: 1 * time.Second,
	CheckOrigin:      func(r *http.Request) bool { return true },
}

// HandleWs upgrades the connection and runs the live-filter loop. The
// websocket session id doubles as the filtersvc session id, so a
// connection keeps its compiled matcher across candidate batches.
func (s *Server) HandleWs(w http.ResponseWriter, r *http.Request) {
	err := s.handleWsInternal(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func getMessageType(jmsg map[string]any) string {
	if str, ok := jmsg["type"].(string); ok {
		return str
	}
	return ""
}

func getStringFromMap(jmsg map[string]any, key string) string {
	if str, ok := jmsg[key].(string); ok {
		return str
	}
	return ""
}

func getStringArrFromMap(jmsg map[string]any, key string) []string {
	arrVal, ok := jmsg[key].([]any)
	if !ok {
		return nil
	}
	rtn := make([]string, 0, len(arrVal))
	for _, v := range arrVal {
		if str, ok := v.(string); ok {
			rtn = append(rtn, str)
		}
	}
	return rtn
}

// processMessage handles one client message and may push a response
func (s *Server) processMessage(connId string, jmsg map[string]any, outputCh chan any) {
	msgType := getMessageType(jmsg)
	switch msgType {
	case "setpattern":
		pattern := getStringFromMap(jmsg, "pattern")
		sessionId, _ := s.Manager.Match(connId, pattern, nil)
		session := s.Manager.GetOrCreateSession(sessionId)
		session.Lock.Lock()
		numMatchers := session.Matcher.NumMatchers()
		session.Lock.Unlock()
		outputCh <- map[string]any{
			"type":     "pattern",
			"pattern":  pattern,
			"matchers": numMatchers,
		}
	case "match":
		pattern := getStringFromMap(jmsg, "pattern")
		if pattern == "" {
			session := s.Manager.GetOrCreateSession(connId)
			session.Lock.Lock()
			pattern = session.Pattern
			session.Lock.Unlock()
		}
		terms := getStringArrFromMap(jmsg, "terms")
		_, results := s.Manager.Match(connId, pattern, terms)
		outputCh <- map[string]any{
			"type":    "results",
			"pattern": pattern,
			"results": results,
		}
	default:
		outputCh <- map[string]any{
			"type":  "error",
			"error": fmt.Sprintf("unknown message type %q", msgType),
		}
	}
}

func (s *Server) readLoop(conn *websocket.Conn, outputCh chan any, closeCh chan any, connId string) {
	readWait := wsReadWaitTimeout
	conn.SetReadLimit(64 * 1024)
	conn.SetReadDeadline(time.Now().Add(readWait))
	defer close(closeCh)
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			logrus.Debugf("[websocket] ReadPump error (%s): %v", connId, err)
			break
		}
		jmsg := map[string]any{}
		err = json.Unmarshal(message, &jmsg)
		if err != nil {
			logrus.Warnf("[websocket] error unmarshalling json: %v", err)
			break
		}
		conn.SetReadDeadline(time.Now().Add(readWait))
		msgType := getMessageType(jmsg)
		if msgType == "pong" {
			// nothing
			continue
		}
		if msgType == "ping" {
			now := time.Now()
			pongMessage := map[string]interface{}{"type": "pong", "stime": now.UnixMilli()}
			outputCh <- pongMessage
			continue
		}
		s.processMessage(connId, jmsg, outputCh)
	}
}

func writePing(conn *websocket.Conn) error {
	now := time.Now()
	pingMessage := map[string]interface{}{"type": "ping", "stime": now.UnixMilli()}
	jsonVal, _ := json.Marshal(pingMessage)
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWaitTimeout)) // no error
	err := conn.WriteMessage(websocket.TextMessage, jsonVal)
	if err != nil {
		return err
	}
	return nil
}

func writeLoop(conn *websocket.Conn, outputCh chan any, closeCh chan any, connId string) {
	ticker := time.NewTicker(wsInitialPingTime)
	defer ticker.Stop()
	initialPing := true
	for {
		select {
		case msg := <-outputCh:
			var barr []byte
			var err error
			if _, ok := msg.([]byte); ok {
				barr = msg.([]byte)
			} else {
				barr, err = json.Marshal(msg)
				if err != nil {
					logrus.Errorf("[websocket] cannot marshal websocket message: %v", err)
					// just loop again
					break
				}
			}
			err = conn.WriteMessage(websocket.TextMessage, barr)
			if err != nil {
				conn.Close()
				logrus.Debugf("[websocket] WritePump error (%s): %v", connId, err)
				return
			}

		case <-ticker.C:
			err := writePing(conn)
			if err != nil {
				logrus.Debugf("[websocket] WritePump error (%s): %v", connId, err)
				return
			}
			if initialPing {
				initialPing = false
				ticker.Reset(wsPingPeriodTickTime)
			}

		case <-closeCh:
			return
		}
	}
}

func registerConn(connId string, conn *websocket.Conn) {
	GlobalLock.Lock()
	defer GlobalLock.Unlock()
	ConnIdMap[connId] = conn
}

func unregisterConn(connId string) {
	GlobalLock.Lock()
	defer GlobalLock.Unlock()
	delete(ConnIdMap, connId)
}

func (s *Server) handleWsInternal(w http.ResponseWriter, r *http.Request) error {
	conn, err := WebSocketUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade failed: %v", err)
	}
	defer conn.Close()

	connId := uuid.New().String()
	registerConn(connId, conn)
	defer unregisterConn(connId)
	defer s.Manager.DropSession(connId)
	logrus.Infof("[websocket] new connection %s from %s", connId, r.RemoteAddr)

	outputCh := make(chan any, 100)
	closeCh := make(chan any)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.readLoop(conn, outputCh, closeCh, connId)
	}()
	go func() {
		defer wg.Done()
		writeLoop(conn, outputCh, closeCh, connId)
	}()
	wg.Wait()
	return nil
}
