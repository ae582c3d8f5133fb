// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/api"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort matches the address the client is configured for by default.
	DefaultPort = 5000

	// MaxMessageLength is the longest accepted question, in runes.
	MaxMessageLength = 4000

	// MaxRequestBodySize bounds the POST body (64KB).
	MaxRequestBodySize = 64 * 1024

	// Version is the server version.
	Version = "1.0.0"
)

// ============================================================================
// STATS
// ============================================================================

// ServerStats tracks request counters. Fields are updated atomically.
type ServerStats struct {
	TotalRequests int64
	Answered      int64
	NotFound      int64
	Rejected      int64
	Failed        int64
	StartTime     time.Time
}

// NewServerStats creates zeroed stats starting now.
func NewServerStats() *ServerStats {
	return &ServerStats{StartTime: time.Now()}
}

// RecordAnswer counts one completed answer by its response type.
func (s *ServerStats) RecordAnswer(rt model.ResponseType) {
	atomic.AddInt64(&s.TotalRequests, 1)
	if rt == model.ResponseNotFound {
		atomic.AddInt64(&s.NotFound, 1)
	} else {
		atomic.AddInt64(&s.Answered, 1)
	}
}

// RecordRejected counts one invalid request.
func (s *ServerStats) RecordRejected() {
	atomic.AddInt64(&s.TotalRequests, 1)
	atomic.AddInt64(&s.Rejected, 1)
}

// RecordFailed counts one request the answerer could not serve.
func (s *ServerStats) RecordFailed() {
	atomic.AddInt64(&s.TotalRequests, 1)
	atomic.AddInt64(&s.Failed, 1)
}

// GetStats returns a consistent snapshot.
func (s *ServerStats) GetStats() ServerStats {
	return ServerStats{
		TotalRequests: atomic.LoadInt64(&s.TotalRequests),
		Answered:      atomic.LoadInt64(&s.Answered),
		NotFound:      atomic.LoadInt64(&s.NotFound),
		Rejected:      atomic.LoadInt64(&s.Rejected),
		Failed:        atomic.LoadInt64(&s.Failed),
		StartTime:     s.StartTime,
	}
}

// Uptime returns the time since the stats were created.
func (s *ServerStats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the development answer backend.
type Server struct {
	port   int
	engine *gin.Engine
	stats  *ServerStats

	mu       sync.RWMutex
	answerer Answerer
	server   *http.Server
}

// NewServer creates a server on port (DefaultPort when port <= 0) answering
// from the built-in library.
func NewServer(port int) *Server {
	if port <= 0 {
		port = DefaultPort
	}
	s := &Server{
		port:     port,
		stats:    NewServerStats(),
		answerer: NewLibrary(),
	}

	s.engine = gin.New()
	s.engine.Use(
		gin.LoggerWithWriter(log.Writer()),
		gin.Recovery(),
		SecurityHeadersMiddleware(),
		CORSMiddleware(DefaultCORSConfig()),
		BodyLimitMiddleware(MaxRequestBodySize),
	)
	s.setupRoutes()
	return s
}

// WithAnswerer replaces the answer source.
func (s *Server) WithAnswerer(a Answerer) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a != nil {
		s.answerer = a
	}
	return s
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// Stats returns the live counters.
func (s *Server) Stats() *ServerStats {
	return s.stats
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() {
	group := s.engine.Group("/api")
	group.POST("/chat", s.handleChat)
	group.GET("/health", s.handleHealth)
}

// ============================================================================
// CHAT HANDLER
// ============================================================================

// chatRequest is the bound body of POST /api/chat.
type chatRequest struct {
	ConversationID string `json:"conversationId" binding:"required"`
	Message        string `json:"message" binding:"required"`
}

// handleChat handles POST /api/chat.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.stats.RecordRejected()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "corps de requête trop volumineux"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId et message sont requis"})
		return
	}

	question := strings.TrimSpace(req.Message)
	if question == "" || strings.TrimSpace(req.ConversationID) == "" {
		s.stats.RecordRejected()
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId et message sont requis"})
		return
	}
	if utf8.RuneCountInString(question) > MaxMessageLength {
		s.stats.RecordRejected()
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("message trop long (maximum %d caractères)", MaxMessageLength)})
		return
	}

	s.mu.RLock()
	answerer := s.answerer
	s.mu.RUnlock()

	reply, err := answerer.Answer(c.Request.Context(), req.ConversationID, question)
	if err != nil {
		s.stats.RecordFailed()
		log.Printf("CHAT_FAILED | conversation=%s err=%v", req.ConversationID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de générer une réponse"})
		return
	}

	rt := model.ResponseLegalAnswer
	if reply.Metadata != nil && reply.Metadata.ResponseType != "" {
		rt = reply.Metadata.ResponseType
	}
	s.stats.RecordAnswer(rt)

	c.JSON(http.StatusOK, toChatResponse(req.ConversationID, reply))
}

// toChatResponse renders a reply in the wire shape the client parses.
func toChatResponse(conversationID string, m *model.Message) api.ChatResponse {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return api.ChatResponse{
		ID:             m.ID,
		ConversationID: conversationID,
		Content:        m.Content,
		Role:           string(model.RoleAssistant),
		Timestamp:      ts.UTC().Format(time.RFC3339Nano),
		Metadata:       m.Metadata,
	}
}

// ============================================================================
// HEALTH HANDLER
// ============================================================================

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Requests int64  `json:"requests"`
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(c *gin.Context) {
	snap := s.stats.GetStats()
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  Version,
		Uptime:   s.stats.Uptime().Round(time.Second).String(),
		Requests: snap.TotalRequests,
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens on 127.0.0.1 and blocks until Shutdown. A clean shutdown
// returns nil.
func (s *Server) Start() error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	log.Printf("SERVER_START | addr=%s version=%s", addr, Version)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}

	snap := s.stats.GetStats()
	log.Printf("SERVER_SHUTDOWN | requests=%d answered=%d not_found=%d rejected=%d failed=%d",
		snap.TotalRequests, snap.Answered, snap.NotFound, snap.Rejected, snap.Failed)
	return srv.Shutdown(ctx)
}
