// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/api"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

type failingAnswerer struct{}

func (failingAnswerer) Answer(context.Context, string, string) (*model.Message, error) {
	return nil, errors.New("index unavailable")
}

// =============================================================================
// STATS TESTS
// =============================================================================

func TestServerStats_Record(t *testing.T) {
	stats := NewServerStats()
	require.False(t, stats.StartTime.IsZero())

	stats.RecordAnswer(model.ResponseLegalAnswer)
	stats.RecordAnswer(model.ResponseNotFound)
	stats.RecordRejected()
	stats.RecordFailed()

	snap := stats.GetStats()
	assert.Equal(t, int64(4), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.Answered)
	assert.Equal(t, int64(1), snap.NotFound)
	assert.Equal(t, int64(1), snap.Rejected)
	assert.Equal(t, int64(1), snap.Failed)
}

func TestNewServer_DefaultPort(t *testing.T) {
	assert.Equal(t, DefaultPort, NewServer(0).Port())
	assert.Equal(t, 8080, NewServer(8080).Port())
}

// =============================================================================
// CHAT HANDLER TESTS
// =============================================================================

func TestHandleChat_LegalAnswer(t *testing.T) {
	s := NewServer(0)
	rec := doRequest(t, s, http.MethodPost, "/api/chat",
		`{"conversationId":"conv-1","message":"Quelles sont les règles du licenciement d'un salarié ?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "conv-1", resp.ConversationID)
	assert.Equal(t, "assistant", resp.Role)
	assert.NotEmpty(t, resp.Timestamp)
	assert.Contains(t, resp.Content, "Code du travail")

	require.NotNil(t, resp.Metadata)
	assert.Equal(t, model.ResponseLegalAnswer, resp.Metadata.ResponseType)
	assert.Equal(t, DefaultCountry, resp.Metadata.Country)
	require.NotEmpty(t, resp.Metadata.Sources)
	assert.Equal(t, "Code du travail", resp.Metadata.Sources[0].Document)
	assert.Greater(t, resp.Metadata.Sources[0].Relevance, 0.6)

	assert.Equal(t, int64(1), s.Stats().GetStats().Answered)
}

func TestHandleChat_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"short words only", "ok ?"},
		{"unknown topic", "Pourquoi le ciel est bleu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(0)
			body, _ := json.Marshal(map[string]string{"conversationId": "c", "message": tt.message})
			rec := doRequest(t, s, http.MethodPost, "/api/chat", string(body))
			require.Equal(t, http.StatusOK, rec.Code)

			var resp api.ChatResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotNil(t, resp.Metadata)
			assert.Equal(t, model.ResponseNotFound, resp.Metadata.ResponseType)
			assert.Empty(t, resp.Metadata.Sources)
			assert.Equal(t, NotFoundText, resp.Content)
			assert.Equal(t, int64(1), s.Stats().GetStats().NotFound)
		})
	}
}

func TestHandleChat_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", "{"},
		{"missing conversation", `{"message":"bail"}`},
		{"missing message", `{"conversationId":"c"}`},
		{"blank message", `{"conversationId":"c","message":"   "}`},
		{"too long", `{"conversationId":"c","message":"` + strings.Repeat("a", MaxMessageLength+1) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(0)
			rec := doRequest(t, s, http.MethodPost, "/api/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, int64(1), s.Stats().GetStats().Rejected)
		})
	}
}

func TestHandleChat_BodyTooLarge(t *testing.T) {
	s := NewServer(0)
	body := `{"conversationId":"c","message":"` + strings.Repeat("a", MaxRequestBodySize) + `"}`
	rec := doRequest(t, s, http.MethodPost, "/api/chat", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleChat_AnswererFailure(t *testing.T) {
	s := NewServer(0).WithAnswerer(failingAnswerer{})
	rec := doRequest(t, s, http.MethodPost, "/api/chat", `{"conversationId":"c","message":"bail"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
	assert.Equal(t, int64(1), s.Stats().GetStats().Failed)
}

// =============================================================================
// HEALTH AND MIDDLEWARE TESTS
// =============================================================================

func TestHandleHealth(t *testing.T) {
	s := NewServer(0)
	rec := doRequest(t, s, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, Version, resp.Version)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestCORS_Preflight(t *testing.T) {
	s := NewServer(0)
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSConfig_IsOriginAllowed(t *testing.T) {
	cfg := &CORSConfig{AllowedOrigins: []string{"http://localhost:4200", "*.legichat.bf"}}

	tests := []struct {
		origin string
		want   bool
	}{
		{"", false},
		{"http://localhost:4200", true},
		{"https://app.legichat.bf", true},
		{"https://evil.example", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.isOriginAllowed(tt.origin), tt.origin)
	}
}

// =============================================================================
// LIBRARY TESTS
// =============================================================================

func TestLibrary_RanksByHits(t *testing.T) {
	lib := NewLibrary()
	msg, err := lib.Answer(context.Background(), "c", "Mon bailleur refuse de rendre la caution du loyer de mon logement")
	require.NoError(t, err)
	require.NotNil(t, msg.Metadata)
	require.NotEmpty(t, msg.Metadata.Sources)
	assert.Equal(t, "Loi portant bail d'habitation privé", msg.Metadata.Sources[0].Document)
	assert.LessOrEqual(t, len(msg.Metadata.Sources), maxSources)
	assert.Equal(t, model.RoleAssistant, msg.Role)
	assert.False(t, msg.IsLoading)
}

func TestLibrary_IgnoresAccents(t *testing.T) {
	msg, err := NewLibrary().Answer(context.Background(), "c", "partage d'un heritage entre freres")
	require.NoError(t, err)
	require.NotEmpty(t, msg.Metadata.Sources)
	assert.Equal(t, "Code des personnes et de la famille, livre III", msg.Metadata.Sources[0].Document)
}

func TestLibrary_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLibrary().Answer(ctx, "c", "bail")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTopicWords(t *testing.T) {
	assert.Equal(t, []string{"heritage", "terrain"}, topicWords("L'Héritage, un terrain ?"))
	assert.Empty(t, topicWords("?? ok !"))
}

// =============================================================================
// END TO END
// =============================================================================

func TestServer_WithHTTPClient(t *testing.T) {
	ts := httptest.NewServer(NewServer(0).Handler())
	defer ts.Close()

	client := api.NewHTTPClient(ts.URL + "/api").WithMaxRetries(0)
	msg, err := client.Submit(context.Background(), "conv-42", "Comment se déroule un divorce ?")
	require.NoError(t, err)

	assert.Equal(t, "conv-42", msg.ConversationID)
	assert.Equal(t, model.RoleAssistant, msg.Role)
	require.NotNil(t, msg.Metadata)
	assert.Equal(t, model.ResponseLegalAnswer, msg.Metadata.ResponseType)
	assert.Equal(t, "Code des personnes et de la famille", msg.Metadata.Sources[0].Document)
}
