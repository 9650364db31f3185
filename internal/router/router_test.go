package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vark-assistant/internal/handlers"
	"vark-assistant/internal/middleware"
	"vark-assistant/internal/models"
	"vark-assistant/internal/services"
	"vark-assistant/internal/websocket"
)

func newTestServer(t *testing.T, chatLimit int) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()

	answers := services.NewAnswerService(services.NewExtractiveQA(), logger)
	conversation := services.NewConversationService(answers, 0, logger)
	chat := services.NewChatService(conversation, services.NewMemorySessionStore(), logger)

	limiter := middleware.NewRateLimiter(chatLimit, time.Minute)
	t.Cleanup(limiter.Stop)

	h := New(
		logger,
		middleware.NewSessionAuth("test-secret", time.Hour, false, logger),
		limiter,
		handlers.NewPageHandler(logger),
		handlers.NewChatHandler(chat, logger),
		handlers.NewGuideHandler(services.NewGuideService()),
		websocket.NewHub(chat, nil, limiter, logger),
	)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie issued", middleware.SessionCookieName)
	return nil
}

func postChat(t *testing.T, srv *httptest.Server, cookie *http.Cookie, message string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(models.ChatRequest{Message: message})
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/chat", strings.NewReader(string(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 10)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestChatHistoryIsPerSession(t *testing.T) {
	srv := newTestServer(t, 10)

	first := postChat(t, srv, nil, "What are visual learners?")
	defer first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)
	cookie := sessionCookie(t, first)

	second := postChat(t, srv, cookie, "How do kinesthetic learners learn?")
	defer second.Body.Close()
	require.Equal(t, http.StatusOK, second.StatusCode)

	var resp models.ChatResponse
	require.NoError(t, json.NewDecoder(second.Body).Decode(&resp))
	require.Len(t, resp.History, 2)
	assert.Equal(t, "What are visual learners?", resp.History[0].Message)
	for _, turn := range resp.History {
		assert.False(t, turn.Pending())
	}

	// A request without the cookie starts a fresh, empty session.
	other, err := http.Get(srv.URL + "/api/v1/chat/history")
	require.NoError(t, err)
	defer other.Body.Close()

	var fresh models.ChatResponse
	require.NoError(t, json.NewDecoder(other.Body).Decode(&fresh))
	assert.Empty(t, fresh.History)
}

func TestChatRateLimited(t *testing.T) {
	srv := newTestServer(t, 1)

	first := postChat(t, srv, nil, "hi")
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := postChat(t, srv, sessionCookie(t, first), "hi again")
	defer second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestWebSocketTurnsShareChatLimit(t *testing.T) {
	srv := newTestServer(t, 1)

	conn, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	type frame struct {
		Type    string `json:"type"`
		Payload struct {
			Pending bool   `json:"pending"`
			Code    string `json:"code"`
		} `json:"payload"`
	}
	sendTurn := func(text string) {
		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"type":    "message",
			"payload": map[string]string{"message": text},
		}))
	}
	readFrame := func() frame {
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		return f
	}

	sendTurn("What are visual learners?")
	assert.True(t, readFrame().Payload.Pending)
	assert.False(t, readFrame().Payload.Pending)

	for i := 0; i < 5; i++ {
		sendTurn("What are auditory learners?")
		f := readFrame()
		assert.Equal(t, "error", f.Type)
		assert.Equal(t, "RATE_LIMITED", f.Payload.Code)
	}

	// The socket spent this client's budget for the JSON endpoint too.
	resp := postChat(t, srv, nil, "hi")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestGuideEndpoints(t *testing.T) {
	srv := newTestServer(t, 10)

	resp, err := http.Post(srv.URL+"/api/v1/guides", "application/json", strings.NewReader(`{"style":"visual"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var guide models.GuideResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&guide))
	assert.True(t, strings.HasPrefix(guide.Guide, "📚 Custom Study Guide for Visual Learners:\n\n1. "))

	bad, err := http.Post(srv.URL+"/api/v1/guides", "application/json", strings.NewReader(`{"style":"olfactory"}`))
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t, 10)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	sessionCookie(t, resp)
}
