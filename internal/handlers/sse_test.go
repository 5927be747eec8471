package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimitrije/squadup/internal/sse"
	"github.com/dimitrije/squadup/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSSEHandler_Status(t *testing.T) {
	testCases := []struct {
		name     string
		online   bool
		expected string
	}{
		{"online", true, `{"online":true}`},
		{"offline", false, `{"online":false}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)
			s.hub.On("IsOnline", s.caller).Return(tc.online)

			rec := s.get("/events/status")

			testutil.AssertStatus(t, rec, http.StatusOK)
			assert.JSONEq(t, tc.expected, rec.Body.String())
		})
	}
}

func TestSSEHandler_Connect_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.client.GET("/api/v1/events", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	s.hub.AssertNotCalled(t, "Register", mock.Anything)
}

func TestSSEHandler_Connect_UnregistersWhenClientLeaves(t *testing.T) {
	s := newTestServer(t)
	ownClient := mock.MatchedBy(func(c *sse.Client) bool { return c.UserID == s.caller })
	s.hub.On("Register", ownClient).Return()
	s.hub.On("Unregister", ownClient).Return()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil).WithContext(ctx)
	for k, v := range s.auth {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()

	s.handler.ServeHTTP(rec, req)

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")
	assert.Contains(t, rec.Body.String(), "connected")
}
