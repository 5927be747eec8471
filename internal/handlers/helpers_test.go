package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/squadup/internal/apidoc"
	"github.com/dimitrije/squadup/internal/middleware"
	"github.com/dimitrije/squadup/internal/models"
	"github.com/dimitrije/squadup/pkg/dto"
	"github.com/dimitrije/squadup/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testServer struct {
	users    *testutil.MockUserService
	teams    *testutil.MockTeamService
	requests *testutil.MockRequestService
	feedback *testutil.MockFeedbackService
	hub      *testutil.MockSSEHub
	logs     *observer.ObservedLogs
	api      *API
	handler  http.Handler
	client   *testutil.HTTPTestClient
	caller   uuid.UUID
	auth     map[string]string
}

// newTestServer mounts every API route under /api/v1 the way the server does,
// with mocked services and a caller holding a valid token.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	s := &testServer{
		users:    new(testutil.MockUserService),
		teams:    new(testutil.MockTeamService),
		requests: new(testutil.MockRequestService),
		feedback: new(testutil.MockFeedbackService),
		hub:      new(testutil.MockSSEHub),
		logs:     logs,
		caller:   uuid.New(),
	}
	s.auth = testutil.BearerHeaders(t, s.caller)
	s.api = &API{
		Users:    NewUserHandler(s.users, logger),
		Teams:    NewTeamHandler(s.teams, logger),
		Requests: NewRequestHandler(s.requests, logger),
		Feedback: NewFeedbackHandler(s.feedback, logger),
		Events:   NewSSEHandler(s.hub),
		Docs:     NewDocsHandler(apidoc.Info{Title: "SquadUp", Version: "test"}),
	}

	routes := s.api.Routes()
	require.NoError(t, s.api.Docs.Publish(Endpoints(routes)))

	app := drift.New()
	app.Use(driftmw.BodyParser())
	v1 := app.Group("/api/v1")
	public := v1.Group("")
	protected := v1.Group("")
	protected.Use(middleware.Auth(testutil.TestJWTService()))

	for _, r := range routes {
		group := protected
		if r.Public {
			group = public
		}
		switch r.Method {
		case http.MethodGet:
			group.Get(r.Path, r.Handler)
		case http.MethodPost:
			group.Post(r.Path, r.Handler)
		case http.MethodPatch:
			group.Patch(r.Path, r.Handler)
		case http.MethodDelete:
			group.Delete(r.Path, r.Handler)
		default:
			t.Fatalf("unsupported method %s", r.Method)
		}
	}

	s.handler = app
	s.client = testutil.NewHTTPTestClient(t, app)

	t.Cleanup(func() {
		s.users.AssertExpectations(t)
		s.teams.AssertExpectations(t)
		s.requests.AssertExpectations(t)
		s.feedback.AssertExpectations(t)
		s.hub.AssertExpectations(t)
	})
	return s
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.client.GET("/api/v1"+path, s.auth)
}

func (s *testServer) post(path string, body any) *httptest.ResponseRecorder {
	return s.client.POST("/api/v1"+path, body, s.auth)
}

func (s *testServer) patch(path string, body any) *httptest.ResponseRecorder {
	return s.client.PATCH("/api/v1"+path, body, s.auth)
}

func (s *testServer) delete(path string) *httptest.ResponseRecorder {
	return s.client.DELETE("/api/v1"+path, s.auth)
}

// assertError checks the status and error code of a failed response.
func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) dto.ErrorResponse {
	t.Helper()
	testutil.AssertStatus(t, rec, status)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, code, body.Code)
	return body
}

func sampleUser(name string) *models.User {
	return &models.User{
		ID:               uuid.New(),
		Email:            name + "@example.com",
		Name:             name,
		Platform:         "pc",
		ProfileCompleted: true,
		LookingForTeam:   true,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

func sampleTeam(name string, captainID uuid.UUID) *models.Team {
	return &models.Team{
		ID:        uuid.New(),
		Name:      name,
		Platform:  "pc",
		CaptainID: captainID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func sampleRequest(teamID, playerID uuid.UUID, status models.RequestStatus) *models.MembershipRequest {
	return &models.MembershipRequest{
		ID:        uuid.New(),
		TeamID:    teamID,
		PlayerID:  playerID,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
