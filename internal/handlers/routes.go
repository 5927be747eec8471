package handlers

import (
	"net/http"

	"github.com/dimitrije/squadup/internal/apidoc"
	"github.com/m1z23r/drift/pkg/drift"
)

// Route pairs a handler with the description published in the API document.
type Route struct {
	apidoc.Endpoint
	Handler drift.HandlerFunc
}

// API groups the handlers served under /api/v1.
type API struct {
	Users    *UserHandler
	Teams    *TeamHandler
	Requests *RequestHandler
	Feedback *FeedbackHandler
	Events   *SSEHandler
	Docs     *DocsHandler
}

func route(method, path, tag, summary string, handler drift.HandlerFunc, opts ...func(*apidoc.Endpoint)) Route {
	r := Route{
		Endpoint: apidoc.Endpoint{Method: method, Path: path, Tag: tag, Summary: summary},
		Handler:  handler,
	}
	for _, opt := range opts {
		opt(&r.Endpoint)
	}
	return r
}

func withBody(e *apidoc.Endpoint) { e.Body = true }
func created(e *apidoc.Endpoint) { e.Status = http.StatusCreated }
func public(e *apidoc.Endpoint) { e.Public = true }
func paged(e *apidoc.Endpoint) { e.Query = append(e.Query, "limit", "offset") }
func targeted(e *apidoc.Endpoint) { e.Query = append(e.Query, "target_type", "target_id") }
func query(names ...string) func(*apidoc.Endpoint) {
	return func(e *apidoc.Endpoint) { e.Query = append(e.Query, names...) }
}

// Routes lists every route in registration order.
func (a *API) Routes() []Route {
	return []Route{
		route(http.MethodGet, "/health", "system", "Health check", Health, public),
		route(http.MethodGet, "/openapi.json", "system", "API description (JSON)", a.Docs.JSON, public),
		route(http.MethodGet, "/openapi.yaml", "system", "API description (YAML)", a.Docs.YAML, public),

		route(http.MethodGet, "/users/me", "users", "Get own profile", a.Users.GetMe),
		route(http.MethodPatch, "/users/me", "users", "Update own profile", a.Users.UpdateMe, withBody),
		route(http.MethodGet, "/players/:id", "users", "Get a player profile", a.Users.Get),
		route(http.MethodGet, "/players", "users", "Search players", a.Users.SearchPlayers,
			query("name", "platform", "looking_for_team"), paged),

		route(http.MethodPost, "/teams", "teams", "Create a team", a.Teams.Create, withBody, created),
		route(http.MethodGet, "/teams", "teams", "Search teams", a.Teams.Search, query("name", "platform"), paged),
		route(http.MethodGet, "/teams/:id", "teams", "Get a team", a.Teams.Get),
		route(http.MethodPatch, "/teams/:id", "teams", "Update team details", a.Teams.Update, withBody),
		route(http.MethodDelete, "/teams/:id", "teams", "Delete a team", a.Teams.Delete),
		route(http.MethodGet, "/teams/:id/members", "teams", "List team members", a.Teams.GetMembers),
		route(http.MethodPost, "/teams/:id/members", "teams", "Add a member", a.Teams.AddMember, withBody, created),
		route(http.MethodDelete, "/teams/:id/members/:memberId", "teams", "Remove a member", a.Teams.RemoveMember),
		route(http.MethodPost, "/teams/:id/leave", "teams", "Leave a team", a.Teams.Leave),
		route(http.MethodPost, "/teams/:id/vice-captain", "teams", "Appoint the vice-captain", a.Teams.SetViceCaptain, withBody),
		route(http.MethodDelete, "/teams/:id/vice-captain", "teams", "Clear the vice-captain", a.Teams.ClearViceCaptain),
		route(http.MethodPost, "/teams/:id/captain", "teams", "Transfer captaincy", a.Teams.TransferCaptaincy, withBody),

		route(http.MethodGet, "/teams/:id/requests", "requests", "List pending join requests", a.Requests.ListForTeam),
		route(http.MethodPost, "/teams/:id/requests", "requests", "Request to join a team", a.Requests.Create, withBody, created),
		route(http.MethodGet, "/requests", "requests", "List own join requests", a.Requests.ListMine),
		route(http.MethodPost, "/requests/:id/approve", "requests", "Approve a join request", a.Requests.Approve),
		route(http.MethodPost, "/requests/:id/reject", "requests", "Reject a join request", a.Requests.Reject),
		route(http.MethodPost, "/requests/:id/cancel", "requests", "Cancel own join request", a.Requests.Cancel),

		route(http.MethodPost, "/feedback", "feedback", "Rate a player or team", a.Feedback.Submit, withBody, created),
		route(http.MethodGet, "/feedback", "feedback", "List feedback for a target", a.Feedback.List, targeted),
		route(http.MethodGet, "/feedback/mine", "feedback", "List feedback written by the caller", a.Feedback.ListMine),
		route(http.MethodGet, "/feedback/stats", "feedback", "Rating breakdown for a target", a.Feedback.Stats, targeted),
		route(http.MethodDelete, "/feedback/:id", "feedback", "Delete own feedback", a.Feedback.Delete),

		route(http.MethodGet, "/events", "events", "Stream notifications", a.Events.Connect),
		route(http.MethodGet, "/events/status", "events", "Whether the caller has an open stream", a.Events.Status),
	}
}

func Endpoints(routes []Route) []apidoc.Endpoint {
	out := make([]apidoc.Endpoint, len(routes))
	for i, r := range routes {
		out[i] = r.Endpoint
	}
	return out
}

func Health(c *drift.Context) {
	_ = c.JSON(200, map[string]string{"status": "ok"})
}
