package handlers

import (
	"strconv"

	"github.com/dimitrije/squadup/internal/middleware"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// currentUser returns the authenticated caller, writing a 401 when there is none.
func currentUser(c *drift.Context) (uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized(errNotAuthenticated.Error())
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the named route parameter as a uuid, writing a 400 on failure.
func pathID(c *drift.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+label+" id")
		return uuid.Nil, false
	}
	return id, true
}

// page reads the limit and offset query parameters. Missing values are zero
// and left for the service to default.
func page(c *drift.Context) (limit, offset int, ok bool) {
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &limit}, {"offset", &offset}} {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "invalid "+p.name)
			return 0, 0, false
		}
		*p.dst = n
	}
	return limit, offset, true
}
