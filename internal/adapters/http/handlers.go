package http

import (
	"errors"
	"regexp"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/usecases"
)

// Session ids become part of NATS subjects, so dots and wildcards are out.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func validSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

// planRequest is the body of POST /v1/sessions/:id/routes.
type planRequest struct {
	Start domain.Address `json:"start"`
	End   domain.Address `json:"end"`
}

// PlanRouteHandler runs one planning cycle for the session. Domain failures
// are reported in the outcome with status 200.
func PlanRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !validSessionID(id) {
			return errBadRequest(c, "session id must be 1-64 letters, digits, '-' or '_'")
		}

		var req planRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		ctx := c.UserContext()
		planner, err := deps.Sessions.Get(ctx, id)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		out := planner.Submit(ctx, req.Start, req.End)
		LoggerFromCtx(ctx).Info("route planned",
			"session_id", id,
			"cycle_id", out.CycleID,
			"state", out.State,
			"failure", out.Failure,
		)
		return c.JSON(out)
	}
}

// SessionHandler returns the overlays currently drawn for a session.
func SessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !validSessionID(id) {
			return errBadRequest(c, "invalid session id")
		}
		planner, err := deps.Sessions.Get(c.UserContext(), id)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(fiber.Map{
			"session_id": id,
			"overlays":   planner.Session().Overlays(),
		})
	}
}

// ListLookupsHandler returns the lookup history, newest first.
func ListLookupsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := parsePage(c)
		items, total, err := deps.Lookups.List(c.UserContext(), page.Offset, page.Limit)
		if err != nil {
			return lookupError(c, err)
		}
		page.Total = total
		SetLinkHeaders(c, page)
		return c.JSON(PaginatedResponse{Data: items, Pagination: page})
	}
}

// GetLookupHandler returns one stored lookup.
func GetLookupHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, err := deps.Lookups.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return lookupError(c, err)
		}
		return c.JSON(l)
	}
}

// LookupGeoJSONHandler returns a stored lookup as a GeoJSON FeatureCollection.
func LookupGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := deps.Lookups.GeoJSON(c.UserContext(), c.Params("id"))
		if err != nil {
			return lookupError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(data)
	}
}

func lookupError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrLookupNotFound):
		return errNotFound(c, "lookup not found")
	case errors.Is(err, usecases.ErrHistoryDisabled):
		return errUnavailable(c, "lookup history is disabled")
	case errors.Is(err, domain.ErrDecode):
		return errInternal(c, "stored geometry is corrupt")
	default:
		LoggerFromCtx(c.UserContext()).Error("lookup query failed", "error", err)
		return errInternal(c, "failed to load lookups")
	}
}
