package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to the planner and history.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Summary",
		Fields: graphql.Fields{
			"distance": &graphql.Field{Type: graphql.String},
			"duration": &graphql.Field{Type: graphql.String},
			"text":     &graphql.Field{Type: graphql.String},
		},
	})

	outcomeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Outcome",
		Fields: graphql.Fields{
			"cycle_id":     &graphql.Field{Type: graphql.String},
			"seq":          &graphql.Field{Type: graphql.Int},
			"state":        &graphql.Field{Type: graphql.String},
			"failure":      &graphql.Field{Type: graphql.String},
			"message":      &graphql.Field{Type: graphql.String},
			"summary":      &graphql.Field{Type: summaryType},
			"distance_km":  &graphql.Field{Type: graphql.Float},
			"duration_min": &graphql.Field{Type: graphql.Int},
			"start":        &graphql.Field{Type: coordinateType},
			"end":          &graphql.Field{Type: coordinateType},
			"drawn":        &graphql.Field{Type: graphql.Boolean},
			"stale":        &graphql.Field{Type: graphql.Boolean},
		},
	})

	lookupType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Lookup",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"session_id":   &graphql.Field{Type: graphql.String},
			"start_query":  &graphql.Field{Type: graphql.String},
			"end_query":    &graphql.Field{Type: graphql.String},
			"start":        &graphql.Field{Type: coordinateType},
			"end":          &graphql.Field{Type: coordinateType},
			"state":        &graphql.Field{Type: graphql.String},
			"failure":      &graphql.Field{Type: graphql.String},
			"message":      &graphql.Field{Type: graphql.String},
			"distance_m":   &graphql.Field{Type: graphql.Float},
			"duration_s":   &graphql.Field{Type: graphql.Float},
			"geometry":     &graphql.Field{Type: graphql.String},
			"created_at":   &graphql.Field{Type: graphql.DateTime},
			"completed_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	lookupPageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LookupPage",
		Fields: graphql.Fields{
			"items": &graphql.Field{Type: graphql.NewList(lookupType)},
			"total": &graphql.Field{Type: graphql.Int},
		},
	})

	addressInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AddressInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"city":         &graphql.InputObjectFieldConfig{Type: graphql.String, DefaultValue: ""},
			"postal_code":  &graphql.InputObjectFieldConfig{Type: graphql.String, DefaultValue: ""},
			"street":       &graphql.InputObjectFieldConfig{Type: graphql.String, DefaultValue: ""},
			"house_number": &graphql.InputObjectFieldConfig{Type: graphql.String, DefaultValue: ""},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"lookups": &graphql.Field{
				Type:        lookupPageType,
				Description: "Past route lookups, newest first",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultLimit},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					offset := p.Args["offset"].(int)
					limit := p.Args["limit"].(int)
					items, total, err := deps.Lookups.List(p.Context, offset, limit)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{"items": items, "total": total}, nil
				},
			},
			"lookup": &graphql.Field{
				Type:        lookupType,
				Description: "Get a stored lookup by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					l, err := deps.Lookups.GetByID(p.Context, p.Args["id"].(string))
					if errors.Is(err, domain.ErrLookupNotFound) {
						return nil, nil
					}
					return l, err
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"planRoute": &graphql.Field{
				Type:        outcomeType,
				Description: "Geocode two addresses, route between them and draw the route on the session map",
				Args: graphql.FieldConfigArgument{
					"session": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"start":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(addressInput)},
					"end":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(addressInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					session := p.Args["session"].(string)
					if !validSessionID(session) {
						return nil, fmt.Errorf("invalid session id %q", session)
					}
					planner, err := deps.Sessions.Get(p.Context, session)
					if err != nil {
						return nil, err
					}
					out := planner.Submit(p.Context, addressArg(p.Args["start"]), addressArg(p.Args["end"]))
					return outcomeMap(out), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func addressArg(v interface{}) domain.Address {
	m, _ := v.(map[string]interface{})
	str := func(k string) string {
		s, _ := m[k].(string)
		return s
	}
	return domain.Address{
		City:        str("city"),
		PostalCode:  str("postal_code"),
		Street:      str("street"),
		HouseNumber: str("house_number"),
	}
}

// outcomeMap flattens the named string types of an Outcome for graphql-go.
func outcomeMap(o *usecases.Outcome) map[string]interface{} {
	m := map[string]interface{}{
		"cycle_id":     o.CycleID,
		"seq":          int(o.Seq),
		"state":        string(o.State),
		"failure":      string(o.Failure),
		"message":      o.Message,
		"distance_km":  o.DistanceKm,
		"duration_min": o.DurationMin,
		"drawn":        o.Drawn,
		"stale":        o.Stale,
	}
	if o.Summary != nil {
		m["summary"] = o.Summary
	}
	if o.Start != nil {
		m["start"] = o.Start
	}
	if o.End != nil {
		m["end"] = o.End
	}
	return m
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
