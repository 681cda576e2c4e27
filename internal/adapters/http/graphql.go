package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/usecases"
	"github.com/autlan/recolecta/internal/mapview"
	"github.com/autlan/recolecta/internal/pkg/geospatial"
	"github.com/autlan/recolecta/internal/pkg/metrics"
)

// buildSchema creates the read-only GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	// pairType resolves a [lat, lng] pair as {lat, lng}.
	pairType := graphql.NewObject(graphql.ObjectConfig{
		Name: "LatLng",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(geospatial.Pair).Lat(), nil
			}},
			"lng": &graphql.Field{Type: graphql.Float, Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(geospatial.Pair).Lng(), nil
			}},
		},
	})

	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Route",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.String},
			"colonia":            &graphql.Field{Type: graphql.String},
			"horario":            &graphql.Field{Type: graphql.String},
			"dias":               &graphql.Field{Type: graphql.NewList(graphql.String)},
			"tipo":               &graphql.Field{Type: graphql.String},
			"descripcion":        &graphql.Field{Type: graphql.String},
			"color":              &graphql.Field{Type: graphql.String, Resolve: resolveRoute(func(r domain.Route) interface{} { return mapview.ColorFor(r.WasteType) })},
			"ruta":               &graphql.Field{Type: graphql.NewList(pairType), Resolve: resolveRoute(func(r domain.Route) interface{} { return []geospatial.Pair(r.Path) })},
			"puntos_especificos": &graphql.Field{Type: graphql.NewList(geoPointType), Resolve: resolveRoute(func(r domain.Route) interface{} { return []domain.GeoPoint(r.Stops) })},
		},
	})

	neighborhoodType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Neighborhood",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	articleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Article",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"titulo":    &graphql.Field{Type: graphql.String},
			"resumen":   &graphql.Field{Type: graphql.String},
			"contenido": &graphql.Field{Type: graphql.String},
			"autor":     &graphql.Field{Type: graphql.String},
			"categoria": &graphql.Field{Type: graphql.String},
			"imagen":    &graphql.Field{Type: graphql.String},
		},
	})

	articlePageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ArticlePage",
		Fields: graphql.Fields{
			"article": &graphql.Field{Type: articleType},
			"html":    &graphql.Field{Type: graphql.String},
			"related": &graphql.Field{Type: graphql.NewList(articleType)},
		},
	})

	styleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Style",
		Fields: graphql.Fields{
			"color":   &graphql.Field{Type: graphql.String},
			"weight":  &graphql.Field{Type: graphql.Int},
			"opacity": &graphql.Field{Type: graphql.Float},
		},
	})

	polylineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Polyline",
		Fields: graphql.Fields{
			"route_id": &graphql.Field{Type: graphql.String},
			"points":   &graphql.Field{Type: graphql.NewList(pairType)},
			"style":    &graphql.Field{Type: styleType},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Marker",
		Fields: graphql.Fields{
			"route_id": &graphql.Field{Type: graphql.String},
			"position": &graphql.Field{Type: pairType},
			"label":    &graphql.Field{Type: graphql.String},
			"color":    &graphql.Field{Type: graphql.String},
		},
	})

	sceneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapScene",
		Fields: graphql.Fields{
			"polylines": &graphql.Field{Type: graphql.NewList(polylineType)},
			"markers":   &graphql.Field{Type: graphql.NewList(markerType)},
			"selected":  &graphql.Field{Type: graphql.String},
		},
	})

	filterArgs := graphql.FieldConfigArgument{
		"q":       &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
		"colonia": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"routes": &graphql.Field{
				Type:        graphql.NewList(routeType),
				Description: "Collection routes matching a search term and neighborhood",
				Args:        filterArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Routes.List(p.Context, filterFromArgs(p.Args))
				},
			},
			"route": &graphql.Field{
				Type:        routeType,
				Description: "Get a route by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Routes.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"neighborhoods": &graphql.Field{
				Type:        graphql.NewList(neighborhoodType),
				Description: "Neighborhood catalogue",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Neighborhoods.List(p.Context)
				},
			},
			"articles": &graphql.Field{
				Type:        graphql.NewList(articleType),
				Description: "Published articles",
				Args: graphql.FieldConfigArgument{
					"q":         &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"categoria": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Articles.ListPublished(p.Context, usecases.ArticleFilter{
						Query:    p.Args["q"].(string),
						Category: p.Args["categoria"].(string),
					})
				},
			},
			"article": &graphql.Field{
				Type:        articlePageType,
				Description: "A published article with rendered HTML and related reading",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Articles.GetPublished(p.Context, p.Args["id"].(string))
				},
			},
			"mapScene": &graphql.Field{
				Type:        sceneType,
				Description: "Render the filtered routes for the map",
				Args: graphql.FieldConfigArgument{
					"q":        filterArgs["q"],
					"colonia":  filterArgs["colonia"],
					"selected": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					scene, err := deps.Routes.Scene(p.Context, filterFromArgs(p.Args), p.Args["selected"].(string))
					if err != nil {
						return nil, err
					}
					metrics.MapRenders.WithLabelValues("graphql").Inc()
					return scene, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func filterFromArgs(args map[string]interface{}) usecases.RouteFilter {
	q, _ := args["q"].(string)
	colonia, _ := args["colonia"].(string)
	return usecases.RouteFilter{Query: q, Neighborhood: colonia}
}

// resolveRoute adapts a field derived from a route, whether the source is a
// value or a pointer.
func resolveRoute(fn func(domain.Route) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		switch r := p.Source.(type) {
		case domain.Route:
			return fn(r), nil
		case *domain.Route:
			return fn(*r), nil
		}
		return nil, nil
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
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
		if req.Query == "" {
			return errBadRequest(c, "query is required")
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
