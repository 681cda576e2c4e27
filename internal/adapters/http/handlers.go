package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/usecases"
	"github.com/autlan/recolecta/internal/mapview"
	"github.com/autlan/recolecta/internal/pkg/metrics"
)

const maxQueryLen = 200

// routeFilter reads the q and colonia query parameters.
func routeFilter(c *fiber.Ctx) (usecases.RouteFilter, error) {
	f := usecases.RouteFilter{Query: c.Query("q"), Neighborhood: c.Query("colonia")}
	v := &domain.ValidationError{}
	if len(f.Query) > maxQueryLen {
		v.Add("q", "too long (max 200 characters)")
	}
	if len(f.Neighborhood) > maxQueryLen {
		v.Add("colonia", "too long (max 200 characters)")
	}
	return f, v.Err()
}

// ListRoutesHandler returns route summaries matching the search filters.
func ListRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := routeFilter(c)
		if err != nil {
			return writeError(c, err)
		}
		routes, err := deps.Routes.ListSummaries(c.UserContext(), f)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(paginate(c, routes))
	}
}

// GetRouteHandler returns a single route with its decoded geometry.
func GetRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, err := deps.Routes.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(route)
	}
}

// RouteNeighborhoodsHandler lists the neighborhoods that have routes, for
// the search filter dropdown.
func RouteNeighborhoodsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		names, err := deps.Routes.Neighborhoods(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		if names == nil {
			names = []string{}
		}
		return c.JSON(names)
	}
}

// ListNeighborhoodsHandler returns the neighborhood catalogue.
func ListNeighborhoodsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := deps.Neighborhoods.List(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(paginate(c, items))
	}
}

// MapSceneHandler renders the filtered routes for the interactive map.
func MapSceneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := routeFilter(c)
		if err != nil {
			return writeError(c, err)
		}
		scene, err := deps.Routes.Scene(c.UserContext(), f, c.Query("selected"))
		if err != nil {
			return writeError(c, err)
		}
		metrics.MapRenders.WithLabelValues("rest").Inc()
		return c.JSON(scene)
	}
}

// MapGeoJSONHandler exports the filtered scene as a GeoJSON FeatureCollection.
func MapGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := routeFilter(c)
		if err != nil {
			return writeError(c, err)
		}
		scene, err := deps.Routes.Scene(c.UserContext(), f, c.Query("selected"))
		if err != nil {
			return writeError(c, err)
		}
		metrics.MapRenders.WithLabelValues("geojson").Inc()
		return c.JSON(mapview.FeatureCollection(scene), "application/geo+json")
	}
}

// ListArticlesHandler returns published articles, optionally filtered by
// category and a search term.
func ListArticlesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := usecases.ArticleFilter{Query: c.Query("q"), Category: c.Query("categoria")}
		if len(f.Query) > maxQueryLen {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		articles, err := deps.Articles.ListPublished(c.UserContext(), f)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(paginate(c, articles))
	}
}

// ArticleCategoriesHandler lists categories of published articles.
func ArticleCategoriesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := deps.Articles.Categories(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		if cats == nil {
			cats = []string{}
		}
		return c.JSON(cats)
	}
}

// GetArticleHandler returns a published article with its rendered body and
// related reading.
func GetArticleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := deps.Articles.GetPublished(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(page)
	}
}

// ContactHandler accepts a citizen contact request.
func ContactHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req domain.ContactRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		req.ID, req.Status, req.CreatedAt = "", "", time.Time{}

		if err := deps.Contact.Submit(c.UserContext(), &req); err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"id":     req.ID,
			"estado": req.Status,
		})
	}
}

// ContactOptionsHandler lists the accepted subjects and departments.
func ContactOptionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"asuntos":       domain.ContactSubjects,
			"departamentos": domain.ContactDepartments,
		})
	}
}
