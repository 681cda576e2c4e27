package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/usecases"
)

// resource binds the CRUD operations of one admin collection.
type resource[T any] struct {
	list   func(c *fiber.Ctx) ([]T, error)
	get    func(ctx context.Context, id string) (*T, error)
	create func(ctx context.Context, v *T) error
	update func(ctx context.Context, v *T) error
	delete func(ctx context.Context, id string) error
	setID  func(v *T, id string)
}

// mount registers list/get/create/update/delete under path.
func (r resource[T]) mount(g fiber.Router, path string) {
	g.Get(path, func(c *fiber.Ctx) error {
		items, err := r.list(c)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(paginate(c, items))
	})

	g.Get(path+"/:id", func(c *fiber.Ctx) error {
		v, err := r.get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(v)
	})

	g.Post(path, func(c *fiber.Ctx) error {
		v := new(T)
		if err := c.BodyParser(v); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		r.setID(v, "")
		if err := r.create(c.UserContext(), v); err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(v)
	})

	g.Put(path+"/:id", func(c *fiber.Ctx) error {
		v := new(T)
		if err := c.BodyParser(v); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		r.setID(v, c.Params("id"))
		if err := r.update(c.UserContext(), v); err != nil {
			return writeError(c, err)
		}
		return c.JSON(v)
	})

	g.Delete(path+"/:id", func(c *fiber.Ctx) error {
		if err := r.delete(c.UserContext(), c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// SetupAdminRoutes registers the back-office collections on an already
// authenticated and authorised group.
func SetupAdminRoutes(g fiber.Router, deps *Dependencies) {
	resource[domain.Route]{
		list: func(c *fiber.Ctx) ([]domain.Route, error) {
			return deps.Routes.List(c.UserContext(), usecases.RouteFilter{
				Query:        c.Query("q"),
				Neighborhood: c.Query("colonia"),
			})
		},
		get:    deps.Routes.GetByID,
		create: deps.Routes.Create,
		update: deps.Routes.Update,
		delete: deps.Routes.Delete,
		setID:  func(v *domain.Route, id string) { v.ID = id },
	}.mount(g, "/routes")

	resource[domain.Neighborhood]{
		list: func(c *fiber.Ctx) ([]domain.Neighborhood, error) {
			return deps.Neighborhoods.List(c.UserContext())
		},
		get:    deps.Neighborhoods.GetByID,
		create: deps.Neighborhoods.Create,
		update: deps.Neighborhoods.Update,
		delete: deps.Neighborhoods.Delete,
		setID:  func(v *domain.Neighborhood, id string) { v.ID = id },
	}.mount(g, "/neighborhoods")

	resource[domain.Truck]{
		list: func(c *fiber.Ctx) ([]domain.Truck, error) {
			return deps.Trucks.List(c.UserContext(), domain.TruckStatus(c.Query("estado")))
		},
		get:    deps.Trucks.GetByID,
		create: deps.Trucks.Create,
		update: deps.Trucks.Update,
		delete: deps.Trucks.Delete,
		setID:  func(v *domain.Truck, id string) { v.ID = id },
	}.mount(g, "/trucks")

	resource[domain.Driver]{
		list: func(c *fiber.Ctx) ([]domain.Driver, error) {
			return deps.Drivers.List(c.UserContext(), domain.DriverStatus(c.Query("estado")))
		},
		get:    deps.Drivers.GetByID,
		create: deps.Drivers.Create,
		update: deps.Drivers.Update,
		delete: deps.Drivers.Delete,
		setID:  func(v *domain.Driver, id string) { v.ID = id },
	}.mount(g, "/drivers")

	resource[domain.Assignment]{
		list: func(c *fiber.Ctx) ([]domain.Assignment, error) {
			return deps.Assignments.List(c.UserContext())
		},
		get:    deps.Assignments.GetByID,
		create: deps.Assignments.Create,
		update: deps.Assignments.Update,
		delete: deps.Assignments.Delete,
		setID:  func(v *domain.Assignment, id string) { v.ID = id },
	}.mount(g, "/assignments")

	resource[domain.Article]{
		list: func(c *fiber.Ctx) ([]domain.Article, error) {
			return deps.Articles.List(c.UserContext())
		},
		get:    deps.Articles.GetByID,
		create: deps.Articles.Create,
		update: deps.Articles.Update,
		delete: deps.Articles.Delete,
		setID:  func(v *domain.Article, id string) { v.ID = id },
	}.mount(g, "/articles")

	g.Get("/roles", ListRolesHandler(deps))
	g.Post("/roles", AssignRoleHandler(deps))
	g.Delete("/roles/:id", RevokeRoleHandler(deps))

	g.Get("/contact", ListContactRequestsHandler(deps))
}

// ListRolesHandler returns every role grant with its profile.
func ListRolesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		grants, err := deps.Roles.List(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(paginate(c, grants))
	}
}

type assignRoleRequest struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// AssignRoleHandler grants a role to the user registered under an email.
func AssignRoleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req assignRoleRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		grant, err := deps.Roles.AssignByEmail(c.UserContext(), req.Email, req.Role)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(grant)
	}
}

// RevokeRoleHandler removes a role grant.
func RevokeRoleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Roles.Revoke(c.UserContext(), c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListContactRequestsHandler returns received contact requests, newest first.
func ListContactRequestsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqs, err := deps.Contact.List(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(paginate(c, reqs))
	}
}
