package user

import (
	"github.com/Muhammadsajid2/nest-rest-api/pkg/controller"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/pagination"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
)

// Handler exposes account use cases over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds the user HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public auth endpoints and the protected user
// endpoints. The list route parses pagination parameters before the handler.
func (h *Handler) RegisterRoutes(public, protected router.Router, paginationCfg pagination.Config) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)

	protected.GET("/users", h.List, pagination.Middleware(paginationCfg))
	protected.GET("/users/:id", h.Get)
	protected.PATCH("/users/:id", h.Update)
	protected.DELETE("/users/:id", h.Delete)
}

func (h *Handler) Register(c router.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return controller.Error(c, controller.NewValidationError(err.Error()))
	}
	created, err := h.service.Register(c.Request().Context(), in)
	if err != nil {
		return controller.Error(c, err)
	}
	return controller.Created(c, created)
}

func (h *Handler) Login(c router.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return controller.Error(c, controller.NewValidationError(err.Error()))
	}
	result, err := h.service.Login(c.Request().Context(), in)
	if err != nil {
		return controller.Error(c, err)
	}
	return controller.Success(c, result)
}

func (h *Handler) Get(c router.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return controller.Error(c, err)
	}
	account, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return controller.Error(c, err)
	}
	return controller.Success(c, account)
}

func (h *Handler) List(c router.Context) error {
	params := pagination.FromContext(c.Request().Context())
	page, err := h.service.List(c.Request().Context(), params)
	if err != nil {
		return controller.Error(c, err)
	}
	return controller.Success(c, page)
}

func (h *Handler) Update(c router.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return controller.Error(c, err)
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return controller.Error(c, controller.NewValidationError(err.Error()))
	}
	updated, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return controller.Error(c, err)
	}
	return controller.Success(c, updated)
}

func (h *Handler) Delete(c router.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return controller.Error(c, err)
	}
	deleted, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		return controller.Error(c, err)
	}
	if !deleted {
		return controller.Error(c, controller.NewNotFoundError("user "+id.Hex()))
	}
	return controller.NoContent(c)
}
