package task

import (
	"github.com/Muhammadsajid2/nest-rest-api/pkg/controller"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/pagination"
	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
)

// Handler exposes task use cases over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds the task HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the task endpoints on a protected route group. The
// list route parses pagination parameters before the handler.
func (h *Handler) RegisterRoutes(r router.Router, paginationCfg pagination.Config) {
	r.POST("/tasks", h.Create)
	r.GET("/tasks", h.List, pagination.Middleware(paginationCfg))
	r.GET("/tasks/search", h.Search)
	r.GET("/tasks/statuses", h.Statuses)
	r.GET("/tasks/:id", h.Get)
	r.PATCH("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
}

func (h *Handler) Create(c router.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return controller.Error(c, controller.NewValidationError(err.Error()))
	}
	created, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return controller.Error(c, err)
	}
	return controller.Created(c, created)
}

func (h *Handler) Get(c router.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return controller.Error(c, err)
	}

	populate := c.Query("populate")
	populateSelect := c.Query("populateSelect")

	// With populate the joined document shape no longer fits the entity, so
	// the lean read returns the raw document instead.
	if populate != "" {
		doc, err := h.service.GetLean(c.Request().Context(), id, populate, populateSelect)
		if err != nil {
			return controller.Error(c, err)
		}
		return controller.Success(c, doc)
	}

	task, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return controller.Error(c, err)
	}
	return controller.Success(c, task)
}

func (h *Handler) List(c router.Context) error {
	params := pagination.FromContext(c.Request().Context())
	page, err := h.service.List(c.Request().Context(), params)
	if err != nil {
		return controller.Error(c, err)
	}
	return controller.Success(c, page)
}

func (h *Handler) Search(c router.Context) error {
	tasks, err := h.service.Search(c.Request().Context(), c.Query("q"))
	if err != nil {
		return controller.Error(c, err)
	}
	return controller.Success(c, tasks)
}

func (h *Handler) Statuses(c router.Context) error {
	statuses, err := h.service.Statuses(c.Request().Context())
	if err != nil {
		return controller.Error(c, err)
	}
	return controller.Success(c, statuses)
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
		return controller.Error(c, controller.NewNotFoundError("task "+id.Hex()))
	}
	return controller.NoContent(c)
}
