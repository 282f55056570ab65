package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"incubator/internal/model"
	"incubator/internal/service"
)

const maxDescriptionLength = 100

// EventHandler handles event endpoints.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// EventRequest is the body of create and update calls.
type EventRequest struct {
	Description string `json:"description" validate:"required,max=100"`
}

// TodoRequest is the body of a todo creation.
type TodoRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"max=100"`
}

// EventEnvelope wraps a single event.
type EventEnvelope struct {
	Event *model.Event `json:"event"`
}

// EventListResponse wraps the event list.
type EventListResponse struct {
	Events []model.Event `json:"events"`
}

// TodoListResponse is the todo listing of the logged in user.
type TodoListResponse struct {
	Email  string        `json:"email"`
	Events []model.Event `json:"events"`
}

// TodoResponse is returned when a todo is created.
type TodoResponse struct {
	Email string       `json:"email"`
	Event *model.Event `json:"event"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Param request body EventRequest true "Event"
// @Success 201 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	event, err := h.eventService.Create(c.Request().Context(), req.Description)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, event)
}

// List godoc
// @Summary List events ordered by id
// @Tags events
// @Produce json
// @Success 200 {object} EventListResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.eventService.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, EventListResponse{Events: events})
}

// Get godoc
// @Summary Get event by id
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} EventEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	event, err := h.eventService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, EventEnvelope{Event: event})
}

// Update godoc
// @Summary Replace an event description
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body EventRequest true "Event"
// @Success 200 {object} EventEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	event, err := h.eventService.Update(c.Request().Context(), id, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, EventEnvelope{Event: event})
}

// Delete godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	if err := h.eventService.Delete(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Event (event_id: %d) deleted", id)})
}

// ListTodos godoc
// @Summary List todos of the logged in user
// @Tags todo
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TodoListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /v1/todo [get]
func (h *EventHandler) ListTodos(c echo.Context, user *model.User) error {
	events, err := h.eventService.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, TodoListResponse{Email: user.Email, Events: events})
}

// CreateTodo godoc
// @Summary Create a todo
// @Description The todo is stored as an event whose description joins name and description.
// @Tags todo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TodoRequest true "Todo"
// @Success 201 {object} TodoResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /v1/todo [post]
func (h *EventHandler) CreateTodo(c echo.Context, user *model.User) error {
	var req TodoRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	description := req.Name
	if req.Description != "" {
		description = req.Name + ": " + req.Description
	}
	description = truncate(description, maxDescriptionLength)

	event, err := h.eventService.Create(c.Request().Context(), description)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, TodoResponse{Email: user.Email, Event: event})
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func eventID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, badRequest("invalid id")
	}
	return uint(id), nil
}
