package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"habitgrid/internal/auth"
	"habitgrid/internal/errors"
	"habitgrid/internal/service"
)

// HabitHandler handles habit CRUD endpoints.
type HabitHandler struct {
	habitService service.HabitService
}

// NewHabitHandler creates a new habit handler.
func NewHabitHandler(habitService service.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

// CreateHabitRequest represents a habit creation request.
type CreateHabitRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"omitempty,len=7,hexcolor"`
}

// UpdateHabitRequest carries the mutable habit fields. Only name and color
// are ever written; unknown body fields are dropped at bind time.
type UpdateHabitRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Color *string `json:"color" validate:"omitempty,len=7,hexcolor"`
}

// List godoc
// @Summary List the caller's habits, newest first
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /habits [get]
func (h *HabitHandler) List(c echo.Context) error {
	user := auth.CurrentUser(c)

	habits, err := h.habitService.List(c.Request().Context(), user.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"habits": habits,
	})
}

// Create godoc
// @Summary Create a habit
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateHabitRequest true "Habit data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /habits [post]
func (h *HabitHandler) Create(c echo.Context) error {
	user := auth.CurrentUser(c)

	var req CreateHabitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	habit, err := h.habitService.Create(c.Request().Context(), user.ID, req.Name, req.Color)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "habit created",
		"habit":   habit,
	})
}

// Update godoc
// @Summary Update a habit's name or color
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param request body UpdateHabitRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /habits/{id} [put]
func (h *HabitHandler) Update(c echo.Context) error {
	user := auth.CurrentUser(c)

	habitID, err := parseHabitID(c)
	if err != nil {
		return err
	}

	var req UpdateHabitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	habit, err := h.habitService.Update(c.Request().Context(), user.ID, habitID, service.HabitUpdate{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "habit updated",
		"habit":   habit,
	})
}

// Delete godoc
// @Summary Delete a habit and all of its tracking records
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /habits/{id} [delete]
func (h *HabitHandler) Delete(c echo.Context) error {
	user := auth.CurrentUser(c)

	habitID, err := parseHabitID(c)
	if err != nil {
		return err
	}

	if err := h.habitService.Delete(c.Request().Context(), user.ID, habitID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "habit deleted",
	})
}

// parseHabitID reads the :id path param. Malformed ids get the same 404 as
// unknown ones so the response never hints at what exists.
func parseHabitID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
			Error: errors.ErrHabitNotFound.Error(),
			Code:  "HABIT_NOT_FOUND",
		})
	}
	return id, nil
}
