package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"habitgrid/internal/auth"
	"habitgrid/internal/errors"
	"habitgrid/internal/service"
)

// TrackingHandler handles day-tracking endpoints.
type TrackingHandler struct {
	trackingService service.TrackingService
}

// NewTrackingHandler creates a new tracking handler.
func NewTrackingHandler(trackingService service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// TrackRequest represents a day-tracking request.
type TrackRequest struct {
	Date string `json:"date" validate:"required"`
}

// Track godoc
// @Summary Record a completion for a day (increments the day's counter)
// @Tags tracking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param request body TrackRequest true "Date to track (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /habits/{id}/track [post]
func (h *TrackingHandler) Track(c echo.Context) error {
	user := auth.CurrentUser(c)

	habitID, err := parseHabitID(c)
	if err != nil {
		return err
	}

	var req TrackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.trackingService.Track(c.Request().Context(), user.ID, habitID, req.Date)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "day tracked",
		"record":  record,
	})
}

// GetYear godoc
// @Summary Get a habit's tracking records for one calendar year
// @Tags tracking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param year query int false "Calendar year (defaults to current)"
// @Success 200 {object} service.YearView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /habits/{id}/track [get]
func (h *TrackingHandler) GetYear(c echo.Context) error {
	user := auth.CurrentUser(c)

	habitID, err := parseHabitID(c)
	if err != nil {
		return err
	}

	year, err := parseYear(c)
	if err != nil {
		return err
	}

	view, err := h.trackingService.GetYear(c.Request().Context(), user.ID, habitID, year)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, view)
}

// GetStats godoc
// @Summary Get a habit's derived stats (streaks, totals, completion rate)
// @Tags tracking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param year query int false "Calendar year (defaults to current)"
// @Success 200 {object} service.HabitStats
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /habits/{id}/stats [get]
func (h *TrackingHandler) GetStats(c echo.Context) error {
	user := auth.CurrentUser(c)

	habitID, err := parseHabitID(c)
	if err != nil {
		return err
	}

	year, err := parseYear(c)
	if err != nil {
		return err
	}

	stats, err := h.trackingService.GetStats(c.Request().Context(), user.ID, habitID, year)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, stats)
}

// parseYear reads an optional ?year= query param; zero means current year.
func parseYear(c echo.Context) (int, error) {
	raw := c.QueryParam("year")
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: errors.ErrInvalidYear.Error(),
			Code:  "INVALID_YEAR",
		})
	}
	return year, nil
}
