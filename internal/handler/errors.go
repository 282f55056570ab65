package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "incubator/internal/errors"
)

// fail converts a service error into the JSON error response.
func fail(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Message: message,
		Code:    "INVALID_REQUEST",
	})
}
