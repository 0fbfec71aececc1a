package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/zibilo/table-top-orders/internal/apperr"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

// domainError maps the error taxonomy onto HTTP statuses. Unknown errors
// become 500 without leaking internals.
func domainError(c echo.Context, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return errorResponse(c, http.StatusNotFound, err)
	case apperr.KindValidation:
		return errorResponse(c, http.StatusBadRequest, err)
	case apperr.KindInvalidTransition:
		return errorResponse(c, http.StatusConflict, err)
	case apperr.KindSubmission, apperr.KindConnectivity:
		return errorResponse(c, http.StatusInternalServerError, err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
