package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/campus-social/backend/internal/middleware"
	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

var log = logrus.WithField("layer", "handlers")

var statusByCode = map[appErrors.Code]int{
	appErrors.CodeInvalidArgument:    http.StatusBadRequest,
	appErrors.CodeUnauthenticated:    http.StatusUnauthorized,
	appErrors.CodePermissionDenied:   http.StatusForbidden,
	appErrors.CodeNotFound:           http.StatusNotFound,
	appErrors.CodeAlreadyExists:      http.StatusConflict,
	appErrors.CodeFailedPrecondition: http.StatusConflict,
	appErrors.CodeUnavailable:        http.StatusServiceUnavailable,
}

// httpError converts a service error into an echo.HTTPError that names the
// failed precondition.
func httpError(err error) error {
	code := appErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	return echo.NewHTTPError(status, echo.Map{
		"success": false,
		"code":    code,
		"message": appErrors.MessageOf(err),
	})
}

func getUserIDFromContext(c echo.Context) uint {
	return middleware.UserID(c)
}

func requireUser(c echo.Context) (uint, error) {
	id := getUserIDFromContext(c)
	if id == 0 {
		return 0, httpError(appErrors.ErrUnauthenticated)
	}
	return id, nil
}

// parseID reads a positive numeric path parameter
func parseID(c echo.Context, param, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+what)
	}
	return uint(id), nil
}

func queryInt(c echo.Context, name string) int {
	v, _ := strconv.Atoi(c.QueryParam(name))
	return v
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func paginationMeta(page, limit int, total int64) echo.Map {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      total,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}
