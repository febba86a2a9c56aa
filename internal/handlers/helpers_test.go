package handlers

import (
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/anonto42/campus-social/backend/pkg/errors"
)

func TestHTTPError(t *testing.T) {
	tt := []struct {
		name   string
		err    error
		status int
		code   appErrors.Code
	}{
		{"validation", appErrors.ErrEmptyContent, http.StatusBadRequest, appErrors.CodeInvalidArgument},
		{"unauthenticated", appErrors.ErrUnauthenticated, http.StatusUnauthorized, appErrors.CodeUnauthenticated},
		{"forbidden", appErrors.ErrNotPostOwner, http.StatusForbidden, appErrors.CodePermissionDenied},
		{"not found", pkgerrors.Wrap(appErrors.ErrPostNotFound, "postRepo.LockPost"), http.StatusNotFound, appErrors.CodeNotFound},
		{"already voted", appErrors.ErrAlreadyVoted, http.StatusConflict, appErrors.CodeAlreadyExists},
		{"not voted", appErrors.ErrNotVoted, http.StatusConflict, appErrors.CodeFailedPrecondition},
		{"store busy", appErrors.ErrStoreBusy(&pgconn.PgError{Code: "40001"}), http.StatusServiceUnavailable, appErrors.CodeUnavailable},
		{"driver error", pkgerrors.New("connection reset"), http.StatusInternalServerError, appErrors.CodeInternal},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			he, ok := httpError(tc.err).(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, tc.status, he.Code)

			body, ok := he.Message.(echo.Map)
			require.True(t, ok)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.code, body["code"])
		})
	}
}
