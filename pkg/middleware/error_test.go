package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cloverErrors "github.com/Ramsey-B/clover/pkg/errors"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func invokeErrorHandler(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	Error(testLogger())(err, c)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestErrorHandler(t *testing.T) {
	t.Run("merge conflict maps to 409 with conflicting keys", func(t *testing.T) {
		code, resp := invokeErrorHandler(t, cloverErrors.NewMergeConflict([]string{"last_name", "gender"}))
		assert.Equal(t, http.StatusConflict, code)
		assert.Contains(t, resp.Message, "gender")
		require.Contains(t, resp.Meta, "conflicting_fields")
		assert.ElementsMatch(t, []any{"gender", "last_name"}, resp.Meta["conflicting_fields"])
	})

	t.Run("retryable merge maps to 503", func(t *testing.T) {
		code, resp := invokeErrorHandler(t, cloverErrors.NewRetryableMerge(errors.New("store down")))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Contains(t, resp.Message, "retry is safe")
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		code, resp := invokeErrorHandler(t, cloverErrors.NewNotFound("member", "m1"))
		assert.Equal(t, http.StatusNotFound, code)
		assert.Contains(t, resp.Message, "member m1 not found")
	})

	t.Run("transport failure maps to 502", func(t *testing.T) {
		code, _ := invokeErrorHandler(t, cloverErrors.NewTransport("GET /members/m1", errors.New("connection refused")))
		assert.Equal(t, http.StatusBadGateway, code)
	})

	t.Run("validation maps to 400 with field meta", func(t *testing.T) {
		code, resp := invokeErrorHandler(t, cloverErrors.NewValidation("birthday", "not-a-date", "unparseable date"))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "birthday", resp.Meta["field"])
	})

	t.Run("wrapped domain errors are still mapped", func(t *testing.T) {
		wrapped := fmt.Errorf("merge failed: %w", cloverErrors.NewMergeConflict([]string{"couple"}))
		code, _ := invokeErrorHandler(t, wrapped)
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("echo errors pass through", func(t *testing.T) {
		code, resp := invokeErrorHandler(t, echo.NewHTTPError(http.StatusUnauthorized, "missing bearer"))
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "missing bearer", resp.Message)
	})

	t.Run("unknown errors become 500", func(t *testing.T) {
		code, resp := invokeErrorHandler(t, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Internal Server Error", resp.Message)
	})
}
