package respond

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"craftmyprep-backend/apperrors"
	"craftmyprep-backend/logger"
)

func init() { gin.SetMode(gin.TestMode) }

func TestError_MapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{apperrors.NotFound("plan not found"), http.StatusNotFound, `{"error":"plan not found"}`},
		{apperrors.Forbidden("forbidden"), http.StatusForbidden, `{"error":"forbidden"}`},
		{apperrors.Internal(errors.New("pq: connection refused"), "failed to load plans"), http.StatusInternalServerError, `{"error":"failed to load plans"}`},
		{errors.New("raw driver error"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Error(c, logger.NewNop(), tc.err)

		assert.Equal(t, tc.status, w.Code)
		assert.JSONEq(t, tc.body, w.Body.String())
	}
}

func TestIDParam(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "planId", Value: raw}}

		_, ok := IDParam(c, "planId")

		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, ok := IDParam(c, "id")
	assert.True(t, ok)
	assert.EqualValues(t, 12, id)
}
