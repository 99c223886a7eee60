package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Internal(errors.New("db down"), "failed"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("plan not found")), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.err), tc.err.Error())
	}
}

func TestPublicMessage_HidesCause(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"), "failed to fetch plan")

	assert.Equal(t, "failed to fetch plan", PublicMessage(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "internal server error", PublicMessage(errors.New("boom")))
}
