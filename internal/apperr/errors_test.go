package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{Invalid("resumeData", "is required"), http.StatusBadRequest},
		{&AuthError{}, http.StatusUnauthorized},
		{&NotFoundError{Resource: "resume", ID: "x"}, http.StatusNotFound},
		{&ConflictError{ID: "x", Expected: 1, Actual: 2}, http.StatusConflict},
		{Upstream("gemini", errors.New("boom")), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", &NotFoundError{Resource: "resume", ID: "y"}), http.StatusNotFound},
		{errors.New("mongo down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), "err=%v", tc.err)
	}
}

func TestPublicMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "Unauthorized", PublicMessage(&AuthError{Reason: "bad sig"}, "x"))
	assert.Equal(t, "generic", PublicMessage(errors.New("dial tcp 10.0.0.1:27017: refused"), "generic"))
	assert.Equal(t, "generic", PublicMessage(Upstream("gemini", errors.New("quota body")), "generic"))
	assert.Equal(t, "resumeData: is required", PublicMessage(Invalid("resumeData", "is required"), "generic"))
}

func TestUpstreamDoesNotDoubleWrap(t *testing.T) {
	inner := errors.New("timeout")
	e1 := Upstream("gemini", inner)
	e2 := Upstream("pdf", e1)
	assert.Same(t, e1, e2)
	assert.ErrorIs(t, e2, inner)
}
