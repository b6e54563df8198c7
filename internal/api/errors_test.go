package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusbeat/campusbeat/internal/model"
)

func TestWriteDomainError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{model.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", model.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: bad title", model.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: not your page", model.ErrForbidden), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeDomainError(rec, tc.err)
		require.Equal(t, tc.code, rec.Code, "error %v", tc.err)
		require.Contains(t, rec.Body.String(), `"code":`)
	}
}
