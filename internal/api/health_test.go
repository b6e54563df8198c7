package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckHealth(t *testing.T) {
	h := NewHealthHandler()

	BindServiceHealth(func() bool { return false })
	rec := httptest.NewRecorder()
	h.CheckHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "unhealthy", body["status"])

	BindServiceHealth(func() bool { return true })
	rec = httptest.NewRecorder()
	h.CheckHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
}
