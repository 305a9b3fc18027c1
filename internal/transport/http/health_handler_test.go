package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexico1969/project-stem-grader/pkg/contracts"
)

func TestHealthCheck(t *testing.T) {
	handler := NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string                `json:"status"`
		Version string                `json:"version"`
		Uptime  string                `json:"uptime"`
		Build   contracts.VersionInfo `json:"build"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, contracts.Version, body.Version)
	assert.NotEmpty(t, body.Uptime)
	assert.Equal(t, contracts.APIVersion, body.Build.APIVersion)
	assert.Equal(t, runtime.Version(), body.Build.GoVersion)
	assert.Equal(t, runtime.GOOS, body.Build.OS)
}
