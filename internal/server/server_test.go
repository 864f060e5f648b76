package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

type stubGateway struct {
	connected bool
}

func (s stubGateway) Connected() bool { return s.connected }

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	handleHealthz()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz_AllHealthy(t *testing.T) {
	rec := httptest.NewRecorder()
	handleReadyz(stubPinger{}, stubGateway{connected: true})(rec,
		httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz_DatabaseDown(t *testing.T) {
	rec := httptest.NewRecorder()
	handleReadyz(stubPinger{err: errors.New("no reachable servers")}, stubGateway{connected: true})(rec,
		httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database unreachable")
}

func TestReadyz_GatewayDown(t *testing.T) {
	rec := httptest.NewRecorder()
	handleReadyz(stubPinger{}, stubGateway{connected: false})(rec,
		httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "gateway disconnected")
}
