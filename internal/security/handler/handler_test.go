package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vulnshop/internal/security"
	"vulnshop/pkg/testutil"
)

func newTestRouter(t *testing.T) (*chi.Mux, *security.Controller) {
	t.Helper()
	controller := security.NewController(security.ModeVulnerable, security.NewAuditLog(), nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(controller, logger).Register(r)
	return r, controller
}

func TestHandleGetMode(t *testing.T) {
	r, _ := newTestRouter(t)

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/security/mode"))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[modeResponse](t, rr)
	assert.Equal(t, security.ModeVulnerable, resp.Mode)
}

func TestHandleToggleMode(t *testing.T) {
	r, controller := newTestRouter(t)

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, "/security/mode/toggle"))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[modeResponse](t, rr)
	assert.Equal(t, security.ModeSecure, resp.Mode)
	assert.Equal(t, security.ModeSecure, controller.Mode())

	// Toggling again restores the original mode.
	rr = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, "/security/mode/toggle"))
	resp = testutil.UnmarshalResponse[modeResponse](t, rr)
	assert.Equal(t, security.ModeVulnerable, resp.Mode)
}

func TestHandleGetLogs(t *testing.T) {
	r, controller := newTestRouter(t)
	controller.Log().Append("[Alert] something suspicious", security.CategoryError)

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/security/logs"))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[logsResponse](t, rr)
	require.NotEmpty(t, resp.Logs)
	assert.Equal(t, "[Alert] something suspicious", resp.Logs[0].Message)
}

func TestHandleClearLogs(t *testing.T) {
	r, controller := newTestRouter(t)
	controller.Log().Append("noise", security.CategoryInfo)
	controller.Log().Append("more noise", security.CategoryWarning)

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodDelete, "/security/logs"))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[logsResponse](t, rr)
	require.Len(t, resp.Logs, 1, "clear leaves the synthetic reset entry")
	assert.Equal(t, security.CategoryInfo, resp.Logs[0].Category)
}
