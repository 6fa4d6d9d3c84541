package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"vulnshop/pkg/testutil"
)

type stubChecker struct {
	err error
}

func (s stubChecker) Health(context.Context) error { return s.err }

func TestHealthzHandler(t *testing.T) {
	t.Run("no optional dependency", func(t *testing.T) {
		rr := testutil.DoRequest(healthzHandler(nil), testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[map[string]string](t, rr)
		if (*resp)["status"] != "ok" {
			t.Fatalf("unexpected status: %q", (*resp)["status"])
		}
	})

	t.Run("healthy dependency", func(t *testing.T) {
		rr := testutil.DoRequest(healthzHandler(stubChecker{}), testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("failing dependency reports degraded", func(t *testing.T) {
		check := stubChecker{err: errors.New("connection refused")}
		rr := testutil.DoRequest(healthzHandler(check), testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		resp := testutil.UnmarshalResponse[map[string]string](t, rr)
		if (*resp)["status"] != "degraded" {
			t.Fatalf("unexpected status: %q", (*resp)["status"])
		}
	})
}
