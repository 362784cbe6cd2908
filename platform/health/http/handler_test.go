package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
		wantBody   string
	}{
		{name: "no checks", checks: nil, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "all healthy", checks: map[string]Check{"mongodb": ok, "redis": ok}, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "one failing", checks: map[string]Check{"mongodb": ok, "redis": down}, wantStatus: http.StatusServiceUnavailable, wantBody: "not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler(time.Second, tt.checks)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.wantBody, body["status"])
			if tt.wantStatus != http.StatusOK {
				require.Equal(t, map[string]any{"redis": "connection refused"}, body["checks"])
			}
		})
	}
}
