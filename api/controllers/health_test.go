package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/mealplanner-backend/pkg/config"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(&config.Config{App: config.AppConfig{Env: "dev"}})(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	requireStatus(t, rec, http.StatusOK)
	var out map[string]string
	decodeData(t, rec, &out)
	if out["status"] != "live" || out["env"] != "dev" {
		t.Fatalf("unexpected body %v", out)
	}
}

func TestHealthReady(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("redis disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(testLogger(), ok, nil)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		requireStatus(t, rec, http.StatusOK)
		var out struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		decodeData(t, rec, &out)
		if out.Status != "ready" || out.Checks["redis"] != "disabled" {
			t.Fatalf("unexpected body %+v", out)
		}
	})

	t.Run("redis down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(testLogger(), ok, down)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		requireStatus(t, rec, http.StatusServiceUnavailable)
	})

	t.Run("database down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HealthReady(testLogger(), down, ok)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		requireStatus(t, rec, http.StatusServiceUnavailable)
	})
}
