package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oggyb/chuanglan-sms/internal/response"
	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHomeHandler_Health(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("ok", func(t *testing.T) {
		h := NewHomeHandler(map[string]Pinger{"redis": ok})
		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var p response.HealthPayload
		decode(t, rec, &p)
		assert.Equal(t, "ok", p.Status)
		assert.Empty(t, p.Failing)
	})

	t.Run("degraded", func(t *testing.T) {
		h := NewHomeHandler(map[string]Pinger{"redis": down, "other": ok})
		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var p response.HealthPayload
		decode(t, rec, &p)
		assert.Equal(t, "degraded", p.Status)
		assert.Equal(t, map[string]string{"redis": "connection refused"}, p.Failing)
	})
}
