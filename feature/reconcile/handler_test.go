package reconcile

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	svc, _ := newTestService(t)
	handler := NewHandler(svc, zap.NewNop())

	app := fiber.New()
	handler.RegisterRoutes(app)
	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func TestHandleCreateSheet(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, "POST", "/reconcile/sheets", map[string]any{
		"name":          "Monthly close",
		"system1_label": "ERP",
	})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Monthly close", body["name"])
	assert.Equal(t, "ERP", body["system1_label"])
	assert.Equal(t, "System 2", body["system2_label"])
}

func TestHandleIngestSnapshot_StringQuantities(t *testing.T) {
	app, svc := setupTestApp(t)
	newSheet(t, svc)

	// Producers differ: CSV loaders send strings, JSON exports send numbers.
	status, body := doJSON(t, app, "POST", "/reconcile/sheets/1/snapshots/system1", map[string]any{
		"source": "erp.csv",
		"quantities": map[string]any{
			"1": "12",
			"2": 7,
		},
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(2), body["entries"])
}

func TestHandleIngestSnapshot_BadSlot(t *testing.T) {
	app, svc := setupTestApp(t)
	newSheet(t, svc)

	status, _ := doJSON(t, app, "POST", "/reconcile/sheets/1/snapshots/system9", map[string]any{
		"quantities": map[string]any{"1": 1},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleIngestSnapshot_BadProductKey(t *testing.T) {
	app, svc := setupTestApp(t)
	newSheet(t, svc)

	status, _ := doJSON(t, app, "POST", "/reconcile/sheets/1/snapshots/system1", map[string]any{
		"quantities": map[string]any{"abc": 1},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleRecount_EmptySelection(t *testing.T) {
	app, svc := setupTestApp(t)
	newSheet(t, svc)

	status, _ := doJSON(t, app, "POST", "/reconcile/sheets/1/recount", map[string]any{
		"product_ids": []uint{},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleRecompute_UnknownSheet(t *testing.T) {
	app, _ := setupTestApp(t)

	status, _ := doJSON(t, app, "POST", "/reconcile/sheets/9/recompute", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
