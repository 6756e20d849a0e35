package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/qgis2wegue/internal/provider"
	"github.com/joeblew999/qgis2wegue/internal/service"
	"github.com/joeblew999/qgis2wegue/internal/wegue"
)

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	cfg := huma.DefaultConfig("qgis2wegue test", Version)
	cfg.Transformers = append(cfg.Transformers, LinkTransformer())
	_, api := humatest.New(t, cfg)

	svc := &Services{
		Export: service.NewExportService(service.ExportConfig{
			Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		}),
	}
	RegisterRoutes(api, svc, NewInfoHandler(10*time.Second))
	return api
}

func decode(t *testing.T, body *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body.Bytes(), &out))
	return out
}

func Test_Health(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode(t, resp.Body)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, resp.Header().Values("Link"), `</api/v1/info>; rel="info"`)
}

func Test_Info(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Get("/api/v1/info")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode(t, resp.Body)
	assert.Equal(t, "qgis2wegue", body["name"])
	assert.Equal(t, "10s", body["capabilities_timeout"])
	assert.Equal(t, "v2", body["default_catalog"])
	assert.NotContains(t, body["layer_kinds"], "WMTS")
	assert.Contains(t, body["layer_kinds"], "VectorKML")
}

func Test_Modules(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/modules")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode(t, resp.Body)
	assert.Equal(t, "v2", body["version"])
	assert.Len(t, body["modules"], 9)
	assert.Len(t, body["sections"], 4)

	resp = api.Get("/api/v1/modules?catalog=v1")
	require.Equal(t, http.StatusOK, resp.Code)
	body = decode(t, resp.Body)
	assert.Len(t, body["modules"], 6)

	resp = api.Get("/api/v1/modules?catalog=v7")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func Test_Classify(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Post("/api/v1/classify", map[string]any{
		"layers": []provider.HostLayer{
			{Name: "Ortho", ProviderType: "wms", Source: "layers=o&tileMatrixSet=g&url=https://h/wmts"},
			{Name: "Points", ProviderType: "ogr", Source: "/data/points.geojson"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var got []service.Classification
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, []service.Classification{
		{Name: "Ortho", Kind: "WMTS", Supported: false},
		{Name: "Points", Kind: "VectorGeoJSON", Supported: true},
	}, got)
}

func Test_Export(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Post("/api/v1/export", service.ExportRequest{
		Layers: []provider.HostLayer{
			{Name: "Base Tiles", ProviderType: "wms", Source: "type=xyz&url=https://x/%7Bz%7D/%7Bx%7D/%7By%7D.png"},
			{Name: "Roads", ProviderType: "wms", Source: "layers=roads&url=https://h/wms", Visible: wegue.Some(false), Opacity: wegue.Some(0.5)},
			{Name: "Lakes", ProviderType: "WFS", Source: "url='https://h/wfs'"},
		},
		Viewport: service.Viewport{Scale: 25000, Center: []float64{0, 0}},
		Modules:  []string{"wgu-layerlist"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Header().Values("Link"), `</api/v1/classify>; rel="classify"`)

	body := decode(t, resp.Body)
	config := body["config"].(map[string]any)
	assert.Equal(t, float64(15), config["mapZoom"])
	assert.Len(t, config["mapLayers"], 2)
	assert.Contains(t, config["modules"], "wgu-layerlist")

	roads := config["mapLayers"].([]any)[1].(map[string]any)
	assert.Equal(t, "roads", roads["lid"])
	assert.Equal(t, false, roads["visible"])
	assert.Equal(t, 0.5, roads["opacity"])
	base := config["mapLayers"].([]any)[0].(map[string]any)
	assert.Equal(t, true, base["visible"])
	assert.NotContains(t, base, "opacity")

	warnings := body["warnings"].([]any)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Lakes", warnings[0].(map[string]any)["name"])
	assert.Contains(t, warnings[0].(map[string]any)["error"], "typename")
}

func Test_Export_layerOptionType(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Post("/api/v1/export", map[string]any{
		"layers": []map[string]any{
			{"name": "Roads", "providerType": "wms", "source": "layers=roads&url=https://h/wms", "visible": "yes"},
		},
		"viewport": map[string]any{"scale": 25000},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "visible")
}

func Test_Export_noLayers(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Post("/api/v1/export", service.ExportRequest{
		Layers: []provider.HostLayer{
			{Name: "Ortho", ProviderType: "wms", Source: "layers=o&tileMatrixSet=g&url=https://h/wmts"},
		},
		Viewport: service.Viewport{Scale: 25000},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), "no map layers"), resp.Body.String())
	assert.Contains(t, resp.Body.String(), "Ortho")
}

func Test_Export_unknownModule(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Post("/api/v1/export", service.ExportRequest{
		Layers: []provider.HostLayer{
			{Name: "Roads", ProviderType: "wms", Source: "layers=roads&url=https://h/wms"},
		},
		Viewport: service.Viewport{Scale: 25000},
		Modules:  []string{"wgu-teleporter"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "wgu-teleporter")
}
