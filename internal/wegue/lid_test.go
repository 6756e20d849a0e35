package wegue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_LayerID(t *testing.T) {
	cases := map[string]string{
		"Müller Straße":        "mueller_strasse",
		"  Base Map  ":         "base_map",
		"Gewässer - Übersicht": "gewaesser_uebersicht",
		"ns:roads":             "ns_roads",
		"Café Ölberg":          "cafe_oelberg",
		"Layer 1":              "layer_1",
		"a ! b":                "a_b",
		"(Roads)":              "roads",
		"北京 roads":             "roads",
	}
	for name, want := range cases {
		assert.Equal(t, want, LayerID(name, nil), "name %q", name)
	}
}

func Test_LayerID_fallback(t *testing.T) {
	n := 0
	gen := func() string {
		n++
		return fmt.Sprintf("generated-%d", n)
	}

	assert.Equal(t, "generated-1", LayerID("!!!", gen))
	assert.Equal(t, "generated-2", LayerID("!!!", gen))
	assert.Equal(t, "generated-3", LayerID("", gen))
	assert.Equal(t, "kept", LayerID("kept", gen))
	assert.Equal(t, 3, n)
}

func Test_LayerID_defaultFallbackIsUnique(t *testing.T) {
	a := LayerID("!!!", nil)
	b := LayerID("!!!", nil)

	assert.NotEmpty(t, a)
	assert.NotEmpty(t, b)
	assert.NotEqual(t, a, b)
}

func Test_DefaultStyle(t *testing.T) {
	point := DefaultStyle(GeometryPoint)
	if assert.NotNil(t, point) {
		assert.Equal(t, 4, point.Radius)
		assert.Equal(t, "rgba(207, 16, 32, 0.6)", point.FillColor)
	}

	line := DefaultStyle(GeometryLineString)
	if assert.NotNil(t, line) {
		assert.Equal(t, Style{StrokeColor: "blue", StrokeWidth: 2}, *line)
	}

	polygon := DefaultStyle(GeometryPolygon)
	if assert.NotNil(t, polygon) {
		assert.Equal(t, "gray", polygon.StrokeColor)
		assert.Equal(t, 1, polygon.StrokeWidth)
	}

	assert.Nil(t, DefaultStyle(""))
	assert.Nil(t, DefaultStyle("MultiSurface"))

	// callers get copies
	point.Radius = 99
	assert.Equal(t, 4, DefaultStyle(GeometryPoint).Radius)
}

func Test_GeometryFromCode(t *testing.T) {
	assert.Equal(t, GeometryKind("Point"), GeometryFromCode(0))
	assert.Equal(t, GeometryKind("LineString"), GeometryFromCode(1))
	assert.Equal(t, GeometryKind("Polygon"), GeometryFromCode(2))
	assert.Equal(t, GeometryKind(""), GeometryFromCode(3))
	assert.Equal(t, GeometryKind(""), GeometryFromCode(-1))
}
