package provider

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/qgis2wegue/internal/geo"
	"github.com/joeblew999/qgis2wegue/internal/wegue"
)

func Test_TokenParser_duplicateKeys(t *testing.T) {
	p, err := TokenParser{}.Parse("typename='water_bodies' url='http://host/wfs' typename='other'")
	require.NoError(t, err)

	assert.Equal(t, []string{"typename", "url", "typename_2"}, p.Keys())
	assert.Equal(t, map[string]string{
		"typename":   "water_bodies",
		"typename_2": "other",
		"url":        "http://host/wfs",
	}, p.Map())
}

func Test_TokenParser_quotedSpacesAndBareWords(t *testing.T) {
	p, err := TokenParser{}.Parse("pagingEnabled='true' sql='' title='Lakes and Ponds' restrictToRequestBBOX  version=2.0.0 typeName='ns:lakes' url='https://h/wfs?a=1'")
	require.NoError(t, err)

	v, _ := p.Get("title")
	assert.Equal(t, "Lakes and Ponds", v)
	v, _ = p.Get("version")
	assert.Equal(t, "2.0.0", v)
	v, ok := p.Lookup("typename")
	assert.True(t, ok)
	assert.Equal(t, "ns:lakes", v)
	v, ok = p.Get("sql")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.False(t, p.Has("restrictToRequestBBOX"))
}

func Test_TokenParser_tripleKeysAndLegacyURL(t *testing.T) {
	p, err := TokenParser{}.Parse("a='1' a='2' a='3'")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a_2", "a_3"}, p.Keys())

	p, err = TokenParser{}.Parse("https://host/geoserver/wfs?SERVICE=WFS&TYPENAME=topp:states&VERSION=1.1.0")
	require.NoError(t, err)
	v, _ := p.Lookup("typename")
	assert.Equal(t, "topp:states", v)
	v, _ = p.Get("url")
	assert.Equal(t, "https://host/geoserver/wfs", v)

	_, err = TokenParser{}.Parse("just words")
	assert.ErrorIs(t, err, ErrMalformedSource)
}

func Test_QueryParser(t *testing.T) {
	p, err := QueryParser{}.Parse("crs=EPSG:3857&format&type=xyz&url=https://tile.openstreetmap.org/%7Bz%7D/%7Bx%7D/%7By%7D.png&zmax=19&zmin=0")
	require.NoError(t, err)

	v, _ := p.Get("url")
	assert.Equal(t, "https://tile.openstreetmap.org/{z}/{x}/{y}.png", v)
	assert.True(t, p.Has("format"))

	_, err = QueryParser{}.Parse("")
	assert.ErrorIs(t, err, ErrMalformedSource)
}

func Test_PathParser(t *testing.T) {
	p, err := PathParser{}.Parse("/data/points.geojson|layername=points|geometrytype=Point")
	require.NoError(t, err)
	v, _ := p.Get(PathKey)
	assert.Equal(t, "/data/points.geojson", v)
	v, _ = p.Get("layername")
	assert.Equal(t, "points", v)

	_, err = PathParser{}.Parse("|layername=x")
	assert.ErrorIs(t, err, ErrMalformedSource)
}

func Test_Classify(t *testing.T) {
	cases := []struct {
		name string
		l    HostLayer
		want wegue.LayerKind
	}{
		{"xyz", HostLayer{ProviderType: "wms", Source: "type=xyz&url=https://x/{z}/{x}/{y}.png"}, wegue.KindXYZ},
		{"wmts", HostLayer{ProviderType: "wms", Source: "crs=EPSG:3857&layers=a&tileMatrixSet=GoogleMapsCompatible&url=https://h/wmts"}, wegue.KindWMTS},
		{"wms", HostLayer{ProviderType: "wms", Source: "crs=EPSG:3857&format=image/png&layers=roads&styles&url=https://h/wms"}, wegue.KindWMS},
		{"wms upper provider", HostLayer{ProviderType: "WMS", Source: "layers=a&url=https://h/wms"}, wegue.KindWMS},
		{"wms empty source", HostLayer{ProviderType: "wms", Source: ""}, wegue.KindUnknown},
		{"kml", HostLayer{ProviderType: "ogr", Source: "/data/trails.kml|layername=trails"}, wegue.KindKML},
		{"geojson", HostLayer{ProviderType: "ogr", Source: "/data/points.geojson"}, wegue.KindGeoJSON},
		{"json upper", HostLayer{ProviderType: "ogr", Source: "/data/POINTS.JSON|layerid=0"}, wegue.KindGeoJSON},
		{"shapefile", HostLayer{ProviderType: "ogr", Source: "/data/roads.shp"}, wegue.KindUnknown},
		{"ogr empty", HostLayer{ProviderType: "ogr", Source: ""}, wegue.KindUnknown},
		{"wfs", HostLayer{ProviderType: "WFS", Source: "typename='a' url='https://h/wfs'"}, wegue.KindWFS},
		{"wfs garbage", HostLayer{ProviderType: "WFS", Source: "???"}, wegue.KindWFS},
		{"postgres", HostLayer{ProviderType: "postgres", Source: "dbname='gis'"}, wegue.KindUnknown},
		{"empty", HostLayer{}, wegue.KindUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.l), c.name)
	}
}

func Test_ClassifyWith_customRule(t *testing.T) {
	rules := append([]Rule{
		{Provider: ProviderOGR, Match: pathSuffix(".topojson"), Kind: wegue.KindTopoJSON},
	}, Rules...)

	assert.Equal(t, wegue.KindTopoJSON, ClassifyWith(rules, HostLayer{ProviderType: "ogr", Source: "/d/world.topojson"}))
	assert.Equal(t, wegue.KindUnknown, Classify(HostLayer{ProviderType: "ogr", Source: "/d/world.topojson"}))
}

type stubResolver struct {
	url   string
	err   error
	calls int
}

func (s *stubResolver) GetMapURL(ctx context.Context, serviceURL string) (string, error) {
	s.calls++
	return s.url, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func Test_Extractor_XYZ(t *testing.T) {
	e := &Extractor{}
	f, err := e.XYZ(HostLayer{Name: "Tiles", Source: "referer=OpenStreetMap%20contributors&type=xyz&url=https://x/%7Bz%7D/%7Bx%7D/%7By%7D.png"})
	require.NoError(t, err)
	assert.Equal(t, "Tiles", f.Name)
	assert.Equal(t, "https://x/{z}/{x}/{y}.png", f.URL)
	assert.Equal(t, "OpenStreetMap contributors", f.Attributions)

	_, err = e.XYZ(HostLayer{Name: "Broken", Source: "type=xyz&zmax=19"})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func Test_Extractor_WMS(t *testing.T) {
	source := "crs=EPSG:3857&format=image/png&layers=roads&styles&url=https://h/wms"

	resolver := &stubResolver{url: "https://h/cgi-bin/mapserv?"}
	e := &Extractor{Resolver: resolver, Logger: quietLogger()}
	f, err := e.WMS(context.Background(), HostLayer{Name: "Roads", Source: source})
	require.NoError(t, err)
	assert.Equal(t, "https://h/cgi-bin/mapserv?", f.URL)
	assert.Equal(t, "roads", f.Layers)
	assert.Equal(t, 1, resolver.calls)

	e.Resolver = &stubResolver{err: errors.New("connection refused")}
	f, err = e.WMS(context.Background(), HostLayer{Name: "Roads", Source: source})
	require.NoError(t, err)
	assert.Equal(t, "https://h/wms", f.URL)

	e.Resolver = nil
	f, err = e.WMS(context.Background(), HostLayer{Name: "Roads", Source: source})
	require.NoError(t, err)
	assert.Equal(t, "https://h/wms", f.URL)

	f, err = e.WMS(context.Background(), HostLayer{
		Name:   "Roads and Rivers",
		Source: "crs=EPSG:3857&format=image/png&layers=roads&layers=rivers&layers=lakes&styles=&styles=&styles=&url=https://h/wms",
	})
	require.NoError(t, err)
	assert.Equal(t, "roads,rivers,lakes", f.Layers)

	_, err = e.WMS(context.Background(), HostLayer{Name: "No layers", Source: "url=https://h/wms"})
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), "layers")

	_, err = e.WMS(context.Background(), HostLayer{Name: "Empty layers", Source: "layers=&url=https://h/wms"})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func Test_Params_All(t *testing.T) {
	p, err := QueryParser{}.Parse("LAYERS=a&styles=&layers=b&url=https://h/wms&layers=c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, p.All("layers"))
	assert.Equal(t, []string{""}, p.All("styles"))
	assert.Empty(t, p.All("format"))
}

func Test_FallbackGetMapURL(t *testing.T) {
	u, ok := FallbackGetMapURL("layers=a&url=https%3A%2F%2Fh%2Fwms&styles")
	assert.True(t, ok)
	assert.Equal(t, "https://h/wms", u)

	u, ok = FallbackGetMapURL("url=https://h/wms")
	assert.True(t, ok)
	assert.Equal(t, "https://h/wms", u)

	_, ok = FallbackGetMapURL("legendurl=https://h/legend&layers=a")
	assert.False(t, ok)
}

func Test_Extractor_WFS(t *testing.T) {
	point := 0
	e := &Extractor{Reprojector: geo.OrbReprojector{}, ProjectCRS: "EPSG:4326", Logger: quietLogger()}
	f, err := e.WFS(HostLayer{
		Name:         "Stations",
		Source:       "maxNumFeatures='500' srsname='EPSG:4326' typename='ns:stations' url='https://h/wfs' version='auto'",
		GeometryKind: &point,
		SourceExtent: []float64{-180, 0, 180, 10},
	})
	require.NoError(t, err)
	assert.Equal(t, "ns:stations", f.TypeName)
	assert.Equal(t, "https://h/wfs", f.URL)
	assert.Equal(t, "", f.Version)
	assert.Equal(t, "EPSG:4326", f.Projection)
	assert.Equal(t, wegue.GeometryPoint, f.Geometry)
	assert.Equal(t, wegue.Some(500), f.MaxFeatures)

	extent, ok := f.Extent.Get()
	require.True(t, ok)
	assert.InDelta(t, -20037508.34, extent[0], 0.01)
	assert.InDelta(t, 20037508.34, extent[2], 0.01)

	f, err = e.WFS(HostLayer{Name: "Elsewhere", CRS: "EPSG:31468", Source: "typename='a' url='https://h/wfs'", SourceExtent: []float64{1, 2, 3, 4}})
	require.NoError(t, err)
	assert.False(t, f.Extent.IsSet())

	_, err = e.WFS(HostLayer{Name: "No url", Source: "typename='a'"})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func Test_Extractor_Vector(t *testing.T) {
	line := 1
	e := &Extractor{}
	f, err := e.Vector(HostLayer{Name: "Trails", Source: "/data/trails.kml|layername=trails", GeometryKind: &line}, wegue.KindKML)
	require.NoError(t, err)
	assert.Equal(t, "/data/trails.kml", f.URL)
	assert.Equal(t, wegue.FormatKML, f.Format)
	assert.Equal(t, wegue.GeometryLineString, f.Geometry)

	unknown := 4
	f, err = e.Vector(HostLayer{Name: "Table", Source: "/data/table.geojson", GeometryKind: &unknown}, wegue.KindGeoJSON)
	require.NoError(t, err)
	assert.Equal(t, wegue.GeometryKind(""), f.Geometry)

	_, err = e.Vector(HostLayer{Source: "/x.geojson"}, wegue.KindWMS)
	assert.ErrorIs(t, err, ErrMalformedSource)

	f, err = e.Vector(HostLayer{
		Name:    "Parks",
		Source:  "/data/parks.geojson",
		Visible: wegue.Some(false),
		Opacity: wegue.Some(0.4),
	}, wegue.KindGeoJSON)
	require.NoError(t, err)
	assert.Equal(t, wegue.Some(false), f.Visible)
	assert.Equal(t, wegue.Some(0.4), f.Opacity)
	assert.False(t, f.DisplayInLayerList.IsSet())
}
