package provider

import (
	"strings"

	"github.com/joeblew999/qgis2wegue/internal/wegue"
)

// HostLayer describes one layer as the QGIS project reports it.
type HostLayer struct {
	Name         string    `json:"name" yaml:"name" minLength:"1" doc:"Layer display name" example:"Water Bodies"`
	ProviderType string    `json:"providerType" yaml:"providerType" doc:"QGIS data provider key" example:"WFS"`
	Source       string    `json:"source" yaml:"source" doc:"Provider specific source string" example:"typename='water_bodies' url='https://example.com/wfs'"`
	GeometryKind *int      `json:"geometryKind,omitempty" yaml:"geometryKind,omitempty" doc:"QGIS geometry type code: 0 point, 1 line, 2 polygon"`
	SourceExtent []float64 `json:"sourceExtent,omitempty" yaml:"sourceExtent,omitempty" minItems:"4" maxItems:"4" doc:"Layer extent as minX, minY, maxX, maxY in the layer CRS"`
	CRS          string    `json:"crs,omitempty" yaml:"crs,omitempty" doc:"Layer CRS; the project CRS when empty" example:"EPSG:4326"`

	Visible            wegue.Optional[bool]    `json:"visible,omitzero" yaml:"visible,omitempty" required:"false" doc:"Layer visibility; true when unset"`
	DisplayInLayerList wegue.Optional[bool]    `json:"displayInLayerList,omitzero" yaml:"displayInLayerList,omitempty" required:"false" doc:"List the layer in the layer list; true when unset"`
	Opacity            wegue.Optional[float64] `json:"opacity,omitzero" yaml:"opacity,omitempty" required:"false" doc:"Layer opacity; omitted from the configuration when unset"`
}

// Common returns the display options set on the layer.
func (l HostLayer) Common() wegue.Common {
	return wegue.Common{
		Visible:            l.Visible,
		DisplayInLayerList: l.DisplayInLayerList,
		Opacity:            l.Opacity,
	}
}

// Provider keys as QGIS reports them, lowercased.
const (
	ProviderWMS = "wms"
	ProviderOGR = "ogr"
	ProviderWFS = "wfs"
)

// Parsers maps a provider key to the parser for its source strings.
var Parsers = map[string]SourceParser{
	ProviderWMS: QueryParser{},
	ProviderOGR: PathParser{},
	ProviderWFS: TokenParser{},
}

// Rule classifies a layer of one provider when Match accepts its parsed
// source. A nil Match accepts any layer of the provider, even one whose
// source did not parse.
type Rule struct {
	Provider string
	Match    func(Params) bool
	Kind     wegue.LayerKind
}

// Rules is the ordered classification table. The first matching rule wins.
// The wms rules follow the raster distinction of the qgis2web project.
var Rules = []Rule{
	{Provider: ProviderWMS, Match: valueIs("type", "xyz"), Kind: wegue.KindXYZ},
	{Provider: ProviderWMS, Match: hasKey("tileMatrixSet"), Kind: wegue.KindWMTS},
	{Provider: ProviderWMS, Match: parsed, Kind: wegue.KindWMS},
	{Provider: ProviderOGR, Match: pathSuffix(".kml"), Kind: wegue.KindKML},
	{Provider: ProviderOGR, Match: pathSuffix(".json", ".geojson"), Kind: wegue.KindGeoJSON},
	{Provider: ProviderWFS, Kind: wegue.KindWFS},
}

// Classify returns the kind of l according to Rules. Layers no rule accepts,
// including those with unparseable sources, are KindUnknown.
func Classify(l HostLayer) wegue.LayerKind {
	return ClassifyWith(Rules, l)
}

// ClassifyWith classifies l against a custom rule table.
func ClassifyWith(rules []Rule, l HostLayer) wegue.LayerKind {
	providerType := strings.ToLower(strings.TrimSpace(l.ProviderType))

	var params Params
	if parser, ok := Parsers[providerType]; ok {
		params, _ = parser.Parse(l.Source)
	}

	for _, r := range rules {
		if r.Provider != providerType {
			continue
		}
		if r.Match == nil || r.Match(params) {
			return r.Kind
		}
	}
	return wegue.KindUnknown
}

func valueIs(key, want string) func(Params) bool {
	return func(p Params) bool {
		v, ok := p.Get(key)
		return ok && v == want
	}
}

func hasKey(key string) func(Params) bool {
	return func(p Params) bool { return p.Has(key) }
}

func parsed(p Params) bool {
	return p.Len() > 0
}

func pathSuffix(suffixes ...string) func(Params) bool {
	return func(p Params) bool {
		path, ok := p.Get(PathKey)
		if !ok {
			return false
		}
		path = strings.ToLower(path)
		for _, s := range suffixes {
			if strings.HasSuffix(path, s) {
				return true
			}
		}
		return false
	}
}
