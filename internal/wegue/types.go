// Package wegue models a Wegue WebGIS configuration document: the map
// settings, the ordered layer records and the optional UI modules.
package wegue

import "github.com/paulmach/orb"

// LayerKind is the category a host layer is classified into.
type LayerKind string

const (
	KindOSM      LayerKind = "OSM"
	KindXYZ      LayerKind = "XYZ"
	KindWMS      LayerKind = "WMS"
	KindWMTS     LayerKind = "WMTS"
	KindWFS      LayerKind = "WFS"
	KindGeoJSON  LayerKind = "VectorGeoJSON"
	KindKML      LayerKind = "VectorKML"
	KindTopoJSON LayerKind = "VectorTopoJSON"
	KindMVT      LayerKind = "VectorMVT"
	KindUnknown  LayerKind = "Unknown"
)

// Kinds lists every LayerKind.
var Kinds = []LayerKind{
	KindOSM, KindXYZ, KindWMS, KindWMTS, KindWFS,
	KindGeoJSON, KindKML, KindTopoJSON, KindMVT, KindUnknown,
}

// Supported reports whether layers of this kind end up in a document.
// WMTS is recognized but Wegue cannot render it.
func (k LayerKind) Supported() bool {
	switch k {
	case KindWMTS, KindUnknown, "":
		return false
	}
	return true
}

// VectorFormat returns the vector format for vector kinds and "" otherwise.
func (k LayerKind) VectorFormat() VectorFormat {
	switch k {
	case KindGeoJSON:
		return FormatGeoJSON
	case KindKML:
		return FormatKML
	case KindTopoJSON:
		return FormatTopoJSON
	case KindMVT:
		return FormatMVT
	}
	return ""
}

// LayerType is the `type` value of a layer record in the output document.
type LayerType string

const (
	TypeOSM    LayerType = "OSM"
	TypeXYZ    LayerType = "XYZ"
	TypeWMS    LayerType = "WMS"
	TypeWFS    LayerType = "WFS"
	TypeVector LayerType = "VECTOR"
)

// VectorFormat is the encoding of a vector layer source.
type VectorFormat string

const (
	FormatGeoJSON  VectorFormat = "GeoJSON"
	FormatTopoJSON VectorFormat = "TopoJSON"
	FormatKML      VectorFormat = "KML"
	FormatMVT      VectorFormat = "MVT"
)

// GeometryKind names the geometry of a vector layer. The empty value means
// unknown.
type GeometryKind string

var (
	GeometryPoint      = GeometryKind(orb.Point{}.GeoJSONType())
	GeometryLineString = GeometryKind(orb.LineString{}.GeoJSONType())
	GeometryPolygon    = GeometryKind(orb.Polygon{}.GeoJSONType())
)

// GeometryFromCode maps a QGIS geometry type code (0 point, 1 line,
// 2 polygon) to a GeometryKind.
func GeometryFromCode(code int) GeometryKind {
	switch code {
	case 0:
		return GeometryPoint
	case 1:
		return GeometryLineString
	case 2:
		return GeometryPolygon
	}
	return ""
}

// Extent is a bounding box as [minX, minY, maxX, maxY].
type Extent [4]float64

// ExtentFromBound converts an orb bound into an Extent.
func ExtentFromBound(b orb.Bound) Extent {
	return Extent{b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y()}
}

// Bound returns the extent as an orb bound.
func (e Extent) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e[0], e[1]}, Max: orb.Point{e[2], e[3]}}
}

// Style is an OpenLayers style record for vector and WFS layers.
type Style struct {
	Radius      int    `json:"radius,omitempty" yaml:"radius,omitempty" doc:"Point radius in pixels"`
	StrokeColor string `json:"strokeColor,omitempty" yaml:"strokeColor,omitempty" doc:"Stroke color (CSS)"`
	StrokeWidth int    `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty" doc:"Stroke width in pixels"`
	FillColor   string `json:"fillColor,omitempty" yaml:"fillColor,omitempty" doc:"Fill color (CSS)"`
}
