package wegue

// LayerRecord is one entry of a document's mapLayers. It is implemented by
// XYZLayer, OSMLayer, WMSLayer, WFSLayer and VectorLayer only.
type LayerRecord interface {
	Header() LayerHeader
	isLayerRecord()
}

// LayerHeader holds the fields every layer record shares.
type LayerHeader struct {
	Type LayerType
	Name string
	LID  string
}

// DefaultOSMName is the layer name used for an OSM layer added without one.
const DefaultOSMName = "OpenStreetMap Standard"

// DefaultWMSProjection is the projection requested from WMS services.
const DefaultWMSProjection = "EPSG:3857"

// DefaultWFSFormat is the feature format requested from WFS services.
const DefaultWFSFormat = "GML3"

// Field order below is the key order of the emitted JSON. String fields use
// the empty string as "unset"; Optional fields are unset until given a value.

// XYZLayer is a tiled layer addressed by a {z}/{x}/{y} URL template.
type XYZLayer struct {
	Type               LayerType         `json:"type"`
	LID                string            `json:"lid,omitempty"`
	Name               string            `json:"name,omitempty"`
	URL                string            `json:"url,omitempty"`
	DisplayInLayerList bool              `json:"displayInLayerList"`
	Visible            bool              `json:"visible"`
	Opacity            Optional[float64] `json:"opacity,omitzero"`
	Attributions       string            `json:"attributions,omitempty"`
}

// OSMLayer is the OpenStreetMap standard tile layer.
type OSMLayer struct {
	Type               LayerType         `json:"type"`
	LID                string            `json:"lid,omitempty"`
	Name               string            `json:"name,omitempty"`
	DisplayInLayerList bool              `json:"displayInLayerList"`
	Visible            bool              `json:"visible"`
	Opacity            Optional[float64] `json:"opacity,omitzero"`
}

// WMSLayer is an OGC Web Map Service layer.
type WMSLayer struct {
	Type               LayerType         `json:"type"`
	LID                string            `json:"lid,omitempty"`
	Name               string            `json:"name,omitempty"`
	URL                string            `json:"url,omitempty"`
	Format             string            `json:"format"`
	Layers             string            `json:"layers,omitempty"`
	Tiled              Optional[bool]    `json:"tiled,omitzero"`
	Transparent        bool              `json:"transparent"`
	SingleTile         bool              `json:"singleTile"`
	Projection         string            `json:"projection,omitempty"`
	Attributions       string            `json:"attributions,omitempty"`
	IsBaseLayer        bool              `json:"isBaseLayer"`
	Visible            bool              `json:"visible"`
	Opacity            Optional[float64] `json:"opacity,omitzero"`
	DisplayInLayerList bool              `json:"displayInLayerList"`
	Extent             Optional[Extent]  `json:"extent,omitzero"`
	ServerType         string            `json:"serverType,omitempty"`
}

// WFSLayer is an OGC Web Feature Service layer.
type WFSLayer struct {
	Type               LayerType                `json:"type"`
	LID                string                   `json:"lid,omitempty"`
	Name               string                   `json:"name,omitempty"`
	URL                string                   `json:"url,omitempty"`
	Format             string                   `json:"format,omitempty"`
	TypeName           string                   `json:"typeName,omitempty"`
	Version            string                   `json:"version,omitempty"`
	Projection         string                   `json:"projection,omitempty"`
	FormatConfig       Optional[map[string]any] `json:"formatConfig,omitzero"`
	DisplayInLayerList bool                     `json:"displayInLayerList"`
	Visible            bool                     `json:"visible"`
	Opacity            Optional[float64]        `json:"opacity,omitzero"`
	Extent             Optional[Extent]         `json:"extent,omitzero"`
	Style              *Style                   `json:"style,omitempty"`
	Attributions       string                   `json:"attributions,omitempty"`
	LoadOnlyVisible    Optional[bool]           `json:"loadOnlyVisible,omitzero"`
	MaxFeatures        Optional[int]            `json:"maxFeatures,omitzero"`
}

// VectorLayer is a vector file or service in one of the VectorFormats.
type VectorLayer struct {
	Type               LayerType                `json:"type"`
	LID                string                   `json:"lid,omitempty"`
	Name               string                   `json:"name,omitempty"`
	URL                string                   `json:"url,omitempty"`
	Format             VectorFormat             `json:"format,omitempty"`
	FormatConfig       Optional[map[string]any] `json:"formatConfig,omitzero"`
	DisplayInLayerList bool                     `json:"displayInLayerList"`
	Visible            bool                     `json:"visible"`
	Opacity            Optional[float64]        `json:"opacity,omitzero"`
	Extent             Optional[Extent]         `json:"extent,omitzero"`
	Style              *Style                   `json:"style,omitempty"`
	Attributions       string                   `json:"attributions,omitempty"`
	Hoverable          bool                     `json:"hoverable"`
	HoverAttribute     string                   `json:"hoverAttribute,omitempty"`
}

func (l *XYZLayer) Header() LayerHeader    { return LayerHeader{l.Type, l.Name, l.LID} }
func (l *OSMLayer) Header() LayerHeader    { return LayerHeader{l.Type, l.Name, l.LID} }
func (l *WMSLayer) Header() LayerHeader    { return LayerHeader{l.Type, l.Name, l.LID} }
func (l *WFSLayer) Header() LayerHeader    { return LayerHeader{l.Type, l.Name, l.LID} }
func (l *VectorLayer) Header() LayerHeader { return LayerHeader{l.Type, l.Name, l.LID} }

func (*XYZLayer) isLayerRecord()    {}
func (*OSMLayer) isLayerRecord()    {}
func (*WMSLayer) isLayerRecord()    {}
func (*WFSLayer) isLayerRecord()    {}
func (*VectorLayer) isLayerRecord() {}
