package wegue

// Common holds the optional fields every layer kind accepts.
type Common struct {
	LID                string
	Visible            Optional[bool]
	DisplayInLayerList Optional[bool]
	Opacity            Optional[float64]
}

func (c Common) lid(name string, ids IDGenerator) string {
	if c.LID != "" {
		return c.LID
	}
	return LayerID(name, ids)
}

// XYZFields are the raw inputs of an XYZ layer.
type XYZFields struct {
	Common
	Name         string
	URL          string
	Attributions string
}

// OSMFields are the raw inputs of an OSM layer.
type OSMFields struct {
	Common
	Name string
}

// WMSFields are the raw inputs of a WMS layer.
type WMSFields struct {
	Common
	Name         string
	URL          string
	Layers       string
	Transparent  Optional[bool]
	SingleTile   bool
	Projection   string
	Attributions string
	IsBaseLayer  bool
	Extent       Optional[Extent]
	Tiled        Optional[bool]
	ServerType   string
}

// WFSFields are the raw inputs of a WFS layer.
type WFSFields struct {
	Common
	Name            string
	URL             string
	TypeName        string
	Format          string
	FormatConfig    Optional[map[string]any]
	Version         string
	Projection      string
	Extent          Optional[Extent]
	Style           *Style
	Geometry        GeometryKind
	Attributions    string
	LoadOnlyVisible Optional[bool]
	MaxFeatures     Optional[int]
}

// VectorFields are the raw inputs of a vector layer.
type VectorFields struct {
	Common
	Name           string
	URL            string
	Format         VectorFormat
	FormatConfig   Optional[map[string]any]
	Extent         Optional[Extent]
	Style          *Style
	Geometry       GeometryKind
	Attributions   string
	Hoverable      bool
	HoverAttribute string
}

// NormalizeXYZ builds an XYZ record, filling in defaults.
func NormalizeXYZ(f XYZFields, ids IDGenerator) *XYZLayer {
	return &XYZLayer{
		Type:               TypeXYZ,
		LID:                f.lid(f.Name, ids),
		Name:               f.Name,
		URL:                f.URL,
		DisplayInLayerList: f.DisplayInLayerList.Or(true),
		Visible:            f.Visible.Or(true),
		Opacity:            f.Opacity,
		Attributions:       f.Attributions,
	}
}

// NormalizeOSM builds an OSM record. An empty name becomes DefaultOSMName.
func NormalizeOSM(f OSMFields, ids IDGenerator) *OSMLayer {
	if f.Name == "" {
		f.Name = DefaultOSMName
	}
	return &OSMLayer{
		Type:               TypeOSM,
		LID:                f.lid(f.Name, ids),
		Name:               f.Name,
		DisplayInLayerList: f.DisplayInLayerList.Or(true),
		Visible:            f.Visible.Or(true),
		Opacity:            f.Opacity,
	}
}

// NormalizeWMS builds a WMS record. Images are always requested as PNG.
func NormalizeWMS(f WMSFields, ids IDGenerator) *WMSLayer {
	projection := f.Projection
	if projection == "" {
		projection = DefaultWMSProjection
	}
	return &WMSLayer{
		Type:               TypeWMS,
		LID:                f.lid(f.Name, ids),
		Name:               f.Name,
		URL:                f.URL,
		Format:             "image/png",
		Layers:             f.Layers,
		Tiled:              f.Tiled,
		Transparent:        f.Transparent.Or(true),
		SingleTile:         f.SingleTile,
		Projection:         projection,
		Attributions:       f.Attributions,
		IsBaseLayer:        f.IsBaseLayer,
		Visible:            f.Visible.Or(true),
		Opacity:            f.Opacity,
		DisplayInLayerList: f.DisplayInLayerList.Or(true),
		Extent:             f.Extent,
		ServerType:         f.ServerType,
	}
}

// NormalizeWFS builds a WFS record. Without an explicit style the geometry
// default applies.
func NormalizeWFS(f WFSFields, ids IDGenerator) *WFSLayer {
	format := f.Format
	if format == "" {
		format = DefaultWFSFormat
	}
	return &WFSLayer{
		Type:               TypeWFS,
		LID:                f.lid(f.Name, ids),
		Name:               f.Name,
		URL:                f.URL,
		Format:             format,
		TypeName:           f.TypeName,
		Version:            f.Version,
		Projection:         f.Projection,
		FormatConfig:       f.FormatConfig,
		DisplayInLayerList: f.DisplayInLayerList.Or(true),
		Visible:            f.Visible.Or(true),
		Opacity:            f.Opacity,
		Extent:             f.Extent,
		Style:              resolveStyle(f.Style, f.Geometry),
		Attributions:       f.Attributions,
		LoadOnlyVisible:    f.LoadOnlyVisible,
		MaxFeatures:        f.MaxFeatures,
	}
}

// NormalizeVector builds a vector record. Without an explicit style the
// geometry default applies.
func NormalizeVector(f VectorFields, ids IDGenerator) *VectorLayer {
	return &VectorLayer{
		Type:               TypeVector,
		LID:                f.lid(f.Name, ids),
		Name:               f.Name,
		URL:                f.URL,
		Format:             f.Format,
		FormatConfig:       f.FormatConfig,
		DisplayInLayerList: f.DisplayInLayerList.Or(true),
		Visible:            f.Visible.Or(true),
		Opacity:            f.Opacity,
		Extent:             f.Extent,
		Style:              resolveStyle(f.Style, f.Geometry),
		Attributions:       f.Attributions,
		Hoverable:          f.Hoverable,
		HoverAttribute:     f.HoverAttribute,
	}
}
