package wegue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/paulmach/orb"

	"github.com/joeblew999/qgis2wegue/internal/geo"
)

// ErrEmptyDocument is returned when a document without layers is written.
var ErrEmptyDocument = errors.New("wegue configuration has no map layers")

// Defaults of a fresh document.
const (
	DefaultTitle           = "Vue.js / OpenLayers WebGIS"
	DefaultBaseColor       = "green darken-3"
	DefaultLogo            = "https://dummyimage.com/100x100/aaa/fff&text=Wegue"
	DefaultLogoSize        = 100
	DefaultFooterTextLeft  = "Powered by <a href='https://meggsimum.de/wegue/' target='_blank'>Wegue WebGIS</a>"
	DefaultFooterTextRight = "meggsimum"
	DefaultMapZoom         = 2
)

// ColorTheme is the Vuetify theme block used instead of baseColor.
type ColorTheme struct {
	Themes map[string]ThemeColors `json:"themes"`
}

// ThemeColors holds the colors of one Vuetify theme.
type ThemeColors struct {
	Primary string `json:"primary"`
}

// Document is a Wegue configuration under construction. Layers and modules
// are only added; the document is written once at the end.
type Document struct {
	Title             string
	Logo              string
	LogoSize          int
	FooterTextLeft    string
	FooterTextRight   string
	ShowCopyrightYear bool

	baseColor  string
	colorTheme *ColorTheme
	mapZoom    int
	mapCenter  [2]float64
	layers     []LayerRecord
	modules    map[string]Options
	sections   map[Section]Options
	catalog    *Catalog
	ids        IDGenerator
}

// Option configures a Document.
type Option func(*Document)

// WithCatalog selects the module catalog presets are taken from.
func WithCatalog(c *Catalog) Option {
	return func(d *Document) { d.catalog = c }
}

// WithIDGenerator sets the generator used when a layer name yields no id.
func WithIDGenerator(g IDGenerator) Option {
	return func(d *Document) { d.ids = g }
}

// New returns a document with the built-in defaults.
func New(opts ...Option) *Document {
	d := &Document{
		Title:             DefaultTitle,
		Logo:              DefaultLogo,
		LogoSize:          DefaultLogoSize,
		FooterTextLeft:    DefaultFooterTextLeft,
		FooterTextRight:   DefaultFooterTextRight,
		ShowCopyrightYear: true,
		baseColor:         DefaultBaseColor,
		mapZoom:           DefaultMapZoom,
		modules:           make(map[string]Options),
		sections:          make(map[Section]Options),
		catalog:           DefaultCatalog,
		ids:               NewUUID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Catalog returns the catalog module presets come from.
func (d *Document) Catalog() *Catalog {
	return d.catalog
}

// SetBaseColor sets the classic baseColor and drops any color theme.
func (d *Document) SetBaseColor(color string) {
	d.baseColor = color
	d.colorTheme = nil
}

// SetPrimaryColor switches the document to a colorTheme whose light theme
// uses color as primary.
func (d *Document) SetPrimaryColor(color string) {
	d.baseColor = ""
	d.colorTheme = &ColorTheme{Themes: map[string]ThemeColors{"light": {Primary: color}}}
}

// RGBColor formats a color the way the plugin dialog reports it, alpha
// dropped.
func RGBColor(r, g, b uint8) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}

// SetView sets zoom and center. The center must already be in the target
// reference system (EPSG:3857).
func (d *Document) SetView(zoom int, center orb.Point) error {
	if zoom < 0 || zoom > geo.MaxZoom {
		return fmt.Errorf("map zoom %d outside 0-%d", zoom, geo.MaxZoom)
	}
	d.mapZoom = zoom
	d.mapCenter = [2]float64{center.X(), center.Y()}
	return nil
}

// MapZoom returns the configured zoom level.
func (d *Document) MapZoom() int { return d.mapZoom }

// MapCenter returns the configured center in EPSG:3857.
func (d *Document) MapCenter() orb.Point { return orb.Point(d.mapCenter) }

// Add appends an already normalized record. Order is the map stacking order.
func (d *Document) Add(r LayerRecord) {
	d.layers = append(d.layers, r)
}

// AddXYZLayer normalizes and appends an XYZ layer.
func (d *Document) AddXYZLayer(f XYZFields) *XYZLayer {
	l := NormalizeXYZ(f, d.ids)
	d.Add(l)
	return l
}

// AddOSMLayer normalizes and appends an OSM layer.
func (d *Document) AddOSMLayer(f OSMFields) *OSMLayer {
	l := NormalizeOSM(f, d.ids)
	d.Add(l)
	return l
}

// AddWMSLayer normalizes and appends a WMS layer.
func (d *Document) AddWMSLayer(f WMSFields) *WMSLayer {
	l := NormalizeWMS(f, d.ids)
	d.Add(l)
	return l
}

// AddWFSLayer normalizes and appends a WFS layer.
func (d *Document) AddWFSLayer(f WFSFields) *WFSLayer {
	l := NormalizeWFS(f, d.ids)
	d.Add(l)
	return l
}

// AddVectorLayer normalizes and appends a vector layer.
func (d *Document) AddVectorLayer(f VectorFields) *VectorLayer {
	l := NormalizeVector(f, d.ids)
	d.Add(l)
	return l
}

// Layers returns the layer records in insertion order.
func (d *Document) Layers() []LayerRecord {
	return slices.Clone(d.layers)
}

// EnableModule inserts the catalog preset for id. Enabling twice leaves the
// same single entry.
func (d *Document) EnableModule(id string) error {
	opts, err := d.catalog.Module(id)
	if err != nil {
		return err
	}
	d.modules[id] = opts
	return nil
}

// EnableSection inserts the catalog preset for a top-level section.
func (d *Document) EnableSection(s Section) error {
	opts, err := d.catalog.Section(s)
	if err != nil {
		return err
	}
	d.sections[s] = opts
	return nil
}

func (d *Document) EnableLayerList() error       { return d.EnableModule(ModuleLayerList) }
func (d *Document) EnableMeasureTool() error     { return d.EnableModule(ModuleMeasureTool) }
func (d *Document) EnableInfoClick() error       { return d.EnableModule(ModuleInfoClick) }
func (d *Document) EnableZoomToMaxExtent() error { return d.EnableModule(ModuleZoomToMaxExtent) }
func (d *Document) EnableHelpWindow() error      { return d.EnableModule(ModuleHelpWindow) }
func (d *Document) EnableGeocoder() error        { return d.EnableModule(ModuleGeocoder) }
func (d *Document) EnableGeolocator() error      { return d.EnableModule(ModuleGeolocator) }
func (d *Document) EnableMapRecorder() error     { return d.EnableModule(ModuleMapRecorder) }
func (d *Document) EnableAttributeTable() error  { return d.EnableModule(ModuleAttributeTable) }

func (d *Document) EnableGeodataDragDrop() error { return d.EnableSection(SectionGeodataDragDrop) }
func (d *Document) EnablePermalink() error       { return d.EnableSection(SectionPermalink) }
func (d *Document) EnableOverviewMap() error     { return d.EnableSection(SectionOverviewMap) }
func (d *Document) EnableViewAnimation() error   { return d.EnableSection(SectionViewAnimation) }

// Modules returns a copy of the enabled modules.
func (d *Document) Modules() map[string]Options {
	out := make(map[string]Options, len(d.modules))
	for id, o := range d.modules {
		out[id] = cloneOptions(o)
	}
	return out
}

// IsValid reports whether the document has at least one layer.
func (d *Document) IsValid() bool {
	return len(d.layers) > 0
}

// Validate returns ErrEmptyDocument for a document IsValid rejects.
func (d *Document) Validate() error {
	if !d.IsValid() {
		return ErrEmptyDocument
	}
	return nil
}

type documentJSON struct {
	Title             string             `json:"title"`
	BaseColor         string             `json:"baseColor,omitempty"`
	ColorTheme        *ColorTheme        `json:"colorTheme,omitempty"`
	Logo              string             `json:"logo"`
	LogoSize          int                `json:"logoSize"`
	FooterTextLeft    string             `json:"footerTextLeft"`
	FooterTextRight   string             `json:"footerTextRight"`
	ShowCopyrightYear bool               `json:"showCopyrightYear"`
	MapZoom           int                `json:"mapZoom"`
	MapCenter         [2]float64         `json:"mapCenter"`
	MapLayers         []LayerRecord      `json:"mapLayers"`
	Modules           map[string]Options `json:"modules"`
	MapGeodataDragDop Options            `json:"mapGeodataDragDop,omitempty"`
	Permalink         Options            `json:"permalink,omitempty"`
	OverviewMap       Options            `json:"overviewMap,omitempty"`
	ViewAnimation     Options            `json:"viewAnimation,omitempty"`
}

// MarshalJSON emits the document in the Wegue app-conf shape. Unset layer
// fields are left out.
func (d *Document) MarshalJSON() ([]byte, error) {
	layers := d.layers
	if layers == nil {
		layers = []LayerRecord{}
	}
	return marshalLiteral(documentJSON{
		Title:             d.Title,
		BaseColor:         d.baseColor,
		ColorTheme:        d.colorTheme,
		Logo:              d.Logo,
		LogoSize:          d.LogoSize,
		FooterTextLeft:    d.FooterTextLeft,
		FooterTextRight:   d.FooterTextRight,
		ShowCopyrightYear: d.ShowCopyrightYear,
		MapZoom:           d.mapZoom,
		MapCenter:         d.mapCenter,
		MapLayers:         layers,
		Modules:           d.modules,
		MapGeodataDragDop: d.sections[SectionGeodataDragDrop],
		Permalink:         d.sections[SectionPermalink],
		OverviewMap:       d.sections[SectionOverviewMap],
		ViewAnimation:     d.sections[SectionViewAnimation],
	})
}

// marshalLiteral is json.Marshal without HTML escaping.
func marshalLiteral(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Marshal renders the document as 2-space indented JSON. Non-ASCII text and
// HTML in footers are written literally.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile validates the document and writes it to path. Nothing is written
// for an invalid document.
func (d *Document) WriteFile(path string) error {
	if err := d.Validate(); err != nil {
		return err
	}
	data, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("encoding wegue configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing wegue configuration: %w", err)
	}
	return nil
}

// SectionsEnabled returns the enabled top-level sections in sorted order.
func (d *Document) SectionsEnabled() []Section {
	return slices.Sorted(maps.Keys(d.sections))
}
