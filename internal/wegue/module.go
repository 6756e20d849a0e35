package wegue

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Module ids understood by the Wegue front end.
const (
	ModuleLayerList       = "wgu-layerlist"
	ModuleMeasureTool     = "wgu-measuretool"
	ModuleInfoClick       = "wgu-infoclick"
	ModuleZoomToMaxExtent = "wgu-zoomtomaxextent"
	ModuleHelpWindow      = "wgu-helpwin"
	ModuleGeocoder        = "wgu-geocoder"
	ModuleGeolocator      = "wgu-geolocator"
	ModuleMapRecorder     = "wgu-maprecorder"
	ModuleAttributeTable  = "wgu-attributetable"
)

// Section names a top-level optional block of the document.
type Section string

const (
	SectionGeodataDragDrop Section = "mapGeodataDragDop"
	SectionPermalink       Section = "permalink"
	SectionOverviewMap     Section = "overviewMap"
	SectionViewAnimation   Section = "viewAnimation"
)

// ErrUnknownModule is returned for module ids or sections missing from the
// document's catalog.
var ErrUnknownModule = errors.New("unknown module")

// Options is the option record of a module or section.
type Options map[string]any

// Catalog is a versioned set of module and section presets.
type Catalog struct {
	Version  string
	Modules  map[string]Options
	Sections map[Section]Options
}

// ModuleIDs returns the catalog's module ids in sorted order.
func (c *Catalog) ModuleIDs() []string {
	return slices.Sorted(maps.Keys(c.Modules))
}

// SectionNames returns the catalog's sections in sorted order.
func (c *Catalog) SectionNames() []Section {
	return slices.Sorted(maps.Keys(c.Sections))
}

// Module returns a copy of the preset for id.
func (c *Catalog) Module(id string) (Options, error) {
	preset, ok := c.Modules[id]
	if !ok {
		return nil, fmt.Errorf("%w %q in catalog %s", ErrUnknownModule, id, c.Version)
	}
	return cloneOptions(preset), nil
}

// Section returns a copy of the preset for s.
func (c *Catalog) Section(s Section) (Options, error) {
	preset, ok := c.Sections[s]
	if !ok {
		return nil, fmt.Errorf("%w section %q in catalog %s", ErrUnknownModule, s, c.Version)
	}
	return cloneOptions(preset), nil
}

func cloneOptions(o Options) Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Options:
		return cloneOptions(t)
	case map[string]any:
		return map[string]any(cloneOptions(t))
	case []string:
		return slices.Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

var sections = map[Section]Options{
	SectionGeodataDragDrop: {
		"formats":            []string{"GeoJSON", "KML"},
		"zoomToData":         true,
		"replaceData":        true,
		"displayInLayerList": true,
		"layerName":          "Uploaded Data",
	},
	SectionPermalink: {
		"location":    "hash",
		"layers":      true,
		"extent":      false,
		"projection":  "EPSG:4326",
		"paramPrefix": "",
		"history":     true,
	},
	SectionOverviewMap: {
		"visible": false,
	},
	SectionViewAnimation: {
		"type": "fly",
		"options": Options{
			"duration": 3000,
			"zoom":     15,
			"maxZoom":  15,
		},
	},
}

var toolbarButton = Options{
	"target":     "toolbar",
	"darkLayout": true,
}

var geocoder = Options{
	"target":      "toolbar",
	"darkLayout":  true,
	"minChars":    2,
	"queryDelay":  200,
	"selectZoom":  16,
	"debug":       false,
	"placeHolder": "Search address",
	"provider":    "osm",
	"providerOptions": Options{
		"lang":         "en-US",
		"countrycodes": "",
		"limit":        6,
	},
}

// CatalogV1 holds the presets of the first Wegue module layout, where
// windows are toggled with a boolean `win`.
var CatalogV1 = &Catalog{
	Version: "v1",
	Modules: map[string]Options{
		ModuleLayerList: {
			"target":    "menu",
			"win":       true,
			"draggable": false,
		},
		ModuleMeasureTool: {
			"target":                  "menu",
			"win":                     true,
			"draggable":               false,
			"strokeColor":             "#c62828",
			"fillColor":               "rgba(198,40,40,0.2)",
			"sketchStrokeColor":       "rgba(198,40,40,0.8)",
			"sketchFillColor":         "rgba(198,40,40,0.1)",
			"sketchVertexStrokeColor": "#c62828",
			"sketchVertexFillColor":   "rgba(198,40,40,0.2)",
		},
		ModuleInfoClick: {
			"target":    "menu",
			"win":       true,
			"draggable": false,
			"initPos":   Options{"left": 8, "top": 74},
		},
		ModuleZoomToMaxExtent: toolbarButton,
		ModuleHelpWindow:      toolbarButton,
		ModuleGeocoder:        geocoder,
	},
	Sections: sections,
}

// CatalogV2 holds the presets of the floating-window Wegue layout with
// icons. It is the default catalog.
var CatalogV2 = &Catalog{
	Version: "v2",
	Modules: map[string]Options{
		ModuleLayerList: {
			"target":    "menu",
			"icon":      "layers",
			"win":       "floating",
			"draggable": false,
		},
		ModuleMeasureTool: {
			"target":                  "menu",
			"win":                     "floating",
			"icon":                    "photo_size_select_small",
			"draggable":               false,
			"strokeColor":             "#c62828",
			"fillColor":               "rgba(198,40,40,0.2)",
			"sketchStrokeColor":       "rgba(198,40,40,0.8)",
			"sketchFillColor":         "rgba(198,40,40,0.1)",
			"sketchVertexStrokeColor": "#c62828",
			"sketchVertexFillColor":   "rgba(198,40,40,0.2)",
		},
		ModuleInfoClick: {
			"target":    "menu",
			"win":       "floating",
			"icon":      "info",
			"draggable": false,
			"initPos":   Options{"left": 8, "top": 74},
		},
		ModuleZoomToMaxExtent: toolbarButton,
		ModuleHelpWindow:      toolbarButton,
		ModuleGeocoder:        geocoder,
		ModuleGeolocator:      toolbarButton,
		ModuleMapRecorder: {
			"target":    "toolbar",
			"win":       "floating",
			"icon":      "mdi-video",
			"draggable": false,
			"initPos":   Options{"left": 8, "top": 230},
		},
		ModuleAttributeTable: {
			"target":                "menu",
			"win":                   "floating",
			"icon":                  "table_chart",
			"syncTableMapSelection": true,
		},
	},
	Sections: sections,
}

// DefaultCatalog is the catalog new documents use.
var DefaultCatalog = CatalogV2

// CatalogByVersion looks a catalog up by its version string.
func CatalogByVersion(version string) (*Catalog, bool) {
	switch version {
	case CatalogV1.Version:
		return CatalogV1, true
	case CatalogV2.Version, "":
		return CatalogV2, true
	}
	return nil, false
}
