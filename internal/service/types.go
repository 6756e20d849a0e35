// Package service contains the export logic of qgis2wegue.
package service

import (
	"github.com/joeblew999/qgis2wegue/internal/provider"
	"github.com/joeblew999/qgis2wegue/internal/wegue"
)

// ExportRequest is everything an export needs: the selected layers in
// stacking order, the current view and the dialog settings.
// Huma reads the tags for OpenAPI and validation; the CLI reads the same
// shape from a YAML or JSON project file.
type ExportRequest struct {
	Layers       []provider.HostLayer `json:"layers" yaml:"layers" doc:"Selected project layers in stacking order"`
	Viewport     Viewport             `json:"viewport" yaml:"viewport" doc:"Current map view"`
	Settings     Settings             `json:"settings,omitempty" yaml:"settings,omitempty" doc:"Dialog settings; unset fields keep the document defaults"`
	Modules      []string             `json:"modules,omitempty" yaml:"modules,omitempty" doc:"Module ids or top-level sections to enable"`
	OSMBaseLayer bool                 `json:"osmBaseLayer,omitempty" yaml:"osmBaseLayer,omitempty" doc:"Put an OpenStreetMap layer below all others"`
	Catalog      string               `json:"catalog,omitempty" yaml:"catalog,omitempty" enum:"v1,v2" doc:"Module catalog version; the newest when empty" example:"v2"`
}

// Viewport is the map view of the project at export time.
type Viewport struct {
	Scale  float64   `json:"scale" yaml:"scale" minimum:"0" doc:"Scale denominator" example:"25000"`
	Center []float64 `json:"center,omitempty" yaml:"center,omitempty" minItems:"2" maxItems:"2" doc:"View center in the project CRS"`
	CRS    string    `json:"crs,omitempty" yaml:"crs,omitempty" doc:"Project CRS; EPSG:4326 when empty" example:"EPSG:4326"`
}

// Settings mirrors the export dialog. Nil fields keep the defaults.
type Settings struct {
	Title             *string `json:"title,omitempty" yaml:"title,omitempty" doc:"Application title" example:"City Map"`
	Logo              *string `json:"logo,omitempty" yaml:"logo,omitempty" doc:"Logo image URL"`
	LogoSize          *int    `json:"logoSize,omitempty" yaml:"logoSize,omitempty" minimum:"0" doc:"Logo size in pixels" example:"100"`
	FooterTextLeft    *string `json:"footerTextLeft,omitempty" yaml:"footerTextLeft,omitempty" doc:"Left footer HTML"`
	FooterTextRight   *string `json:"footerTextRight,omitempty" yaml:"footerTextRight,omitempty" doc:"Right footer HTML"`
	ShowCopyrightYear *bool   `json:"showCopyrightYear,omitempty" yaml:"showCopyrightYear,omitempty" doc:"Show the current year in the footer"`
	BaseColor         string  `json:"baseColor,omitempty" yaml:"baseColor,omitempty" doc:"Vuetify base color" example:"rgb(46, 125, 50)"`
	PrimaryColor      string  `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty" doc:"Primary color of the light theme; wins over baseColor" example:"#2e7d32"`
}

// LayerWarning records a layer that was classified as supported but could
// not be exported.
type LayerWarning struct {
	Name  string          `json:"name" doc:"Layer name"`
	Kind  wegue.LayerKind `json:"kind" doc:"Classified layer kind"`
	Error string          `json:"error" doc:"Why the layer was left out"`

	Err error `json:"-"`
}

// SkippedLayer records a layer whose kind Wegue cannot show.
type SkippedLayer struct {
	Name string          `json:"name" doc:"Layer name"`
	Kind wegue.LayerKind `json:"kind" doc:"Classified layer kind" example:"WMTS"`
}

// ExportResult is the built document plus what did not make it in.
type ExportResult struct {
	Document *wegue.Document
	Skipped  []SkippedLayer
	Warnings []LayerWarning
}
