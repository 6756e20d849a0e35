package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/joeblew999/qgis2wegue/internal/geo"
	"github.com/joeblew999/qgis2wegue/internal/wegue"
)

// GetMapResolver finds the GetMap endpoint a WMS advertises in its
// capabilities document.
type GetMapResolver interface {
	GetMapURL(ctx context.Context, serviceURL string) (string, error)
}

// Extractor pulls per-kind Wegue fields out of host layers.
type Extractor struct {
	// Resolver looks up WMS GetMap URLs. When nil, or when the lookup fails,
	// the url of the source string is used.
	Resolver GetMapResolver

	// Reprojector moves WFS extents into the target CRS. Extents are dropped
	// when it is nil or fails.
	Reprojector geo.Reprojector

	// ProjectCRS is used for layers that carry no CRS of their own.
	ProjectCRS string

	Logger *slog.Logger
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// XYZ reads the tile url template and the optional referer, which Wegue shows
// as attribution.
func (e *Extractor) XYZ(l HostLayer) (wegue.XYZFields, error) {
	p, err := QueryParser{}.Parse(l.Source)
	if err != nil {
		return wegue.XYZFields{}, err
	}
	tileURL, err := requireKey(p, "url")
	if err != nil {
		return wegue.XYZFields{}, err
	}
	referer, _ := p.Get("referer")
	return wegue.XYZFields{
		Common:       l.Common(),
		Name:         l.Name,
		URL:          tileURL,
		Attributions: referer,
	}, nil
}

// WMS reads the service url and layer list and resolves the GetMap endpoint,
// preferring the capabilities document over the source url.
func (e *Extractor) WMS(ctx context.Context, l HostLayer) (wegue.WMSFields, error) {
	p, err := QueryParser{}.Parse(l.Source)
	if err != nil {
		return wegue.WMSFields{}, err
	}
	serviceURL, err := requireKey(p, "url")
	if err != nil {
		return wegue.WMSFields{}, err
	}
	layers, err := layerList(p)
	if err != nil {
		return wegue.WMSFields{}, err
	}

	getMap := ""
	if e.Resolver != nil {
		getMap, err = e.Resolver.GetMapURL(ctx, serviceURL)
		if err != nil {
			e.logger().Warn("capabilities lookup failed, using source url",
				"layer", l.Name, "url", serviceURL, "error", err)
			getMap = ""
		}
	}
	if getMap == "" {
		var ok bool
		if getMap, ok = FallbackGetMapURL(l.Source); !ok {
			return wegue.WMSFields{}, fmt.Errorf("%w %q", ErrMissingKey, "url")
		}
	}

	return wegue.WMSFields{
		Common: l.Common(),
		Name:   l.Name,
		URL:    getMap,
		Layers: layers,
	}, nil
}

// layerList joins repeated layers keys into the comma separated list the
// WMS LAYERS parameter takes.
func layerList(p Params) (string, error) {
	var names []string
	for _, v := range p.All("layers") {
		if v != "" {
			names = append(names, v)
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w %q", ErrMissingKey, "layers")
	}
	return strings.Join(names, ","), nil
}

var sourceURL = regexp.MustCompile(`(?:^|&)url=([^&]*)`)

// FallbackGetMapURL extracts the url parameter from a raw wms source string.
func FallbackGetMapURL(source string) (string, bool) {
	m := sourceURL.FindStringSubmatch(source)
	if m == nil || m[1] == "" {
		return "", false
	}
	if u, err := url.QueryUnescape(m[1]); err == nil {
		return u, true
	}
	return m[1], true
}

// WFS reads the feature type, service url and request options, and carries
// the layer extent and geometry over.
func (e *Extractor) WFS(l HostLayer) (wegue.WFSFields, error) {
	p, err := TokenParser{}.Parse(l.Source)
	if err != nil {
		return wegue.WFSFields{}, err
	}
	typeName, err := requireKey(p, "typename")
	if err != nil {
		return wegue.WFSFields{}, err
	}
	serviceURL, err := requireKey(p, "url")
	if err != nil {
		return wegue.WFSFields{}, err
	}

	f := wegue.WFSFields{
		Common:   l.Common(),
		Name:     l.Name,
		URL:      serviceURL,
		TypeName: typeName,
		Geometry: geometry(l),
		Extent:   e.extent(l),
	}
	if v, ok := p.Lookup("version"); ok && v != "auto" {
		f.Version = v
	}
	if srs, ok := p.Lookup("srsname"); ok {
		f.Projection = srs
	}
	if limit, ok := p.Lookup("maxNumFeatures"); ok {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			f.MaxFeatures = wegue.Some(n)
		}
	}
	return f, nil
}

// Vector reads the file path or URL of an ogr layer. kind selects the format.
func (e *Extractor) Vector(l HostLayer, kind wegue.LayerKind) (wegue.VectorFields, error) {
	format := kind.VectorFormat()
	if format == "" {
		return wegue.VectorFields{}, fmt.Errorf("%w: %s is not a vector kind", ErrMalformedSource, kind)
	}
	p, err := PathParser{}.Parse(l.Source)
	if err != nil {
		return wegue.VectorFields{}, err
	}
	path, _ := p.Get(PathKey)
	return wegue.VectorFields{
		Common:   l.Common(),
		Name:     l.Name,
		URL:      path,
		Format:   format,
		Geometry: geometry(l),
	}, nil
}

func geometry(l HostLayer) wegue.GeometryKind {
	if l.GeometryKind == nil {
		return ""
	}
	return wegue.GeometryFromCode(*l.GeometryKind)
}

func (e *Extractor) extent(l HostLayer) wegue.Optional[wegue.Extent] {
	if len(l.SourceExtent) != 4 {
		return wegue.Optional[wegue.Extent]{}
	}
	b := wegue.Extent(l.SourceExtent).Bound()
	if e.Reprojector == nil {
		return wegue.Optional[wegue.Extent]{}
	}
	crs := l.CRS
	if crs == "" {
		crs = e.ProjectCRS
	}
	projected, err := e.Reprojector.BoundToWebMercator(crs, b)
	if err != nil {
		e.logger().Warn("dropping layer extent", "layer", l.Name, "crs", crs, "error", err)
		return wegue.Optional[wegue.Extent]{}
	}
	return wegue.Some(wegue.ExtentFromBound(projected))
}
