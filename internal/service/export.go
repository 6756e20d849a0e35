package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/paulmach/orb"

	"github.com/joeblew999/qgis2wegue/internal/geo"
	"github.com/joeblew999/qgis2wegue/internal/provider"
	"github.com/joeblew999/qgis2wegue/internal/wegue"
)

// ErrInvalidRequest is returned for requests that name an unknown catalog
// or module, or a view that cannot be placed.
var ErrInvalidRequest = errors.New("invalid export request")

// ExportConfig holds the collaborators of an ExportService. Zero fields get
// working defaults.
type ExportConfig struct {
	Resolver    provider.GetMapResolver // nil: GetMap URLs come from the source url
	Reprojector geo.Reprojector
	IDs         wegue.IDGenerator
	Events      *EventBus
	Logger      *slog.Logger
}

// ExportService turns project layers into Wegue configurations.
type ExportService struct {
	resolver    provider.GetMapResolver
	reprojector geo.Reprojector
	ids         wegue.IDGenerator
	events      *EventBus
	logger      *slog.Logger
}

// NewExportService creates a new export service.
func NewExportService(cfg ExportConfig) *ExportService {
	s := &ExportService{
		resolver:    cfg.Resolver,
		reprojector: cfg.Reprojector,
		ids:         cfg.IDs,
		events:      cfg.Events,
		logger:      cfg.Logger,
	}
	if s.reprojector == nil {
		s.reprojector = geo.OrbReprojector{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Classification is the kind a layer was classified as.
type Classification struct {
	Name      string          `json:"name" doc:"Layer name"`
	Kind      wegue.LayerKind `json:"kind" doc:"Classified layer kind" example:"WMS"`
	Supported bool            `json:"supported" doc:"Whether the layer would be exported"`
}

// Classify reports the kind of every layer without extracting anything.
func (s *ExportService) Classify(layers []provider.HostLayer) []Classification {
	out := make([]Classification, 0, len(layers))
	for _, l := range layers {
		kind := provider.Classify(l)
		out = append(out, Classification{Name: l.Name, Kind: kind, Supported: kind.Supported()})
	}
	return out
}

// Build assembles the document for req. Layers that cannot be exported end up
// in the result's Skipped or Warnings; only request level problems and
// cancellation are errors. The document may be empty: callers validate
// before writing.
func (s *ExportService) Build(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	catalog, ok := wegue.CatalogByVersion(req.Catalog)
	if !ok {
		return nil, fmt.Errorf("%w: unknown catalog version %q", ErrInvalidRequest, req.Catalog)
	}
	opts := []wegue.Option{wegue.WithCatalog(catalog)}
	if s.ids != nil {
		opts = append(opts, wegue.WithIDGenerator(s.ids))
	}
	doc := wegue.New(opts...)

	applySettings(doc, req.Settings)
	if err := s.applyViewport(doc, req.Viewport); err != nil {
		return nil, err
	}
	if err := enableModules(doc, req.Modules); err != nil {
		return nil, err
	}

	res := &ExportResult{Document: doc}

	if req.OSMBaseLayer {
		l := doc.AddOSMLayer(wegue.OSMFields{})
		s.publish(Event{Layer: l.Name, Kind: wegue.KindOSM, Action: "added", Detail: l.LID})
	}

	extractor := &provider.Extractor{
		Resolver:    s.resolver,
		Reprojector: s.reprojector,
		ProjectCRS:  req.Viewport.CRS,
		Logger:      s.logger,
	}
	for _, l := range req.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		kind := provider.Classify(l)
		if !kind.Supported() {
			s.logger.Info("skipping layer", "layer", l.Name, "kind", kind)
			res.Skipped = append(res.Skipped, SkippedLayer{Name: l.Name, Kind: kind})
			s.publish(Event{Layer: l.Name, Kind: kind, Action: "skipped"})
			continue
		}

		rec, err := s.add(ctx, doc, extractor, l, kind)
		if err != nil {
			s.logger.Warn("layer not exported", "layer", l.Name, "kind", kind, "error", err)
			res.Warnings = append(res.Warnings, LayerWarning{Name: l.Name, Kind: kind, Error: err.Error(), Err: err})
			s.publish(Event{Layer: l.Name, Kind: kind, Action: "failed", Detail: err.Error()})
			continue
		}
		s.publish(Event{Layer: l.Name, Kind: kind, Action: "added", Detail: rec.Header().LID})
	}
	return res, nil
}

// Export builds the document and writes it to path. Nothing is written when
// no layer made it into the document.
func (s *ExportService) Export(ctx context.Context, req ExportRequest, path string) (*ExportResult, error) {
	res, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := res.Document.WriteFile(path); err != nil {
		return res, err
	}
	s.logger.Info("wegue configuration written", "path", path, "layers", len(res.Document.Layers()))
	return res, nil
}

func (s *ExportService) add(ctx context.Context, doc *wegue.Document, e *provider.Extractor, l provider.HostLayer, kind wegue.LayerKind) (wegue.LayerRecord, error) {
	switch kind {
	case wegue.KindXYZ:
		f, err := e.XYZ(l)
		if err != nil {
			return nil, err
		}
		return doc.AddXYZLayer(f), nil
	case wegue.KindWMS:
		f, err := e.WMS(ctx, l)
		if err != nil {
			return nil, err
		}
		return doc.AddWMSLayer(f), nil
	case wegue.KindWFS:
		f, err := e.WFS(l)
		if err != nil {
			return nil, err
		}
		return doc.AddWFSLayer(f), nil
	case wegue.KindOSM:
		return doc.AddOSMLayer(wegue.OSMFields{Common: l.Common(), Name: l.Name}), nil
	default:
		f, err := e.Vector(l, kind)
		if err != nil {
			return nil, err
		}
		return doc.AddVectorLayer(f), nil
	}
}

func (s *ExportService) applyViewport(doc *wegue.Document, v Viewport) error {
	zoom := doc.MapZoom()
	if v.Scale > 0 {
		zoom = geo.ScaleToZoom(v.Scale)
	}
	center := doc.MapCenter()
	if len(v.Center) == 2 {
		p, err := s.reprojector.ToWebMercator(v.CRS, orb.Point{v.Center[0], v.Center[1]})
		if err != nil {
			return fmt.Errorf("%w: view center: %w", ErrInvalidRequest, err)
		}
		center = p
	}
	return doc.SetView(zoom, center)
}

func applySettings(doc *wegue.Document, st Settings) {
	if st.Title != nil {
		doc.Title = *st.Title
	}
	if st.Logo != nil {
		doc.Logo = *st.Logo
	}
	if st.LogoSize != nil {
		doc.LogoSize = *st.LogoSize
	}
	if st.FooterTextLeft != nil {
		doc.FooterTextLeft = *st.FooterTextLeft
	}
	if st.FooterTextRight != nil {
		doc.FooterTextRight = *st.FooterTextRight
	}
	if st.ShowCopyrightYear != nil {
		doc.ShowCopyrightYear = *st.ShowCopyrightYear
	}
	switch {
	case st.PrimaryColor != "":
		doc.SetPrimaryColor(st.PrimaryColor)
	case st.BaseColor != "":
		doc.SetBaseColor(st.BaseColor)
	}
}

// enableModules accepts module ids and section names in one list.
func enableModules(doc *wegue.Document, ids []string) error {
	sections := doc.Catalog().SectionNames()
	for _, id := range ids {
		var err error
		if slices.Contains(sections, wegue.Section(id)) {
			err = doc.EnableSection(wegue.Section(id))
		} else {
			err = doc.EnableModule(id)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}
	return nil
}

func (s *ExportService) publish(e Event) {
	if s.events != nil {
		s.events.Publish(e)
	}
}
