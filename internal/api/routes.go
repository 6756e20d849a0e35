// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/qgis2wegue/internal/provider"
	"github.com/joeblew999/qgis2wegue/internal/service"
	"github.com/joeblew999/qgis2wegue/internal/wegue"
)

// Version is reported by the health and info endpoints.
const Version = "1.0.0"

// Services holds the service dependencies for API handlers.
type Services struct {
	Export *service.ExportService
}

// Types

type CatalogInput struct {
	Catalog string `query:"catalog" enum:"v1,v2" doc:"Module catalog version; the newest when empty" example:"v2"`
}

type ModuleBody struct {
	ID      string        `json:"id" doc:"Module id" example:"wgu-measuretool"`
	Options wegue.Options `json:"options" doc:"Preset written when the module is enabled"`
}

type CatalogBody struct {
	Version  string       `json:"version" doc:"Catalog version" example:"v2"`
	Modules  []ModuleBody `json:"modules" doc:"Modules in id order"`
	Sections []string     `json:"sections" doc:"Top-level sections that can be enabled"`
}

type ClassifyInput struct {
	Body struct {
		Layers []provider.HostLayer `json:"layers" doc:"Layers to classify"`
	}
}

type ClassifyOutput struct {
	Body []service.Classification
}

type ExportInput struct {
	Body service.ExportRequest
}

type ExportBody struct {
	Config   any                    `json:"config" doc:"Wegue app configuration (app-conf.json)"`
	Skipped  []service.SkippedLayer `json:"skipped" doc:"Layers of a kind Wegue cannot show"`
	Warnings []service.LayerWarning `json:"warnings" doc:"Supported layers that could not be exported"`
}

type ExportOutput struct {
	Body ExportBody
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterRoutes registers every handler of the package on api.
func RegisterRoutes(api huma.API, svc *Services, info *InfoHandler) {
	huma.AutoRegister(api, NewAPIHandler(svc))
	if info != nil {
		info.RegisterRoutes(api)
	}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterModules registers the module catalog routes.
func (h *APIHandler) RegisterModules(api huma.API) {
	huma.Get(api, "/api/v1/modules", h.GetModules, huma.OperationTags("modules"))
}

// RegisterExport registers the classification and export routes.
func (h *APIHandler) RegisterExport(api huma.API) {
	huma.Post(api, "/api/v1/classify", h.Classify, huma.OperationTags("export"))
	huma.Post(api, "/api/v1/export", h.Export, huma.OperationTags("export"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: Version}}, nil
}

func (h *APIHandler) GetModules(ctx context.Context, input *CatalogInput) (*struct{ Body CatalogBody }, error) {
	catalog, ok := wegue.CatalogByVersion(input.Catalog)
	if !ok {
		return nil, huma.Error404NotFound("catalog not found")
	}
	body := CatalogBody{Version: catalog.Version}
	for _, id := range catalog.ModuleIDs() {
		opts, err := catalog.Module(id)
		if err != nil {
			return nil, huma.Error500InternalServerError("catalog lookup failed", err)
		}
		body.Modules = append(body.Modules, ModuleBody{ID: id, Options: opts})
	}
	for _, s := range catalog.SectionNames() {
		body.Sections = append(body.Sections, string(s))
	}
	return &struct{ Body CatalogBody }{Body: body}, nil
}

func (h *APIHandler) Classify(ctx context.Context, input *ClassifyInput) (*ClassifyOutput, error) {
	if h.svc == nil || h.svc.Export == nil {
		return nil, huma.Error503ServiceUnavailable("service not available")
	}
	return &ClassifyOutput{Body: h.svc.Export.Classify(input.Body.Layers)}, nil
}

func (h *APIHandler) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	if h.svc == nil || h.svc.Export == nil {
		return nil, huma.Error503ServiceUnavailable("service not available")
	}
	res, err := h.svc.Export.Build(ctx, input.Body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error500InternalServerError("export failed", err)
	}
	if err := res.Document.Validate(); err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error(), warningErrors(res)...)
	}

	body := ExportBody{
		Config:   res.Document,
		Skipped:  res.Skipped,
		Warnings: res.Warnings,
	}
	if body.Skipped == nil {
		body.Skipped = []service.SkippedLayer{}
	}
	if body.Warnings == nil {
		body.Warnings = []service.LayerWarning{}
	}
	return &ExportOutput{Body: body}, nil
}

// warningErrors turns per-layer problems into huma error details.
func warningErrors(res *service.ExportResult) []error {
	var errs []error
	for _, s := range res.Skipped {
		errs = append(errs, &huma.ErrorDetail{
			Message:  "layer kind " + string(s.Kind) + " is not supported",
			Location: "body.layers",
			Value:    s.Name,
		})
	}
	for _, w := range res.Warnings {
		errs = append(errs, &huma.ErrorDetail{
			Message:  w.Error,
			Location: "body.layers",
			Value:    w.Name,
		})
	}
	return errs
}
