package api

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/qgis2wegue/internal/wegue"
)

type InfoHandler struct {
	capabilitiesTimeout time.Duration
}

func NewInfoHandler(capabilitiesTimeout time.Duration) *InfoHandler {
	return &InfoHandler{capabilitiesTimeout: capabilitiesTimeout}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name                string   `json:"name" doc:"Service name"`
	Version             string   `json:"version" doc:"Service version"`
	Catalogs            []string `json:"catalogs" doc:"Available module catalog versions"`
	DefaultCatalog      string   `json:"default_catalog" doc:"Catalog used when a request names none"`
	LayerKinds          []string `json:"layer_kinds" doc:"Layer kinds that are exported"`
	CapabilitiesTimeout string   `json:"capabilities_timeout" doc:"Timeout of WMS capabilities lookups" example:"10s"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	var kinds []string
	for _, k := range wegue.Kinds {
		if k.Supported() {
			kinds = append(kinds, string(k))
		}
	}
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:                "qgis2wegue",
		Version:             Version,
		Catalogs:            []string{wegue.CatalogV1.Version, wegue.CatalogV2.Version},
		DefaultCatalog:      wegue.DefaultCatalog.Version,
		LayerKinds:          kinds,
		CapabilitiesTimeout: h.capabilitiesTimeout.String(),
	}}, nil
}
