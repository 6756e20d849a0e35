package api

import "github.com/danielgtaylor/huma/v2"

// links maps operation paths to their RFC 8288 Link header values.
// Enables restish hypermedia navigation via `restish links <url>`.
var links = map[string][]string{
	"/health": {
		`</api/v1/info>; rel="info"`,
		`</api/v1/modules>; rel="modules"`,
		`</api/v1/export>; rel="export"`,
	},
	"/api/v1/info": {
		`</health>; rel="health"`,
		`</api/v1/modules>; rel="modules"`,
	},
	"/api/v1/modules": {
		`</api/v1/export>; rel="export"`,
	},
	"/api/v1/classify": {
		`</api/v1/export>; rel="export"`,
	},
	"/api/v1/export": {
		`</api/v1/classify>; rel="classify"`,
		`</api/v1/modules>; rel="modules"`,
	},
}

// LinkTransformer returns a Huma Transformer that injects RFC 8288 Link headers.
func LinkTransformer() huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		op := ctx.Operation()
		if op == nil {
			return v, nil
		}

		for _, link := range links[op.Path] {
			ctx.AppendHeader("Link", link)
		}

		return v, nil
	}
}
