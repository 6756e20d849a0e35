package wegue

var defaultStyles = map[GeometryKind]Style{
	GeometryPoint: {
		Radius:      4,
		StrokeColor: "rgb(207, 16, 32)",
		StrokeWidth: 1,
		FillColor:   "rgba(207, 16, 32, 0.6)",
	},
	GeometryLineString: {
		StrokeColor: "blue",
		StrokeWidth: 2,
	},
	GeometryPolygon: {
		StrokeColor: "gray",
		StrokeWidth: 1,
		FillColor:   "rgba(20,20,20,0.1)",
	},
}

// DefaultStyle returns the style Wegue draws a geometry kind with when the
// layer brings none. It returns nil for unknown kinds.
func DefaultStyle(g GeometryKind) *Style {
	s, ok := defaultStyles[g]
	if !ok {
		return nil
	}
	return &s
}

// resolveStyle gives an explicit style precedence over the geometry default.
func resolveStyle(explicit *Style, g GeometryKind) *Style {
	if explicit != nil {
		return explicit
	}
	return DefaultStyle(g)
}
