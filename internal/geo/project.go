package geo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// TargetCRS is the reference system every exported coordinate is expressed in.
const TargetCRS = "EPSG:3857"

// ErrUnsupportedCRS is returned when no projection into TargetCRS is known.
var ErrUnsupportedCRS = errors.New("unsupported coordinate reference system")

// Reprojector converts points and bounds from a host CRS into TargetCRS.
// The host GIS owns arbitrary CRS transforms; callers with access to one can
// supply their own implementation.
type Reprojector interface {
	ToWebMercator(crs string, p orb.Point) (orb.Point, error)
	BoundToWebMercator(crs string, b orb.Bound) (orb.Bound, error)
}

// OrbReprojector handles the geographic and Web Mercator families with
// paulmach/orb.
type OrbReprojector struct{}

// ToWebMercator projects p from crs into EPSG:3857.
func (OrbReprojector) ToWebMercator(crs string, p orb.Point) (orb.Point, error) {
	proj, err := ForCRS(crs)
	if err != nil {
		return orb.Point{}, err
	}
	return proj(p), nil
}

// BoundToWebMercator projects both corners of b from crs into EPSG:3857.
func (OrbReprojector) BoundToWebMercator(crs string, b orb.Bound) (orb.Bound, error) {
	proj, err := ForCRS(crs)
	if err != nil {
		return orb.Bound{}, err
	}
	return project.Bound(b, proj), nil
}

// ForCRS returns the projection taking crs coordinates into EPSG:3857.
func ForCRS(crs string) (orb.Projection, error) {
	switch normalizeCRS(crs) {
	case "EPSG:3857", "EPSG:900913", "EPSG:102100":
		return identity, nil
	case "EPSG:4326", "CRS:84", "OGC:CRS84":
		return project.WGS84.ToMercator, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedCRS, crs)
}

func identity(p orb.Point) orb.Point { return p }

// normalizeCRS treats an empty identifier as the QGIS default, EPSG:4326.
func normalizeCRS(crs string) string {
	crs = strings.ToUpper(strings.TrimSpace(crs))
	crs = strings.TrimPrefix(crs, "URN:OGC:DEF:CRS:")
	crs = strings.ReplaceAll(crs, "::", ":")
	if crs == "" {
		return "EPSG:4326"
	}
	return crs
}
