package canvas

import (
	"delivery-planning-session/internal/domain"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON exports the current layers as a FeatureCollection: markers as
// points, route segments as line strings.
func (c *MemoryCanvas) GeoJSON() *geojson.FeatureCollection {
	return c.Snapshot().FeatureCollection()
}

func (s Snapshot) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, m := range s.Markers {
		f := geojson.NewFeature(point(m.At))
		f.ID = string(m.ID)
		f.Properties["kind"] = string(m.Kind)
		f.Properties["label"] = m.Label
		f.Properties["style"] = string(m.Style)
		fc.Append(f)
	}

	for i, l := range s.Polylines {
		ls := make(orb.LineString, 0, len(l.Path))
		for _, p := range l.Path {
			ls = append(ls, point(p))
		}
		f := geojson.NewFeature(ls)
		f.ID = string(l.ID)
		f.Properties["kind"] = string(l.Kind)
		f.Properties["segment"] = i
		fc.Append(f)
	}

	if fit := s.Viewport.Fit; fit != nil {
		b := orb.Bound{Min: point(fit.Min), Max: point(fit.Max)}
		fc.BBox = geojson.NewBBox(b)
		fc.ExtraMembers = geojson.Properties{"padding_px": fit.PaddingPx}
	} else {
		fc.ExtraMembers = geojson.Properties{
			"center": s.Viewport.Center.CoordsToList(),
			"zoom":   s.Viewport.Zoom,
		}
	}

	return fc
}

// MarshalGeoJSON renders the collection; kept here so callers need not
// import orb.
func (c *MemoryCanvas) MarshalGeoJSON() ([]byte, error) {
	b, err := c.GeoJSON().MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return b, nil
}

func point(at domain.LatLng) orb.Point { return orb.Point{at.Lng, at.Lat} }
