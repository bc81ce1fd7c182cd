package placement

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is a catalogue seed read from GeoJSON.
type Feature struct {
	Name       string
	Lat        float64
	Lon        float64
	Properties geojson.Properties
}

// LoadFeatures reads a GeoJSON FeatureCollection. Point features are placed
// at the point; other geometries at the center of their bound. The name is
// taken from the "name" property, else the feature id, else prefix and the
// feature's position in the file.
func LoadFeatures(path, prefix string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	return ParseFeatures(data, prefix)
}

// ParseFeatures is LoadFeatures on in-memory GeoJSON.
func ParseFeatures(data []byte, prefix string) ([]Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal catalogue: %w", err)
	}

	out := make([]Feature, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		var at orb.Point
		if p, ok := f.Geometry.(orb.Point); ok {
			at = p
		} else {
			at = f.Geometry.Bound().Center()
		}
		out = append(out, Feature{
			Name:       featureName(f, prefix, i),
			Lat:        at.Lat(),
			Lon:        at.Lon(),
			Properties: f.Properties,
		})
	}
	return out, nil
}

func featureName(f *geojson.Feature, prefix string, i int) string {
	if name := f.Properties.MustString("name", ""); name != "" {
		return name
	}
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	return fmt.Sprintf("%s-%d", prefix, i)
}
