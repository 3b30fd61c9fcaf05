package boundary

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// DefaultNameProperty is the feature property carrying the county name in
// California county boundary exports.
const DefaultNameProperty = "COUNTY_NAME"

// ReadGeoJSON loads county boundaries from a GeoJSON FeatureCollection.
// Each feature's properties must carry the county name under nameProperty.
func ReadGeoJSON(path, nameProperty string) ([]Boundary, error) {
	if nameProperty == "" {
		nameProperty = DefaultNameProperty
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open GeoJSON %s", path)
	}

	bounds, err := DecodeGeoJSON(data, nameProperty)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read %s", path)
	}

	zap.L().Info("boundaries loaded",
		zap.String("path", path),
		zap.String("name_property", nameProperty),
		zap.Int("features", len(bounds)),
	)
	return bounds, nil
}

// DecodeGeoJSON parses county boundaries from GeoJSON bytes.
func DecodeGeoJSON(data []byte, nameProperty string) ([]Boundary, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "boundary: parse GeoJSON")
	}
	if len(fc.Features) == 0 {
		return nil, eris.New("boundary: GeoJSON has no features")
	}

	bounds := make([]Boundary, 0, len(fc.Features))
	for i, feat := range fc.Features {
		name, err := featureName(feat.Properties, nameProperty)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: feature %d", i)
		}
		if feat.Geometry == nil {
			return nil, eris.Errorf("boundary: feature %d (%s) has no geometry", i, name)
		}

		mp, err := asMultiPolygon(feat.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: feature %d (%s)", i, name)
		}

		bounds = append(bounds, Boundary{Name: name, Geom: mp})
	}
	return bounds, nil
}

// featureName extracts the county name property, failing loudly when it is
// absent or not a string.
func featureName(props map[string]interface{}, key string) (string, error) {
	raw, ok := props[key]
	if !ok {
		return "", eris.Errorf("missing name property %q", key)
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return "", eris.Errorf("empty name property %q", key)
		}
		return v, nil
	default:
		return "", eris.Errorf("name property %q is %T, want string", key, raw)
	}
}

// EncodeGeoJSON serializes boundaries back to a FeatureCollection, with each
// feature carrying extra properties merged over the name property. Used by
// the serve command to expose joined rows.
func EncodeGeoJSON(bounds []Boundary, nameProperty string, extra map[string]map[string]interface{}) ([]byte, error) {
	fc := geojson.FeatureCollection{}
	for _, b := range bounds {
		props := map[string]interface{}{nameProperty: b.Name}
		for k, v := range extra[b.Name] {
			props[k] = v
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         b.Name,
			Geometry:   b.Geom,
			Properties: props,
		})
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "boundary: encode GeoJSON")
	}
	return data, nil
}
