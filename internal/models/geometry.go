package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Coordinate bounds for WGS84 (SRID 4326) positions.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

const (
	geoJSONPolygon      = "Polygon"
	geoJSONMultiPolygon = "MultiPolygon"
)

// ErrInvalidBoundary is returned when a boundary is not a usable GeoJSON outline.
var ErrInvalidBoundary = errors.New("invalid boundary")

// Boundary is a property outline drawn on the map, stored as GeoJSON in a
// JSONB column. Coordinates follow the MultiPolygon layout
// [polygons][rings][points][lon,lat]; Polygon input is normalized to a
// single-member MultiPolygon.
type Boundary struct {
	Coordinates [][][][2]float64
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// parseGeoJSON decodes a Polygon or MultiPolygon geometry object.
func parseGeoJSON(data []byte) ([][][][2]float64, error) {
	var geom geoJSONGeometry
	if err := json.Unmarshal(data, &geom); err != nil {
		return nil, fmt.Errorf("failed to unmarshal boundary: %w", err)
	}

	switch geom.Type {
	case geoJSONMultiPolygon:
		var coords [][][][2]float64
		if err := json.Unmarshal(geom.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal multipolygon coordinates: %w", err)
		}
		return coords, nil
	case geoJSONPolygon:
		var coords [][][2]float64
		if err := json.Unmarshal(geom.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal polygon coordinates: %w", err)
		}
		return [][][][2]float64{coords}, nil
	default:
		return nil, fmt.Errorf("%w: expected Polygon or MultiPolygon, got %q", ErrInvalidBoundary, geom.Type)
	}
}

// Scan implements sql.Scanner for reading the JSONB column.
func (b *Boundary) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to scan Boundary: expected []byte or string, got %T", value)
	}

	coords, err := parseGeoJSON(data)
	if err != nil {
		return err
	}
	b.Coordinates = coords
	return nil
}

// Value implements driver.Valuer, writing the outline as a GeoJSON string.
func (b Boundary) Value() (driver.Value, error) {
	if len(b.Coordinates) == 0 {
		return nil, nil
	}

	data, err := b.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// MarshalJSON always emits a MultiPolygon geometry.
func (b Boundary) MarshalJSON() ([]byte, error) {
	geom := struct {
		Type        string           `json:"type"`
		Coordinates [][][][2]float64 `json:"coordinates"`
	}{
		Type:        geoJSONMultiPolygon,
		Coordinates: b.Coordinates,
	}
	return json.Marshal(geom)
}

// UnmarshalJSON accepts either a Polygon or a MultiPolygon geometry.
func (b *Boundary) UnmarshalJSON(data []byte) error {
	coords, err := parseGeoJSON(data)
	if err != nil {
		return err
	}
	b.Coordinates = coords
	return nil
}

// Validate checks that every ring is closed, has at least four positions and
// stays within WGS84 bounds.
func (b Boundary) Validate() error {
	if len(b.Coordinates) == 0 {
		return fmt.Errorf("%w: no polygons", ErrInvalidBoundary)
	}

	for pi, polygon := range b.Coordinates {
		if len(polygon) == 0 {
			return fmt.Errorf("%w: polygon %d has no rings", ErrInvalidBoundary, pi)
		}
		for ri, ring := range polygon {
			if len(ring) < 4 {
				return fmt.Errorf("%w: polygon %d ring %d needs at least 4 positions", ErrInvalidBoundary, pi, ri)
			}
			if ring[0] != ring[len(ring)-1] {
				return fmt.Errorf("%w: polygon %d ring %d is not closed", ErrInvalidBoundary, pi, ri)
			}
			for _, pos := range ring {
				lng, lat := pos[0], pos[1]
				if lng < MinLongitude || lng > MaxLongitude || lat < MinLatitude || lat > MaxLatitude {
					return fmt.Errorf("%w: position (%f, %f) out of range", ErrInvalidBoundary, lng, lat)
				}
			}
		}
	}
	return nil
}
