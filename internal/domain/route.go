package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Route - сохранённый пользователем маршрут
type Route struct {
	Identifier       string      `json:"identifier"`
	StartText        string      `json:"start_text"`
	EndText          string      `json:"end_text"`
	StartCoordinates Coordinates `json:"start_coordinates"`
	EndCoordinates   Coordinates `json:"end_coordinates"`
	DistanceMeters   float64     `json:"distance_meters"`
	DurationSeconds  float64     `json:"duration_seconds"`
	Profile          string      `json:"profile,omitempty"`
	Geometry         *Geometry   `json:"geometry,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// Coordinates - точка в порядке провайдера (lon, lat)
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// LonLat возвращает координаты как [lon, lat] для ORS
func (c Coordinates) LonLat() []float64 {
	return []float64{c.Longitude, c.Latitude}
}

// Geometry хранит геометрию маршрута в одной из двух форм:
// раскодированная (любой JSON объект или массив, например GeoJSON или
// [[lon, lat], ...]) или закодированный polyline (строка).
// Хранилище не интерпретирует геометрию, только сохраняет и возвращает её.
type Geometry struct {
	// Decoded - компактный JSON без изменений ключей и порядка
	Decoded json.RawMessage
	Encoded string
}

// NewEncodedGeometry создает геометрию из polyline строки
func NewEncodedGeometry(polyline string) *Geometry {
	return &Geometry{Encoded: polyline}
}

// NewDecodedGeometry создает геометрию из JSON объекта или массива
func NewDecodedGeometry(raw json.RawMessage) (*Geometry, error) {
	var g Geometry
	if err := g.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	if g.Decoded == nil {
		return nil, fmt.Errorf("geometry: expected object or array")
	}
	return &g, nil
}

// IsEncoded сообщает, что геометрия хранится как polyline
func (g *Geometry) IsEncoded() bool {
	return g != nil && g.Decoded == nil
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	if g.Decoded != nil {
		return append([]byte(nil), g.Decoded...), nil
	}
	return json.Marshal(g.Encoded)
}

func (g *Geometry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("geometry: empty value")
	}

	switch trimmed[0] {
	case '"':
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return fmt.Errorf("geometry: %w", err)
		}
		*g = Geometry{Encoded: encoded}
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return fmt.Errorf("geometry: %w", err)
		}
		*g = Geometry{Decoded: json.RawMessage(buf.Bytes())}
	default:
		return fmt.Errorf("geometry: expected object, array or polyline string")
	}
	return nil
}
