// Package polyline implements the encoded polyline format used by
// openrouteservice, Google and OSRM for route geometries.
package polyline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// DefaultPrecision is the fixed-point scale used by the routing API (1e5).
const DefaultPrecision = 1e5

const (
	charOffset = 63
	chunkBits  = 5
	chunkMask  = 0x1f
	contBit    = 0x20
	maxShift   = 32
)

var (
	// ErrTruncated means the input ended in the middle of a value.
	ErrTruncated = errors.New("polyline: truncated input")
	// ErrInvalidChar means a character is outside the encodable range '?'..'~'.
	ErrInvalidChar = errors.New("polyline: invalid character")
	// ErrOverflow means a single value used more chunks than fit in 32 bits.
	ErrOverflow = errors.New("polyline: value overflow")
	// ErrPrecision means the scale is not a positive finite number.
	ErrPrecision = errors.New("polyline: precision must be positive")
)

func checkPrecision(precision float64) error {
	if precision <= 0 || math.IsNaN(precision) || math.IsInf(precision, 0) {
		return fmt.Errorf("%w, got %v", ErrPrecision, precision)
	}
	return nil
}

// Decode expands an encoded polyline into (lat, lon) points at 1e5 precision.
// The empty string decodes to an empty slice.
func Decode(encoded string) ([]domain.GeoPoint, error) {
	return DecodeWithPrecision(encoded, DefaultPrecision)
}

// DecodeWithPrecision decodes using a custom scale (1e6 for some providers).
// Errors in the input wrap domain.ErrDecode so callers can classify them.
func DecodeWithPrecision(encoded string, precision float64) ([]domain.GeoPoint, error) {
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}
	points := make([]domain.GeoPoint, 0, len(encoded)/4)
	var lat, lng int64

	for i := 0; i < len(encoded); {
		dLat, next, err := readValue(encoded, i)
		if err != nil {
			return nil, err
		}
		dLng, next, err := readValue(encoded, next)
		if err != nil {
			return nil, err
		}
		i = next

		lat += dLat
		lng += dLng
		points = append(points, domain.GeoPoint{
			Lat: float64(lat) / precision,
			Lon: float64(lng) / precision,
		})
	}

	return points, nil
}

// readValue reads one zig-zag varint starting at pos and returns the signed
// delta and the index of the first unread character.
func readValue(s string, pos int) (int64, int, error) {
	var result uint64
	shift := uint(0)

	for {
		if pos >= len(s) {
			return 0, pos, fmt.Errorf("%w: %w at offset %d", domain.ErrDecode, ErrTruncated, pos)
		}
		c := s[pos]
		if c < charOffset || c > charOffset+0x3f {
			return 0, pos, fmt.Errorf("%w: %w %q at offset %d", domain.ErrDecode, ErrInvalidChar, c, pos)
		}
		if shift >= maxShift {
			return 0, pos, fmt.Errorf("%w: %w at offset %d", domain.ErrDecode, ErrOverflow, pos)
		}
		b := uint64(c - charOffset)
		pos++

		result |= (b & chunkMask) << shift
		shift += chunkBits
		if b&contBit == 0 {
			break
		}
	}

	if result&1 != 0 {
		return ^int64(result >> 1), pos, nil
	}
	return int64(result >> 1), pos, nil
}

// Encode is the inverse of Decode at 1e5 precision.
func Encode(points []domain.GeoPoint) string {
	return encode(points, DefaultPrecision)
}

// EncodeWithPrecision encodes points with a custom scale.
func EncodeWithPrecision(points []domain.GeoPoint, precision float64) (string, error) {
	if err := checkPrecision(precision); err != nil {
		return "", err
	}
	return encode(points, precision), nil
}

func encode(points []domain.GeoPoint, precision float64) string {
	var sb strings.Builder
	var prevLat, prevLng int64

	for _, p := range points {
		lat := int64(math.Round(p.Lat * precision))
		lng := int64(math.Round(p.Lon * precision))
		writeValue(&sb, lat-prevLat)
		writeValue(&sb, lng-prevLng)
		prevLat, prevLng = lat, lng
	}

	return sb.String()
}

func writeValue(sb *strings.Builder, v int64) {
	u := uint64(v) << 1
	if v < 0 {
		u = ^u
	}
	for u >= contBit {
		sb.WriteByte(byte((contBit | (u & chunkMask)) + charOffset))
		u >>= chunkBits
	}
	sb.WriteByte(byte(u + charOffset))
}
