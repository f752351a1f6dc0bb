package polyline_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/pkg/polyline"
)

const tolerance = 1e-5

func TestDecode_ReferenceExample(t *testing.T) {
	points, err := polyline.Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, points, 3)

	want := []domain.GeoPoint{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
		{Lat: 43.252, Lon: -126.453},
	}
	for i, w := range want {
		assert.InDelta(t, w.Lat, points[i].Lat, tolerance, "lat of point %d", i)
		assert.InDelta(t, w.Lon, points[i].Lon, tolerance, "lon of point %d", i)
	}
}

func TestDecode_Empty(t *testing.T) {
	points, err := polyline.Decode("")
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestDecode_Truncated(t *testing.T) {
	cases := map[string]string{
		"mid latitude":   "_p~i",
		"missing lng":    "_p~iF",
		"mid longitude":  "_p~iF~ps|",
		"second point":   "_p~iF~ps|U_ulL",
		"trailing chunk": "_p~iF~ps|U_",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := polyline.Decode(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, polyline.ErrTruncated))
			assert.True(t, errors.Is(err, domain.ErrDecode))
		})
	}
}

func TestDecode_InvalidChar(t *testing.T) {
	_, err := polyline.Decode("_p~iF ps|U")
	require.Error(t, err)
	assert.ErrorIs(t, err, polyline.ErrInvalidChar)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestDecode_Overflow(t *testing.T) {
	_, err := polyline.Decode("~~~~~~~~~~?")
	require.Error(t, err)
	assert.ErrorIs(t, err, polyline.ErrOverflow)
}

func TestEncode_ReferenceExample(t *testing.T) {
	got := polyline.Encode([]domain.GeoPoint{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
		{Lat: 43.252, Lon: -126.453},
	})
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", got)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 50; n++ {
		points := make([]domain.GeoPoint, rng.Intn(40))
		for i := range points {
			points[i] = domain.GeoPoint{
				Lat: rng.Float64()*180 - 90,
				Lon: rng.Float64()*360 - 180,
			}
		}

		decoded, err := polyline.Decode(polyline.Encode(points))
		require.NoError(t, err)
		require.Len(t, decoded, len(points))
		for i := range points {
			assert.InDelta(t, points[i].Lat, decoded[i].Lat, tolerance)
			assert.InDelta(t, points[i].Lon, decoded[i].Lon, tolerance)
		}
	}
}

func TestDecodeWithPrecision(t *testing.T) {
	points := []domain.GeoPoint{{Lat: 47.070714, Lon: 15.439504}, {Lat: 47.0712, Lon: 15.44}}
	encoded, err := polyline.EncodeWithPrecision(points, 1e6)
	require.NoError(t, err)
	decoded, err := polyline.DecodeWithPrecision(encoded, 1e6)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.InDelta(t, 47.070714, decoded[0].Lat, 1e-6)
	assert.InDelta(t, 15.439504, decoded[0].Lon, 1e-6)
}

func TestPrecisionMustBePositive(t *testing.T) {
	points := []domain.GeoPoint{{Lat: 47.0707, Lon: 15.4395}}
	for _, precision := range []float64{0, -1e5, math.NaN(), math.Inf(1)} {
		_, err := polyline.DecodeWithPrecision("_p~iF~ps|U", precision)
		assert.ErrorIs(t, err, polyline.ErrPrecision, "decode at %v", precision)
		assert.NotErrorIs(t, err, domain.ErrDecode)

		_, err = polyline.EncodeWithPrecision(points, precision)
		assert.ErrorIs(t, err, polyline.ErrPrecision, "encode at %v", precision)
	}
}
