package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/pkg/polyline"
)

func newDecodeCmd() *cobra.Command {
	var (
		encode    bool
		precision float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "decode <polyline | lat,lon ...>",
		Short: "Decode an encoded polyline into lat,lon points",
		Long: `Decode prints one "lat,lon" pair per line. With --encode the arguments are
lat,lon pairs and the encoded polyline is printed instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if encode {
				points, err := parsePoints(args)
				if err != nil {
					return err
				}
				encoded, err := polyline.EncodeWithPrecision(points, precision)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, encoded)
				return nil
			}

			points, err := polyline.DecodeWithPrecision(args[0], precision)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(points)
			}
			for _, p := range points {
				fmt.Fprintf(out, "%s,%s\n", formatCoord(p.Lat), formatCoord(p.Lon))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&encode, "encode", false, "encode lat,lon arguments instead of decoding")
	cmd.Flags().Float64Var(&precision, "precision", polyline.DefaultPrecision, "fixed-point scale (1e5 or 1e6)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print decoded points as JSON")
	return cmd
}

func parsePoints(args []string) ([]domain.GeoPoint, error) {
	points := make([]domain.GeoPoint, 0, len(args))
	for _, arg := range args {
		lat, lon, ok := strings.Cut(arg, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: want lat,lon", arg)
		}
		la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: latitude: %w", arg, err)
		}
		lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: longitude: %w", arg, err)
		}
		points = append(points, domain.GeoPoint{Lat: la, Lon: lo})
	}
	return points, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
