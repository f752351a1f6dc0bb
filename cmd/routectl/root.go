package main

import (
	"github.com/spf13/cobra"

	"github.com/samirrijal/routemap/internal/pkg/logging"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "routectl",
		Short: "Plans driving routes between two addresses",
		Long: `routectl geocodes two postal addresses with Nominatim, asks openrouteservice
for a driving route between them and prints distance and duration. It also
decodes and encodes route geometries in the encoded polyline format.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logLevel, "text")
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newRouteCmd(), newDecodeCmd())
	return root
}
