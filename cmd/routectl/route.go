package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/samirrijal/routemap/internal/adapters/mapview"
	"github.com/samirrijal/routemap/internal/adapters/nominatim"
	"github.com/samirrijal/routemap/internal/adapters/openroute"
	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/usecases"
	"github.com/samirrijal/routemap/internal/pkg/config"
	"github.com/samirrijal/routemap/internal/pkg/httpclient"
)

func addressFlags(cmd *cobra.Command, prefix, label string, a *domain.Address) {
	cmd.Flags().StringVar(&a.City, prefix+"-city", "", label+" city")
	cmd.Flags().StringVar(&a.PostalCode, prefix+"-zip", "", label+" postal code")
	cmd.Flags().StringVar(&a.Street, prefix+"-street", "", label+" street")
	cmd.Flags().StringVar(&a.HouseNumber, prefix+"-number", "", label+" house number")
}

func newRouteCmd() *cobra.Command {
	var (
		from, to domain.Address
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Geocode two addresses and print the driving route between them",
		Example: `  ROUTEMAP_ROUTER_API_KEY=... routectl route \
    --from-city Graz --from-zip 8010 --from-street Hauptplatz --from-number 1 \
    --to-city Leoben --to-street Hauptplatz --to-number 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("routectl")
			if err != nil {
				return err
			}

			client := httpclient.New(cfg.Planner.HTTPTimeout)
			geocoder := nominatim.New(client, cfg.Geocoder.BaseURL, cfg.Geocoder.CountryCode, cfg.Geocoder.UserAgent)
			router := openroute.New(client, cfg.Router.BaseURL, cfg.Router.APIKey, cfg.Router.Profile)

			sink := mapview.NewMemory()
			presenter := mapview.New(mapview.Tee(sink, mapview.Log(slog.Default(), "cli")))
			planner := usecases.NewPlanner("cli", geocoder, router, presenter, nil, usecases.PlannerConfigFrom(cfg))

			ctx := cmd.Context()
			if err := planner.Open(ctx); err != nil {
				return err
			}
			out := planner.Submit(ctx, from, to)

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(w, out.Message)
				if out.State == usecases.StateDone {
					fmt.Fprintf(w, "Overlays: %d\n", len(sink.Live()))
				}
			}
			if out.State != usecases.StateDone {
				return fmt.Errorf("route lookup %s: %s", out.State, out.Failure)
			}
			return nil
		},
	}

	addressFlags(cmd, "from", "start", &from)
	addressFlags(cmd, "to", "destination", &to)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full outcome as JSON")
	return cmd
}
