package cli

import (
	"github.com/lintang-b-s/geo-analysis/pkg/geo"
	"github.com/lintang-b-s/geo-analysis/pkg/http/usecases"

	"github.com/spf13/cobra"
)

func (a *app) newHotspotsCmd() *cobra.Command {
	var gridSizeKm float64

	cmd := &cobra.Command{
		Use:   "hotspots FILE",
		Short: "Cluster entities on a grid, busiest cell first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entities, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			cells, err := a.svc.Hotspots(entities, optionalFloat(cmd, "grid-size", gridSizeKm))
			if err != nil {
				return err
			}
			return a.write(cmd, cells)
		},
	}
	cmd.Flags().Float64Var(&gridSizeKm, "grid-size", geo.DefaultGridSizeKm, "grid cell size in km (default from ANALYSIS_GRID_SIZE_KM)")
	return cmd
}

func (a *app) newPairwiseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pairwise FILE",
		Short: "Distance of every entity pair, closest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entities, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			pairs, err := a.svc.Pairwise(entities)
			if err != nil {
				return err
			}
			return a.write(cmd, pairs)
		},
	}
}

func (a *app) newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route FILE",
		Short: "Entities in date order with the travelled distance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entities, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			route, err := a.svc.Route(entities)
			if err != nil {
				return err
			}
			return a.write(cmd, route)
		},
	}
}

func (a *app) newIntersectionsCmd() *cobra.Command {
	var (
		proximityKm float64
		days        int
		flaggedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "intersections FILE",
		Short: "Entity pairs close in space, flagged when also close in time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entities, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			found, err := a.svc.Intersections(entities, usecases.IntersectionParams{
				ProximityKm:       optionalFloat(cmd, "proximity", proximityKm),
				TimeThresholdDays: optionalInt(cmd, "days", days),
			})
			if err != nil {
				return err
			}
			if flaggedOnly {
				found = geo.FlaggedIntersections(found)
			}
			return a.write(cmd, found)
		},
	}
	cmd.Flags().Float64Var(&proximityKm, "proximity", geo.DefaultProximityKm, "max distance in km (default from ANALYSIS_PROXIMITY_KM)")
	cmd.Flags().IntVar(&days, "days", geo.DefaultTimeThresholdDays, "max day gap for time_close (default from ANALYSIS_TIME_THRESHOLD_DAYS)")
	cmd.Flags().BoolVar(&flaggedOnly, "flagged-only", false, "only print pairs that are close in time too")
	return cmd
}

func (a *app) newRadiusCmd() *cobra.Command {
	var lat, lng, radiusKm float64

	cmd := &cobra.Command{
		Use:   "radius FILE",
		Short: "Entities within a radius of a point, nearest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entities, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			results, err := a.svc.WithinRadius(geo.NewCoordinate(lat, lng), radiusKm, entities)
			if err != nil {
				return err
			}
			return a.write(cmd, results)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "center latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "center longitude")
	cmd.Flags().Float64VarP(&radiusKm, "radius", "r", 0, "radius in km")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	_ = cmd.MarkFlagRequired("radius")
	return cmd
}

// optionalFloat returns nil unless the flag was set, so the configured default applies.
func optionalFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func optionalInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
