package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lintang-b-s/geo-analysis/pkg/geo"
	"github.com/lintang-b-s/geo-analysis/pkg/geofence"

	"github.com/spf13/cobra"
)

func (a *app) newZonesCmd() *cobra.Command {
	var zoneFlags []string

	cmd := &cobra.Command{
		Use:     "zones FILE",
		Short:   "Zones entered, left or crossed by the date-ordered timeline",
		Example: `  geoanalyze zones case.ndjson --zone kraton=-7.5773,110.8277,1 --zone airport=-7.5161,110.7569,2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zones := make([]geofence.Fence, 0, len(zoneFlags))
			for _, s := range zoneFlags {
				z, err := parseZone(s)
				if err != nil {
					return err
				}
				zones = append(zones, z)
			}

			entities, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			events, err := a.svc.Zones(entities, zones)
			if err != nil {
				return err
			}
			return a.write(cmd, events)
		},
	}
	cmd.Flags().StringArrayVar(&zoneFlags, "zone", nil, "zone as name=lat,lng,radius_km, repeatable")
	_ = cmd.MarkFlagRequired("zone")
	return cmd
}

// parseZone reads "name=lat,lng,radius_km".
func parseZone(s string) (geofence.Fence, error) {
	name, rest, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return geofence.Fence{}, fmt.Errorf("zone %q: want name=lat,lng,radius_km", s)
	}
	parts := strings.Split(rest, ",")
	if len(parts) != 3 {
		return geofence.Fence{}, fmt.Errorf("zone %q: want name=lat,lng,radius_km", s)
	}

	var nums [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geofence.Fence{}, fmt.Errorf("zone %q: %w", s, err)
		}
		nums[i] = v
	}
	return geofence.NewFence(strings.TrimSpace(name), geo.NewCoordinate(nums[0], nums[1]), nums[2]), nil
}
