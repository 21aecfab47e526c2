package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lintang-b-s/geo-analysis/pkg/di/config"
	"github.com/lintang-b-s/geo-analysis/pkg/geo"
	"github.com/lintang-b-s/geo-analysis/pkg/http/usecases"
	"github.com/lintang-b-s/geo-analysis/pkg/loader"
	logconfig "github.com/lintang-b-s/geo-analysis/pkg/logger/config"
	myZap "github.com/lintang-b-s/geo-analysis/pkg/logger/zap"

	"github.com/k0kubun/go-ansi"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const (
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

type app struct {
	format  string
	quiet   bool
	verbose bool

	cfg *config.Config
	log *zap.Logger
	svc *usecases.AnalysisService
}

// NewRootCmd builds the geoanalyze command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "geoanalyze",
		Short: "Geospatial analysis of entity files",
		Long: `geoanalyze runs the analyses of the geo-analysis API over entity files:
.json (array or {"entities": [...]}), .ndjson, optionally .gz or .zst compressed,
and OpenStreetMap .osm.pbf extracts.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.format, "format", "f", formatJSON, "output format: json or msgpack")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "hide progress bars")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to stderr")

	rootCmd.AddCommand(
		a.newHotspotsCmd(),
		a.newPairwiseCmd(),
		a.newRouteCmd(),
		a.newIntersectionsCmd(),
		a.newRadiusCmd(),
		a.newZonesCmd(),
		a.newReportCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.format != formatJSON && a.format != formatMsgpack {
		return fmt.Errorf("unknown format %q, want %s or %s", a.format, formatJSON, formatMsgpack)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := logconfig.Configuration{
		Level:      logconfig.WARN_LEVEL,
		TimeFormat: time.RFC3339,
	}
	if a.verbose {
		logCfg.Level = logconfig.DEBUG_LEVEL
	}
	log, err := myZap.New(logCfg)
	if err != nil {
		return err
	}
	a.log = log

	a.svc = usecases.New(log, cfg.Analysis)
	return nil
}

func (a *app) progressWriter(cmd *cobra.Command) io.Writer {
	if a.quiet {
		return nil
	}
	if w := cmd.ErrOrStderr(); w != os.Stderr {
		return w
	}
	return ansi.NewAnsiStderr()
}

func (a *app) load(cmd *cobra.Command, path string) ([]geo.LocatedEntity, error) {
	return a.loadWith(cmd, path, a.progressWriter(cmd))
}

func (a *app) loadWith(cmd *cobra.Command, path string, progress io.Writer) ([]geo.LocatedEntity, error) {
	start := time.Now()
	osmOpts := loader.DefaultOSMOptions()
	osmOpts.Progress = progress
	entities, err := loader.LoadFile(cmd.Context(), path, loader.Options{OSM: osmOpts})
	if err != nil {
		return nil, err
	}
	a.log.Debug("entities loaded", zap.String("file", path), zap.Int("entities", len(entities)),
		zap.Duration("took", time.Since(start)))
	return entities, nil
}

func (a *app) write(cmd *cobra.Command, v any) error {
	w := cmd.OutOrStdout()
	if a.format == formatMsgpack {
		enc := msgpack.NewEncoder(w)
		return enc.Encode(v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
