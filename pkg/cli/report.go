package cli

import (
	"context"
	"errors"
	"runtime"

	"github.com/lintang-b-s/geo-analysis/pkg/concurrent"
	"github.com/lintang-b-s/geo-analysis/pkg/http/usecases"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type reportJob struct {
	index int
	path  string
}

func (j reportJob) ID() int { return j.index }

// fileReport. one entry per input file, Error set instead of Report when the file failed.
type fileReport struct {
	File   string               `json:"file" msgpack:"file"`
	Report *usecases.CaseReport `json:"report,omitempty" msgpack:"report,omitempty"`
	Error  string               `json:"error,omitempty" msgpack:"error,omitempty"`

	index int
}

func (a *app) newReportCmd() *cobra.Command {
	var (
		workers     int
		gridSizeKm  float64
		proximityKm float64
		days        int
	)

	cmd := &cobra.Command{
		Use:   "report FILE...",
		Short: "Full case report for each file, files processed in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := usecases.ReportParams{
				GridSizeKm: optionalFloat(cmd, "grid-size", gridSizeKm),
				Intersection: usecases.IntersectionParams{
					ProximityKm:       optionalFloat(cmd, "proximity", proximityKm),
					TimeThresholdDays: optionalInt(cmd, "days", days),
				},
			}
			reports := a.runReports(cmd, args, workers, params)
			if len(args) == 1 && reports[0].Error != "" {
				return errors.New(reports[0].Error)
			}
			return a.write(cmd, reports)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "files processed concurrently")
	cmd.Flags().Float64Var(&gridSizeKm, "grid-size", 0, "grid cell size in km (default from ANALYSIS_GRID_SIZE_KM)")
	cmd.Flags().Float64Var(&proximityKm, "proximity", 0, "max intersection distance in km (default from ANALYSIS_PROXIMITY_KM)")
	cmd.Flags().IntVar(&days, "days", 0, "max day gap for time_close (default from ANALYSIS_TIME_THRESHOLD_DAYS)")
	return cmd
}

// runReports returns the reports in the order of paths.
func (a *app) runReports(cmd *cobra.Command, paths []string, workers int, params usecases.ReportParams) []fileReport {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	bw := concurrent.NewBackgroundWorker(workers, len(paths), func(job reportJob) fileReport {
		res := fileReport{File: job.path, index: job.ID()}

		// bars of concurrent loads would interleave
		progress := a.progressWriter(cmd)
		if len(paths) > 1 {
			progress = nil
		}
		entities, err := a.loadWith(cmd, job.path, progress)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		report, err := a.svc.Report(ctx, entities, params)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Report = &report
		return res
	})
	bw.Start()

	go func() {
		for i, p := range paths {
			bw.Submit(reportJob{index: i, path: p})
		}
		bw.Close()
	}()

	bar := progressbar.DefaultSilent(int64(len(paths)))
	if w := a.progressWriter(cmd); w != nil && len(paths) > 1 {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(w),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("[cyan]Building reports..."))
	}

	reports := make([]fileReport, len(paths))
	for res := range bw.Results() {
		if res.Error != "" {
			a.log.Warn("report failed", zap.String("file", res.File), zap.String("error", res.Error))
		}
		reports[res.index] = res
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return reports
}
