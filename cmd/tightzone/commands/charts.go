package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kitkwok/tightzone/internal/chart"
	"github.com/kitkwok/tightzone/internal/screener"
)

var (
	chartsOutDir   string
	chartsPeriod   string
	chartsInterval string
)

// chartsCmd scans the market and renders a contraction chart per result.
var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Scan and render contraction charts",
	Long: `Run the screener and render an SVG chart for every matching
symbol, with its contraction zones highlighted.

Example:
  go run ./cmd/tightzone charts --vcp --out charts`,
	RunE: runCharts,
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	addScanFlags(chartsCmd)
	chartsCmd.Flags().StringVar(&chartsOutDir, "out", "", "output directory for charts (default from config)")
	chartsCmd.Flags().StringVar(&chartsPeriod, "period", "6mo", "history period (e.g. 3mo, 6mo, 1y)")
	chartsCmd.Flags().StringVar(&chartsInterval, "interval", "1d", "bar interval (e.g. 1d, 1wk)")
}

func runCharts(cmd *cobra.Command, args []string) error {
	d, err := setup()
	if err != nil {
		return err
	}

	opts, err := screenerOptions(cmd, d.cfg)
	if err != nil {
		return err
	}

	s, err := screener.New(d.scanner, d.log, opts, d.cfg.PageSize)
	if err != nil {
		return err
	}

	rows, err := s.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	dir := chartsOutDir
	if dir == "" {
		dir = d.cfg.ChartDir
	}

	gen := chart.NewGenerator(d.quotes, d.log, chartsPeriod, chartsInterval)
	if err := gen.Generate(cmd.Context(), rows, dir); err != nil {
		return fmt.Errorf("generate charts: %w", err)
	}

	rendered := 0
	for _, row := range rows {
		if path, ok := row["chart"].(string); ok {
			fmt.Fprintln(cmd.OutOrStdout(), path)
			rendered++
		}
	}

	d.log.WithFields(map[string]interface{}{
		"rows":     len(rows),
		"rendered": rendered,
		"dir":      dir,
	}).Info("Chart rendering finished")
	return nil
}
