package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kitkwok/tightzone/internal/screener"
)

// scanCmd runs the screener and prints one JSON row per line.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the VCP screener",
	Long: `Scan the configured market for matching symbols.

With --vcp, rows are additionally required to pass the VCP
qualification test (price above the 200-day average, $12 floor,
$2B market cap, beta above 1, $900M daily dollar volume).

Example:
  go run ./cmd/tightzone scan --vcp
  go run ./cmd/tightzone scan --exchange NASDAQ --min-price 20`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addScanFlags(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
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

	enc := json.NewEncoder(os.Stdout)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encode row: %w", err)
		}
	}

	d.log.WithField("rows", len(rows)).Info("Scan finished")
	return nil
}
