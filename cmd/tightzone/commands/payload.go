package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kitkwok/tightzone/internal/screener"
)

// payloadCmd prints the first-page scanner payload without any network
// call, for inspecting what a scan would send.
var payloadCmd = &cobra.Command{
	Use:   "payload",
	Short: "Print the scanner payload without running the scan",
	RunE:  runPayload,
}

func init() {
	rootCmd.AddCommand(payloadCmd)
	addScanFlags(payloadCmd)
}

func runPayload(cmd *cobra.Command, args []string) error {
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

	req := s.Request(0, d.cfg.PageSize-1)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(req); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	return nil
}
