package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/sales-pulse/pkg/models/api"
	"github.com/de-tools/sales-pulse/pkg/runtime/terminal/export"
	"github.com/de-tools/sales-pulse/pkg/services/config"
	"github.com/de-tools/sales-pulse/pkg/services/paging"
	"github.com/de-tools/sales-pulse/pkg/services/timeframe"
	"github.com/de-tools/sales-pulse/pkg/store/hubspot"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// maxExportRecords caps a CSV export at 10 000 calls, the same bound the
// report pipeline gets from its per-scope page ceiling.
const maxExportRecords = 10000

var exportProperties = []string{
	"hs_call_title",
	"hs_call_body",
	"hs_timestamp",
	"hubspot_owner_id",
}

type ExportCmd struct {
	year   int
	month  int
	outDir string
	output io.Writer
}

func NewExportCmd(output io.Writer) *cobra.Command {
	ec := &ExportCmd{output: output}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the month's calls for the configured owners to a CSV file",
		RunE:  ec.run,
	}

	cmd.Flags().IntVar(&ec.year, "year", 0, "Target year (default REPORT_YEAR or the current year)")
	cmd.Flags().IntVar(&ec.month, "month", 0, "Target month 1-12 (default REPORT_MONTH or the current month)")
	cmd.Flags().StringVar(&ec.outDir, "out", ".", "Directory the CSV file is written to")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if ec.year != 0 {
		cfg.Year = ec.year
	}
	if ec.month != 0 {
		if ec.month < 1 || ec.month > 12 {
			return fmt.Errorf("month must be 1-12, got %d", ec.month)
		}
		cfg.Month = time.Month(ec.month)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	bounds, err := timeframe.MonthBounds(cfg.Year, cfg.Month, cfg.Location)
	if err != nil {
		return err
	}

	client := hubspot.NewClient(hubspot.Config{
		Token:    cfg.HubSpotToken,
		PageSize: cfg.PageSize,
		RetryMax: 3,
	})
	src := client.CallPages(hubspot.CallQuery{
		Range:      bounds,
		OwnerIDs:   cfg.OwnerIDs,
		Properties: exportProperties,
	})

	var rows []export.CallRow
	res := paging.Walk(ctx, src, exportPageCap(cfg.PageSize), func(call api.CallResult) {
		rows = append(rows, export.CallRow{
			ID:          call.ID,
			Title:       call.Properties["hs_call_title"],
			Timestamp:   call.Properties["hs_timestamp"],
			Description: call.Properties["hs_call_body"],
			OwnerID:     call.Properties["hubspot_owner_id"],
		})
	})
	if res.Failed() {
		logger.Warn().Err(res.Err).
			Int("calls", len(rows)).
			Msg("calls fetch aborted early, exporting what was gathered")
	}
	if res.Truncated {
		logger.Warn().Int("calls", len(rows)).Msg("export record cap reached")
	}

	path := filepath.Join(ec.outDir, export.CallsFilename(cfg.Year, cfg.Month, time.Now()))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := export.WriteCallsCSV(file, rows); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	fmt.Fprintf(ec.output, "Exported %d calls to %s\n", len(rows), path)
	return nil
}

// exportPageCap converts the record cap into a page budget. A page size
// larger than the cap still fetches one page; it never unlocks the default
// page ceiling by rounding the budget down to zero.
func exportPageCap(pageSize int) int {
	pages := maxExportRecords / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
