package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/de-tools/sales-pulse/pkg/models/domain"
	"github.com/de-tools/sales-pulse/pkg/runtime/terminal/export"
	"github.com/de-tools/sales-pulse/pkg/services/aggregate"
	"github.com/de-tools/sales-pulse/pkg/services/config"
	"github.com/de-tools/sales-pulse/pkg/services/directory"
	"github.com/de-tools/sales-pulse/pkg/services/report"
	"github.com/de-tools/sales-pulse/pkg/services/timeframe"
	"github.com/de-tools/sales-pulse/pkg/store/hubspot"
	"github.com/de-tools/sales-pulse/pkg/store/sheets"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	year     int
	month    int
	reporter *export.Reporter
}

func NewReportCmd(reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate monthly call and meeting counts per owner and publish them to the spreadsheet",
		RunE:  rc.run,
	}

	cmd.Flags().IntVar(&rc.year, "year", 0, "Target year (default REPORT_YEAR or the current year)")
	cmd.Flags().IntVar(&rc.month, "month", 0, "Target month 1-12 (default REPORT_MONTH or the current month)")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if rc.year != 0 {
		cfg.Year = rc.year
	}
	if rc.month != 0 {
		if rc.month < 1 || rc.month > 12 {
			return fmt.Errorf("month must be 1-12, got %d", rc.month)
		}
		cfg.Month = time.Month(rc.month)
	}
	if err := cfg.RequirePublication(); err != nil {
		return err
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	client := hubspot.NewClient(hubspot.Config{
		Token:    cfg.HubSpotToken,
		PageSize: cfg.PageSize,
		RetryMax: 3,
	})

	membership := directory.TeamMembership(cfg.TeamID)
	var scopedOwners []string
	if len(cfg.OwnerIDs) > 0 {
		membership = directory.StaticIDs(cfg.OwnerIDs)
		scopedOwners = cfg.OwnerIDs
	}
	dir := directory.Fetch(ctx, client.OwnerPages(), membership, cfg.MaxPages)
	logger.Info().
		Int("owners", len(dir.Owners)).
		Str("team", cfg.TeamID).
		Msg("owner directory resolved")

	ranges, err := timeframe.MonthRanges(cfg.Year, cfg.Month, 1, cfg.Location)
	if err != nil {
		return err
	}

	aggregator := aggregate.New(client.Sources(scopedOwners), aggregate.Config{
		Accepted:        dir.Accepted,
		MeetingSubtypes: cfg.MeetingSubtypes,
		MaxPages:        cfg.MaxPages,
	})
	acc := aggregator.Run(ctx, ranges)

	calls := report.Assemble("Calls", dir, acc.Calls)
	meetings := report.Assemble("Meetings", dir, acc.Meetings)

	publisher, err := sheets.NewPublisher(ctx, []byte(cfg.GoogleCredsJSON), cfg.SpreadsheetID)
	if err != nil {
		return err
	}
	if err := publisher.Overwrite(ctx, cfg.CallsWorksheet, calls.Grid()); err != nil {
		return fmt.Errorf("failed to publish calls report: %w", err)
	}
	if err := publisher.Overwrite(ctx, cfg.MeetingsWorksheet, meetings.Grid()); err != nil {
		return fmt.Errorf("failed to publish meetings report: %w", err)
	}
	logger.Info().
		Str("calls_worksheet", cfg.CallsWorksheet).
		Str("meetings_worksheet", cfg.MeetingsWorksheet).
		Int("rows", len(calls.Rows)).
		Msg("reports published")

	start := time.Date(cfg.Year, cfg.Month, 1, 0, 0, 0, 0, cfg.Location)
	return rc.reporter.Handle(domain.RunSummary{
		Start:         start,
		End:           start.AddDate(0, 1, 0),
		OwnersMatched: len(dir.Accepted),
		TotalCalls:    total(acc.Calls),
		TotalMeetings: total(acc.Meetings),
		Incomplete:    dir.Incomplete || acc.Incomplete,
		Truncated:     acc.Truncated,
	})
}

func total(counts domain.CounterTable) int {
	sum := 0
	for _, n := range counts {
		sum += n
	}
	return sum
}
