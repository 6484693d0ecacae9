package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/sales-pulse/pkg/services/config"
	"github.com/de-tools/sales-pulse/pkg/services/directory"
	"github.com/de-tools/sales-pulse/pkg/services/report"
	"github.com/de-tools/sales-pulse/pkg/store/hubspot"
	"github.com/de-tools/sales-pulse/pkg/store/sheets"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type RosterCmd struct {
	output io.Writer
}

func NewRosterCmd(output io.Writer) *cobra.Command {
	rc := &RosterCmd{output: output}
	return &cobra.Command{
		Use:   "roster",
		Short: "Publish the team's owner roster to the spreadsheet",
		RunE:  rc.run,
	}
}

func (rc *RosterCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
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
	if len(cfg.OwnerIDs) > 0 {
		membership = directory.StaticIDs(cfg.OwnerIDs)
	}
	dir := directory.Fetch(ctx, client.OwnerPages(), membership, cfg.MaxPages)

	roster := report.AssembleRoster(dir)

	publisher, err := sheets.NewPublisher(ctx, []byte(cfg.GoogleCredsJSON), cfg.SpreadsheetID)
	if err != nil {
		return err
	}
	if err := publisher.Overwrite(ctx, cfg.RosterWorksheet, roster.Grid()); err != nil {
		return fmt.Errorf("failed to publish roster: %w", err)
	}
	logger.Info().
		Str("worksheet", cfg.RosterWorksheet).
		Int("owners", len(roster.Rows)).
		Msg("roster published")

	fmt.Fprintf(rc.output, "Published %d owners to %s\n", len(roster.Rows), cfg.RosterWorksheet)
	if dir.Incomplete {
		fmt.Fprintln(rc.output, "Warning: owner fetch ended early, roster may be incomplete")
	}
	return nil
}
