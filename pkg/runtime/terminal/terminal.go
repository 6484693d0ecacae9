package terminal

import (
	"io"
	"os"

	"github.com/de-tools/sales-pulse/pkg/runtime/terminal/commands"
	"github.com/de-tools/sales-pulse/pkg/runtime/terminal/export"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	reporter *export.Reporter
	output   io.Writer
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output),
		output:   opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales-pulse",
		Short: "Sales engagement metrics pipeline",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional; CI supplies the environment directly.
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(commands.NewReportCmd(cli.reporter))
	cmd.AddCommand(commands.NewExportCmd(cli.output))
	cmd.AddCommand(commands.NewRosterCmd(cli.output))

	return cmd
}
