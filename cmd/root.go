package cmd

import (
	"fmt"
	"log/slog"
	"os"

	sortcmd "github.com/pgschema/pgschema/cmd/sort"
	"github.com/pgschema/pgschema/internal/logger"
	"github.com/pgschema/pgschema/internal/version"
	"github.com/spf13/cobra"
)

var Debug bool

var RootCmd = &cobra.Command{
	Use:   "pgschema",
	Short: "Order database schema objects into a dependency-safe emission sequence",
	Long: fmt.Sprintf(`pgschema orders a set of database schema objects, and the dependency
edges between them, into a linear sequence safe to emit one at a time.

Version: %s@%s %s %s

Commands:
  sort    Order a dependency graph of database objects
  version Show version information

Use "pgschema [command] --help" for more information about a command.`,
		version.Version(), GitCommit, platform(), BuildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(sortcmd.SortCmd)
	RootCmd.AddCommand(VersionCmd)
}

func setupLogger() {
	level := slog.LevelInfo
	if Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger.SetGlobal(slog.New(handler), Debug)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
