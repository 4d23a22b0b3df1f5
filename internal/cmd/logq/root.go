package logq

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/V4T54L/journalview/internal/adapter/redact"
	"github.com/V4T54L/journalview/internal/domain"
)

// Deps are the collaborators the commands run against.
type Deps struct {
	Open   domain.StoreOpener
	Units  domain.UnitLister
	Boots  domain.BootLister
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// NewRoot constructs the logq root command and registers every subcommand.
func NewRoot(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "logq",
		Short:         "Query the systemd journal",
		Long:          "logq reads the local systemd journal directly: filtered listings, single entries, summaries and NDJSON exports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("directory", "", "Read journal files from this directory")
	root.PersistentFlags().Bool("runtime-only", false, "Only read volatile journal files")
	root.PersistentFlags().StringSlice("redact", nil, "Fields whose values are replaced in the output")

	root.AddCommand(newQueryCommand(deps))
	root.AddCommand(newEntryCommand(deps))
	root.AddCommand(newSummaryCommand(deps))
	root.AddCommand(newServicesCommand(deps))
	root.AddCommand(newBootsCommand(deps))
	root.AddCommand(newExportCommand(deps))
	return root
}

// openOptions reads the journal selection flags.
func openOptions(cmd *cobra.Command) domain.OpenOptions {
	opts := domain.DefaultOpenOptions()
	opts.Directory, _ = cmd.Flags().GetString("directory")
	opts.RuntimeOnly, _ = cmd.Flags().GetBool("runtime-only")
	return opts
}

func redactor(cmd *cobra.Command, logger *slog.Logger) *redact.Redactor {
	fields, _ := cmd.Flags().GetStringSlice("redact")
	return redact.NewRedactor(fields, logger)
}
