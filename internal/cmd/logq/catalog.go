package logq

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/V4T54L/journalview/internal/usecase"
)

func newSummaryCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count recent entries per time bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, _ := cmd.Flags().GetUint32("priority")
			interval, _ := cmd.Flags().GetDuration("interval")
			window, _ := cmd.Flags().GetDuration("window")
			limit, _ := cmd.Flags().GetUint64("limit")

			uc := usecase.NewSummaryUseCase(deps.Open, openOptions(cmd), usecase.SummaryConfig{
				Window:          window,
				Limit:           limit,
				UpperBoundSlack: 24 * time.Hour,
			}, deps.Logger, nil, nil)
			uc.WithClock(deps.now)

			rs, err := uc.Summary(cmd.Context(), priority)
			if err != nil {
				return err
			}
			points, err := usecase.Histogram(rs, interval)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tCOUNT")
			for _, p := range points {
				fmt.Fprintf(tw, "%s\t%d\n", time.UnixMicro(p.Time).UTC().Format(time.RFC3339), p.Count)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Uint32("priority", 3, "Least severe priority to include (0-7)")
	cmd.Flags().Duration("interval", time.Hour, "Histogram bucket width")
	cmd.Flags().Duration("window", 120*time.Hour, "How far back to look")
	cmd.Flags().Uint64("limit", 10000, "Maximum number of entries counted")
	return cmd
}

func newServicesCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List installed service units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := usecase.NewServiceCatalog(deps.Units, deps.Boots).ListServices(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "UNIT FILE\tSTATE")
			for _, u := range units {
				fmt.Fprintf(tw, "%s\t%s\n", u.UnitFile, u.State)
			}
			return tw.Flush()
		},
	}
}

func newBootsCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "boots",
		Short: "List recorded boots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			boots, err := usecase.NewServiceCatalog(deps.Units, deps.Boots).ListBoots(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "IDX\tBOOT ID\tFIRST ENTRY\tLAST ENTRY")
			for _, b := range boots {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.Index, b.BootID,
					time.UnixMicro(b.FirstEntry).UTC().Format(time.RFC3339),
					time.UnixMicro(b.LastEntry).UTC().Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}
