package logq

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/V4T54L/journalview/internal/usecase"
)

func newEntryCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry <usec>",
		Short: "Print every field of the entry received at a timestamp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid timestamp %q: expected microseconds since the epoch", args[0])
			}

			uc := usecase.NewFetchEntryUseCase(deps.Open, openOptions(cmd), nil, deps.Logger, nil)
			rec, err := uc.FetchFull(cmd.Context(), ts)
			if err != nil {
				return err
			}
			redactor(cmd, deps.Logger).RedactRecord(rec)

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			for i, h := range rec.Headers {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", h, rec.Values[i])
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the record as JSON")
	return cmd
}
