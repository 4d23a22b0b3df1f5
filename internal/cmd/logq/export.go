package logq

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/V4T54L/journalview/internal/adapter/export"
)

func newExportCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write matching entries as newline-delimited JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			q, err := querySpecFromFlags(cmd, deps)
			if err != nil {
				return err
			}
			rs, err := runQuery(cmd, deps, q)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if path, _ := cmd.Flags().GetString("output"); path != "" {
				f, createErr := os.Create(path)
				if createErr != nil {
					return fmt.Errorf("create output: %w", createErr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				out = f
			}

			compress, _ := cmd.Flags().GetBool("zstd")
			w, err := export.NewWriter(out, compress)
			if err != nil {
				return err
			}
			if err := w.WriteResultSet(rs); err != nil {
				w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return fmt.Errorf("finish export: %w", err)
			}
			deps.Logger.Info("export finished", "rows", w.Rows(), "compressed", compress)
			return nil
		},
	}
	addQueryFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().Bool("zstd", false, "Compress the output with zstd")
	return cmd
}
