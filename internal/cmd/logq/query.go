package logq

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/V4T54L/journalview/internal/domain"
	"github.com/V4T54L/journalview/internal/usecase"
)

// addQueryFlags registers the filter flags shared by query and export.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("fields", nil, "Fields to project (default: the standard field set)")
	cmd.Flags().Uint32("priority", domain.DefaultMinimumPriority, "Least severe priority to include (0-7)")
	cmd.Flags().Uint64("limit", domain.DefaultLimit, "Maximum number of rows, 0 for no limit")
	cmd.Flags().StringP("search", "q", "", "Case-insensitive substring the message must contain")
	cmd.Flags().StringSlice("services", nil, "Units to include; \""+usecase.InitUnit+"\" selects pid 1")
	cmd.Flags().StringSlice("transports", nil, "Transports to include (default: syslog,journal,stdout)")
	cmd.Flags().String("from", "", "Only entries after this RFC 3339 time")
	cmd.Flags().String("to", "", "Only entries before this RFC 3339 time")
	cmd.Flags().StringSlice("boots", nil, "Boot IDs to include")
}

func querySpecFromFlags(cmd *cobra.Command, deps Deps) (domain.QuerySpec, error) {
	fields, _ := cmd.Flags().GetStringSlice("fields")
	priority, _ := cmd.Flags().GetUint32("priority")
	limit, _ := cmd.Flags().GetUint64("limit")
	search, _ := cmd.Flags().GetString("search")
	services, _ := cmd.Flags().GetStringSlice("services")
	transports, _ := cmd.Flags().GetStringSlice("transports")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	boots, _ := cmd.Flags().GetStringSlice("boots")

	translator := usecase.NewRequestTranslator(0, 24*time.Hour)
	translator.Now = deps.now
	return translator.Translate(usecase.LogsRequest{
		Fields:        fields,
		Priority:      priority,
		Limit:         limit,
		QuickSearch:   search,
		ResetPosition: true,
		Services:      services,
		Transports:    transports,
		DatetimeFrom:  from,
		DatetimeTo:    to,
		BootIDs:       boots,
	})
}

// runQuery executes q on a freshly opened journal.
func runQuery(cmd *cobra.Command, deps Deps, q domain.QuerySpec) (*domain.ResultSet, error) {
	store, err := deps.Open(openOptions(cmd))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	uc := usecase.NewQueryLogsUseCase(store, deps.Logger, nil, nil)
	defer uc.Close()

	rs, err := uc.List(cmd.Context(), q)
	if err != nil {
		return nil, err
	}
	redactor(cmd, deps.Logger).RedactResultSet(rs)
	return rs, nil
}

func newQueryCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := querySpecFromFlags(cmd, deps)
			if err != nil {
				return err
			}
			rs, err := runQuery(cmd, deps, q)
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), rs)
			}
			return writeTable(cmd.OutOrStdout(), rs)
		},
	}
	addQueryFlags(cmd)
	cmd.Flags().Bool("json", false, "Print the result set as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTable prints rs as tab-aligned columns under a header line.
func writeTable(w io.Writer, rs *domain.ResultSet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(rs.Headers, "\t"))
	for _, row := range rs.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			// Tabs and newlines in messages would break the alignment.
			cells[i] = strings.NewReplacer("\t", " ", "\n", " ").Replace(c)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
