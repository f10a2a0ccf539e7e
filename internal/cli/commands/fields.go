package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/pkg/accesslog"
)

// NewFieldsCommand creates the fields command.
func NewFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the record fields usable in filters",
		Long: `List the record fields accepted by --filter and the filters: config key,
with the value each takes for a sample line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := accesslog.Parse(accesslog.Example)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, name := range accesslog.FieldNames() {
				value, _ := accesslog.FieldValue(record, name)
				fmt.Fprintf(w, "%-15s %s\n", name, value)
			}
			return nil
		},
	}
}
