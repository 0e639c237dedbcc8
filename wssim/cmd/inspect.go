package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/wssim/datarecording"
	"github.com/sarchlab/wssim/tracing"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <database.sqlite3>",
		Short: "Summarize a recorded run.",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectRecording,
	}
}

func inspectRecording(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err != nil {
		return err
	}

	reader := datarecording.NewReader(args[0])
	defer reader.Close()

	reader.MapTable(tracing.RequestTable, tracing.RequestEntry{})
	reader.MapTable(tracing.EvictionTable, tracing.EvictionEntry{})

	ctx := context.Background()

	stored, err := reader.StoredTables(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "table\trows")

	mapped := make(map[string]bool)
	for _, table := range reader.ListTables() {
		mapped[table] = true
	}

	for _, table := range stored {
		if !mapped[table] {
			fmt.Fprintf(tw, "%s\t-\n", table)
			continue
		}

		_, count, err := reader.Query(ctx, table, datarecording.QueryParams{})
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\t%d\n", table, count)
	}

	for _, kind := range []string{"hit", "admit", "intra-evict", "global-evict"} {
		_, count, err := reader.Query(ctx, tracing.RequestTable,
			datarecording.QueryParams{Where: "Resolution = ?", Args: []any{kind}})
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s requests\t%d\n", kind, count)
	}

	return tw.Flush()
}
