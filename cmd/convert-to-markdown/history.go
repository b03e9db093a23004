// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/convert-to-markdown/internal/history"
	"github.com/pdiddy/convert-to-markdown/internal/report"
	"github.com/pdiddy/convert-to-markdown/pkg/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent conversions",
		Long: `History lists conversions recorded in the local SQLite log, newest first.
Recording is enabled with history.enabled: true in the config file or
CONVERT_TO_MARKDOWN_HISTORY_ENABLED=true.`,
		Args: cobra.NoArgs,
		RunE: a.runHistory,
	}
	cmd.Flags().Int("limit", 20, "maximum number of records to show")
	cmd.Flags().Bool("json", false, "output records as JSON")
	cmd.Flags().Bool("yaml", false, "output records as YAML")
	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	if asJSON && asYAML {
		return fmt.Errorf("--json and --yaml are mutually exclusive")
	}

	path, err := a.historyPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	switch {
	case asJSON:
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case asYAML:
		data, err := yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("encoding records: %w", err)
		}
		_, err = a.stdout.Write(data)
		return err
	}

	if len(records) == 0 {
		if !a.cfg.History.Enabled {
			fmt.Fprintln(a.stdout, "No conversions recorded (history is disabled).")
		} else {
			fmt.Fprintln(a.stdout, "No conversions recorded.")
		}
		return nil
	}
	printHistory(a.stdout, records)
	return nil
}

func printHistory(w io.Writer, records []types.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSTATUS\tBACKEND\tINPUT\tOUTPUT\tSIZE\tLINES\tTOOK")
	for _, r := range records {
		backend := r.Backend
		if backend == "" {
			backend = "-"
		}
		output := r.Output
		if output == "" {
			output = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status, backend, r.Input, output,
			report.KB(r.OutputBytes), r.Lines, r.Duration.Round(time.Millisecond))
	}
	tw.Flush()
}
