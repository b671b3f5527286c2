package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/aretw0/switchboard/internal/presentation/tui"
)

var errStrict = errors.New("workflow has warnings")

var analyzeCmd = &cobra.Command{
	Use:   "analyze [workflow]",
	Short: "Report the structure and problems of a workflow",
	Long: `Analyzes a workflow: node and edge counts, start and end nodes,
paths between them, loops, dangling edges, dead ends and slot coverage.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, stack, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		name, w, err := cli.OpenWorkflow(workflowArg(args))
		if err != nil {
			return err
		}
		report := stack.Engine.Analyze(w)

		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			md := tui.ReportMarkdown(name, report)
			if cli.IsTerminalWriter(out) {
				if rendered, err := tui.NewRenderer()(md); err == nil {
					md = rendered
				}
			}
			fmt.Fprint(out, md)
		}

		if strict, _ := cmd.Flags().GetBool("strict"); strict && report.HasWarnings() {
			return errStrict
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "Print the report as JSON")
	analyzeCmd.Flags().Bool("strict", false, "Exit with an error when the report has warnings")
	rootCmd.AddCommand(analyzeCmd)
}
