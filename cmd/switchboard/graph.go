package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/aretw0/switchboard/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph [workflow]",
	Short: "Export the workflow as a Mermaid diagram",
	Long: `Prints a Mermaid flowchart of the workflow. With --session the
persisted conversation's current node and visited nodes are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, stack, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		_, w, err := cli.OpenWorkflow(workflowArg(args))
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if id, _ := cmd.Flags().GetString("session"); id != "" {
			snap, err := stack.Sessions.Load(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("session %s: %w", id, err)
			}
			overlay = graph.OverlayFromSnapshot(snap)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(w, overlay))
		return nil
	},
}

func init() {
	graphCmd.Flags().StringP("session", "s", "", "Highlight the progress of a persisted session")
	rootCmd.AddCommand(graphCmd)
}
