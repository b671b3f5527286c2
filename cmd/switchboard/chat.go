package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/switchboard/internal/cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat [workflow]",
	Short: "Hold a conversation with a workflow in the terminal",
	Long: `Runs a workflow interactively. The workflow is a YAML or JSON document,
or "sample:<name>" for a built-in one (default sample:greeting).

Commands inside the chat: /slots, /reset and /quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, stack, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		opts := cli.ChatOptions{Source: workflowArg(args)}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		opts.Verbose, _ = cmd.Flags().GetBool("verbose")
		opts.Watch, _ = cmd.Flags().GetBool("watch")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.RunChat(ctx, stack, opts, logger)
	},
}

func init() {
	chatCmd.Flags().StringP("session", "s", "", "Persist the conversation under this session ID")
	chatCmd.Flags().Bool("fresh", false, "Discard the persisted session before starting")
	chatCmd.Flags().Bool("json", false, "Read and write JSON Lines instead of text")
	chatCmd.Flags().Bool("headless", false, "Disable the prompt and styling")
	chatCmd.Flags().BoolP("verbose", "v", false, "Print the transition taken on each turn")
	chatCmd.Flags().BoolP("watch", "w", false, "Reload the workflow document when it changes")
	rootCmd.AddCommand(chatCmd)
}
