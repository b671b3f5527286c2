package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/aretw0/switchboard/internal/config"
	"github.com/aretw0/switchboard/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "switchboard",
	Short: "Switchboard drives conversations through IVR workflows",
	Long: `Switchboard walks a caller through a workflow graph of nodes and edges,
collecting slots and choosing branches from what they say.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default switchboard.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
}

// loadConfig reads the configuration named by the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// newLogger writes to stderr so stdout stays clean for conversations and
// JSON-RPC.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(os.Stderr, level), nil
}

// setup loads configuration and builds the engine stack.
func setup(cmd *cobra.Command) (*config.Config, *cli.Stack, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	stack, err := cli.Build(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, stack, logger, nil
}

// workflowArg returns the optional workflow source argument.
func workflowArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// librarySource picks what a server hosts: the argument, else the
// configured workflow directory, else the default sample.
func librarySource(args []string, cfg *config.Config) string {
	if src := workflowArg(args); src != "" {
		return src
	}
	return cfg.Workflows
}
