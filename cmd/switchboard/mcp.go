package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/switchboard/internal/cli"
	"github.com/aretw0/switchboard/pkg/adapters/mcp"
	"github.com/aretw0/switchboard/pkg/service"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [workflow|dir]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes sessions as MCP tools so agents can hold conversations with
a workflow.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, stack, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		lib, def, err := cli.OpenLibrary(ctx, librarySource(args, cfg))
		if err != nil {
			return err
		}
		svc, err := service.New(service.Config{
			Engine:          stack.Engine,
			Workflows:       lib,
			DefaultWorkflow: def,
			Sessions:        stack.Sessions,
			Logger:          logger,
		})
		if err != nil {
			return err
		}
		srv := mcp.NewServer(svc, logger)

		transport, _ := cmd.Flags().GetString("transport")
		switch transport {
		case "stdio":
			logger.Info("starting MCP server (stdio)", "default_workflow", def)
			return srv.ServeStdio()
		case "sse":
			addr, _ := cmd.Flags().GetString("addr")
			baseURL, _ := cmd.Flags().GetString("base-url")
			if baseURL == "" {
				baseURL = "http://localhost" + addr
			}
			return srv.ServeSSE(ctx, addr, baseURL)
		default:
			return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
		}
	},
}

func init() {
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().String("addr", ":8081", "Listen address for the sse transport")
	mcpCmd.Flags().String("base-url", "", "Public base URL for the sse transport")
	rootCmd.AddCommand(mcpCmd)
}
