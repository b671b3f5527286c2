package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/switchboard/internal/samples"
	"github.com/aretw0/switchboard/pkg/document"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [name]",
	Short: "Print a built-in workflow document",
	Long: `Prints one of the built-in workflows as a document that can be edited
and passed back to chat, analyze or serve. Without a name the available
samples are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range samples.Names() {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		w, err := samples.Get(args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		data, err := document.Marshal(w, document.Format(format))
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	sampleCmd.Flags().StringP("format", "f", "yaml", "Document format: yaml or json")
	rootCmd.AddCommand(sampleCmd)
}
