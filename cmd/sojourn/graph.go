package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sojourn-fsm/sojourn/definition"
)

var graphCmd = &cobra.Command{
	Use:   "graph <definition.yaml>",
	Short: "Render a definition as a Mermaid diagram",
	Long: `Loads a YAML machine definition and prints it as Mermaid flowchart
syntax, suitable for pasting into any Mermaid renderer. Timed transitions
are labeled with their sojourn timestamps.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current")

		def, err := definition.ParseFile(args[0])
		if err != nil {
			return err
		}

		var overlay *definition.Overlay
		if current != "" {
			overlay = &definition.Overlay{Current: current}
		}
		fmt.Fprint(cmd.OutOrStdout(), def.Mermaid(overlay))
		return nil
	},
}

func init() {
	graphCmd.Flags().String("current", "", "Highlight a state as the machine's current one")
	rootCmd.AddCommand(graphCmd)
}
