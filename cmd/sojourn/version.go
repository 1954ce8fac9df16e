package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sojourn-fsm/sojourn"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sojourn",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sojourn version %s\n", sojourn.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
