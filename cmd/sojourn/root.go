package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sojourn-fsm/sojourn/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "sojourn",
	Short: "Sojourn is a tick-driven state machine engine",
	Long:  `Sojourn runs declarative state machines from a per-frame clock: timed and predicate triggers, automatic transitions, and per-tick updates.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelFlag, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(levelFlag)
		if err != nil {
			return err
		}
		slog.SetDefault(logging.New(level))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
