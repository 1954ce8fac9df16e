package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sojourn-fsm/sojourn"
	"github.com/sojourn-fsm/sojourn/clock"
	"github.com/sojourn-fsm/sojourn/definition"
	"github.com/sojourn-fsm/sojourn/store"
	filestore "github.com/sojourn-fsm/sojourn/store/file"
)

var runCmd = &cobra.Command{
	Use:   "run <definition.yaml>",
	Short: "Run a declarative machine definition",
	Long: `Loads a YAML machine definition, drives it from the wall clock for the
given duration, and prints every transition. With --snapshot-dir the final
(state, elapsed) snapshot is saved under the definition's name and restored
on the next run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		duration, _ := cmd.Flags().GetDuration("duration")
		snapshotDir, _ := cmd.Flags().GetString("snapshot-dir")

		def, err := definition.ParseFile(args[0])
		if err != nil {
			return err
		}

		driver := clock.NewDriver(clock.WithFrameInterval(50 * time.Millisecond))
		m, err := def.Build(sojourn.WithClock[string](driver))
		if err != nil {
			return err
		}
		m.OnTransition(func(from string, stay time.Duration) {
			fmt.Printf("%s: %s -> %s (after %s)\n",
				def.Name, from, m.Current(), stay.Round(10*time.Millisecond))
		})

		codec := store.StringCodec[string]{}
		var snapshots store.Store
		if snapshotDir != "" {
			snapshots = filestore.New(snapshotDir)
			err := store.Resume(cmd.Context(), snapshots, def.Name, m, codec)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
			if err == nil {
				fmt.Printf("resumed at %s (elapsed %.2fs)\n",
					m.Current(), m.Elapsed().Seconds())
			}
		}

		fmt.Printf("%s starts %s\n", def.Name, m.Current())
		ctx, cancel := context.WithTimeout(cmd.Context(), duration)
		defer cancel()
		_ = driver.Run(ctx)
		m.Cleanup()

		if snapshots != nil {
			if err := store.Persist(cmd.Context(), snapshots, def.Name, m, codec); err != nil {
				return err
			}
			fmt.Printf("snapshot saved to %s\n", snapshotDir)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().Duration("duration", 10*time.Second, "How long to run the machine")
	runCmd.Flags().String("snapshot-dir", "", "Directory for persisting the final snapshot")
	rootCmd.AddCommand(runCmd)
}
