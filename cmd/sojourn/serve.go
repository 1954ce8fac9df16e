package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sojourn-fsm/sojourn"
	"github.com/sojourn-fsm/sojourn/clock"
	"github.com/sojourn-fsm/sojourn/internal/httpapi"
	"github.com/sojourn-fsm/sojourn/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the door demo with the debug HTTP surface",
	Long:  `Runs the scripted door machine and exposes machine status and Prometheus metrics over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		promReg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(promReg)
		registry := httpapi.NewRegistry()

		start := time.Now()
		pressed := func() bool {
			// Scripted button: pressed 4s, released 4s.
			return int(time.Since(start)/(4*time.Second))%2 == 0
		}

		driver := clock.NewDriver(clock.WithFrameInterval(50 * time.Millisecond))
		m, err := buildDoor(pressed,
			sojourn.WithClock[door](driver),
			sojourn.WithHooks(observability.Instrument[door](metrics, "door")),
		)
		if err != nil {
			return err
		}
		// Publish status from the machine's own goroutine every tick.
		m.OnUpdate(func(time.Duration) {
			registry.Publish("door", m.Describe())
		})

		srv := &http.Server{
			Addr:    addr,
			Handler: httpapi.NewHandler(registry, promReg),
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Debug server on %s (/machines, /metrics)\n", addr)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		clockDone := make(chan struct{})
		go func() {
			defer close(clockDone)
			_ = driver.Run(ctx)
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			fmt.Printf("\nShutting down (%v)\n", sig)
			cancel()
			<-clockDone
			m.Cleanup()
			shutdownCtx, release := context.WithTimeout(context.Background(), 5*time.Second)
			defer release()
			return srv.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8099", "Listen address for the debug server")
	rootCmd.AddCommand(serveCmd)
}
