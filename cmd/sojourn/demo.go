package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sojourn-fsm/sojourn"
	"github.com/sojourn-fsm/sojourn/clock"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the interactive door demo",
	Long: `Runs the door state machine against the wall-clock driver.

On a terminal, the space bar presses and releases the button and 'q' quits.
Without a terminal the button is scripted: pressed for four seconds,
released for four seconds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		duration, _ := cmd.Flags().GetDuration("duration")

		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		button := newButton(interactive)

		driver := clock.NewDriver(clock.WithFrameInterval(50 * time.Millisecond))
		m, err := buildDoor(button.pressed, sojourn.WithClock[door](driver))
		if err != nil {
			return err
		}
		reportTransitions(m, term.IsTerminal(int(os.Stdout.Fd())))

		ctx, cancel := context.WithTimeout(cmd.Context(), duration)
		defer cancel()

		if interactive {
			restore, err := button.listen(os.Stdin, cancel)
			if err != nil {
				return err
			}
			defer restore()
			fmt.Println("space: press/release the button, q: quit")
		}

		fmt.Printf("door starts %s\n", m.Current())
		_ = driver.Run(ctx)
		m.Cleanup()

		snap := m.Snapshot()
		fmt.Printf("final snapshot: state=%s elapsed=%.2fs\n", snap.State, snap.ElapsedSeconds)
		return nil
	},
}

func init() {
	demoCmd.Flags().Duration("duration", 20*time.Second, "How long to run the demo")
	rootCmd.AddCommand(demoCmd)
}

// button is the demo's external world: a bool the door predicates probe.
// Writes happen on the stdin goroutine, reads on the clock goroutine, so
// it is guarded by the scripted/atomic helpers below.
type button struct {
	interactive bool
	state       chan bool // 1-buffered mailbox holding the current value
	start       time.Time
}

func newButton(interactive bool) *button {
	b := &button{
		interactive: interactive,
		state:       make(chan bool, 1),
		start:       time.Now(),
	}
	b.state <- false
	return b
}

func (b *button) pressed() bool {
	if !b.interactive {
		// Scripted square wave: pressed 4s, released 4s.
		return int(time.Since(b.start)/(4*time.Second))%2 == 0
	}
	v := <-b.state
	b.state <- v
	return v
}

func (b *button) toggle() {
	v := <-b.state
	b.state <- !v
}

// listen puts f into raw mode and consumes keys until 'q' or EOF.
// The returned func restores the terminal state.
func (b *button) listen(f *os.File, quit func()) (restore func(), err error) {
	fd := int(f.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := f.Read(buf)
			if err != nil || n == 0 {
				return
			}
			switch buf[0] {
			case ' ':
				b.toggle()
			case 'q', 3: // q or Ctrl-C
				quit()
				return
			}
		}
	}()

	return func() { _ = term.Restore(fd, old) }, nil
}
