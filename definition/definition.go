// Package definition loads declarative machine definitions from YAML and
// compiles them onto string-typed machines.
//
// Definitions cover the declarative subset of the engine: states, the
// initial state, timed transitions, and entry log lines. Predicate-driven
// behavior is code, not configuration, and is registered on the built
// machine afterwards.
package definition

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/sojourn-fsm/sojourn"
)

var (
	// ErrNoStates is returned for a definition with an empty state list.
	ErrNoStates = errors.New("definition has no states")
	// ErrUnknownState is returned when a transition or the initial field
	// names a state the definition does not declare.
	ErrUnknownState = errors.New("reference to undeclared state")
	// ErrDuplicateState is returned when two states share a name.
	ErrDuplicateState = errors.New("duplicate state name")
)

// Definition is a declarative machine description.
type Definition struct {
	// Name labels the machine in logs and introspection output.
	Name string `mapstructure:"name"`

	// Initial is the starting state. Defaults to the first declared state.
	Initial string `mapstructure:"initial"`

	States []StateDef `mapstructure:"states"`
}

// StateDef declares one state and its timed transitions.
type StateDef struct {
	Name string `mapstructure:"name"`

	// OnEnterLog, when set, is logged at info level each time the machine
	// enters this state.
	OnEnterLog string `mapstructure:"on_enter_log"`

	Transitions []TransitionDef `mapstructure:"transitions"`
}

// TransitionDef declares a timed transition out of its state.
type TransitionDef struct {
	To string `mapstructure:"to"`

	// After is the sojourn time, in seconds, at which the transition
	// fires. Must be positive.
	After float64 `mapstructure:"after"`
}

// Parse decodes a YAML definition. Unknown keys are rejected so typos in
// hand-written files surface early.
func Parse(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse definition yaml: %w", err)
	}

	var def Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &def,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// ParseFile reads and parses the definition at path.
func ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return Parse(data)
}

// Validate checks the definition's internal consistency.
func (d *Definition) Validate() error {
	if len(d.States) == 0 {
		return ErrNoStates
	}

	names := make(map[string]bool, len(d.States))
	for _, s := range d.States {
		if s.Name == "" {
			return fmt.Errorf("state with empty name")
		}
		if names[s.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateState, s.Name)
		}
		names[s.Name] = true
	}

	if d.Initial != "" && !names[d.Initial] {
		return fmt.Errorf("%w: initial state %s", ErrUnknownState, d.Initial)
	}

	for _, s := range d.States {
		for _, t := range s.Transitions {
			if !names[t.To] {
				return fmt.Errorf("%w: %s -> %s", ErrUnknownState, s.Name, t.To)
			}
			if t.After <= 0 {
				return fmt.Errorf("transition %s -> %s: after must be positive, got %v", s.Name, t.To, t.After)
			}
		}
	}
	return nil
}

// InitialState returns the effective starting state.
func (d *Definition) InitialState() string {
	if d.Initial != "" {
		return d.Initial
	}
	return d.States[0].Name
}

// Build compiles the definition into a machine, registering its timed
// transitions and entry log listeners. Further behavior (predicates,
// updates) is registered by the caller on the returned machine.
func (d *Definition) Build(opts ...sojourn.Option[string]) (*sojourn.Machine[string], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var entries []sojourn.Entry[string]
	for _, s := range d.States {
		if s.OnEnterLog == "" {
			continue
		}
		msg, state := s.OnEnterLog, s.Name
		entries = append(entries, sojourn.Entry[string]{
			State: s.Name,
			Listeners: []func(){
				func() { slog.Info(msg, "machine", d.Name, "state", state) },
			},
		})
	}
	if len(entries) > 0 {
		opts = append(opts, sojourn.WithEntries(entries...))
	}

	m, err := sojourn.New(d.InitialState(), opts...)
	if err != nil {
		return nil, err
	}

	for _, s := range d.States {
		for _, t := range s.Transitions {
			at := time.Duration(math.Round(t.After * float64(time.Second)))
			m.TransitionAt(s.Name, at, t.To)
		}
	}
	return m, nil
}
