package definition_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sojourn-fsm/sojourn/definition"
)

const trafficLight = `
name: traffic-light
initial: red
states:
  - name: red
    transitions:
      - to: green
        after: 3
  - name: green
    transitions:
      - to: yellow
        after: 5
  - name: yellow
    on_enter_log: "slowing down"
    transitions:
      - to: red
        after: 1
`

func TestParse(t *testing.T) {
	def, err := definition.Parse([]byte(trafficLight))
	require.NoError(t, err)

	assert.Equal(t, "traffic-light", def.Name)
	assert.Equal(t, "red", def.InitialState())
	require.Len(t, def.States, 3)
	assert.Equal(t, "slowing down", def.States[2].OnEnterLog)
	require.Len(t, def.States[0].Transitions, 1)
	assert.Equal(t, "green", def.States[0].Transitions[0].To)
	assert.Equal(t, 3.0, def.States[0].Transitions[0].After)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := definition.Parse([]byte(`
states:
  - name: only
    transiitons:
      - to: only
        after: 1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transiitons")
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := definition.Parse([]byte("states: ["))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "no states",
			yaml:    `name: empty`,
			wantErr: definition.ErrNoStates,
		},
		{
			name: "duplicate state",
			yaml: `
states:
  - name: twin
  - name: twin
`,
			wantErr: definition.ErrDuplicateState,
		},
		{
			name: "unknown initial",
			yaml: `
initial: nowhere
states:
  - name: somewhere
`,
			wantErr: definition.ErrUnknownState,
		},
		{
			name: "unknown transition target",
			yaml: `
states:
  - name: here
    transitions:
      - to: gone
        after: 1
`,
			wantErr: definition.ErrUnknownState,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := definition.Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateRejectsNonPositiveAfter(t *testing.T) {
	_, err := definition.Parse([]byte(`
states:
  - name: stuck
    transitions:
      - to: stuck
        after: 0
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after must be positive")
}

func TestInitialDefaultsToFirstState(t *testing.T) {
	def, err := definition.Parse([]byte(`
states:
  - name: first
  - name: second
`))
	require.NoError(t, err)
	assert.Equal(t, "first", def.InitialState())
}

func TestBuildFractionalAfter(t *testing.T) {
	// 0.3 seconds is 299999999.99... ns in float64; the compiled timestamp
	// must round to exactly 300ms, not truncate below it. With the exact
	// timestamp, ticks of 100ms put 300ms in the fourth window [300,400).
	def, err := definition.Parse([]byte(`
states:
  - name: waiting
    transitions:
      - to: ready
        after: 0.3
  - name: ready
`))
	require.NoError(t, err)

	m, err := def.Build()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		m.Tick(100 * time.Millisecond)
		require.Equal(t, "waiting", m.Current(), "tick %d", i+1)
	}
	m.Tick(100 * time.Millisecond)
	assert.Equal(t, "ready", m.Current())
}

func TestBuildAndTick(t *testing.T) {
	def, err := definition.Parse([]byte(trafficLight))
	require.NoError(t, err)

	m, err := def.Build()
	require.NoError(t, err)
	assert.Equal(t, "red", m.Current())

	// Transitions fire on the tick whose window [prev, elapsed) contains
	// the timestamp: 3s is inside [3s, 4s), the fourth one-second tick.
	for i := 0; i < 3; i++ {
		m.Tick(time.Second)
		assert.Equal(t, "red", m.Current())
	}
	m.Tick(time.Second)
	assert.Equal(t, "green", m.Current())

	for i := 0; i < 6; i++ {
		m.Tick(time.Second)
	}
	assert.Equal(t, "yellow", m.Current())

	m.Tick(time.Second)
	m.Tick(time.Second)
	assert.Equal(t, "red", m.Current())
}
