package observability_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sojourn-fsm/sojourn"
	"github.com/sojourn-fsm/sojourn/internal/logging"
	"github.com/sojourn-fsm/sojourn/observability"
)

type signal string

const (
	red   signal = "red"
	green signal = "green"
)

// counterValue sums the gathered counter series of name matching all the
// given label pairs.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range fam.GetMetric() {
			got := map[string]string{}
			for _, lp := range metric.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metrics
				}
			}
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestInstrumentCountsTicksAndTransitions(t *testing.T) {
	reg := prometheus.NewRegistry()
	mx := observability.NewMetrics(reg)

	m, err := sojourn.New(red,
		sojourn.WithHooks(observability.Instrument[signal](mx, "crossing")))
	require.NoError(t, err)

	m.TransitionAt(red, 2*time.Second, green)
	for i := 0; i < 3; i++ {
		m.Tick(time.Second)
	}
	require.Equal(t, green, m.Current())

	assert.Equal(t, 3.0, counterValue(t, reg, "sojourn_ticks_total",
		map[string]string{"machine": "crossing"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "sojourn_transitions_total",
		map[string]string{"machine": "crossing", "from": "red", "to": "green"}))
}

func TestInstrumentCountsUpdatePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	mx := observability.NewMetrics(reg)

	m, err := sojourn.New(red,
		sojourn.WithLogger[signal](logging.NewNop()),
		sojourn.WithHooks(observability.Instrument[signal](mx, "crossing")))
	require.NoError(t, err)

	m.OnUpdate(func(elapsed time.Duration) { panic("boom") })
	m.Tick(time.Second)
	m.Tick(time.Second)

	assert.Equal(t, 2.0, counterValue(t, reg, "sojourn_update_panics_total",
		map[string]string{"machine": "crossing"}))
}
