package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sojourn-fsm/sojourn"
	"github.com/sojourn-fsm/sojourn/internal/httpapi"
	"github.com/sojourn-fsm/sojourn/observability"
)

func publishMachine(t *testing.T, reg *httpapi.Registry, name, state string) {
	t.Helper()
	m, err := sojourn.New(state)
	require.NoError(t, err)
	m.Tick(1500 * time.Millisecond)
	reg.Publish(name, m.Describe())
}

func TestListMachines(t *testing.T) {
	reg := httpapi.NewRegistry()
	publishMachine(t, reg, "door", "open")
	publishMachine(t, reg, "npc", "calm")

	srv := httptest.NewServer(httpapi.NewHandler(reg, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/machines")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got []struct {
		Name           string  `json:"name"`
		State          string  `json:"state"`
		Phase          string  `json:"phase"`
		ElapsedSeconds float64 `json:"elapsed_seconds"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 2)
	// Publication order is stable.
	assert.Equal(t, "door", got[0].Name)
	assert.Equal(t, "open", got[0].State)
	assert.Equal(t, "active", got[0].Phase)
	assert.InDelta(t, 1.5, got[0].ElapsedSeconds, 1e-9)
	assert.Equal(t, "npc", got[1].Name)
}

func TestGetMachine(t *testing.T) {
	reg := httpapi.NewRegistry()
	publishMachine(t, reg, "door", "open")

	srv := httptest.NewServer(httpapi.NewHandler(reg, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/machines/door")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Name  string `json:"name"`
		State string `json:"state"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "door", got.Name)
	assert.Equal(t, "open", got.State)
}

func TestGetMachineNotFound(t *testing.T) {
	srv := httptest.NewServer(httpapi.NewHandler(httpapi.NewRegistry(), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/machines/ghost")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegistryRemove(t *testing.T) {
	reg := httpapi.NewRegistry()
	publishMachine(t, reg, "door", "open")
	reg.Remove("door")
	reg.Remove("door") // second remove is a no-op

	_, ok := reg.Get("door")
	assert.False(t, ok)
	assert.Empty(t, reg.List())
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)

	srv := httptest.NewServer(httpapi.NewHandler(httpapi.NewRegistry(), reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpointOmittedWithoutGatherer(t *testing.T) {
	srv := httptest.NewServer(httpapi.NewHandler(httpapi.NewRegistry(), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
