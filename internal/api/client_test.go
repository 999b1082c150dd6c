package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	client := NewClient(srv.URL)

	st, err := client.Status()
	require.NoError(t, err)
	assert.False(t, st.Running)

	require.NoError(t, client.StartCPU("threaded", nil))
	st, err = client.Status()
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.Equal(t, "threaded", st.Mode)

	perf, err := client.CPUPerf()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, perf, uint64(0))

	burst, err := client.BurstPerf()
	require.NoError(t, err)
	assert.Zero(t, burst, "burst perf must read 0 outside bursty mode")

	require.NoError(t, client.EndCPU())
	st, err = client.Status()
	require.NoError(t, err)
	assert.False(t, st.Running)
}

func TestClientSurfacesValidationErrors(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	client := NewClient(srv.URL)

	err := client.StartCPU("warp", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown load mode")

	util := 150
	err = client.StartCPU("bursty", &util)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "utilization")
}

func TestClientAddrNormalization(t *testing.T) {
	c := NewClient("localhost:8080")
	assert.Equal(t, "http://localhost:8080", c.base)

	c = NewClient("https://host:9/")
	assert.Equal(t, "https://host:9", c.base)
}
