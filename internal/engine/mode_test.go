package engine

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModeKind(t *testing.T) {
	cases := []struct {
		in      string
		want    ModeKind
		wantErr bool
	}{
		{"threaded", ModeThreaded, false},
		{"process", ModeProcess, false},
		{"bursty", ModeBursty, false},
		{"", 0, true},
		{"Threaded", 0, true},
		{"fork", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseModeKind(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrUnknownMode, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestModeValidateUtilization(t *testing.T) {
	for _, u := range []int{0, 1, 50, 99, 100} {
		assert.NoError(t, Mode{Kind: ModeBursty, Utilization: u}.Validate(), "utilization %d", u)
	}
	for _, u := range []int{-1, 101, 1000} {
		err := Mode{Kind: ModeBursty, Utilization: u}.Validate()
		assert.ErrorIs(t, err, ErrInvalidUtilization, "utilization %d", u)
	}

	// Non-bursty modes ignore utilization entirely.
	assert.NoError(t, Mode{Kind: ModeThreaded, Utilization: -5}.Validate())
}

func TestModeFromRequest(t *testing.T) {
	util := 30
	m, err := ModeFromRequest("bursty", &util)
	require.NoError(t, err)
	assert.Equal(t, Mode{Kind: ModeBursty, Utilization: 30}, m)

	_, err = ModeFromRequest("bursty", nil)
	assert.ErrorIs(t, err, ErrInvalidUtilization)

	m, err = ModeFromRequest("threaded", nil)
	require.NoError(t, err)
	assert.Equal(t, ModeThreaded, m.Kind)

	_, err = ModeFromRequest("banana", nil)
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "threaded", Mode{Kind: ModeThreaded}.String())
	assert.Equal(t, "bursty(75%)", Mode{Kind: ModeBursty, Utilization: 75}.String())
}
