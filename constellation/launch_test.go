package constellation

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadialLaunch(t *testing.T) {
	r := DefaultRadialLaunch()
	tests := []struct {
		p    cp.Vector
		want cp.Vector
	}{
		{cp.Vector{X: 0, Y: 3.5}, cp.Vector{X: -0.5, Y: 3}},
		{cp.Vector{X: 4, Y: 3.5}, cp.Vector{X: -0.5, Y: 4}},
		{cp.Vector{X: 0, Y: 7.5}, cp.Vector{X: -1.5, Y: 3}},
	}
	for _, tt := range tests {
		got, err := r.Velocity(tt.p)
		require.NoError(t, err)
		assert.InDelta(t, tt.want.X, got.X, 1e-12)
		assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
	}

	_, err := RadialLaunch{}.Velocity(cp.Vector{})
	assert.Error(t, err)
}

func TestStillLaunch(t *testing.T) {
	v, err := StillLaunch{}.Velocity(cp.Vector{X: 3, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, cp.Vector{}, v)
}

func TestScriptLaunchMatchesRadial(t *testing.T) {
	s, err := NewScriptLaunch([]byte(`
vx = -0.5 - (y - 3.5) / 4
vy = 3.0 + x / 4
`))
	require.NoError(t, err)

	r := DefaultRadialLaunch()
	for _, p := range []cp.Vector{{X: 0, Y: 0}, {X: 2, Y: -1}, {X: -3.25, Y: 8}} {
		want, err := r.Velocity(p)
		require.NoError(t, err)
		got, err := s.Velocity(p)
		require.NoError(t, err)
		assert.InDelta(t, want.X, got.X, 1e-12)
		assert.InDelta(t, want.Y, got.Y, 1e-12)
	}
}

func TestScriptLaunchImportsMath(t *testing.T) {
	s, err := NewScriptLaunch([]byte(`
math := import("math")
vx = math.cos(0) * x
vy = 2
`))
	require.NoError(t, err)
	got, err := s.Velocity(cp.Vector{X: 3, Y: 1})
	require.NoError(t, err)
	assert.InDelta(t, 3, got.X, 1e-12)
	assert.InDelta(t, 2, got.Y, 1e-12)
}

func TestScriptLaunchUnsetVelocityIsZero(t *testing.T) {
	s, err := NewScriptLaunch([]byte(`vx = x`))
	require.NoError(t, err)

	_, err = s.Velocity(cp.Vector{X: 1, Y: 1})
	require.NoError(t, err)
	got, err := s.Velocity(cp.Vector{X: 5, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, cp.Vector{X: 5, Y: 0}, got)
}

func TestScriptLaunchErrors(t *testing.T) {
	_, err := NewScriptLaunch([]byte(`vx = (`))
	assert.Error(t, err)

	s, err := NewScriptLaunch([]byte(`vx = x / "a"`))
	require.NoError(t, err)
	_, err = s.Velocity(cp.Vector{X: 1})
	assert.Error(t, err)
}
