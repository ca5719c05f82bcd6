package physics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStepConfOverridesOnlyGivenKeys(t *testing.T) {
	doc := strings.NewReader("dt: 0.02\nreg_velocity_iterations: 4\n")
	conf, err := LoadStepConf(doc)
	require.NoError(t, err)

	assert.InDelta(t, 0.02, conf.DT, 1e-9)
	assert.Equal(t, 4, conf.RegVelocityIterations)

	def := DefaultStepConf()
	assert.Equal(t, def.RegPositionIterations, conf.RegPositionIterations)
	assert.InDelta(t, def.TargetDepth, conf.TargetDepth, 1e-12)
}

func TestStepConfSaveLoadRoundTrips(t *testing.T) {
	conf := DefaultStepConf()
	conf.DT = 1.0 / 30.0
	conf.DoTOI = false

	var buf bytes.Buffer
	require.NoError(t, conf.Save(&buf))

	loaded, err := LoadStepConf(&buf)
	require.NoError(t, err)

	assert.Equal(t, conf, loaded)
}

func TestStepConfSeparationThresholdsScaleWithLinearSlop(t *testing.T) {
	conf := DefaultStepConf()
	conf.LinearSlop = 0.01

	assert.InDelta(t, -0.03, conf.regMinSeparation(), 1e-12)
	assert.InDelta(t, -0.015, conf.toiMinSeparation(), 1e-12)
}
