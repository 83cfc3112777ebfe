package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	var input = []byte(`
Title: "Hexagons"
Cells: 64
Mu: [0.98]
Solver: cg
Seed: 7
Movie: false
`)
	var ip InputParametersRD
	require.NoError(t, ip.Parse(input))
	ip.SetDefaults()
	require.NoError(t, ip.Validate())
	assert.Equal(t, "Hexagons", ip.Title)
	assert.Equal(t, 64, ip.Cells)
	assert.Equal(t, []float64{0.98}, ip.Mu)
	assert.Equal(t, "cg", ip.Solver)
	assert.Equal(t, int64(7), ip.Seed)
	assert.False(t, *ip.Movie)
	assert.Equal(t, 64., ip.L)
	assert.Equal(t, 4.5, ip.Ka)
	assert.Equal(t, 8., ip.D)
	assert.Equal(t, 1.e-4, ip.Tolerance)
	assert.Equal(t, 3000., ip.FinalTime)
	assert.Equal(t, 10, ip.FrameInterval)

	var def InputParametersRD
	def.SetDefaults()
	assert.Equal(t, []float64{0.04, 0.1, 0.98}, def.Mu)
	assert.Equal(t, 128, def.Cells)
	assert.True(t, *def.Movie)
	assert.Equal(t, 0.01, *def.NoiseAmplitude)
	assert.Equal(t, 2., *def.Spread)
	assert.Equal(t, "multigrid", def.Solver)
	assert.NoError(t, def.Validate())
}

func TestValidate(t *testing.T) {
	bad := []func(ip *InputParametersRD){
		func(ip *InputParametersRD) { ip.Cells = 100 },
		func(ip *InputParametersRD) { ip.D = -1 },
		func(ip *InputParametersRD) { ip.Ka = -4.5 },
		func(ip *InputParametersRD) { ip.MaxDt = -1 },
		func(ip *InputParametersRD) { ip.Solver = "sor" },
		func(ip *InputParametersRD) { *ip.NoiseAmplitude = -0.1 },
		func(ip *InputParametersRD) { ip.Movie = nil },
		func(ip *InputParametersRD) { ip.FrameInterval = -1 },
	}
	for i, modify := range bad {
		var ip InputParametersRD
		ip.SetDefaults()
		modify(&ip)
		assert.Error(t, ip.Validate(), "case %d", i)
	}
	assert.Error(t, (&InputParametersRD{}).Parse([]byte("Cells: [1, 2")))
}

func TestExplicitZeros(t *testing.T) {
	var ip InputParametersRD
	require.NoError(t, ip.Parse([]byte("Cells: 32\nL: 16\nD: 4\nNoiseAmplitude: 0\nSpread: 0\n")))
	ip.SetDefaults()
	require.NoError(t, ip.Validate())
	assert.Equal(t, 32, ip.Cells)
	assert.Equal(t, 16., ip.L)
	assert.Equal(t, 4., ip.D)
	assert.Equal(t, 0., *ip.NoiseAmplitude)
	assert.Equal(t, 0., *ip.Spread)
	assert.True(t, *ip.Movie)

	// SetDefaults leaves values already set alone
	ip.SetDefaults()
	assert.Equal(t, 0., *ip.NoiseAmplitude)
	assert.Equal(t, 32, ip.Cells)
}
