package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessInput(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Cells: 32
L: 16
Mu: [0.04, 0.98]
FinalTime: 50.
Solver: cg # Can be multigrid or cg
`)
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(path, fileInput, 0o644))

	ip, err := processInput(TwoDCmd, &ModelRD{ICFile: path})
	require.NoError(t, err)
	assert.Equal(t, "Test Case", ip.Title)
	assert.Equal(t, 32, ip.Cells)
	assert.Equal(t, []float64{0.04, 0.98}, ip.Mu)
	assert.Equal(t, 50., ip.FinalTime)
	assert.Equal(t, "cg", ip.Solver)
	assert.Equal(t, 4.5, ip.Ka)
	assert.True(t, *ip.Movie)
	ip.Print()

	// Flags win over the file
	require.NoError(t, TwoDCmd.Flags().Set("mu", "0.1"))
	require.NoError(t, TwoDCmd.Flags().Set("solver", "multigrid"))
	ip, err = processInput(TwoDCmd, &ModelRD{ICFile: path})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1}, ip.Mu)
	assert.Equal(t, "multigrid", ip.Solver)
	assert.Equal(t, 32, ip.Cells)

	// No file runs the defaults
	ip, err = processInput(TwoDCmd, &ModelRD{})
	require.NoError(t, err)
	assert.Equal(t, 128, ip.Cells)
	assert.Equal(t, 3000., ip.FinalTime)
	assert.True(t, *ip.Movie)

	require.NoError(t, TwoDCmd.Flags().Set("movie", "false"))
	ip, err = processInput(TwoDCmd, &ModelRD{})
	require.NoError(t, err)
	assert.False(t, *ip.Movie)
	require.NoError(t, TwoDCmd.Flags().Set("movie", "true"))

	_, err = processInput(TwoDCmd, &ModelRD{ICFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	require.NoError(t, TwoDCmd.Flags().Set("solver", "sor"))
	_, err = processInput(TwoDCmd, &ModelRD{})
	assert.Error(t, err)
}

func TestRun2D(t *testing.T) {
	var (
		dir = t.TempDir()
		ip  = `
Cells: 16
L: 8
Mu: [0.04]
FinalTime: 3
ImageSize: 100
`
		path = filepath.Join(dir, "input.yaml")
	)
	require.NoError(t, os.WriteFile(path, []byte(ip), 0o644))
	require.NoError(t, TwoDCmd.Flags().Set("mu", "0.04"))
	require.NoError(t, TwoDCmd.Flags().Set("solver", "multigrid"))
	input, err := processInput(TwoDCmd, &ModelRD{ICFile: path})
	require.NoError(t, err)
	require.NoError(t, Run2D(&ModelRD{OutputDir: dir}, input))
	assert.FileExists(t, filepath.Join(dir, "mu-0.04.png"))
	assert.FileExists(t, filepath.Join(dir, "f.avi"))
	assert.Error(t, Run2D(&ModelRD{OutputDir: dir, Profile: "gpu"}, input))
}
