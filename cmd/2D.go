/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/notargets/gord/InputParameters"
	"github.com/notargets/gord/model_problems/Brusselator"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type ModelRD struct {
	ICFile    string
	OutputDir string
	Profile   string
}

const exampleFile = `
########################################
Title: "Brusselator"
Cells: 128        # Cells per side, a power of two
L: 64             # Box side length
K: 1
Ka: 4.5
D: 8
Mu: [0.04, 0.1, 0.98]
FinalTime: 3000
MaxDt: 1
NoiseAmplitude: 0.01
Seed: 0
Solver: multigrid # Can be "cg"
Tolerance: 1.e-4
FrameInterval: 10
ImageSize: 200
Spread: 2         # Standard deviations of colour range, 0 is min/max
Movie: true
########################################
`

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Two dimensional Brusselator, sweeping the bifurcation parameter mu",
	Long: `Two dimensional Brusselator on a square box with zero flux walls. Each value
of mu is run from the perturbed homogeneous state to the final time, writing a
movie frame and a progress line every FrameInterval steps and a snapshot
mu-<value>.png at the end.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		mrd := &ModelRD{}
		mrd.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		mrd.OutputDir, _ = cmd.Flags().GetString("outputDir")
		mrd.Profile, _ = cmd.Flags().GetString("profile")
		var ip *InputParameters.InputParametersRD
		if ip, err = processInput(cmd, mrd); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		if err = Run2D(mrd, ip); err != nil {
			log.WithError(err).Error("run failed")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Mu\n\t- FinalTime\n\t- Solver")
	TwoDCmd.Flags().StringP("outputDir", "o", ".", "directory for snapshots, movie and binary dumps")
	TwoDCmd.Flags().Float64Slice("mu", nil, "values of mu to sweep, overrides the input file")
	TwoDCmd.Flags().String("solver", "", "diffusion solver: multigrid or cg")
	TwoDCmd.Flags().Float64("finalTime", 0, "simulation end time")
	TwoDCmd.Flags().Int64("seed", 0, "seed of the initial perturbation")
	TwoDCmd.Flags().Bool("movie", true, "write a movie of C1, --movie=false to skip it")
	TwoDCmd.Flags().String("profile", "", "profile the run: cpu or mem")
}

// processInput reads the input file, if any, applies flags given on the
// command line and fills defaults.
func processInput(cmd *cobra.Command, mrd *ModelRD) (ip *InputParameters.InputParametersRD, err error) {
	ip = &InputParameters.InputParametersRD{}
	if len(mrd.ICFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(mrd.ICFile); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			err = fmt.Errorf("reading %s: %w", mrd.ICFile, err)
			return
		}
	}
	flags := cmd.Flags()
	if flags.Changed("mu") {
		ip.Mu, _ = flags.GetFloat64Slice("mu")
	}
	if flags.Changed("solver") {
		ip.Solver, _ = flags.GetString("solver")
	}
	if flags.Changed("finalTime") {
		ip.FinalTime, _ = flags.GetFloat64("finalTime")
	}
	if flags.Changed("seed") {
		ip.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("movie") {
		movie, _ := flags.GetBool("movie")
		ip.Movie = &movie
	}
	if ip.ProcLimit == 0 {
		ip.ProcLimit = viper.GetInt("procLimit")
	}
	ip.SetDefaults()
	err = ip.Validate()
	return
}

func Run2D(mrd *ModelRD, ip *InputParameters.InputParametersRD) (err error) {
	switch mrd.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(mrd.OutputDir)).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(mrd.OutputDir)).Stop()
	default:
		return fmt.Errorf("unknown profile %q, use cpu or mem", mrd.Profile)
	}
	ip.Print()
	var b *Brusselator.Brusselator
	if b, err = Brusselator.NewBrusselator(ip, Brusselator.WithOutputDir(mrd.OutputDir)); err != nil {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	var results []Brusselator.Result
	if results, err = b.Sweep(ctx); err != nil {
		return
	}
	fmt.Printf("\n%8s%10s%8s%12s%12s%12s  %s\n", "mu", "kb", "steps", "C1 min", "C1 max", "C1 stddev", "snapshot")
	for _, r := range results {
		fmt.Printf("%8.4f%10.5f%8d%12.5f%12.5f%12.5f  %s\n",
			r.Mu, r.Kb, r.Steps, r.C1Stats.Min, r.C1Stats.Max, r.C1Stats.StdDev, r.Snapshot)
	}
	return
}
