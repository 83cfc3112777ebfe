package InputParameters

import (
	"fmt"
	"math"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file for a reaction diffusion run
type InputParametersRD struct {
	Title          string    `yaml:"Title"`
	Cells          int       `yaml:"Cells"`     // Cells per side, a power of two
	L              float64   `yaml:"L"`         // Side length of the square box
	K              float64   `yaml:"K"`         // Reaction rate
	Ka             float64   `yaml:"Ka"`        // Feed concentration
	D              float64   `yaml:"D"`         // Diffusivity ratio of C2 to C1
	Mu             []float64 `yaml:"Mu"`        // Distance above the critical kb, one run per value
	FinalTime      float64   `yaml:"FinalTime"` // Simulation end time
	MaxDt          float64   `yaml:"MaxDt"`
	NoiseAmplitude *float64  `yaml:"NoiseAmplitude"` // Perturbation of the initial C2
	Seed           int64     `yaml:"Seed"`
	Solver         string    `yaml:"Solver"` // multigrid or cg
	Tolerance      float64   `yaml:"Tolerance"`
	MaxIterations  int       `yaml:"MaxIterations"`
	NRelax         int       `yaml:"NRelax"`
	FrameInterval  int       `yaml:"FrameInterval"` // Steps between movie frames
	ImageSize      int       `yaml:"ImageSize"`     // Pixels per side of frames and snapshots
	Spread         *float64  `yaml:"Spread"`        // Colour range in standard deviations, <= 0 is min/max
	Nearest        bool      `yaml:"Nearest"`       // Nearest cell sampling instead of bilinear
	Movie          *bool     `yaml:"Movie"`
	MovieFPS       int       `yaml:"MovieFPS"`
	DumpBinary     bool      `yaml:"DumpBinary"` // Write the final C1 and C2 as raw binary
	ProcLimit      int       `yaml:"ProcLimit"`
}

func (ip *InputParametersRD) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// SetDefaults fills every unset value with the standard Brusselator run:
// 128 x 128 cells over a 64 x 64 box, k = 1, ka = 4.5, D = 8, swept over
// mu = 0.04, 0.1, 0.98 until t = 3000. Numeric zeros count as unset, except
// for the pointer fields where zero is a valid setting.
func (ip *InputParametersRD) SetDefaults() {
	setF := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	setI := func(v *int, def int) {
		if *v == 0 {
			*v = def
		}
	}
	setP := func(v **float64, def float64) {
		if *v == nil {
			*v = &def
		}
	}
	if len(ip.Title) == 0 {
		ip.Title = "Brusselator"
	}
	setI(&ip.Cells, 128)
	setF(&ip.L, 64)
	setF(&ip.K, 1)
	setF(&ip.Ka, 4.5)
	setF(&ip.D, 8)
	if len(ip.Mu) == 0 {
		ip.Mu = []float64{0.04, 0.1, 0.98}
	}
	setF(&ip.FinalTime, 3000)
	setF(&ip.MaxDt, 1)
	setP(&ip.NoiseAmplitude, 0.01)
	if len(ip.Solver) == 0 {
		ip.Solver = "multigrid"
	}
	setF(&ip.Tolerance, 1.e-4)
	setI(&ip.MaxIterations, 100)
	setI(&ip.NRelax, 4)
	setI(&ip.FrameInterval, 10)
	setI(&ip.ImageSize, 200)
	setP(&ip.Spread, 2)
	if ip.Movie == nil {
		movie := true
		ip.Movie = &movie
	}
	setI(&ip.MovieFPS, 25)
}

func (ip *InputParametersRD) Validate() (err error) {
	switch {
	case ip.Cells < 1 || ip.Cells&(ip.Cells-1) != 0:
		err = fmt.Errorf("Cells must be a power of two, have %d", ip.Cells)
	case !(ip.L > 0):
		err = fmt.Errorf("L must be positive, have %g", ip.L)
	case !(ip.Ka > 0) || !(ip.D > 0):
		err = fmt.Errorf("Ka and D must be positive, have Ka = %g, D = %g", ip.Ka, ip.D)
	case !(ip.FinalTime > 0) || !(ip.MaxDt > 0):
		err = fmt.Errorf("FinalTime and MaxDt must be positive, have %g, %g", ip.FinalTime, ip.MaxDt)
	case ip.NoiseAmplitude == nil || ip.Spread == nil || ip.Movie == nil:
		err = fmt.Errorf("NoiseAmplitude, Spread and Movie are unset, call SetDefaults")
	case *ip.NoiseAmplitude < 0:
		err = fmt.Errorf("NoiseAmplitude must not be negative, have %g", *ip.NoiseAmplitude)
	case ip.FrameInterval < 1 || ip.ImageSize < 1:
		err = fmt.Errorf("FrameInterval and ImageSize must be at least one, have %d, %d",
			ip.FrameInterval, ip.ImageSize)
	case ip.Solver != "multigrid" && ip.Solver != "cg":
		err = fmt.Errorf("unknown Solver %q, use multigrid or cg", ip.Solver)
	}
	if err != nil {
		return
	}
	for _, mu := range ip.Mu {
		if math.IsNaN(mu) || math.IsInf(mu, 0) {
			err = fmt.Errorf("Mu values must be finite, have %v", ip.Mu)
			return
		}
	}
	return
}

func (ip *InputParametersRD) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d x %d]\t\t= Grid cells\n", ip.Cells, ip.Cells)
	fmt.Printf("%8.5f\t\t= Box side length\n", ip.L)
	fmt.Printf("%8.5f\t\t= K\n", ip.K)
	fmt.Printf("%8.5f\t\t= Ka\n", ip.Ka)
	fmt.Printf("%8.5f\t\t= D\n", ip.D)
	fmt.Printf("%v\t= Mu\n", ip.Mu)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("%8.5f\t\t= MaxDt\n", ip.MaxDt)
	if ip.NoiseAmplitude != nil {
		fmt.Printf("%8.5f\t\t= Noise Amplitude\n", *ip.NoiseAmplitude)
	}
	fmt.Printf("[%d]\t\t\t= Seed\n", ip.Seed)
	fmt.Printf("[%s]\t\t= Solver\n", ip.Solver)
	fmt.Printf("%8.2e\t\t= Tolerance\n", ip.Tolerance)
	fmt.Printf("[%d]\t\t\t= Frame Interval\n", ip.FrameInterval)
	if ip.Movie != nil {
		fmt.Printf("[%v]\t\t\t= Movie\n", *ip.Movie)
	}
}
