package physics

import (
	"io"

	"github.com/gazed/rigid2d/math/geom2d"
	"gopkg.in/yaml.v3"
)

// StepConf bundles every tunable the solver reads each Step, mirroring
// the loose collection of b2_linearSlop-style package constants Box2D
// hardcodes; here they're one value the caller can load from disk and
// tweak per scene, described as a yaml-tagged struct.
type StepConf struct {
	DT float64 `yaml:"dt"`

	RegVelocityIterations int `yaml:"reg_velocity_iterations"`
	RegPositionIterations int `yaml:"reg_position_iterations"`
	TOIVelocityIterations int `yaml:"toi_velocity_iterations"`
	TOIPositionIterations int `yaml:"toi_position_iterations"`

	LinearSlop  float64 `yaml:"linear_slop"`
	AngularSlop float64 `yaml:"angular_slop"`

	MaxTranslation      float64 `yaml:"max_translation"`
	MaxRotation         float64 `yaml:"max_rotation"`
	MaxLinearCorrection float64 `yaml:"max_linear_correction"`
	MaxAngularCorrection float64 `yaml:"max_angular_correction"`

	RegResolutionRate float64 `yaml:"reg_resolution_rate"`
	TOIResolutionRate float64 `yaml:"toi_resolution_rate"`

	VelocityThreshold float64 `yaml:"velocity_threshold"`

	AABBExtension     float64 `yaml:"aabb_extension"`
	DisplaceMultiplier float64 `yaml:"displace_multiplier"`

	TargetDepth float64 `yaml:"target_depth"`
	Tolerance   float64 `yaml:"tolerance"`

	MaxSubSteps     int `yaml:"max_sub_steps"`
	MaxTOIIters     int `yaml:"max_toi_iters"`
	MaxDistanceIters int `yaml:"max_distance_iters"`
	MaxRootIters    int `yaml:"max_root_iters"`

	MinStillTimeToSleep  float64 `yaml:"min_still_time_to_sleep"`
	LinearSleepTolerance float64 `yaml:"linear_sleep_tolerance"`
	AngularSleepTolerance float64 `yaml:"angular_sleep_tolerance"`

	DoWarmStart  bool `yaml:"do_warm_start"`
	DoTOI        bool `yaml:"do_toi"`
	DoBlockSolve bool `yaml:"do_block_solve"`
}

// DefaultStepConf returns the values Box2D ships as its package
// constants, translated into one struct: a 1/60s step, 8 velocity and 3
// position iterations for the regular solve (4 and 20 for TOI, since TOI
// islands are small and need tighter convergence), a linear slop of 5mm,
// and warm starting, CCD, and the block solver all enabled.
func DefaultStepConf() StepConf {
	return StepConf{
		DT: 1.0 / 60.0,

		RegVelocityIterations: 8,
		RegPositionIterations: 3,
		TOIVelocityIterations: 4,
		TOIPositionIterations: 20,

		LinearSlop:  0.005,
		AngularSlop: 2.0 / 180.0 * geom2d.Pi,

		MaxTranslation:       2.0,
		MaxRotation:          0.5 * geom2d.Pi,
		MaxLinearCorrection:  0.2,
		MaxAngularCorrection: 8.0 / 180.0 * geom2d.Pi,

		RegResolutionRate: 0.2,
		TOIResolutionRate: 0.75,

		VelocityThreshold: 1.0,

		AABBExtension:      0.1,
		DisplaceMultiplier: 2.0,

		TargetDepth: 0.015,
		Tolerance:   0.00125,

		MaxSubSteps:      8,
		MaxTOIIters:      20,
		MaxDistanceIters: 20,
		MaxRootIters:     50,

		MinStillTimeToSleep:   0.5,
		LinearSleepTolerance:  0.01,
		AngularSleepTolerance: 2.0 / 180.0 * geom2d.Pi,

		DoWarmStart:  true,
		DoTOI:        true,
		DoBlockSolve: true,
	}
}

// regMinSeparation is the early-exit threshold for the regular position
// solver: once every contact in an island clears this bound, more
// iterations would just spend time closing a gap already within slop.
func (c StepConf) regMinSeparation() float64 { return -3.0 * c.LinearSlop }

// toiMinSeparation is the equivalent threshold for the TOI position
// solver, tighter than the regular one since a TOI correction is meant
// to stop penetration from ever occurring rather than relax it away.
func (c StepConf) toiMinSeparation() float64 { return -1.5 * c.LinearSlop }

// LoadStepConf reads a YAML-encoded StepConf, starting from
// DefaultStepConf so a document that only overrides a few keys still
// produces a complete, usable configuration.
func LoadStepConf(r io.Reader) (StepConf, error) {
	conf := DefaultStepConf()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&conf); err != nil && err != io.EOF {
		return StepConf{}, err
	}
	return conf, nil
}

// Save writes conf back out as YAML, the round-trip counterpart to
// LoadStepConf.
func (c StepConf) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(c)
}

// StepStats summarizes one World.Step call for callers that want to
// watch solver health (island count, TOI event count) without wiring a
// full ContactListener.
type StepStats struct {
	Islands      int
	Contacts     int
	TOIEvents    int
	ProxyCount   int
}
