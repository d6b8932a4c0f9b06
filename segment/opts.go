package segment

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/contigcov/coverage"
	"github.com/grailbio/contigcov/interval"
)

type Opts struct {
	// Commandline options.
	MinPctAligned float64 `mapstructure:"min_pct_aligned"`
	HVRThreshold  float64 `mapstructure:"hvr_threshold"`
	HVRMinLength  int     `mapstructure:"hvr_min_length"`
	MinCoverage   float64 `mapstructure:"min_coverage"`
	WindowLength  int     `mapstructure:"sliding_window_length"`
	WindowStep    int     `mapstructure:"sliding_window_step"`
	Parallelism   int     `mapstructure:"parallelism"`
	Region        string  `mapstructure:"region"`
	FastaPath     string  `mapstructure:"fasta"`
	CoverageLog   string  `mapstructure:"coverage_log"`
	LogFormat     string  `mapstructure:"coverage_log_format"`
	SkipHeader    bool    `mapstructure:"skip_header"`
	Overwrite     bool    `mapstructure:"overwrite"`
}

var DefaultOpts = Opts{
	MinPctAligned: 70,
	HVRThreshold:  0.2,
	HVRMinLength:  500,
	MinCoverage:   5,
	WindowLength:  500,
	WindowStep:    1,
	Parallelism:   0,
	LogFormat:     "delimited",
}

// Validate checks opts for parameter misuse.  It is called before any group
// is processed.
func (opts *Opts) Validate() error {
	switch {
	case opts.WindowStep < 0:
		return errors.E(errors.Invalid, fmt.Sprintf("segment: sliding window step %d must not be negative", opts.WindowStep))
	case opts.WindowLength <= 0:
		return errors.E(errors.Invalid, fmt.Sprintf("segment: sliding window length %d must be positive", opts.WindowLength))
	case opts.HVRThreshold < 0:
		return errors.E(errors.Invalid, fmt.Sprintf("segment: HVR threshold %v must not be negative", opts.HVRThreshold))
	case opts.HVRMinLength < 0:
		return errors.E(errors.Invalid, fmt.Sprintf("segment: HVR minimum length %d must not be negative", opts.HVRMinLength))
	case opts.MinPctAligned < 0 || opts.MinPctAligned > 100:
		return errors.E(errors.Invalid, fmt.Sprintf("segment: minimum percent aligned %v must be in [0, 100]", opts.MinPctAligned))
	}
	if _, err := coverage.ParseFormat(opts.LogFormat); err != nil {
		return err
	}
	if opts.Region != "" {
		if _, err := interval.ParseRegion(opts.Region); err != nil {
			return errors.E(errors.Invalid, "segment: -region", err)
		}
	}
	return nil
}

// step returns the effective window step.
func (opts *Opts) step() int {
	if opts.WindowStep == 0 {
		return opts.WindowLength
	}
	return opts.WindowStep
}

func (opts *Opts) buildOpts() coverage.BuildOpts {
	return coverage.BuildOpts{MinPctAligned: opts.MinPctAligned}
}

func (opts *Opts) region() interval.Region {
	if opts.Region == "" {
		return interval.Region{}
	}
	// Validate has already rejected malformed regions.
	r, _ := interval.ParseRegion(opts.Region)
	return r
}
