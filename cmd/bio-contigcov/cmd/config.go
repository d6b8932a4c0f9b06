package cmd

import (
	"flag"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/contigcov/segment"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flag names to parameter-file keys.  The keys
// match the mapstructure tags of segment.Opts.
var flagKeys = map[string]string{
	"min-pct-aligned":       "min_pct_aligned",
	"hvr-threshold":         "hvr_threshold",
	"hvr-min-length":        "hvr_min_length",
	"min-coverage":          "min_coverage",
	"sliding-window-length": "sliding_window_length",
	"sliding-window-step":   "sliding_window_step",
	"parallelism":           "parallelism",
	"region":                "region",
	"fasta":                 "fasta",
	"coverage-log":          "coverage_log",
	"coverage-log-format":   "coverage_log_format",
	"skip-header":           "skip_header",
	"overwrite":             "overwrite",
}

// setFlag adapts a flag that was set on the command line to
// viper.FlagValue.
type setFlag struct {
	f *flag.Flag
}

func (s setFlag) HasChanged() bool    { return true }
func (s setFlag) Name() string        { return s.f.Name }
func (s setFlag) ValueString() string { return s.f.Value.String() }
func (s setFlag) ValueType() string   { return "string" }

// loadOpts returns segment.DefaultOpts, overridden by the parameter file at
// configPath (if any; YAML, JSON or TOML), overridden by the flags of fs that
// were set explicitly.
func loadOpts(fs *flag.FlagSet, configPath string) (segment.Opts, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return segment.Opts{}, errors.E(errors.Invalid, "read parameter file", configPath, err)
		}
	}
	var bindErr error
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindFlagValue(key, setFlag{f})
		}
	})
	if bindErr != nil {
		return segment.Opts{}, bindErr
	}
	opts := segment.DefaultOpts
	if err := v.Unmarshal(&opts); err != nil {
		return segment.Opts{}, errors.E(errors.Invalid, "decode parameters", err)
	}
	return opts, nil
}
