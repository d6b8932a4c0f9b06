package cmd

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/contigcov/encoding/fasta"
	"github.com/grailbio/contigcov/plot"
	"github.com/grailbio/contigcov/segment"
	"v.io/x/lib/cmdline"
)

const (
	formatDepth = "depth"
	formatPAF   = "paf"
)

// addCommonFlags registers the flags shared by the analysis subcommands.  The
// parsed values are read back through loadOpts.
func addCommonFlags(fs *flag.FlagSet) (configPath *string) {
	d := segment.DefaultOpts
	configPath = fs.String("config", "", "Parameter file (YAML, JSON or TOML) overriding the defaults; flags set on the command line override the file")
	fs.Float64("min-pct-aligned", d.MinPctAligned, "Alignments with a smaller percentage of the query aligned are ignored")
	fs.Int("parallelism", d.Parallelism, "Maximum number of groups processed concurrently; 0 = runtime.NumCPU()")
	fs.String("region", d.Region, "Restrict the analysis to the specified region. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>")
	fs.String("fasta", d.FastaPath, "FASTA (or .fai index) supplying contig lengths")
	fs.Bool("skip-header", d.SkipHeader, "Skip the first line of each alignment table")
	return configPath
}

func newCmdBreakages() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "breakages",
		Short:    "Report the zero-coverage runs of every aligned contig",
		ArgsName: "alignments.paf out.tsv",
		Long: `
Breakages reads a PAF alignment table, builds the per-base coverage of every
target contig, and writes one row per maximal run of zero coverage:

  target_id  start  end  breakage_length  target_length

Coordinates are 1-based and inclusive.  An output path ending in .gz is bgzf
compressed.  With -fasta, contigs without any alignment are reported as one
whole-contig breakage.`,
	}
	configPath := addCommonFlags(&cmd.Flags)
	cmd.Flags.String("coverage-log", segment.DefaultOpts.CoverageLog, "If set, append the per-base depth of every contig to this file (truncated first)")
	cmd.Flags.String("coverage-log-format", segment.DefaultOpts.LogFormat, `Coverage log encoding: "delimited" (comma-separated) or "legacy" (digits concatenated; ambiguous for depth >= 10)`)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("breakages takes alignments.paf out.tsv, but found %v", argv)
		}
		opts, err := loadOpts(&cmd.Flags, *configPath)
		if err != nil {
			return err
		}
		return segment.Breakages(vcontext.Background(), argv[0], argv[1], &opts)
	})
	return cmd
}

func newCmdHVRs() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "hvrs",
		Short:    "Find hypervariable regions from per-base depth or alignments",
		ArgsName: "outdir input...",
		Long: `
Hvrs smooths the coverage of every (sample, contig) group with a sliding-window
median and reports the runs of windows whose median is below
-hvr-threshold times the contig's overall median.  Results go to
outdir/hvrs.tsv:

  sample  contig  hvr_start  hvr_end  hvr_length

hvr_start and hvr_end are window indices.  An HTML coverage profile is written
to outdir/<contig>/<sample>.html for every group with at least one HVR.

With -input-format=depth, the single input is a headerless table of
sample, contig, 1-based locus and depth.  With -input-format=paf, each input is
the alignment table of one sample, named after the file up to the first '_'.`,
	}
	configPath := addCommonFlags(&cmd.Flags)
	d := segment.DefaultOpts
	cmd.Flags.Float64("hvr-threshold", d.HVRThreshold, "Fraction of the contig median depth below which a window is hypervariable")
	cmd.Flags.Int("hvr-min-length", d.HVRMinLength, "Minimum number of windows in an HVR")
	cmd.Flags.Float64("min-coverage", d.MinCoverage, "Groups with a smaller median depth are skipped")
	cmd.Flags.Int("sliding-window-length", d.WindowLength, "Sliding window length, in bases")
	cmd.Flags.Int("sliding-window-step", d.WindowStep, "Sliding window step, in bases; 0 = non-overlapping windows")
	cmd.Flags.Bool("overwrite", d.Overwrite, "Allow writing into a non-empty output directory")
	inputFormat := cmd.Flags.String("input-format", formatDepth, `Input format: "depth" or "paf"`)
	noPlot := cmd.Flags.Bool("no-plot", false, "Do not write coverage profiles")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) < 2 {
			return fmt.Errorf("hvrs takes outdir input..., but found %v", argv)
		}
		opts, err := loadOpts(&cmd.Flags, *configPath)
		if err != nil {
			return err
		}
		outDir, inputs := argv[0], argv[1:]
		var plotter segment.Plotter
		if !*noPlot {
			plotter = &plot.HTMLPlotter{Dir: outDir}
		}
		ctx := vcontext.Background()
		switch *inputFormat {
		case formatDepth:
			if len(inputs) != 1 {
				return fmt.Errorf("hvrs -input-format=depth takes exactly one depth table, but found %v", inputs)
			}
			return segment.HVRsFromDepthTable(ctx, inputs[0], outDir, &opts, plotter)
		case formatPAF:
			return segment.HVRsFromAlignments(ctx, inputs, outDir, &opts, plotter)
		}
		return fmt.Errorf("unknown input format %q", *inputFormat)
	})
	return cmd
}

func newCmdFaidx() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "faidx",
		Short:    "Write the .fai index of a FASTA file",
		ArgsName: "ref.fa",
	}
	outFlag := cmd.Flags.String("out", "", "Output path. By default set to the input path + .fai")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("faidx takes one pathname argument, but got %v", argv)
		}
		out := *outFlag
		if out == "" {
			out = argv[0] + ".fai"
		}
		return writeIndex(argv[0], out)
	})
	return cmd
}

func writeIndex(faPath, outPath string) (err error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, faPath)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, in, &err)
	out, err := file.Create(ctx, outPath)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	if err = fasta.WriteIndex(out.Writer(ctx), in.Reader(ctx)); err != nil {
		return fmt.Errorf("%s: %v", filepath.Base(faPath), err)
	}
	return nil
}

func newRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-contigcov",
		Short:    "Coverage segmentation of reference contigs",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdBreakages(),
			newCmdHVRs(),
			newCmdFaidx(),
		},
	}
}

func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newRoot())
}
