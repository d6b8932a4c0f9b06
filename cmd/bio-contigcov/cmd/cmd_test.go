package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/contigcov/segment"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"v.io/x/lib/cmdline"
)

func writeFile(t *testing.T, path, data string) {
	assert.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
}

func readFile(t *testing.T, path string) string {
	data, err := ioutil.ReadFile(path)
	assert.NoError(t, err)
	return string(data)
}

func newHVRFlags() (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	configPath := addCommonFlags(fs)
	fs.Float64("hvr-threshold", segment.DefaultOpts.HVRThreshold, "")
	fs.Int("sliding-window-length", segment.DefaultOpts.WindowLength, "")
	fs.Bool("overwrite", false, "")
	return fs, configPath
}

func TestLoadOptsDefaults(t *testing.T) {
	fs, configPath := newHVRFlags()
	assert.NoError(t, fs.Parse(nil))
	opts, err := loadOpts(fs, *configPath)
	assert.NoError(t, err)
	expect.EQ(t, opts, segment.DefaultOpts)
}

func TestLoadOptsPrecedence(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	configPath := filepath.Join(tmpdir, "params.yaml")
	writeFile(t, configPath, `
hvr_threshold: 0.3
sliding_window_length: 250
min_pct_aligned: 50
skip_header: true
`)
	fs, configFlag := newHVRFlags()
	assert.NoError(t, fs.Parse([]string{
		"-config", configPath,
		"-sliding-window-length", "100",
		"-region", "c1:5-10",
		"-overwrite",
	}))
	opts, err := loadOpts(fs, *configFlag)
	assert.NoError(t, err)

	want := segment.DefaultOpts
	want.HVRThreshold = 0.3
	want.MinPctAligned = 50
	want.SkipHeader = true
	want.WindowLength = 100
	want.Region = "c1:5-10"
	want.Overwrite = true
	expect.EQ(t, opts, want)
}

func TestLoadOptsErrors(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	fs, _ := newHVRFlags()
	assert.NoError(t, fs.Parse(nil))
	_, err := loadOpts(fs, filepath.Join(tmpdir, "missing.yaml"))
	expect.True(t, errors.Is(errors.Invalid, err), "%v", err)

	configPath := filepath.Join(tmpdir, "bad.yaml")
	writeFile(t, configPath, "sliding_window_length: lots\n")
	_, err = loadOpts(fs, configPath)
	expect.True(t, errors.Is(errors.Invalid, err), "%v", err)
}

func run(t *testing.T, args ...string) error {
	var stdout, stderr bytes.Buffer
	env := &cmdline.Env{Stdout: &stdout, Stderr: &stderr, Vars: map[string]string{}}
	err := cmdline.ParseAndRun(newRoot(), env, args)
	if err != nil {
		t.Logf("%v: stderr: %s", args, stderr.String())
	}
	return err
}

func TestBreakagesCommand(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	// c1 is covered on bases 3..6 only.
	alignPath := filepath.Join(tmpdir, "aln.paf")
	writeFile(t, alignPath, "q\t4\t0\t4\t+\tc1\t10\t3\t6\t4\t4\n")
	faPath := filepath.Join(tmpdir, "ref.fa")
	writeFile(t, faPath, ">c1\nACGTACGTAC\n>c2\nAAAA\n")
	configPath := filepath.Join(tmpdir, "params.yaml")
	writeFile(t, configPath, "fasta: "+faPath+"\n")
	outPath := filepath.Join(tmpdir, "out.tsv")
	logPath := filepath.Join(tmpdir, "coverage.log")

	assert.NoError(t, run(t, "breakages", "-config", configPath, "-coverage-log", logPath, alignPath, outPath))
	expect.EQ(t, readFile(t, outPath), `target_id	start	end	breakage_length	target_length
c1	1	2	2	10
c1	7	10	4	10
c2	1	4	4	4
`)
	expect.True(t, strings.HasPrefix(readFile(t, logPath), "c1: 0,0,1,1,1,1,0,0,0,0\n") ||
		strings.HasSuffix(readFile(t, logPath), "c1: 0,0,1,1,1,1,0,0,0,0\n"))

	expect.NotNil(t, run(t, "breakages", alignPath))
	err := run(t, "breakages", "-coverage-log-format", "hex", alignPath, outPath)
	expect.True(t, errors.Is(errors.Invalid, err), "%v", err)
}

func TestHVRsCommand(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	// Depth 10, except bases 1501..2101 which have depth 1.
	var b strings.Builder
	for pos := 1; pos <= 4000; pos++ {
		depth := 10
		if pos >= 1501 && pos <= 2101 {
			depth = 1
		}
		fmt.Fprintf(&b, "s1\tc1\t%d\t%d\n", pos, depth)
	}
	depthPath := filepath.Join(tmpdir, "depth.tsv")
	writeFile(t, depthPath, b.String())

	outDir := filepath.Join(tmpdir, "out")
	assert.NoError(t, run(t, "hvrs", "-parallelism", "1", outDir, depthPath))
	expect.EQ(t, readFile(t, filepath.Join(outDir, segment.HVRTableName)),
		"sample\tcontig\thvr_start\thvr_end\thvr_length\ns1\tc1\t1251\t1850\t600\n")
	info, err := os.Stat(filepath.Join(outDir, "c1", "s1.html"))
	assert.NoError(t, err)
	expect.True(t, info.Size() > 0)

	// outDir is not empty anymore.
	err = run(t, "hvrs", "-no-plot", outDir, depthPath)
	expect.True(t, errors.Is(errors.Exists, err), "%v", err)
	assert.NoError(t, run(t, "hvrs", "-no-plot", "-overwrite", outDir, depthPath))

	expect.NotNil(t, run(t, "hvrs", outDir, depthPath, depthPath))
	expect.NotNil(t, run(t, "hvrs", "-input-format", "bam", outDir, depthPath))
	expect.NotNil(t, run(t, "hvrs", outDir))
}

func TestFaidxCommand(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	faPath := filepath.Join(tmpdir, "ref.fa")
	writeFile(t, faPath, ">c1 first\nACGTACGTA\nACG\n>c2\nAAAA\n")
	assert.NoError(t, run(t, "faidx", faPath))
	expect.EQ(t, readFile(t, faPath+".fai"), "c1\t12\t10\t9\t10\nc2\t4\t28\t4\t5\n")

	outPath := filepath.Join(tmpdir, "other.fai")
	assert.NoError(t, run(t, "faidx", "-out", outPath, faPath))
	expect.EQ(t, readFile(t, outPath), readFile(t, faPath+".fai"))

	expect.NotNil(t, run(t, "faidx"))
}
