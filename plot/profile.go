// Package plot renders coverage profiles of HVR groups as standalone HTML
// charts.
package plot

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	chartjs "github.com/brentp/go-chartjs"
	"github.com/brentp/go-chartjs/types"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/contigcov/segment"
	"github.com/grailbio/contigcov/window"
)

// maxPoints bounds the number of windows drawn per profile.  Longer signals
// are subsampled with a fixed stride.
const maxPoints = 4000

type xy struct {
	x, y []float64
}

func (v xy) Xs() []float64 { return v.x }
func (v xy) Ys() []float64 { return v.y }
func (v xy) Rs() []float64 { return nil }

var (
	profileColor   = &types.RGBA{0, 128, 0, 255}
	thresholdColor = &types.RGBA{86, 180, 233, 255}
	hvrColor       = &types.RGBA{211, 211, 211, 160}
)

// HTMLPlotter writes one chart per group to <Dir>/<contig>/<sample>.html.
// It implements segment.Plotter.
type HTMLPlotter struct {
	Dir string
}

// Path returns the chart location of key.
func (p *HTMLPlotter) Path(key segment.Key) string {
	return file.Join(p.Dir, key.Contig, key.Sample+".html")
}

// PlotHVRs implements segment.Plotter.  The y axis shows the square root of
// the window medians; HVRs are drawn as shaded boxes.
func (p *HTMLPlotter) PlotHVRs(ctx context.Context, key segment.Key, sig *window.Signal, rows []segment.HVRRow) (err error) {
	chart, err := profileChart(key, sig, rows)
	if err != nil {
		return err
	}
	path := p.Path(key)
	if !strings.Contains(path, "://") {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return errors.E(err, "plot: create directory for", path)
		}
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	return chart.SaveHTML(out.Writer(ctx), nil)
}

func profileChart(key segment.Key, sig *window.Signal, rows []segment.HVRRow) (chartjs.Chart, error) {
	stride := 1
	if n := sig.Len(); n > maxPoints {
		stride = (n + maxPoints - 1) / maxPoints
	}
	var (
		profile xy
		height  float64
	)
	for i := 0; i < sig.Len(); i += stride {
		y := math.Sqrt(sig.Medians[i])
		profile.x = append(profile.x, float64(i))
		profile.y = append(profile.y, y)
		if y > height {
			height = y
		}
	}
	last := float64(sig.Len() - 1)
	cutoff := math.Sqrt(sig.Threshold * sig.GlobalMedian)

	chart := chartjs.Chart{Label: fmt.Sprintf("Coverage of %s in %s", key.Contig, key.Sample)}
	if _, err := chart.AddXAxis(chartjs.Axis{
		Type:       chartjs.Linear,
		Position:   chartjs.Bottom,
		ScaleLabel: &chartjs.ScaleLabel{LabelString: "Window", Display: types.True},
	}); err != nil {
		return chart, err
	}
	yAxis, err := chart.AddYAxis(chartjs.Axis{
		Type:       chartjs.Linear,
		Position:   chartjs.Left,
		ScaleLabel: &chartjs.ScaleLabel{LabelString: "sqrt(median depth)", Display: types.True},
	})
	if err != nil {
		return chart, err
	}
	datasets := []chartjs.Dataset{{
		Type:            chartjs.Line,
		Label:           "sqrt(coverage)",
		Data:            profile,
		BorderColor:     profileColor,
		BackgroundColor: profileColor,
		Fill:            types.True,
		PointRadius:     0,
		YAxisID:         yAxis,
	}, {
		Type:        chartjs.Line,
		Label:       fmt.Sprintf("%g x median", sig.Threshold),
		Data:        xy{x: []float64{0, last}, y: []float64{cutoff, cutoff}},
		BorderColor: thresholdColor,
		Fill:        types.False,
		PointRadius: 0,
		YAxisID:     yAxis,
	}}
	for _, row := range rows {
		start, end := float64(row.Start), float64(row.End)
		datasets = append(datasets, chartjs.Dataset{
			Type:            chartjs.Line,
			Label:           fmt.Sprintf("HVR %d-%d", row.Start, row.End),
			Data:            xy{x: []float64{start, start, end, end}, y: []float64{0, height, height, 0}},
			BorderColor:     hvrColor,
			BackgroundColor: hvrColor,
			Fill:            types.True,
			PointRadius:     0,
			YAxisID:         yAxis,
		})
	}
	for _, d := range datasets {
		chart.AddDataset(d)
	}
	chart.Options.Responsive = types.False
	return chart, nil
}
