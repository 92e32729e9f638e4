package reedmuench

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/gonum/stat"
	"github.com/montanaflynn/stats"
)

// ReportHeader is the first line of the text report.
const ReportHeader = "Here are the computed titers in TCID50 per ul."

// WriteReport writes the plain-text titer report: a header line followed by
// one "name:\ttiter" line per sample, titers formatted to 3 decimal places,
// in the order the samples appeared in the input.
func WriteReport(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, ReportHeader)
	for _, res := range results {
		fmt.Fprintf(bw, "%s:\t%.3f\n", res.Sample, res.Titer)
	}
	if err := bw.Flush(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// WriteCSV writes the results as CSV with a sample,titer header.
func WriteCSV(w io.Writer, results []Result) error {
	if err := gocsv.Marshal(&results, w); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// Summary describes the distribution of titers across a run's samples.
// Log10Mean and Log10SD summarize the titers on a log10 scale, the scale on
// which serial-dilution titers are roughly symmetric.
type Summary struct {
	N             int
	Min           float64
	Max           float64
	Median        float64
	GeometricMean float64
	Log10Mean     float64
	Log10SD       float64
}

// Summarize computes summary statistics over a non-empty result set.
func Summarize(results []Result) (Summary, error) {
	if len(results) == 0 {
		return Summary{}, pfx.Err(fmt.Errorf("no titers to summarize"))
	}

	titers := make([]float64, len(results))
	logs := make([]float64, len(results))
	for i, res := range results {
		titers[i] = res.Titer
		logs[i] = math.Log10(res.Titer)
	}

	s := Summary{N: len(results)}
	var err error
	if s.Min, err = stats.Min(titers); err != nil {
		return Summary{}, pfx.Err(err)
	}
	if s.Max, err = stats.Max(titers); err != nil {
		return Summary{}, pfx.Err(err)
	}
	if s.Median, err = stats.Median(titers); err != nil {
		return Summary{}, pfx.Err(err)
	}
	if s.GeometricMean, err = stats.GeometricMean(titers); err != nil {
		return Summary{}, pfx.Err(err)
	}

	if len(logs) > 1 {
		s.Log10Mean, s.Log10SD = stat.MeanStdDev(logs, nil)
	} else {
		s.Log10Mean = logs[0]
	}

	return s, nil
}
