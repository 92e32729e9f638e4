// reedmuench computes TCID50 titers from serial-dilution infection assay data
// using the Reed-Muench method. It consumes a text input file whose header
// gives the assay parameters (VOLUME, DILUTION, NREPLICATES) and whose body
// lists, per SAMPLE, the plate rows with cytopathic effect in each replicate.
// It writes a per-sample titer report, and optionally a CSV version and a
// terminal histogram of the log10 titers.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/jbloomlab/reedmuenchcalculator/reedmuench"
)

func main() {
	var input, output, csvOut string
	var overwrite, printHist bool
	flag.StringVar(&input, "file", "", "Input file: VOLUME, DILUTION, and NREPLICATES directives followed by per-sample replicate data")
	flag.StringVar(&output, "out", "", "Output file for the titer report. If empty, derived from the input file name as <base>-titers.txt")
	flag.StringVar(&csvOut, "csv", "", "Optional output file for the titers in CSV format")
	flag.BoolVar(&overwrite, "overwrite", false, "Overwrite the output files if they already exist")
	flag.BoolVar(&printHist, "hist", false, "Print a histogram of the log10 titers to the terminal")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "-titers.txt"
	}

	if err := run(input, output, csvOut, overwrite, printHist); err != nil {
		log.Fatalln(err)
	}
}

func run(input, output, csvOut string, overwrite, printHist bool) error {
	log.Println("Reading input from", input)
	results, err := reedmuench.RunFromFile(input)
	if err != nil {
		return err
	}
	log.Println("Computed titers for", len(results), "samples")

	summary, err := reedmuench.Summarize(results)
	if err != nil {
		return err
	}
	log.Printf("Titer range %.3f-%.3f TCID50/ul, median %.3f, geometric mean %.3f",
		summary.Min, summary.Max, summary.Median, summary.GeometricMean)

	// Render the reports in memory before touching any file so a failure
	// cannot leave a partial report behind.
	var report bytes.Buffer
	if err := reedmuench.WriteReport(&report, results); err != nil {
		return err
	}
	os.Stdout.Write(report.Bytes())

	if err := writeFile(output, report.Bytes(), overwrite); err != nil {
		return err
	}
	log.Println("Wrote titer report to", output)

	if csvOut != "" {
		var buf bytes.Buffer
		if err := reedmuench.WriteCSV(&buf, results); err != nil {
			return err
		}
		if err := writeFile(csvOut, buf.Bytes(), overwrite); err != nil {
			return err
		}
		log.Println("Wrote CSV titers to", csvOut)
	}

	if printHist && len(results) > 1 {
		logs := make([]float64, len(results))
		for i, res := range results {
			logs[i] = math.Log10(res.Titer)
		}
		hist := histogram.Hist(9, logs)
		fmt.Println("log10 titer distribution:")
		if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(40)); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, data []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; pass -overwrite to replace it", path)
		}
	}
	return os.WriteFile(path, data, 0644)
}
