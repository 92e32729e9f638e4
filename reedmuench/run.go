package reedmuench

import (
	"fmt"
	"os"

	"github.com/carbocation/pfx"
)

// Run computes one titer per sample, preserving the order in which the
// samples appeared in the input. It stops at the first sample whose titer
// cannot be computed, wrapping the error with that sample's name.
func Run(in *Input) ([]Result, error) {
	results := make([]Result, 0, len(in.Samples))
	for _, sample := range in.Samples {
		titer, err := Titer(sample.Replicates, in.Volume, in.Dilution)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", sample.Name, err)
		}
		results = append(results, Result{Sample: sample.Name, Titer: titer})
	}
	return results, nil
}

// RunFromFile parses the input file at path and computes titers for all of
// its samples.
func RunFromFile(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	in, err := ParseInput(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return Run(in)
}
