package reedmuench

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInsufficientReplicates = errors.New("at least two replicates are required")
	ErrInvalidRow             = errors.New("invalid row label")
	ErrDuplicateRow           = errors.New("row appears more than once in a replicate")
	ErrFirstDilutionBelow50   = errors.New("even the first dilution has < 50% infected")
	ErrNoDilutionBelow50      = errors.New("no dilutions have < 50% infected")
)

// Replicate lists the rows showing cytopathic effect in one replicate plate.
// An empty Replicate means no infection was observed in any row.
type Replicate []Row

// Titer computes the titer of one sample with the Reed-Muench formula,
// returned as TCID50 per unit volume in whatever units volume is given in.
// volume is the infection volume in row A, and dilution is the dilution
// factor between successive rows (10 is typical). At least two replicates are
// required. The formula is implemented as described in
// http://whqlibdoc.who.int/monograph/WHO_MONO_23_(3ed)_appendices.pdf and
// http://www.fao.org/docrep/005/ac802e/ac802e0w.htm
func Titer(replicates []Replicate, volume, dilution float64) (float64, error) {
	nreplicates := len(replicates)
	if nreplicates < 2 {
		return 0, fmt.Errorf("%w: only %d provided", ErrInsufficientReplicates, nreplicates)
	}

	counts, err := countInfected(replicates)
	if err != nil {
		return 0, err
	}

	percent, err := percentInfected(counts, nreplicates)
	if err != nil {
		return 0, err
	}

	// Scan from the least dilute row for the first row below 50% infected.
	// The assay assumes infection is monotonically less likely down the
	// plate; that assumption is not re-validated here.
	crossing := -1
	for i := range percent {
		if percent[i] < 50 {
			crossing = i
			break
		}
	}
	if crossing < 0 {
		return 0, ErrNoDilutionBelow50
	}
	if crossing == 0 {
		return 0, ErrFirstDilutionBelow50
	}

	rowAbove50 := crossing - 1
	pAbove := percent[rowAbove50]
	pBelow := 0.0
	if rowAbove50 != NumRows-1 {
		pBelow = percent[rowAbove50+1]
	}
	index := (pAbove - 50.0) / (pAbove - pBelow)

	return math.Pow(dilution, float64(rowAbove50)+index) / volume, nil
}

// countInfected tallies, per row, how many replicates showed infection there.
func countInfected(replicates []Replicate) ([NumRows]int, error) {
	var counts [NumRows]int
	for _, rep := range replicates {
		var seen [NumRows]bool
		for _, row := range rep {
			i, ok := rowIndex(row)
			if !ok {
				return counts, fmt.Errorf("%w: %q is not one of A-H", ErrInvalidRow, row.String())
			}
			if seen[i] {
				return counts, fmt.Errorf("%w: %s", ErrDuplicateRow, row)
			}
			seen[i] = true
			counts[i]++
		}
	}
	return counts, nil
}

// percentInfected builds the cumulative percent-infected table: infected
// well counts accumulate from the most dilute row (H) up the plate, and
// uninfected well counts accumulate from the least dilute row (A) down.
func percentInfected(counts [NumRows]int, nreplicates int) ([NumRows]float64, error) {
	var infected, uninfected [NumRows]int

	n := 0
	for i := 0; i < NumRows; i++ {
		uninfected[i] = n + nreplicates - counts[i]
		n = uninfected[i]
	}

	n = 0
	for i := NumRows - 1; i >= 0; i-- {
		infected[i] = n + counts[i]
		n = infected[i]
	}

	var percent [NumRows]float64
	for i := 0; i < NumRows; i++ {
		total := infected[i] + uninfected[i]
		if total == 0 {
			return percent, fmt.Errorf("no wells tallied at row %s", Rows[i])
		}
		percent[i] = 100.0 * float64(infected[i]) / float64(total)
	}

	return percent, nil
}
