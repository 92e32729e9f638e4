package reedmuench

// Result pairs a sample name with its computed titer, in TCID50 per unit of
// the assay's infection volume.
type Result struct {
	Sample string  `csv:"sample"`
	Titer  float64 `csv:"titer"`
}
