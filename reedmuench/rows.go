package reedmuench

// Row identifies one of the 8 lettered rows of a 96-well plate, ordered from
// least dilute (A) to most dilute (H). Row A receives the full infection
// volume; each subsequent row is diluted by the assay's dilution factor.
type Row byte

// Rows lists the valid row labels in plate order.
var Rows = [8]Row{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H'}

// NumRows is the number of dilution rows on a plate.
const NumRows = len(Rows)

func (r Row) String() string {
	return string(rune(r))
}

// rowIndex maps a row label to its zero-based plate position.
func rowIndex(r Row) (int, bool) {
	if r < 'A' || r > 'H' {
		return 0, false
	}
	return int(r - 'A'), true
}
