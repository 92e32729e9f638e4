package reedmuench

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// SampleAssay holds the replicate observations for one biological sample.
type SampleAssay struct {
	Name       string
	Replicates []Replicate
}

// Input is the parsed contents of a titer input file: the assay parameters
// shared by every sample, plus the per-sample replicate data in file order.
type Input struct {
	Volume      float64 // infection volume in row A
	Dilution    float64 // dilution factor between successive rows
	NReplicates int
	Samples     []SampleAssay
}

// ParseInput reads a titer input file. The file starts with three header
// directives — VOLUME <number>, DILUTION <number>, NREPLICATES <integer> —
// followed by one block per sample: a SAMPLE <name> line and then exactly
// NREPLICATES observation lines, each either "na" (no infection in any row)
// or a comma-separated list of distinct row letters A-H. Blank lines and
// lines starting with # are ignored anywhere.
func ParseInput(r io.Reader) (*Input, error) {
	lines, err := contentLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) < 3 {
		return nil, pfx.Err(fmt.Errorf("expected VOLUME, DILUTION, and NREPLICATES header lines, got %d non-comment lines", len(lines)))
	}

	in := &Input{}

	if in.Volume, err = floatDirective(lines[0], "VOLUME"); err != nil {
		return nil, pfx.Err(err)
	}
	if in.Volume <= 0 {
		return nil, pfx.Err(fmt.Errorf("VOLUME must be > 0, but read a value of %g", in.Volume))
	}

	if in.Dilution, err = floatDirective(lines[1], "DILUTION"); err != nil {
		return nil, pfx.Err(err)
	}
	if in.Dilution <= 1 {
		return nil, pfx.Err(fmt.Errorf("the dilution factor must be > 1, but read a value of %g", in.Dilution))
	}

	nrep, err := directiveValue(lines[2], "NREPLICATES")
	if err != nil {
		return nil, pfx.Err(err)
	}
	if in.NReplicates, err = strconv.Atoi(nrep); err != nil {
		return nil, pfx.Err(fmt.Errorf("failed to parse an integer NREPLICATES from %q", lines[2]))
	}
	if in.NReplicates < 2 {
		return nil, pfx.Err(fmt.Errorf("there must be at least two replicates, but read a value of %d", in.NReplicates))
	}

	// Each sample block is one SAMPLE line plus one line per replicate.
	body := lines[3:]
	per := in.NReplicates + 1
	if len(body)%per != 0 {
		return nil, pfx.Err(fmt.Errorf("each sample needs %d lines (SAMPLE name plus %d replicate lines), but %d lines follow the header", per, in.NReplicates, len(body)))
	}

	seen := make(map[string]bool)
	for i := 0; i < len(body); i += per {
		name, err := directiveValue(body[i], "SAMPLE")
		if err != nil {
			return nil, pfx.Err(err)
		}
		if seen[name] {
			return nil, pfx.Err(fmt.Errorf("duplicate sample name %q", name))
		}
		seen[name] = true

		sample := SampleAssay{Name: name, Replicates: make([]Replicate, 0, in.NReplicates)}
		for _, line := range body[i+1 : i+per] {
			rep, err := parseReplicate(line)
			if err != nil {
				return nil, fmt.Errorf("sample %s: %w", name, err)
			}
			sample.Replicates = append(sample.Replicates, rep)
		}
		in.Samples = append(in.Samples, sample)
	}

	return in, nil
}

// WriteInput writes in to w in the text format read by ParseInput.
func WriteInput(w io.Writer, in *Input) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "VOLUME %g\n", in.Volume)
	fmt.Fprintf(bw, "DILUTION %g\n", in.Dilution)
	fmt.Fprintf(bw, "NREPLICATES %d\n", in.NReplicates)
	for _, sample := range in.Samples {
		fmt.Fprintf(bw, "SAMPLE %s\n", sample.Name)
		for _, rep := range sample.Replicates {
			if len(rep) == 0 {
				fmt.Fprintln(bw, "na")
				continue
			}
			labels := make([]string, len(rep))
			for i, row := range rep {
				labels[i] = row.String()
			}
			fmt.Fprintln(bw, strings.Join(labels, ","))
		}
	}
	if err := bw.Flush(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// contentLines returns the trimmed non-blank, non-comment lines of r.
func contentLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	return lines, nil
}

// directiveValue extracts the value from a "DIRECTIVE value" line. The value
// may contain internal whitespace (sample names often do).
func directiveValue(line, directive string) (string, error) {
	if !strings.HasPrefix(line, directive) || len(line) <= len(directive) || (line[len(directive)] != ' ' && line[len(directive)] != '\t') {
		return "", fmt.Errorf("expected a %s directive, got %q", directive, line)
	}
	value := strings.TrimSpace(line[len(directive):])
	if value == "" {
		return "", fmt.Errorf("the %s directive has no value in %q", directive, line)
	}
	return value, nil
}

func floatDirective(line, directive string) (float64, error) {
	value, err := directiveValue(line, directive)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse a number for %s from %q", directive, line)
	}
	return f, nil
}

// parseReplicate parses one observation line: "na" for no infection, or a
// comma-separated list of distinct row letters.
func parseReplicate(line string) (Replicate, error) {
	if line == "na" {
		return Replicate{}, nil
	}
	parts := strings.Split(line, ",")
	rep := make(Replicate, 0, len(parts))
	var seen [NumRows]bool
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) != 1 {
			return nil, fmt.Errorf("%w: %q is not one of A-H", ErrInvalidRow, part)
		}
		row := Row(part[0])
		i, ok := rowIndex(row)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not one of A-H", ErrInvalidRow, part)
		}
		if seen[i] {
			return nil, fmt.Errorf("%w: %s appears twice in %q", ErrDuplicateRow, row, line)
		}
		seen[i] = true
		rep = append(rep, row)
	}
	return rep, nil
}
