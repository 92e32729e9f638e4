package reedmuench

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const exampleInput = `# Example titer assay input.
VOLUME 0.05
DILUTION 10

NREPLICATES 3

SAMPLE virus stock 1
A,B,C,D
A,B,C
A,B,C,D

# Second sample had much less infection.
SAMPLE mutant 2
A
A,B
A
`

func TestParseInput(t *testing.T) {
	in, err := ParseInput(strings.NewReader(exampleInput))
	if err != nil {
		t.Fatal(err)
	}

	if in.Volume != 0.05 {
		t.Errorf("volume %g, expected 0.05", in.Volume)
	}
	if in.Dilution != 10 {
		t.Errorf("dilution %g, expected 10", in.Dilution)
	}
	if in.NReplicates != 3 {
		t.Errorf("nreplicates %d, expected 3", in.NReplicates)
	}

	expected := []SampleAssay{
		{
			Name:       "virus stock 1",
			Replicates: []Replicate{{'A', 'B', 'C', 'D'}, {'A', 'B', 'C'}, {'A', 'B', 'C', 'D'}},
		},
		{
			Name:       "mutant 2",
			Replicates: []Replicate{{'A'}, {'A', 'B'}, {'A'}},
		},
	}
	if !reflect.DeepEqual(in.Samples, expected) {
		t.Errorf("samples %+v, expected %+v", in.Samples, expected)
	}
}

func TestParseInputNA(t *testing.T) {
	in, err := ParseInput(strings.NewReader(
		"VOLUME 0.1\nDILUTION 5\nNREPLICATES 2\nSAMPLE blank\nna\nna\n"))
	if err != nil {
		t.Fatal(err)
	}
	for i, rep := range in.Samples[0].Replicates {
		if len(rep) != 0 {
			t.Errorf("replicate %d: %v, expected empty", i, rep)
		}
	}
}

func TestParseInputErrors(t *testing.T) {
	for _, v := range []struct {
		name  string
		input string
		// Either a sentinel to match with errors.Is, or a substring of the
		// error text.
		err     error
		message string
	}{
		{
			name:    "missing header",
			input:   "VOLUME 0.05\nDILUTION 10\n",
			message: "NREPLICATES",
		},
		{
			name:    "unparseable volume",
			input:   "VOLUME x\nDILUTION 10\nNREPLICATES 2\n",
			message: "VOLUME",
		},
		{
			name:    "volume of zero",
			input:   "VOLUME 0\nDILUTION 10\nNREPLICATES 2\n",
			message: "VOLUME must be > 0",
		},
		{
			name:    "dilution not above one",
			input:   "VOLUME 0.05\nDILUTION 1\nNREPLICATES 2\n",
			message: "must be > 1",
		},
		{
			name:    "too few replicates",
			input:   "VOLUME 0.05\nDILUTION 10\nNREPLICATES 1\n",
			message: "at least two replicates",
		},
		{
			name:    "wrong line count in sample block",
			input:   "VOLUME 0.05\nDILUTION 10\nNREPLICATES 2\nSAMPLE s1\nA\n",
			message: "3 lines",
		},
		{
			name:    "missing sample directive",
			input:   "VOLUME 0.05\nDILUTION 10\nNREPLICATES 2\nA\nA\nA\n",
			message: "SAMPLE",
		},
		{
			name:    "duplicate sample name",
			input:   "VOLUME 0.05\nDILUTION 10\nNREPLICATES 2\nSAMPLE s1\nA\nA\nSAMPLE s1\nA\nA\n",
			message: "duplicate sample name",
		},
		{
			name:  "invalid row letter",
			input: "VOLUME 0.05\nDILUTION 10\nNREPLICATES 2\nSAMPLE s1\nA,Z\nA\n",
			err:   ErrInvalidRow,
		},
		{
			name:  "row repeated within a replicate",
			input: "VOLUME 0.05\nDILUTION 10\nNREPLICATES 2\nSAMPLE s1\nA,A\nA\n",
			err:   ErrDuplicateRow,
		},
	} {
		_, err := ParseInput(strings.NewReader(v.input))
		if err == nil {
			t.Errorf("%s: expected an error", v.name)
			continue
		}
		if v.err != nil && !errors.Is(err, v.err) {
			t.Errorf("%s: error %v, expected %v", v.name, err, v.err)
		}
		if v.message != "" && !strings.Contains(err.Error(), v.message) {
			t.Errorf("%s: error %q does not mention %q", v.name, err, v.message)
		}
	}
}

// Writing an Input and parsing it back must be lossless.
func TestWriteInputRoundTrip(t *testing.T) {
	in := &Input{
		Volume:      0.05,
		Dilution:    10,
		NReplicates: 3,
		Samples: []SampleAssay{
			{Name: "virus stock 1", Replicates: []Replicate{{'A', 'B', 'C', 'D'}, {'A', 'B', 'C'}, {'A', 'B', 'C', 'D'}}},
			{Name: "blank", Replicates: []Replicate{{}, {}, {}}},
			{Name: "mutant 2", Replicates: []Replicate{{'A'}, {'A', 'B'}, {'A'}}},
		},
	}

	var buf bytes.Buffer
	if err := WriteInput(&buf, in); err != nil {
		t.Fatal(err)
	}

	back, err := ParseInput(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Errorf("round trip changed the input:\ngot  %+v\nwant %+v", back, in)
	}
}
