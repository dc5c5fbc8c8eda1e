package constraint

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"

	templar "github.com/templar-zk/templar"
)

// ErrIncompatibleVersion is returned when deserializing an artifact written
// by an incompatible release.
var ErrIncompatibleVersion = errors.New("incompatible artifact version")

// serializedSystem is the on-wire form of a System. The layout is CBOR,
// schema-less; the embedded version gates compatibility on read.
type serializedSystem struct {
	Version      string
	Q            *big.Int
	Coefficients []*big.Int
	Wires        []Wire
	Inputs       []uint32
	Constraints  []R1C
	Rules        []Rule
	Warnings     []string
}

// WriteTo serializes the system. The resulting artifact is the output
// boundary consumed by an external proving backend; the exact binary
// layout is opaque to callers.
func (s *System) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	enc := cbor.NewEncoder(cw)
	err := enc.Encode(serializedSystem{
		Version:      templar.Version.String(),
		Q:            s.Q,
		Coefficients: s.Coefficients,
		Wires:        s.Wires,
		Inputs:       s.Inputs,
		Constraints:  s.Constraints,
		Rules:        s.Rules,
		Warnings:     s.Warnings,
	})
	return cw.n, err
}

// ReadFrom deserializes a system written with WriteTo. Artifacts from a
// different major version are rejected with ErrIncompatibleVersion.
func (s *System) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	dec := cbor.NewDecoder(cr)
	var ss serializedSystem
	if err := dec.Decode(&ss); err != nil {
		return cr.n, err
	}

	v, err := semver.ParseTolerant(ss.Version)
	if err != nil {
		return cr.n, fmt.Errorf("%w: %v", ErrIncompatibleVersion, err)
	}
	if v.Major != templar.Version.Major {
		return cr.n, fmt.Errorf("%w: artifact %s, library %s", ErrIncompatibleVersion, ss.Version, templar.Version)
	}

	s.Q = ss.Q
	s.Coefficients = ss.Coefficients
	s.Wires = ss.Wires
	s.Inputs = ss.Inputs
	s.Constraints = ss.Constraints
	s.Rules = ss.Rules
	s.Warnings = ss.Warnings

	// rebuild the lookup indices the wire format does not carry
	s.coeffIDs = make(map[string]uint32, len(s.Coefficients))
	for i, c := range s.Coefficients {
		s.coeffIDs[c.String()] = uint32(i)
	}
	s.ruleOf = make(map[uint32]int)
	for i := range s.Rules {
		for _, o := range s.Rules[i].Outputs {
			s.ruleOf[o] = i
		}
	}
	return cr.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
