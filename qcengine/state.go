// Package qcengine is a dense state-vector simulator with a closed
// instruction interpreter and a repeated-shot runner.
//
// Basis index i is read as an n-bit unsigned integer where bit k holds the
// value of qubit k. Memory grows as 2ⁿ, so register sizes are capped.
package qcengine

import (
	"fmt"
	"math"
	"math/cmplx"
)

type Complex = complex128

const (
	// DefaultMaxQubits bounds register size unless the caller overrides it.
	DefaultMaxQubits = 24
	// MaxQubitsLimit is the ceiling no override may exceed (16 GiB of amplitudes).
	MaxQubitsLimit = 30
	// Tolerance is the floating slack allowed on the normalization invariant.
	Tolerance = 1e-9
)

// StateVector holds 2ⁿ complex amplitudes plus the classical scratch register
// used by bit-level writes.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int

	maxQubits int
	classical int
	basis     int // index of the pure basis state, -1 when unknown
}

// NewStateVector allocates an n-qubit register in |0…0⟩ bounded by DefaultMaxQubits.
func NewStateVector(numQubits int) (*StateVector, error) {
	return NewBoundedStateVector(numQubits, DefaultMaxQubits)
}

// NewBoundedStateVector allocates an n-qubit register that refuses to grow
// beyond maxQubits on any later Reset.
func NewBoundedStateVector(numQubits, maxQubits int) (*StateVector, error) {
	if maxQubits <= 0 {
		maxQubits = DefaultMaxQubits
	}
	s := &StateVector{maxQubits: min(maxQubits, MaxQubitsLimit)}
	if err := s.Reset(numQubits); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset discards the current amplitudes and reallocates a fresh register of
// numQubits qubits with amplitude[0] = 1.
func (s *StateVector) Reset(numQubits int) error {
	if numQubits < 1 {
		return fmt.Errorf("register size %d: %w", numQubits, ErrMalformedInstruction)
	}
	if numQubits > s.maxQubits {
		return fmt.Errorf("register size %d exceeds limit %d: %w", numQubits, s.maxQubits, ErrResourceExceeded)
	}
	amps := make([]Complex, 1<<numQubits)
	amps[0] = 1
	s.Amplitudes = amps
	s.NumQubits = numQubits
	s.classical = 0
	s.basis = 0
	return nil
}

// Clone returns an independent copy of the register.
func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{
		Amplitudes: amps,
		NumQubits:  s.NumQubits,
		maxQubits:  s.maxQubits,
		classical:  s.classical,
		basis:      s.basis,
	}
}

// Len is the number of basis states, 2ⁿ.
func (s *StateVector) Len() int { return len(s.Amplitudes) }

// Norm returns Σ|amplitude|².
func (s *StateVector) Norm() float64 {
	total := 0.0
	for _, a := range s.Amplitudes {
		total += real(a * cmplx.Conj(a))
	}
	return total
}

// Normalized reports whether the norm is 1 within Tolerance.
func (s *StateVector) Normalized() bool {
	return math.Abs(s.Norm()-1) <= Tolerance
}

// Collapsed returns the basis index when the register is known to hold a
// single basis state: right after a reset, measurement or classical write.
// Any gate clears it.
func (s *StateVector) Collapsed() (int, bool) {
	return s.basis, s.basis >= 0
}

// Classical returns the scratch register value last written.
func (s *StateVector) Classical() int { return s.classical }

func (s *StateVector) touch() { s.basis = -1 }

func (s *StateVector) checkQubits(qubits ...int) error {
	for _, q := range qubits {
		if q < 0 || q >= s.NumQubits {
			return fmt.Errorf("qubit %d on %d-qubit register: %w", q, s.NumQubits, ErrIndexOutOfRange)
		}
	}
	return nil
}

func (s *StateVector) checkDistinct(qubits ...int) error {
	for i := range qubits {
		for j := i + 1; j < len(qubits); j++ {
			if qubits[i] == qubits[j] {
				return fmt.Errorf("qubit %d used twice: %w", qubits[i], ErrMalformedInstruction)
			}
		}
	}
	return nil
}

func (s *StateVector) checkBasis(index int) error {
	if index < 0 || index >= len(s.Amplitudes) {
		return fmt.Errorf("basis index %d on %d-qubit register: %w", index, s.NumQubits, ErrIndexOutOfRange)
	}
	return nil
}
