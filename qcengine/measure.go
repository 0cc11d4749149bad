package qcengine

import (
	"fmt"
	"math/cmplx"
)

// Source is a uniform random source on [0, 1). *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Probabilities returns |amplitude|² for every basis index.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// Sample performs a projective measurement of the whole register: it walks the
// cumulative distribution in index order, picks the first index whose
// cumulative probability exceeds a uniform draw, and collapses onto it.
func (s *StateVector) Sample(rng Source) int {
	probs := s.Probabilities()
	r := rng.Float64()
	acc := 0.0
	out := -1
	last := 0
	for i, p := range probs {
		if p > 0 {
			last = i
		}
		acc += p
		if r < acc {
			out = i
			break
		}
	}
	if out < 0 {
		// r landed past a total that rounds slightly below 1.
		out = last
	}
	s.collapse(out)
	return out
}

// ReadBit measures the full register and returns bit q of the outcome. Every
// qubit collapses, not only q.
func (s *StateVector) ReadBit(q int, rng Source) (int, error) {
	if err := s.checkQubits(q); err != nil {
		return 0, err
	}
	out := s.Sample(rng)
	return (out >> q) & 1, nil
}

// WriteAll forces the register into basis state value, destroying any
// superposition.
func (s *StateVector) WriteAll(value int) error {
	if err := s.checkBasis(value); err != nil {
		return err
	}
	s.collapse(value)
	return nil
}

// WriteBit sets one bit of the classical scratch register and then rewrites
// the whole register to that value. It is a deterministic set-up helper, not a
// quantum operation: superposition is lost.
func (s *StateVector) WriteBit(q, bit int) error {
	if err := s.checkQubits(q); err != nil {
		return err
	}
	if bit != 0 && bit != 1 {
		return fmt.Errorf("bit value %d: %w", bit, ErrMalformedInstruction)
	}
	mask := 1 << q
	value := s.classical
	if bit == 1 {
		value |= mask
	} else {
		value &^= mask
	}
	return s.WriteAll(value)
}

func (s *StateVector) collapse(index int) {
	for i := range s.Amplitudes {
		s.Amplitudes[i] = 0
	}
	s.Amplitudes[index] = 1
	s.classical = index
	s.basis = index
}
