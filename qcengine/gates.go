package qcengine

import (
	"fmt"
	"math"
	"math/cmplx"
	"strconv"
)

// unitary is a 2×2 matrix acting on one qubit.
type unitary [2][2]Complex

var hadamard = unitary{
	{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
	{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
}

var pauliY = unitary{
	{0, -1i},
	{1i, 0},
}

// applyUnitary replaces every amplitude pair (a, b) that differs only in bit
// q with (U00·a + U01·b, U10·a + U11·b).
func (s *StateVector) applyUnitary(q int, u unitary) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = u[0][0]*a + u[0][1]*b
			s.Amplitudes[j] = u[1][0]*a + u[1][1]*b
		}
	}
	s.touch()
}

func (s *StateVector) applyX(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
	s.touch()
}

func (s *StateVector) applyZ(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] = -s.Amplitudes[i]
		}
	}
	s.touch()
}

// applyMasked multiplies every amplitude whose index has all bits of mask set.
func (s *StateVector) applyMasked(mask int, factor Complex) {
	n := len(s.Amplitudes)
	for i := 0; i < n; i++ {
		if i&mask == mask {
			s.Amplitudes[i] *= factor
		}
	}
	s.touch()
}

// applyControlledX swaps the pairs differing in target bit, restricted to
// indices where every control bit is set.
func (s *StateVector) applyControlledX(controlMask, target int) {
	n := len(s.Amplitudes)
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&controlMask == controlMask && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
	s.touch()
}

// H applies the Hadamard gate.
func (s *StateVector) H(q int) error {
	if err := s.checkQubits(q); err != nil {
		return err
	}
	s.applyUnitary(q, hadamard)
	return nil
}

// X flips qubit q by swapping amplitude pairs; no multiplication is needed.
func (s *StateVector) X(q int) error {
	if err := s.checkQubits(q); err != nil {
		return err
	}
	s.applyX(q)
	return nil
}

// Y applies [[0, −i], [i, 0]].
func (s *StateVector) Y(q int) error {
	if err := s.checkQubits(q); err != nil {
		return err
	}
	s.applyUnitary(q, pauliY)
	return nil
}

// Z negates the amplitudes where qubit q is 1.
func (s *StateVector) Z(q int) error {
	if err := s.checkQubits(q); err != nil {
		return err
	}
	s.applyZ(q)
	return nil
}

// RX rotates about the X axis by theta radians.
func (s *StateVector) RX(q int, theta float64) error {
	if err := s.checkQubits(q); err != nil {
		return err
	}
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	s.applyUnitary(q, unitary{{c, js}, {js, c}})
	return nil
}

// RY rotates about the Y axis by theta radians.
func (s *StateVector) RY(q int, theta float64) error {
	if err := s.checkQubits(q); err != nil {
		return err
	}
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	s.applyUnitary(q, unitary{{c, -sn}, {sn, c}})
	return nil
}

// RZ applies diag(e^{−iθ/2}, e^{iθ/2}).
func (s *StateVector) RZ(q int, theta float64) error {
	if err := s.checkQubits(q); err != nil {
		return err
	}
	phase := cmplx.Exp(complex(0, theta/2))
	s.applyUnitary(q, unitary{{cmplx.Conj(phase), 0}, {0, phase}})
	return nil
}

// CNOT flips target on the indices where control is 1.
func (s *StateVector) CNOT(control, target int) error {
	if err := s.checkQubits(control, target); err != nil {
		return err
	}
	if err := s.checkDistinct(control, target); err != nil {
		return err
	}
	s.applyControlledX(1<<control, target)
	return nil
}

// CCNOT (Toffoli) flips target where both controls are 1.
func (s *StateVector) CCNOT(control1, control2, target int) error {
	if err := s.checkQubits(control1, control2, target); err != nil {
		return err
	}
	if err := s.checkDistinct(control1, control2, target); err != nil {
		return err
	}
	s.applyControlledX(1<<control1|1<<control2, target)
	return nil
}

// CZ negates the amplitudes where both qubits are 1.
func (s *StateVector) CZ(control, target int) error {
	if err := s.checkQubits(control, target); err != nil {
		return err
	}
	if err := s.checkDistinct(control, target); err != nil {
		return err
	}
	s.applyMasked(1<<control|1<<target, -1)
	return nil
}

// CPhase multiplies the amplitudes where both qubits are 1 by e^{iθ}.
func (s *StateVector) CPhase(control, target int, theta float64) error {
	if err := s.checkQubits(control, target); err != nil {
		return err
	}
	if err := s.checkDistinct(control, target); err != nil {
		return err
	}
	s.applyMasked(1<<control|1<<target, cmplx.Exp(complex(0, theta)))
	return nil
}

// SWAP exchanges bits q1 and q2 of every index where they differ.
func (s *StateVector) SWAP(q1, q2 int) error {
	if err := s.checkQubits(q1, q2); err != nil {
		return err
	}
	if q1 == q2 {
		return nil
	}
	n := len(s.Amplitudes)
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := 0; i < n; i++ {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
	s.touch()
	return nil
}

// Phase multiplies the single amplitude at basisIndex by e^{i·deg·π/180}.
func (s *StateVector) Phase(angleDeg float64, basisIndex int) error {
	if err := s.checkBasis(basisIndex); err != nil {
		return err
	}
	theta := angleDeg * math.Pi / 180
	s.Amplitudes[basisIndex] *= cmplx.Exp(complex(0, theta))
	s.touch()
	return nil
}

// PhaseFlip negates the amplitude named by an MSB-first bitstring such as "101".
func (s *StateVector) PhaseFlip(bits string) error {
	index, err := ParseBitstring(bits)
	if err != nil {
		return err
	}
	if err := s.checkBasis(index); err != nil {
		return err
	}
	s.Amplitudes[index] = -s.Amplitudes[index]
	s.touch()
	return nil
}

// Diffusion is the Grover inversion about the mean: H on every qubit,
// negate amplitude[0], H on every qubit again.
func (s *StateVector) Diffusion() {
	for q := range s.NumQubits {
		s.applyUnitary(q, hadamard)
	}
	s.Amplitudes[0] = -s.Amplitudes[0]
	for q := range s.NumQubits {
		s.applyUnitary(q, hadamard)
	}
}

// ParseBitstring reads an MSB-first binary literal, the same convention as
// histogram labels.
func ParseBitstring(bits string) (int, error) {
	if bits == "" || len(bits) > MaxQubitsLimit {
		return 0, fmt.Errorf("bitstring %q: %w", bits, ErrMalformedInstruction)
	}
	v, err := strconv.ParseUint(bits, 2, 64)
	if err != nil {
		return 0, fmt.Errorf("bitstring %q: %w", bits, ErrMalformedInstruction)
	}
	return int(v), nil
}

// FormatOutcome renders histogram index i as n binary digits, most
// significant first, so qubit 0 is the rightmost character.
func FormatOutcome(index, numQubits int) string {
	s := strconv.FormatInt(int64(index), 2)
	for len(s) < numQubits {
		s = "0" + s
	}
	return s
}
