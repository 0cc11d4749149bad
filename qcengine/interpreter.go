package qcengine

import (
	"fmt"
	"math"
)

// Interpreter executes one Program against one register lifetime. It is
// single-use per shot: the runner builds a fresh one for every repetition.
type Interpreter struct {
	state     *StateVector
	alloc     Allocator
	groups    map[string]QInt
	rng       Source
	maxQubits int
	log       []string
}

// NewInterpreter starts with a 1-qubit register in |0⟩. maxQubits ≤ 0 means
// DefaultMaxQubits.
func NewInterpreter(rng Source, maxQubits int) *Interpreter {
	// A 1-qubit register always fits.
	state, _ := NewBoundedStateVector(1, maxQubits)
	return &Interpreter{
		state:     state,
		groups:    make(map[string]QInt),
		rng:       rng,
		maxQubits: maxQubits,
	}
}

// State exposes the register for inspection.
func (it *Interpreter) State() *StateVector { return it.state }

// Log returns the print output collected so far.
func (it *Interpreter) Log() []string { return it.log }

// Execute runs every instruction in order and stops at the first fault.
func (it *Interpreter) Execute(prog Program) error {
	for i, in := range prog {
		if err := it.Step(in); err != nil {
			return &InstructionError{Index: i, Line: in.Line, Op: in.Op, Err: err}
		}
	}
	return nil
}

// Step executes a single instruction.
func (it *Interpreter) Step(in Instruction) error {
	if in.Op.TakesAngle() {
		if err := checkAngle(in); err != nil {
			return err
		}
	}
	s := it.state
	switch in.Op {
	case OpReset:
		if err := s.Reset(in.Value); err != nil {
			return err
		}
		it.alloc.Reset()
		clear(it.groups)
		return nil

	case OpWrite:
		return s.WriteAll(in.Value)

	case OpWriteBit:
		qs, err := qubits(in, 1)
		if err != nil {
			return err
		}
		return s.WriteBit(qs[0], in.Value)

	case OpHad, OpX, OpY, OpZ, OpRX, OpRY, OpRZ:
		qs, err := qubits(in, 1)
		if err != nil {
			return err
		}
		return it.single(in.Op, qs[0], in.Angle)

	case OpCNOT:
		qs, err := qubits(in, 2)
		if err != nil {
			return err
		}
		return s.CNOT(qs[0], qs[1])

	case OpCZ:
		qs, err := qubits(in, 2)
		if err != nil {
			return err
		}
		return s.CZ(qs[0], qs[1])

	case OpCPhase:
		qs, err := qubits(in, 2)
		if err != nil {
			return err
		}
		return s.CPhase(qs[0], qs[1], in.Angle)

	case OpSwap:
		qs, err := qubits(in, 2)
		if err != nil {
			return err
		}
		return s.SWAP(qs[0], qs[1])

	case OpCCNOT:
		qs, err := qubits(in, 3)
		if err != nil {
			return err
		}
		return s.CCNOT(qs[0], qs[1], qs[2])

	case OpPhase:
		return s.Phase(in.Angle, in.Value)

	case OpPhaseFlip:
		return s.PhaseFlip(in.Bits)

	case OpMeasure:
		switch len(in.Qubits) {
		case 0:
			s.Sample(it.rng)
			return nil
		case 1:
			_, err := s.ReadBit(in.Qubits[0], it.rng)
			return err
		default:
			return fmt.Errorf("measure takes at most one qubit: %w", ErrMalformedInstruction)
		}

	case OpPrint:
		it.log = append(it.log, in.Text)
		return nil

	case OpNop, OpLabel:
		return nil

	case OpDiffusion:
		s.Diffusion()
		return nil

	case OpQIntNew:
		return it.newQInt(in)

	case OpQIntHad:
		g, err := it.group(in.Name)
		if err != nil {
			return err
		}
		for q := g.Offset; q < g.Offset+g.Width; q++ {
			if err := s.H(q); err != nil {
				return err
			}
		}
		return nil

	case OpQIntCNOT:
		g, err := it.group(in.Name)
		if err != nil {
			return err
		}
		ctrl, err := it.group(in.Other)
		if err != nil {
			return err
		}
		return s.CNOT(ctrl.Offset, g.Offset)

	case OpQIntRead:
		g, err := it.group(in.Name)
		if err != nil {
			return err
		}
		_, err = s.ReadBit(g.Offset, it.rng)
		return err

	default:
		return fmt.Errorf("%s: %w", in.Op, ErrUnsupportedOperation)
	}
}

func (it *Interpreter) single(op Op, q int, theta float64) error {
	s := it.state
	switch op {
	case OpHad:
		return s.H(q)
	case OpX:
		return s.X(q)
	case OpY:
		return s.Y(q)
	case OpZ:
		return s.Z(q)
	case OpRX:
		return s.RX(q, theta)
	case OpRY:
		return s.RY(q, theta)
	default:
		return s.RZ(q, theta)
	}
}

func (it *Interpreter) newQInt(in Instruction) error {
	if in.Name == "" || in.Width < 1 {
		return fmt.Errorf("qint %q width %d: %w", in.Name, in.Width, ErrMalformedInstruction)
	}
	if it.alloc.Next()+in.Width > it.state.NumQubits {
		return fmt.Errorf("qint %q needs qubits %d..%d on %d-qubit register: %w",
			in.Name, it.alloc.Next(), it.alloc.Next()+in.Width-1, it.state.NumQubits, ErrIndexOutOfRange)
	}
	it.groups[in.Name] = QInt{Name: in.Text, Offset: it.alloc.Alloc(in.Width), Width: in.Width}
	return nil
}

func (it *Interpreter) group(name string) (QInt, error) {
	g, ok := it.groups[name]
	if !ok {
		return QInt{}, fmt.Errorf("unknown qint %q: %w", name, ErrMalformedInstruction)
	}
	return g, nil
}

// qubits checks that an instruction carries exactly want qubit operands.
// checkAngle rejects a missing or non-finite angle.
func checkAngle(in Instruction) error {
	switch {
	case !in.HasAngle:
		return fmt.Errorf("%s needs an angle: %w", in.Op, ErrMalformedInstruction)
	case math.IsNaN(in.Angle) || math.IsInf(in.Angle, 0):
		return fmt.Errorf("%s: angle %v is not finite: %w", in.Op, in.Angle, ErrMalformedInstruction)
	}
	return nil
}

func qubits(in Instruction, want int) ([]int, error) {
	if len(in.Qubits) != want {
		return nil, fmt.Errorf("%s takes %d qubits, got %d: %w", in.Op, want, len(in.Qubits), ErrMalformedInstruction)
	}
	return in.Qubits, nil
}
