package qcengine

import (
	"fmt"
	"strconv"
	"strings"
)

// Op names one operation of the closed instruction set.
type Op int

const (
	OpInvalid Op = iota
	OpReset
	OpWrite
	OpWriteBit
	OpHad
	OpX
	OpY
	OpZ
	OpRX
	OpRY
	OpRZ
	OpCNOT
	OpCZ
	OpCPhase
	OpSwap
	OpCCNOT
	OpPhase
	OpPhaseFlip
	OpMeasure
	OpPrint
	OpNop
	OpLabel
	OpDiffusion

	// qint compatibility layer
	OpQIntNew
	OpQIntHad
	OpQIntCNOT
	OpQIntRead
)

var opNames = map[Op]string{
	OpReset:     "reset",
	OpWrite:     "write",
	OpWriteBit:  "writeBit",
	OpHad:       "had",
	OpX:         "x",
	OpY:         "y",
	OpZ:         "z",
	OpRX:        "rx",
	OpRY:        "ry",
	OpRZ:        "rz",
	OpCNOT:      "cnot",
	OpCZ:        "cz",
	OpCPhase:    "cp",
	OpSwap:      "swap",
	OpCCNOT:     "ccnot",
	OpPhase:     "phase",
	OpPhaseFlip: "phase_flip",
	OpMeasure:   "measure",
	OpPrint:     "print",
	OpNop:       "nop",
	OpLabel:     "label",
	OpDiffusion: "diffusion",
	OpQIntNew:   "qint.new",
	OpQIntHad:   "qint.had",
	OpQIntCNOT:  "qint.cnot",
	OpQIntRead:  "qint.read",
}

// qcOps maps the qc.<name> spellings accepted by the parser.
var qcOps = map[string]Op{
	"reset":      OpReset,
	"write":      OpWrite,
	"writeBit":   OpWriteBit,
	"had":        OpHad,
	"x":          OpX,
	"y":          OpY,
	"z":          OpZ,
	"rx":         OpRX,
	"ry":         OpRY,
	"rz":         OpRZ,
	"cnot":       OpCNOT,
	"cz":         OpCZ,
	"cp":         OpCPhase,
	"swap":       OpSwap,
	"ccnot":      OpCCNOT,
	"phase":      OpPhase,
	"phase_flip": OpPhaseFlip,
	"measure":    OpMeasure,
	"print":      OpPrint,
	"nop":        OpNop,
	"label":      OpLabel,
	"diffusion":  OpDiffusion,
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// TakesAngle reports whether instructions of op carry an Angle.
func (o Op) TakesAngle() bool {
	switch o {
	case OpRX, OpRY, OpRZ, OpCPhase, OpPhase:
		return true
	}
	return false
}

// LookupOp returns the op for a qc.<name> spelling.
func LookupOp(name string) (Op, bool) {
	op, ok := qcOps[name]
	return op, ok
}

// Instruction is one tagged step of a Program. Which fields are meaningful
// depends on Op:
//
//   - reset:          Value = register size
//   - write:          Value = basis state
//   - writeBit:       Qubits[0] = bit index, Value = 0 or 1
//   - single-qubit:   Qubits[0]; rotations also use Angle (radians)
//   - cnot, cz, swap: Qubits[0], Qubits[1] (control first); cp adds Angle
//   - ccnot:          Qubits[0], Qubits[1] controls, Qubits[2] target
//   - phase:          Angle in degrees, Value = basis index
//   - phase_flip:     Bits, an MSB-first bitstring
//   - measure:        no Qubits = full register, one qubit = readBit
//   - print, label:   Text
//   - qint.new:       Name (binding), Width, Text (group label)
//   - qint.had/read:  Name; qint.cnot: Name, Other (control group)
//
// Ops that take an angle also need HasAngle; a zero Angle is a valid angle.
type Instruction struct {
	Op       Op
	Qubits   []int
	Angle    float64
	HasAngle bool
	Value    int
	Bits     string
	Text     string
	Name     string
	Other    string
	Width    int
	Line     int
}

// Program is an ordered instruction list.
type Program []Instruction

// String renders the instruction in the canonical text form accepted by
// ParseProgram.
func (in Instruction) String() string {
	q := func(i int) string {
		if i < len(in.Qubits) {
			return strconv.Itoa(in.Qubits[i])
		}
		return "?"
	}
	switch in.Op {
	case OpReset, OpWrite:
		return fmt.Sprintf("qc.%s(%d);", in.Op, in.Value)
	case OpWriteBit:
		return fmt.Sprintf("qc.writeBit(%s, %d);", q(0), in.Value)
	case OpHad, OpX, OpY, OpZ:
		return fmt.Sprintf("qc.%s(%s);", in.Op, q(0))
	case OpRX, OpRY, OpRZ:
		return fmt.Sprintf("qc.%s(%s, %s);", in.Op, q(0), formatParam(in.Angle))
	case OpCNOT, OpCZ, OpSwap:
		return fmt.Sprintf("qc.%s(%s, %s);", in.Op, q(0), q(1))
	case OpCPhase:
		return fmt.Sprintf("qc.cp(%s, %s, %s);", q(0), q(1), formatParam(in.Angle))
	case OpCCNOT:
		return fmt.Sprintf("qc.ccnot(%s, %s, %s);", q(0), q(1), q(2))
	case OpPhase:
		return fmt.Sprintf("qc.phase(%s, %d);", strconv.FormatFloat(in.Angle, 'f', -1, 64), in.Value)
	case OpPhaseFlip:
		return fmt.Sprintf("qc.phase_flip('%s');", in.Bits)
	case OpMeasure:
		if len(in.Qubits) > 0 {
			return fmt.Sprintf("qc.measure(%s);", q(0))
		}
		return "qc.measure();"
	case OpPrint:
		return fmt.Sprintf("qc.print(%s);", quote(in.Text))
	case OpNop:
		return "qc.nop();"
	case OpLabel:
		if in.Text == "" {
			return "qc.label();"
		}
		return fmt.Sprintf("qc.label(%s);", quote(in.Text))
	case OpDiffusion:
		return "diffusion();"
	case OpQIntNew:
		return fmt.Sprintf("let %s = qint.new(%d, %s);", in.Name, in.Width, quote(in.Text))
	case OpQIntHad:
		return fmt.Sprintf("%s.had();", in.Name)
	case OpQIntCNOT:
		return fmt.Sprintf("%s.cnot(%s);", in.Name, in.Other)
	case OpQIntRead:
		return fmt.Sprintf("%s.read();", in.Name)
	default:
		return fmt.Sprintf("// %s", in.Op)
	}
}

// String renders one instruction per line.
func (p Program) String() string {
	var sb strings.Builder
	for _, in := range p {
		sb.WriteString(in.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// QubitCount returns the register size the program ends with, following the
// last reset (1 when there is none). It does not execute anything.
func (p Program) QubitCount() int {
	n := 1
	for _, in := range p {
		if in.Op == OpReset {
			n = in.Value
		}
	}
	return n
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
}
