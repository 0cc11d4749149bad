package qcengine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// paramPattern matches a single parameter value: numbers, pi expressions, or combinations.
const paramPattern = `-?(?:\d*\.?\d*\*?pi(?:/\d+\.?\d*)?|\d+\.?\d*(?:[eE][+\-]?\d+)?)`

// Pre-compiled regexps for QASM parsing.
var (
	qasmSingleRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	qasmSingleParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\];?$`)
	qasmTwoRegex         = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qasmTwoParamRegex    = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qasmThreeRegex       = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qasmMeasureRegex     = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*\w+\[(\d+)\];?$`)
	qasmMeasureAllRegex  = regexp.MustCompile(`^measure\s+q\s*->\s*\w+;?$`)
	qasmQregRegex        = regexp.MustCompile(`^qreg\s+q\[(\d+)\];?$`)
)

// ToQASM renders prog as OpenQASM 2.0. Instructions with no exact qelib1
// form are emitted as comments and listed in the returned warnings.
//
// Both measure() and measure(i) export as a full-register measurement,
// since either one collapses every qubit.
func ToQASM(prog Program) (string, []string) {
	numQubits := 1
	for _, in := range prog {
		if in.Op == OpReset {
			numQubits = max(numQubits, in.Value)
		}
	}

	var (
		sb       strings.Builder
		warnings []string
		alloc    Allocator
		groups   = make(map[string]QInt)
		resets   int
	)
	warn := func(i int, in Instruction, why string) {
		fmt.Fprintf(&sb, "// %s\n", in.String())
		warnings = append(warnings, fmt.Sprintf("instruction %d (%s): %s", i, in.Op, why))
	}

	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numQubits)

	for i, in := range prog {
		if err := checkOperands(in); err != nil {
			warn(i, in, err.Error())
			continue
		}
		q := in.Qubits
		switch in.Op {
		case OpReset:
			resets++
			alloc.Reset()
			clear(groups)
			if in.Value != numQubits {
				warnings = append(warnings, fmt.Sprintf("instruction %d (reset): register of %d qubits exported as %d", i, in.Value, numQubits))
			}
			if resets > 1 || i > 0 {
				writeResetAll(&sb, numQubits)
			}
		case OpWrite:
			writeResetAll(&sb, numQubits)
			for b := 0; b < numQubits; b++ {
				if in.Value&(1<<b) != 0 {
					fmt.Fprintf(&sb, "x q[%d];\n", b)
				}
			}
		case OpHad:
			fmt.Fprintf(&sb, "h q[%d];\n", q[0])
		case OpX, OpY, OpZ:
			fmt.Fprintf(&sb, "%s q[%d];\n", in.Op, q[0])
		case OpRX, OpRY, OpRZ:
			fmt.Fprintf(&sb, "%s(%s) q[%d];\n", in.Op, formatParam(in.Angle), q[0])
		case OpCNOT:
			fmt.Fprintf(&sb, "cx q[%d], q[%d];\n", q[0], q[1])
		case OpCZ:
			fmt.Fprintf(&sb, "cz q[%d], q[%d];\n", q[0], q[1])
		case OpCPhase:
			fmt.Fprintf(&sb, "cu1(%s) q[%d], q[%d];\n", formatParam(in.Angle), q[0], q[1])
		case OpSwap:
			fmt.Fprintf(&sb, "swap q[%d], q[%d];\n", q[0], q[1])
		case OpCCNOT:
			fmt.Fprintf(&sb, "ccx q[%d], q[%d], q[%d];\n", q[0], q[1], q[2])
		case OpPhaseFlip:
			index, err := ParseBitstring(in.Bits)
			if err != nil || !writeMarkBasis(&sb, index, numQubits) {
				warn(i, in, "phase flip needs more controls than qelib1 provides")
			}
		case OpDiffusion:
			if numQubits > 3 {
				warn(i, in, "diffusion needs more controls than qelib1 provides")
				continue
			}
			writeHadamardAll(&sb, numQubits)
			writeMarkBasis(&sb, 0, numQubits)
			writeHadamardAll(&sb, numQubits)
		case OpMeasure, OpQIntRead:
			sb.WriteString("measure q -> c;\n")
		case OpQIntNew:
			groups[in.Name] = QInt{Name: in.Text, Offset: alloc.Alloc(in.Width), Width: in.Width}
			fmt.Fprintf(&sb, "// qint %s = q[%d..%d]\n", in.Text, groups[in.Name].Offset, groups[in.Name].Offset+in.Width-1)
		case OpQIntHad:
			g := groups[in.Name]
			for b := g.Offset; b < g.Offset+g.Width; b++ {
				fmt.Fprintf(&sb, "h q[%d];\n", b)
			}
		case OpQIntCNOT:
			fmt.Fprintf(&sb, "cx q[%d], q[%d];\n", groups[in.Other].Offset, groups[in.Name].Offset)
		case OpPrint, OpLabel, OpNop:
			fmt.Fprintf(&sb, "// %s\n", in.String())
		default:
			warn(i, in, "no QASM equivalent")
		}
	}

	return sb.String(), warnings
}

// gateArity is the qubit operand count of each gate ToQASM writes directly.
var gateArity = map[Op]int{
	OpHad: 1, OpX: 1, OpY: 1, OpZ: 1, OpRX: 1, OpRY: 1, OpRZ: 1,
	OpCNOT: 2, OpCZ: 2, OpCPhase: 2, OpSwap: 2,
	OpCCNOT: 3,
}

// checkOperands applies the interpreter's operand rules to one instruction.
func checkOperands(in Instruction) error {
	if n, ok := gateArity[in.Op]; ok {
		if _, err := qubits(in, n); err != nil {
			return err
		}
	}
	if in.Op.TakesAngle() {
		return checkAngle(in)
	}
	return nil
}

func writeResetAll(sb *strings.Builder, n int) {
	for q := range n {
		fmt.Fprintf(sb, "reset q[%d];\n", q)
	}
}

func writeHadamardAll(sb *strings.Builder, n int) {
	for q := range n {
		fmt.Fprintf(sb, "h q[%d];\n", q)
	}
}

// writeMarkBasis emits a sequence that negates exactly the amplitude at index:
// X on every zero bit, a fully controlled Z, then X again. It reports false
// when the register is too wide for qelib1's controlled gates.
func writeMarkBasis(sb *strings.Builder, index, n int) bool {
	if n > 3 || index >= 1<<n {
		return false
	}
	flip := func() {
		for q := range n {
			if index&(1<<q) == 0 {
				fmt.Fprintf(sb, "x q[%d];\n", q)
			}
		}
	}
	flip()
	switch n {
	case 1:
		sb.WriteString("z q[0];\n")
	case 2:
		sb.WriteString("cz q[0], q[1];\n")
	case 3:
		sb.WriteString("h q[2];\nccx q[0], q[1], q[2];\nh q[2];\n")
	}
	flip()
	return true
}

// ParseQASM reads an OpenQASM 2.0 circuit over a single register named q.
// Gates that differ from a supported instruction only by a global phase
// (s, t, p, u1) map onto rz.
func ParseQASM(qasm string) (Program, error) {
	var prog Program
	for n, raw := range strings.Split(qasm, "\n") {
		line := strings.TrimSpace(raw)
		lineNo := n + 1
		fail := func(err error) (Program, error) {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}

		switch {
		case line == "", strings.HasPrefix(line, "//"),
			strings.HasPrefix(line, "OPENQASM"), strings.HasPrefix(line, "include"),
			strings.HasPrefix(line, "creg"):
			continue
		case strings.HasPrefix(line, "barrier"):
			prog = append(prog, Instruction{Op: OpNop, Line: lineNo})
			continue
		}

		if m := qasmQregRegex.FindStringSubmatch(line); m != nil {
			size, _ := strconv.Atoi(m[1])
			prog = append(prog, Instruction{Op: OpReset, Value: size, Line: lineNo})
			continue
		}
		if qasmMeasureAllRegex.MatchString(line) {
			prog = append(prog, Instruction{Op: OpMeasure, Line: lineNo})
			continue
		}
		if m := qasmMeasureRegex.FindStringSubmatch(line); m != nil {
			q, _ := strconv.Atoi(m[1])
			prog = append(prog, Instruction{Op: OpMeasure, Qubits: []int{q}, Line: lineNo})
			continue
		}

		if m := qasmThreeRegex.FindStringSubmatch(line); m != nil {
			if !strings.EqualFold(m[1], "ccx") {
				return fail(fmt.Errorf("%s: %w", m[1], ErrUnsupportedOperation))
			}
			prog = append(prog, Instruction{Op: OpCCNOT, Qubits: atois(m[2:5]), Line: lineNo})
			continue
		}

		if m := qasmTwoParamRegex.FindStringSubmatch(line); m != nil {
			name := strings.ToLower(m[1])
			if name != "cu1" && name != "cp" {
				return fail(fmt.Errorf("%s: %w", m[1], ErrUnsupportedOperation))
			}
			theta, ok := parseAngleExpr(m[2])
			if !ok {
				return fail(fmt.Errorf("angle %s: %w", m[2], ErrMalformedInstruction))
			}
			prog = append(prog, Instruction{Op: OpCPhase, Qubits: atois(m[3:5]), Angle: theta, HasAngle: true, Line: lineNo})
			continue
		}

		if m := qasmTwoRegex.FindStringSubmatch(line); m != nil {
			var op Op
			switch strings.ToLower(m[1]) {
			case "cx", "cnot":
				op = OpCNOT
			case "cz":
				op = OpCZ
			case "swap":
				op = OpSwap
			default:
				return fail(fmt.Errorf("%s: %w", m[1], ErrUnsupportedOperation))
			}
			prog = append(prog, Instruction{Op: op, Qubits: atois(m[2:4]), Line: lineNo})
			continue
		}

		if m := qasmSingleParamRegex.FindStringSubmatch(line); m != nil {
			var op Op
			switch strings.ToLower(m[1]) {
			case "rx":
				op = OpRX
			case "ry":
				op = OpRY
			case "rz", "p", "u1":
				op = OpRZ
			default:
				return fail(fmt.Errorf("%s: %w", m[1], ErrUnsupportedOperation))
			}
			theta, ok := parseAngleExpr(m[2])
			if !ok {
				return fail(fmt.Errorf("angle %s: %w", m[2], ErrMalformedInstruction))
			}
			prog = append(prog, Instruction{Op: op, Qubits: atois(m[3:4]), Angle: theta, HasAngle: true, Line: lineNo})
			continue
		}

		if m := qasmSingleRegex.FindStringSubmatch(line); m != nil {
			in, err := qasmSingle(strings.ToLower(m[1]), atois(m[2:3]))
			if err != nil {
				return fail(err)
			}
			in.Line = lineNo
			prog = append(prog, in)
			continue
		}

		return fail(fmt.Errorf("unrecognized statement: %w", ErrUnsupportedOperation))
	}
	return prog, nil
}

func qasmSingle(name string, q []int) (Instruction, error) {
	rz := func(theta float64) (Instruction, error) {
		return Instruction{Op: OpRZ, Qubits: q, Angle: theta, HasAngle: true}, nil
	}
	switch name {
	case "h":
		return Instruction{Op: OpHad, Qubits: q}, nil
	case "x":
		return Instruction{Op: OpX, Qubits: q}, nil
	case "y":
		return Instruction{Op: OpY, Qubits: q}, nil
	case "z":
		return Instruction{Op: OpZ, Qubits: q}, nil
	case "id":
		return Instruction{Op: OpNop}, nil
	case "s":
		return rz(math.Pi / 2)
	case "sdg":
		return rz(-math.Pi / 2)
	case "t":
		return rz(math.Pi / 4)
	case "tdg":
		return rz(-math.Pi / 4)
	default:
		return Instruction{}, fmt.Errorf("%s: %w", name, ErrUnsupportedOperation)
	}
}

func atois(ss []string) []int {
	out := make([]int, len(ss))
	for i, s := range ss {
		out[i], _ = strconv.Atoi(s)
	}
	return out
}
