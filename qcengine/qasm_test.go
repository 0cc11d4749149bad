package qcengine

import (
	"errors"
	"math"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestToQASM(t *testing.T) {
	Convey("Given a Bell pair program", t, func() {
		qasm, warnings := ToQASM(mustParse("qc.reset(2); qc.had(0); qc.cnot(0, 1); qc.measure();"))

		Convey("It should export a complete qelib1 circuit", func() {
			So(warnings, ShouldBeEmpty)
			So(qasm, ShouldStartWith, "OPENQASM 2.0;\ninclude \"qelib1.inc\";")
			So(qasm, ShouldContainSubstring, "qreg q[2];")
			So(qasm, ShouldContainSubstring, "creg c[2];")
			So(qasm, ShouldContainSubstring, "h q[0];\ncx q[0], q[1];\nmeasure q -> c;\n")
		})
	})

	Convey("Given parameterized and controlled gates", t, func() {
		qasm, warnings := ToQASM(mustParse("qc.reset(3); qc.rx(0, pi/2); qc.cp(0, 1, pi/4); qc.ccnot(0, 1, 2); qc.swap(1, 2);"))
		So(warnings, ShouldBeEmpty)
		So(qasm, ShouldContainSubstring, "rx(pi/2) q[0];")
		So(qasm, ShouldContainSubstring, "cu1(pi/4) q[0], q[1];")
		So(qasm, ShouldContainSubstring, "ccx q[0], q[1], q[2];")
		So(qasm, ShouldContainSubstring, "swap q[1], q[2];")
	})

	Convey("Given instructions without a qelib1 form", t, func() {
		qasm, warnings := ToQASM(mustParse("qc.reset(2); qc.phase(90, 1); qc.writeBit(0, 1);"))
		So(len(warnings), ShouldEqual, 2)
		So(qasm, ShouldContainSubstring, "// qc.phase(90, 1);")
		So(qasm, ShouldContainSubstring, "// qc.writeBit(0, 1);")
	})

	Convey("Given a register too wide to decompose diffusion", t, func() {
		_, warnings := ToQASM(mustParse("qc.reset(4); diffusion(); qc.phase_flip('1010');"))
		So(len(warnings), ShouldEqual, 2)
	})

	Convey("Given gates with missing operands or angles", t, func() {
		prog := Program{
			{Op: OpReset, Value: 2},
			{Op: OpHad},
			{Op: OpCNOT, Qubits: []int{0}},
			{Op: OpCCNOT, Qubits: []int{0, 1}},
			{Op: OpRX, Qubits: []int{0}, Angle: math.NaN(), HasAngle: true},
			{Op: OpRZ, Qubits: []int{1}},
			{Op: OpX, Qubits: []int{1}},
		}
		var (
			qasm     string
			warnings []string
		)
		So(func() { qasm, warnings = ToQASM(prog) }, ShouldNotPanic)

		Convey("Each bad instruction should become a warned comment", func() {
			So(len(warnings), ShouldEqual, 5)
			So(warnings[0], ShouldContainSubstring, "malformed instruction")
			So(qasm, ShouldContainSubstring, "// qc.had(?);")
			So(qasm, ShouldContainSubstring, "// qc.cnot(0, ?);")
			So(qasm, ShouldContainSubstring, "x q[1];")
		})
	})

	Convey("Given a classical write", t, func() {
		qasm, _ := ToQASM(mustParse("qc.reset(2); qc.write(2);"))
		So(qasm, ShouldContainSubstring, "reset q[0];\nreset q[1];\nx q[1];\n")
	})
}

// sameState executes both programs and compares the final
// amplitudes.
func sameState(a, b Program) bool {
	ia := NewInterpreter(fixedSource(0), 0)
	ib := NewInterpreter(fixedSource(0), 0)
	if ia.Execute(a) != nil || ib.Execute(b) != nil {
		return false
	}
	return amplitudesClose(ia.State().Amplitudes, ib.State().Amplitudes)
}

func TestQASMRoundTrip(t *testing.T) {
	Convey("Given Grover-style programs on up to three qubits", t, func() {
		sources := []string{
			"qc.reset(1); qc.had(0); qc.phase_flip('1'); diffusion();",
			"qc.reset(2); qc.had(0); qc.had(1); qc.phase_flip('11'); diffusion();",
			"qc.reset(2); qc.had(0); qc.had(1); qc.phase_flip('10'); diffusion();",
			"qc.reset(3); qc.had(0); qc.had(1); qc.had(2); qc.phase_flip('101'); diffusion();",
			"qc.reset(3); qc.ry(0, 0.4); qc.rz(1, pi/3); qc.cz(0, 2); qc.cp(1, 2, pi/8);",
		}
		for _, src := range sources {
			prog := mustParse(src)
			qasm, warnings := ToQASM(prog)
			So(warnings, ShouldBeEmpty)

			back, err := ParseQASM(qasm)
			So(err, ShouldBeNil)
			So(sameState(prog, back), ShouldBeTrue)
		}
	})
}

func TestParseQASM(t *testing.T) {
	Convey("Given an OpenQASM 2.0 circuit", t, func() {
		prog, err := ParseQASM(`OPENQASM 2.0;
include "qelib1.inc";
qreg q[3];
creg c[3];
// comment
h q[0];
t q[1];
rz(-pi/2) q[2];
cx q[0], q[1];
barrier q;
measure q[2] -> c[2];
measure q -> c;
`)
		So(err, ShouldBeNil)

		Convey("It should map every statement onto the instruction set", func() {
			ops := make([]Op, len(prog))
			for i, in := range prog {
				ops[i] = in.Op
			}
			So(ops, ShouldResemble, []Op{OpReset, OpHad, OpRZ, OpRZ, OpCNOT, OpNop, OpMeasure, OpMeasure})
			So(prog[0].Value, ShouldEqual, 3)
			So(prog[2].Angle, ShouldAlmostEqual, math.Pi/4, 1e-12)
			So(prog[2].HasAngle, ShouldBeTrue)
			So(prog[3].Angle, ShouldAlmostEqual, -math.Pi/2, 1e-12)
			So(prog[6].Qubits, ShouldResemble, []int{2})
			So(prog[7].Qubits, ShouldBeEmpty)
		})
	})

	Convey("Given unsupported statements", t, func() {
		_, err := ParseQASM("qreg q[2];\nu3(0.1,0.2,0.3) q[0];")
		So(errors.Is(err, ErrUnsupportedOperation), ShouldBeTrue)

		_, err = ParseQASM("qreg q[2];\ncrz(pi) q[0], q[1];")
		So(errors.Is(err, ErrUnsupportedOperation), ShouldBeTrue)

		var pe *ParseError
		_, err = ParseQASM("qreg q[2];\nfoo q[0];")
		So(errors.As(err, &pe), ShouldBeTrue)
		So(pe.Line, ShouldEqual, 2)
		So(strings.Contains(pe.Text, "foo"), ShouldBeTrue)
	})
}
