package qcengine

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseProgram(t *testing.T) {
	Convey("Given program text with comments and mixed separators", t, func() {
		prog, err := ParseProgram(`
			// prepare
			qc.reset(2); qc.had(0)
			qc.cnot(0,
			        1); // entangle
			qc.measure();
		`)
		So(err, ShouldBeNil)

		Convey("Each call should become one instruction", func() {
			So(len(prog), ShouldEqual, 4)
			So(prog[0].Op, ShouldEqual, OpReset)
			So(prog[0].Value, ShouldEqual, 2)
			So(prog[1].Op, ShouldEqual, OpHad)
			So(prog[2].Qubits, ShouldResemble, []int{0, 1})
			So(prog[3].Op, ShouldEqual, OpMeasure)
			So(prog[3].Qubits, ShouldBeEmpty)
		})

		Convey("Line numbers should point at the start of each statement", func() {
			So(prog[0].Line, ShouldEqual, 3)
			So(prog[1].Line, ShouldEqual, 3)
			So(prog[2].Line, ShouldEqual, 4)
			So(prog[3].Line, ShouldEqual, 6)
		})
	})

	Convey("Given angle expressions", t, func() {
		tests := []struct {
			src  string
			want float64
		}{
			{"qc.rx(0, pi/2)", math.Pi / 2},
			{"qc.ry(0, Math.PI)", math.Pi},
			{"qc.rz(0, -pi/4)", -math.Pi / 4},
			{"qc.rz(0, 2*pi)", 2 * math.Pi},
			{"qc.rz(0, 0.5)", 0.5},
		}
		for _, tt := range tests {
			prog, err := ParseProgram(tt.src)
			So(err, ShouldBeNil)
			So(prog[0].Angle, ShouldAlmostEqual, tt.want, 1e-12)
			So(prog[0].HasAngle, ShouldBeTrue)
		}
	})

	Convey("Given the overloaded write and measure forms", t, func() {
		prog, err := ParseProgram("qc.write(6); qc.write(1, 2); qc.write(true, 0); qc.measure(1);")
		So(err, ShouldBeNil)
		So(prog[0].Op, ShouldEqual, OpWrite)
		So(prog[0].Value, ShouldEqual, 6)
		So(prog[1].Op, ShouldEqual, OpWriteBit)
		So(prog[1].Qubits, ShouldResemble, []int{2})
		So(prog[1].Value, ShouldEqual, 1)
		So(prog[2].Value, ShouldEqual, 1)
		So(prog[3].Qubits, ShouldResemble, []int{1})
	})

	Convey("Given phase instructions", t, func() {
		prog, err := ParseProgram(`qc.phase(90, 3); qc.phase_flip('101'); qc.phase_flip(11);`)
		So(err, ShouldBeNil)
		So(prog[0].Angle, ShouldEqual, 90)
		So(prog[0].Value, ShouldEqual, 3)
		So(prog[1].Bits, ShouldEqual, "101")
		So(prog[2].Bits, ShouldEqual, "11")
	})

	Convey("Given diagnostics", t, func() {
		prog, err := ParseProgram(`qc.print("a; b // c"); qc.label('top'); qc.nop(1, 2);`)
		So(err, ShouldBeNil)
		So(len(prog), ShouldEqual, 3)
		So(prog[0].Text, ShouldEqual, "a; b // c")
		So(prog[1].Text, ShouldEqual, "top")
		So(prog[2].Op, ShouldEqual, OpNop)
	})

	Convey("Given qint declarations and calls", t, func() {
		prog, err := ParseProgram(`
			qc.reset(3);
			var a = qint.new(1, 'alpha');
			b = qint.new(2);
			a.had(); b.cnot(a); b.read();
		`)
		So(err, ShouldBeNil)
		So(prog[1].Op, ShouldEqual, OpQIntNew)
		So(prog[1].Name, ShouldEqual, "a")
		So(prog[1].Text, ShouldEqual, "alpha")
		So(prog[1].Width, ShouldEqual, 1)
		So(prog[2].Text, ShouldEqual, "b")
		So(prog[4].Op, ShouldEqual, OpQIntCNOT)
		So(prog[4].Other, ShouldEqual, "a")
		So(prog[5].Op, ShouldEqual, OpQIntRead)
	})
}

func TestParseProgramErrors(t *testing.T) {
	Convey("Given malformed or unsupported statements", t, func() {
		tests := []struct {
			src  string
			want error
			line int
		}{
			{"qc.teleport(0)", ErrUnsupportedOperation, 1},
			{"eval('qc.had(0)')", ErrUnsupportedOperation, 1},
			{"qc.reset(1);\nqc.had(0, 1)", ErrMalformedInstruction, 2},
			{"qc.had(1.5)", ErrMalformedInstruction, 1},
			{"qc.rx(0, banana)", ErrMalformedInstruction, 1},
			{"qc.print('open", ErrMalformedInstruction, 1},
			{"qc.had(0))", ErrMalformedInstruction, 1},
			{"qc.phase_flip('12')", ErrMalformedInstruction, 1},
			{"a.had()", ErrUnsupportedOperation, 1},
			{"let a = qint.new(0)", ErrMalformedInstruction, 1},
			{"let a = qint.new(1); a.cnot(z)", ErrMalformedInstruction, 1},
			{"diffusion(2)", ErrMalformedInstruction, 1},
		}
		for _, tt := range tests {
			_, err := ParseProgram(tt.src)
			So(errors.Is(err, tt.want), ShouldBeTrue)

			var pe *ParseError
			So(errors.As(err, &pe), ShouldBeTrue)
			So(pe.Line, ShouldEqual, tt.line)
		}
	})
}

func TestProgramString(t *testing.T) {
	Convey("Given a parsed program", t, func() {
		src := `qc.reset(3);
qc.write(5);
qc.writeBit(1, 0);
qc.had(0);
qc.rx(1, pi/2);
qc.cp(0, 2, pi/4);
qc.ccnot(0, 1, 2);
qc.phase(45, 3);
qc.phase_flip('011');
diffusion();
let a = qint.new(2, 'it\'s');
a.had();
qc.print('done');
qc.label();
qc.measure(2);
`
		prog, err := ParseProgram(src)
		So(err, ShouldBeNil)

		Convey("String should render the canonical text", func() {
			So(prog.String(), ShouldEqual, src)
		})

		Convey("Its rendering should parse back to the same program", func() {
			again, err := ParseProgram(prog.String())
			So(err, ShouldBeNil)
			So(len(again), ShouldEqual, len(prog))
			for i := range prog {
				So(again[i].Op, ShouldEqual, prog[i].Op)
				So(again[i].Qubits, ShouldResemble, prog[i].Qubits)
				So(again[i].Angle, ShouldAlmostEqual, prog[i].Angle, 1e-12)
				So(again[i].Text, ShouldEqual, prog[i].Text)
			}
		})

		Convey("QubitCount should follow the last reset", func() {
			So(prog.QubitCount(), ShouldEqual, 3)
			So(Program{}.QubitCount(), ShouldEqual, 1)
		})
	})
}
