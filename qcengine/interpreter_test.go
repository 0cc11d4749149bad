package qcengine

import (
	"errors"
	"math/cmplx"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInterpreterClassicalWrites(t *testing.T) {
	Convey("Given a 3-qubit interpreter", t, func() {
		it := NewInterpreter(fixedSource(0), 0)
		So(it.Execute(mustParse("qc.reset(3);")), ShouldBeNil)

		Convey("Bit writes should accumulate in the scratch register", func() {
			So(it.Execute(mustParse("qc.write(1, 0); qc.writeBit(2, 1);")), ShouldBeNil)
			s := it.State()
			So(s.Classical(), ShouldEqual, 0b101)
			So(cmplx.Abs(s.Amplitudes[0b101]), ShouldAlmostEqual, 1, 1e-12)

			So(it.Execute(mustParse("qc.write(0, 0);")), ShouldBeNil)
			So(s.Classical(), ShouldEqual, 0b100)
		})

		Convey("A write past the register should fail", func() {
			err := it.Execute(mustParse("qc.write(8);"))
			So(errors.Is(err, ErrIndexOutOfRange), ShouldBeTrue)
		})

		Convey("A bit value other than 0 or 1 should fail", func() {
			err := it.Step(Instruction{Op: OpWriteBit, Qubits: []int{0}, Value: 2})
			So(errors.Is(err, ErrMalformedInstruction), ShouldBeTrue)
		})
	})
}

func TestInterpreterReadBit(t *testing.T) {
	Convey("Given a superposition on qubit 1", t, func() {
		it := NewInterpreter(fixedSource(0.9), 0)
		So(it.Execute(mustParse("qc.reset(2); qc.had(1); qc.had(0); qc.measure(1);")), ShouldBeNil)

		Convey("The whole register should collapse", func() {
			out, ok := it.State().Collapsed()
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, 3)
			So(it.State().Normalized(), ShouldBeTrue)
		})
	})
}

func TestInterpreterQInt(t *testing.T) {
	Convey("Given qint groups on a 3-qubit register", t, func() {
		it := NewInterpreter(fixedSource(0.9), 0)
		prog := mustParse(`
			qc.reset(3);
			var a = qint.new(1, 'a');
			let b = qint.new(2, 'b');
			a.had();
			b.cnot(a);
			b.read();
		`)
		So(it.Execute(prog), ShouldBeNil)

		Convey("Groups should get consecutive offsets", func() {
			So(it.groups["a"], ShouldResemble, QInt{Name: "a", Offset: 0, Width: 1})
			So(it.groups["b"], ShouldResemble, QInt{Name: "b", Offset: 1, Width: 2})
		})

		Convey("cnot should entangle the first qubits of each group", func() {
			out, ok := it.State().Collapsed()
			So(ok, ShouldBeTrue)
			So(out, ShouldEqual, 0b011)
		})

		Convey("A reset should release every group", func() {
			So(it.Step(Instruction{Op: OpReset, Value: 2}), ShouldBeNil)
			So(it.groups, ShouldBeEmpty)
			So(it.alloc.Next(), ShouldEqual, 0)
		})
	})

	Convey("Given a qint wider than the register", t, func() {
		it := NewInterpreter(fixedSource(0), 0)
		err := it.Execute(mustParse("qc.reset(2); const c = qint.new(3, 'c');"))
		So(errors.Is(err, ErrIndexOutOfRange), ShouldBeTrue)
	})

	Convey("Given an instruction naming an unknown group", t, func() {
		it := NewInterpreter(fixedSource(0), 0)
		err := it.Step(Instruction{Op: OpQIntHad, Name: "ghost"})
		So(errors.Is(err, ErrMalformedInstruction), ShouldBeTrue)
	})
}

func TestAllocator(t *testing.T) {
	Convey("Given a fresh allocator", t, func() {
		var a Allocator
		So(a.Alloc(2), ShouldEqual, 0)
		So(a.Alloc(3), ShouldEqual, 2)
		So(a.Next(), ShouldEqual, 5)

		a.Reset()
		So(a.Alloc(1), ShouldEqual, 0)
	})
}

func TestInterpreterRejectsWrongArity(t *testing.T) {
	Convey("Given hand-built instructions", t, func() {
		it := NewInterpreter(fixedSource(0), 0)
		So(it.Step(Instruction{Op: OpReset, Value: 2}), ShouldBeNil)

		err := it.Step(Instruction{Op: OpCNOT, Qubits: []int{0}})
		So(errors.Is(err, ErrMalformedInstruction), ShouldBeTrue)

		err = it.Step(Instruction{Op: OpMeasure, Qubits: []int{0, 1}})
		So(errors.Is(err, ErrMalformedInstruction), ShouldBeTrue)

		err = it.Step(Instruction{Op: OpInvalid})
		So(errors.Is(err, ErrUnsupportedOperation), ShouldBeTrue)
	})
}
