package qcengine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for program statements.
var (
	callRegex     = regexp.MustCompile(`^([A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)?)\s*\((.*)\)$`)
	qintDeclRegex = regexp.MustCompile(`^(?:(?:var|let|const)\s+)?([A-Za-z_$][\w$]*)\s*=\s*qint\.new\s*\((.*)\)$`)
	identRegex    = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

type statement struct {
	text string
	line int
}

// arg is one call argument: a quoted string, a number, or a bare identifier.
type arg struct {
	raw    string
	str    string
	quoted bool
	num    float64
	isNum  bool
}

// ParseProgram reads program text such as
//
//	qc.reset(2);
//	qc.had(0); qc.cnot(0, 1); // Bell pair
//	qc.measure();
//
// into a Program. Only the fixed instruction set is recognized; there is no
// expression evaluation beyond numeric and pi literals.
func ParseProgram(src string) (Program, error) {
	stmts, err := splitStatements(src)
	if err != nil {
		return nil, err
	}

	var prog Program
	groups := make(map[string]bool)
	for _, st := range stmts {
		in, err := parseStatement(st, groups)
		if err != nil {
			return nil, err
		}
		in.Line = st.line
		prog = append(prog, in)
	}
	return prog, nil
}

// splitStatements breaks source on ';' and newlines outside of quotes and
// parentheses, dropping // comments.
func splitStatements(src string) ([]statement, error) {
	var (
		stmts []statement
		cur   strings.Builder
		line  = 1
		start = 0
		quote byte
		depth int
	)

	flush := func() {
		text := strings.TrimSpace(cur.String())
		if text != "" {
			stmts = append(stmts, statement{text: text, line: start})
		}
		cur.Reset()
		start = 0
	}

	for i := 0; i < len(src); i++ {
		ch := src[i]
		if quote != 0 {
			if ch == '\n' {
				return nil, &ParseError{Line: line, Text: strings.TrimSpace(cur.String()), Err: fmt.Errorf("unterminated string: %w", ErrMalformedInstruction)}
			}
			cur.WriteByte(ch)
			if ch == '\\' && i+1 < len(src) {
				i++
				cur.WriteByte(src[i])
				continue
			}
			if ch == quote {
				quote = 0
			}
			continue
		}

		switch {
		case ch == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			i--
			continue
		case ch == '\n':
			if depth == 0 {
				flush()
			} else {
				cur.WriteByte(' ')
			}
			line++
			continue
		case ch == ';' && depth == 0:
			flush()
			continue
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth < 0 {
				return nil, &ParseError{Line: line, Text: strings.TrimSpace(cur.String()), Err: fmt.Errorf("unbalanced parenthesis: %w", ErrMalformedInstruction)}
			}
		}
		if start == 0 && ch != ' ' && ch != '\t' && ch != '\r' {
			start = line
		}
		cur.WriteByte(ch)
	}
	if quote != 0 || depth != 0 {
		return nil, &ParseError{Line: line, Text: strings.TrimSpace(cur.String()), Err: fmt.Errorf("unterminated statement: %w", ErrMalformedInstruction)}
	}
	flush()
	return stmts, nil
}

func parseStatement(st statement, groups map[string]bool) (Instruction, error) {
	fail := func(err error) (Instruction, error) {
		return Instruction{}, &ParseError{Line: st.line, Text: st.text, Err: err}
	}

	if m := qintDeclRegex.FindStringSubmatch(st.text); m != nil {
		args, err := splitArgs(m[2])
		if err != nil {
			return fail(err)
		}
		in, err := buildQIntNew(m[1], args)
		if err != nil {
			return fail(err)
		}
		groups[in.Name] = true
		return in, nil
	}

	m := callRegex.FindStringSubmatch(st.text)
	if m == nil {
		return fail(fmt.Errorf("not an instruction call: %w", ErrUnsupportedOperation))
	}
	callee := m[1]
	args, err := splitArgs(m[2])
	if err != nil {
		return fail(err)
	}

	var op Op
	switch {
	case callee == "diffusion":
		op = OpDiffusion
	case strings.HasPrefix(callee, "qc."):
		var ok bool
		op, ok = LookupOp(strings.TrimPrefix(callee, "qc."))
		if !ok {
			return fail(fmt.Errorf("%s: %w", callee, ErrUnsupportedOperation))
		}
	default:
		name, method, found := strings.Cut(callee, ".")
		if !found || !groups[name] {
			return fail(fmt.Errorf("%s: %w", callee, ErrUnsupportedOperation))
		}
		in, err := buildQIntCall(name, method, args, groups)
		if err != nil {
			return fail(err)
		}
		return in, nil
	}

	in, err := buildInstruction(op, args)
	if err != nil {
		return fail(err)
	}
	return in, nil
}

func buildInstruction(op Op, args []arg) (Instruction, error) {
	in := Instruction{Op: op}
	var err error

	switch op {
	case OpReset, OpWrite:
		if err = wantArgs(op, args, 1, 2); err != nil {
			return in, err
		}
		if op == OpWrite && len(args) == 2 {
			// write(bit, index) is the bit-level form.
			bit, err := intArg(op, args[0])
			if err != nil {
				return in, err
			}
			idx, err := intArg(op, args[1])
			if err != nil {
				return in, err
			}
			in.Op = OpWriteBit
			in.Qubits = []int{idx}
			if bit != 0 {
				in.Value = 1
			}
			return in, nil
		}
		if len(args) != 1 {
			return in, fmt.Errorf("%s takes 1 argument, got %d: %w", op, len(args), ErrMalformedInstruction)
		}
		in.Value, err = intArg(op, args[0])

	case OpWriteBit:
		if err = wantArgs(op, args, 2, 2); err != nil {
			return in, err
		}
		in.Qubits, err = intArgs(op, args[:1])
		if err == nil {
			in.Value, err = intArg(op, args[1])
		}

	case OpHad, OpX, OpY, OpZ:
		if err = wantArgs(op, args, 1, 1); err != nil {
			return in, err
		}
		in.Qubits, err = intArgs(op, args)

	case OpRX, OpRY, OpRZ:
		if err = wantArgs(op, args, 2, 2); err != nil {
			return in, err
		}
		in.Qubits, err = intArgs(op, args[:1])
		if err == nil {
			in.Angle, err = angleArg(op, args[1])
			in.HasAngle = err == nil
		}

	case OpCNOT, OpCZ, OpSwap:
		if err = wantArgs(op, args, 2, 2); err != nil {
			return in, err
		}
		in.Qubits, err = intArgs(op, args)

	case OpCPhase:
		if err = wantArgs(op, args, 3, 3); err != nil {
			return in, err
		}
		in.Qubits, err = intArgs(op, args[:2])
		if err == nil {
			in.Angle, err = angleArg(op, args[2])
			in.HasAngle = err == nil
		}

	case OpCCNOT:
		if err = wantArgs(op, args, 3, 3); err != nil {
			return in, err
		}
		in.Qubits, err = intArgs(op, args)

	case OpPhase:
		if err = wantArgs(op, args, 2, 2); err != nil {
			return in, err
		}
		in.Angle, err = angleArg(op, args[0])
		in.HasAngle = err == nil
		if err == nil {
			in.Value, err = intArg(op, args[1])
		}

	case OpPhaseFlip:
		if err = wantArgs(op, args, 1, 1); err != nil {
			return in, err
		}
		bits := args[0].raw
		if args[0].quoted {
			bits = args[0].str
		}
		if _, err = ParseBitstring(bits); err == nil {
			in.Bits = bits
		}

	case OpMeasure:
		if err = wantArgs(op, args, 0, 1); err != nil {
			return in, err
		}
		in.Qubits, err = intArgs(op, args)

	case OpPrint:
		if err = wantArgs(op, args, 0, 1); err != nil {
			return in, err
		}
		if len(args) == 1 {
			in.Text, err = textArg(op, args[0])
		}

	case OpLabel:
		if len(args) > 0 && args[0].quoted {
			in.Text = args[0].str
		}

	case OpNop:
		// accepts and ignores arguments

	case OpDiffusion:
		err = wantArgs(op, args, 0, 0)

	default:
		err = fmt.Errorf("%s: %w", op, ErrUnsupportedOperation)
	}
	return in, err
}

func buildQIntNew(binding string, args []arg) (Instruction, error) {
	in := Instruction{Op: OpQIntNew, Name: binding, Text: binding}
	if err := wantArgs(OpQIntNew, args, 1, 2); err != nil {
		return in, err
	}
	width, err := intArg(OpQIntNew, args[0])
	if err != nil {
		return in, err
	}
	if width < 1 {
		return in, fmt.Errorf("qint width %d: %w", width, ErrMalformedInstruction)
	}
	in.Width = width
	if len(args) == 2 {
		if in.Text, err = textArg(OpQIntNew, args[1]); err != nil {
			return in, err
		}
	}
	return in, nil
}

func buildQIntCall(name, method string, args []arg, groups map[string]bool) (Instruction, error) {
	switch method {
	case "had":
		if err := wantArgs(OpQIntHad, args, 0, 0); err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpQIntHad, Name: name}, nil
	case "read":
		if err := wantArgs(OpQIntRead, args, 0, 0); err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpQIntRead, Name: name}, nil
	case "cnot":
		if err := wantArgs(OpQIntCNOT, args, 1, 1); err != nil {
			return Instruction{}, err
		}
		other := args[0].raw
		if args[0].quoted || !groups[other] {
			return Instruction{}, fmt.Errorf("%s.cnot(%s): unknown qint: %w", name, other, ErrMalformedInstruction)
		}
		return Instruction{Op: OpQIntCNOT, Name: name, Other: other}, nil
	default:
		return Instruction{}, fmt.Errorf("%s.%s: %w", name, method, ErrUnsupportedOperation)
	}
}

// splitArgs splits an argument list on commas outside quotes.
func splitArgs(s string) ([]arg, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var parts []string
	var cur strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			cur.WriteByte(ch)
			if ch == '\\' && i+1 < len(s) {
				i++
				cur.WriteByte(s[i])
			} else if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
			cur.WriteByte(ch)
		case ch == ',':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	parts = append(parts, cur.String())

	args := make([]arg, 0, len(parts))
	for _, p := range parts {
		a, err := parseArg(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

func parseArg(p string) (arg, error) {
	a := arg{raw: p}
	switch {
	case p == "":
		return a, fmt.Errorf("empty argument: %w", ErrMalformedInstruction)
	case p[0] == '\'' || p[0] == '"':
		if len(p) < 2 || p[len(p)-1] != p[0] {
			return a, fmt.Errorf("bad string literal %s: %w", p, ErrMalformedInstruction)
		}
		a.quoted = true
		a.str = unescape(p[1 : len(p)-1])
	case p == "true" || p == "false":
		a.isNum = true
		if p == "true" {
			a.num = 1
		}
	default:
		if v, ok := parseAngleExpr(p); ok {
			a.isNum = true
			a.num = v
		} else if !identRegex.MatchString(p) {
			return a, fmt.Errorf("bad argument %s: %w", p, ErrMalformedInstruction)
		}
	}
	return a, nil
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(s[i])
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func wantArgs(op Op, args []arg, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return fmt.Errorf("%s takes %d arguments, got %d: %w", op, lo, len(args), ErrMalformedInstruction)
		}
		return fmt.Errorf("%s takes %d to %d arguments, got %d: %w", op, lo, hi, len(args), ErrMalformedInstruction)
	}
	return nil
}

func intArg(op Op, a arg) (int, error) {
	if !a.isNum || a.num != math.Trunc(a.num) || math.Abs(a.num) > math.MaxInt32 {
		return 0, fmt.Errorf("%s: %s is not an integer: %w", op, a.raw, ErrMalformedInstruction)
	}
	return int(a.num), nil
}

func intArgs(op Op, args []arg) ([]int, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make([]int, len(args))
	for i, a := range args {
		v, err := intArg(op, a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func angleArg(op Op, a arg) (float64, error) {
	if !a.isNum || math.IsNaN(a.num) || math.IsInf(a.num, 0) {
		return 0, fmt.Errorf("%s: %s is not an angle: %w", op, a.raw, ErrMalformedInstruction)
	}
	return a.num, nil
}

func textArg(op Op, a arg) (string, error) {
	switch {
	case a.quoted:
		return a.str, nil
	case a.isNum:
		return strconv.FormatFloat(a.num, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%s: %s is not a literal: %w", op, a.raw, ErrMalformedInstruction)
	}
}
