package bf

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Op identifies a folded instruction.
type Op uint8

const (
	OpAdd Op = iota + 1
	OpSub
	OpRight
	OpLeft
	OpOutput
	OpInput
	OpJump
	OpJumpBack
	OpDebug
)

var opSymbols = [...]byte{
	OpAdd:      '+',
	OpSub:      '-',
	OpRight:    '>',
	OpLeft:     '<',
	OpOutput:   '.',
	OpInput:    ',',
	OpJump:     '[',
	OpJumpBack: ']',
	OpDebug:    '?',
}

func (op Op) Symbol() byte {
	if int(op) < len(opSymbols) && op != 0 {
		return opSymbols[op]
	}
	return '!'
}

// Instr is one folded instruction. Count is the run length for the
// arithmetic and movement ops; Target is the matching bracket index for
// jumps. Offset points back into the source text.
type Instr struct {
	Op     Op
	Count  uint8
	Target uint32
	Offset int
}

func (in Instr) String() string {
	switch in.Op {
	case OpAdd, OpSub, OpRight, OpLeft:
		return fmt.Sprintf("%c%d", in.Op.Symbol(), in.Count)
	case OpJump, OpJumpBack:
		return fmt.Sprintf("%c->%d", in.Op.Symbol(), in.Target)
	default:
		return string(in.Op.Symbol())
	}
}

func opFor(b byte) (Op, bool) {
	switch b {
	case '+':
		return OpAdd, true
	case '-':
		return OpSub, true
	case '>':
		return OpRight, true
	case '<':
		return OpLeft, true
	case '.':
		return OpOutput, true
	case ',':
		return OpInput, true
	case '[':
		return OpJump, true
	case ']':
		return OpJumpBack, true
	case '?':
		return OpDebug, true
	}
	return 0, false
}

// folds reports whether b continues a run of op and whether it grows it.
func folds(op Op, b byte) (grow, ok bool) {
	switch op {
	case OpAdd:
		return b == '+', b == '+' || b == '-'
	case OpSub:
		return b == '-', b == '-' || b == '+'
	case OpRight:
		return b == '>', b == '>' || b == '<'
	case OpLeft:
		return b == '<', b == '<' || b == '>'
	}
	return false, false
}

// SyntaxError reports a malformed program.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bf: offset %d: %s", e.Offset, e.Msg)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Parse folds src into instructions and resolves bracket pairs. A run of
// the same arithmetic or movement symbol becomes one instruction; an
// immediately following opposite symbol decrements the run, never below
// zero. A run that reaches 255 ends there and the next symbol starts a new
// one. Whitespace separates runs and is otherwise ignored.
func Parse(src []byte) ([]Instr, error) {
	prog := make([]Instr, 0, len(src)/4+1)
	i := 0
	for i < len(src) {
		b := src[i]
		if isSpace(b) {
			i++
			continue
		}
		op, ok := opFor(b)
		if !ok {
			return nil, &SyntaxError{Offset: i, Msg: fmt.Sprintf("unexpected char %q", b)}
		}
		in := Instr{Op: op, Count: 1, Offset: i}
		i++
		for i < len(src) {
			grow, ok := folds(op, src[i])
			if !ok || (grow && in.Count == 255) {
				break
			}
			switch {
			case grow:
				in.Count++
			case in.Count > 0:
				in.Count--
			}
			i++
		}
		prog = append(prog, in)
	}
	if err := resolveJumps(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

func resolveJumps(prog []Instr) error {
	var open []int
	for i := range prog {
		switch prog[i].Op {
		case OpJump:
			open = append(open, i)
		case OpJumpBack:
			if len(open) == 0 {
				return &SyntaxError{Offset: prog[i].Offset, Msg: "unmatched ']'"}
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			end, err := safecast.Conv[uint32](i)
			if err != nil {
				return &SyntaxError{Offset: prog[i].Offset, Msg: "program too large"}
			}
			back, err := safecast.Conv[uint32](start)
			if err != nil {
				return &SyntaxError{Offset: prog[start].Offset, Msg: "program too large"}
			}
			prog[start].Target = end
			prog[i].Target = back
		}
	}
	if len(open) > 0 {
		return &SyntaxError{Offset: prog[open[len(open)-1]].Offset, Msg: "unmatched '['"}
	}
	return nil
}

// Format renders folded instructions back to Brainfuck text.
func Format(prog []Instr) string {
	var b strings.Builder
	for _, in := range prog {
		switch in.Op {
		case OpAdd, OpSub, OpRight, OpLeft:
			b.WriteString(strings.Repeat(string(in.Op.Symbol()), int(in.Count)))
		default:
			b.WriteByte(in.Op.Symbol())
		}
	}
	return b.String()
}
