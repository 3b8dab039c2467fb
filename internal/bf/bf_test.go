package bf_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"graphir/internal/bf"
)

func TestConstruct(t *testing.T) {
	got := bf.Construct(func(e *bf.Emitter) {
		e.Increase(2)
		e.MoveRight(1)
		e.Loop(func(e *bf.Emitter) {
			e.Decrease(1)
			e.MoveLeft(2)
		})
		e.Input()
		e.Output()
		e.Debug()
	})
	if want := "+++>[-<<],.?"; string(got) != want {
		t.Fatalf("Construct = %q, want %q", got, want)
	}
	if got := bf.Construct(nil); string(got) != "+" {
		t.Fatalf("empty Construct = %q, want %q", got, "+")
	}
}

func TestLoopValue(t *testing.T) {
	var n int
	src := bf.Construct(func(e *bf.Emitter) {
		n = bf.LoopValue(e, func(e *bf.Emitter) int {
			e.Decrease(1)
			return e.Len()
		})
	})
	if string(src) != "+[-]" {
		t.Fatalf("src = %q", src)
	}
	if n != 3 {
		t.Fatalf("LoopValue returned %d, want 3", n)
	}
}

func TestParseFolding(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"+++", "+3"},
		{"+++--", "+1"},
		{"+-", "+0"},
		{"-+++", "-0"},
		{"-+ +", "-0 +1"},
		{">><", ">1"},
		{"<<<>", "<2"},
		{"++ ++", "+2 +2"},
		{"[-]", "[->2 -1 ]->0"},
		{".,?", ". , ?"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, err := bf.Parse([]byte(tt.src))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			parts := make([]string, len(prog))
			for i, in := range prog {
				parts[i] = in.String()
			}
			if got := strings.Join(parts, " "); got != tt.want {
				t.Fatalf("folded = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLongRunSplits(t *testing.T) {
	prog, err := bf.Parse([]byte(strings.Repeat(">", 300)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog) != 2 || prog[0].Count != 255 || prog[1].Count != 45 {
		t.Fatalf("unexpected runs: %v", prog)
	}
	in := bf.New()
	if err := in.Load([]byte(strings.Repeat(">", 300))); err != nil {
		t.Fatal(err)
	}
	if out := in.Poll(); out.Kind != bf.OutputEnd {
		t.Fatalf("Poll = %v", out)
	}
	if in.Pos != 300 {
		t.Fatalf("Pos = %d, want 300", in.Pos)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src    string
		msg    string
		offset int
	}{
		{"[", "unmatched '['", 0},
		{"+[[-]", "unmatched '['", 1},
		{"+]", "unmatched ']'", 1},
		{"+a", "unexpected char 'a'", 1},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := bf.Parse([]byte(tt.src))
			var syn *bf.SyntaxError
			if !errors.As(err, &syn) {
				t.Fatalf("err = %v, want *SyntaxError", err)
			}
			if syn.Msg != tt.msg || syn.Offset != tt.offset {
				t.Fatalf("got %q at %d, want %q at %d", syn.Msg, syn.Offset, tt.msg, tt.offset)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	src := "+++[>++<-]>."
	prog, err := bf.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if got := bf.Format(prog); got != src {
		t.Fatalf("Format = %q, want %q", got, src)
	}
}

func run(t *testing.T, in *bf.Interpreter) string {
	t.Helper()
	var out []byte
	for range 10000 {
		o := in.Poll()
		switch o.Kind {
		case bf.OutputByte:
			out = append(out, o.Byte)
		case bf.OutputEnd:
			return string(out)
		case bf.OutputInput:
			t.Fatalf("unexpected input request at pc %d", in.PC)
		}
	}
	t.Fatal("program did not finish")
	return ""
}

func load(t *testing.T, src []byte) *bf.Interpreter {
	t.Helper()
	in := bf.New()
	if err := in.Load(src); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return in
}

func TestHelloWorld(t *testing.T) {
	src := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>?.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
	in := load(t, []byte(src))
	if got := run(t, in); got != "Hello World!\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestConstructedLoopRuns(t *testing.T) {
	src := bf.Construct(func(e *bf.Emitter) {
		e.Increase(2)
		e.Loop(func(e *bf.Emitter) {
			e.MoveRight(1)
			e.Increase(2)
			e.MoveLeft(1)
			e.Decrease(1)
		})
		e.MoveRight(1)
		e.Output()
	})
	if got := run(t, load(t, src)); got != "\x06" {
		t.Fatalf("output = %q, want 6", got)
	}
}

func TestSaturation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want byte
	}{
		{"sub below zero", "---.", 0},
		{"add above max", strings.Repeat("+", 255) + "+++.", 255},
		{"left of first cell", "<<+.", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := load(t, []byte(tt.src))
			out := in.Poll()
			if out.Kind != bf.OutputByte || out.Byte != tt.want {
				t.Fatalf("Poll = %+v, want byte %d", out, tt.want)
			}
		})
	}

	in := load(t, []byte(strings.Repeat(">", 255)))
	in.Pos = bf.MemorySize - 10
	in.Poll()
	if in.Pos != bf.MemorySize-1 {
		t.Fatalf("Pos = %d, want clamp at %d", in.Pos, bf.MemorySize-1)
	}
}

func TestInputIsLIFO(t *testing.T) {
	in := load(t, []byte(",.,."))
	if out := in.Poll(); out.Kind != bf.OutputInput {
		t.Fatalf("first Poll = %+v, want input request", out)
	}
	if in.PC != 0 {
		t.Fatalf("PC = %d, want rewind to 0", in.PC)
	}
	in.Feed([]byte("ab"))
	var got []byte
	for {
		out := in.Poll()
		if out.Kind == bf.OutputEnd {
			break
		}
		if out.Kind != bf.OutputByte {
			t.Fatalf("Poll = %+v", out)
		}
		got = append(got, out.Byte)
	}
	if string(got) != "ba" {
		t.Fatalf("output = %q, want %q", got, "ba")
	}
	if in.Pending() != 0 {
		t.Fatalf("Pending = %d", in.Pending())
	}
}

func TestDebugHook(t *testing.T) {
	in := load(t, []byte("+?."))
	if got := run(t, in); got != "\x01" {
		t.Fatalf("without hook output = %q", got)
	}

	in = load(t, []byte("+?."))
	var calls int
	in.Debug = func(it *bf.Interpreter) (bf.Output, bool) {
		calls++
		next, ok := it.Next()
		if !ok || next.Op != bf.OpOutput {
			t.Errorf("Next = %v, %v", next, ok)
		}
		return bf.Output{Kind: bf.OutputByte, Byte: 42}, true
	}
	if got := run(t, in); got != "*\x01" {
		t.Fatalf("with hook output = %q", got)
	}
	if calls != 1 {
		t.Fatalf("hook calls = %d, want 1", calls)
	}
}

func TestStepAndWindow(t *testing.T) {
	in := load(t, []byte("+>++>+++"))
	for range 3 {
		if _, ok := in.Step(); ok {
			t.Fatal("Step produced output early")
		}
	}
	start, cells := in.Window(2)
	if start != 0 || len(cells) != 3 || cells[0] != 1 || cells[1] != 2 {
		t.Fatalf("Window = %d %v", start, cells)
	}
	if in.Steps() != 3 {
		t.Fatalf("Steps = %d", in.Steps())
	}
	in.Step()
	in.Step()
	out, ok := in.Step()
	if !ok || out.Kind != bf.OutputEnd {
		t.Fatalf("Step at end = %+v %v", out, ok)
	}
}

func TestTextProgram(t *testing.T) {
	for _, text := range []string{"", "hi", "Hello, World!\n", "\x00\xff\x01"} {
		t.Run(fmt.Sprintf("%q", text), func(t *testing.T) {
			if got := run(t, load(t, bf.Text([]byte(text)))); got != text {
				t.Fatalf("output = %q, want %q", got, text)
			}
		})
	}
}
