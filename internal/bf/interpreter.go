package bf

// MemorySize is the number of cells every interpreter starts with.
const MemorySize = 30000

// OutputKind tells why Poll returned.
type OutputKind uint8

const (
	OutputByte OutputKind = iota + 1
	OutputInput
	OutputEnd
)

func (k OutputKind) String() string {
	switch k {
	case OutputByte:
		return "byte"
	case OutputInput:
		return "input"
	case OutputEnd:
		return "end"
	}
	return "?"
}

// Output is what a poll produced. Byte is set for OutputByte only.
type Output struct {
	Kind OutputKind
	Byte byte
}

// DebugHook is invoked when the program reaches '?'. When it reports
// true the returned output is handed to the caller of Poll.
type DebugHook func(in *Interpreter) (Output, bool)

// Interpreter executes folded programs on a byte tape. Cell arithmetic
// and pointer movement saturate instead of wrapping.
type Interpreter struct {
	Memory []byte
	Pos    int
	PC     int
	Debug  DebugHook

	prog  []Instr
	input []byte
	steps uint64
}

func New() *Interpreter {
	return &Interpreter{Memory: make([]byte, MemorySize)}
}

// Load parses src and resets the program counter. Memory and pending input
// are kept.
func (in *Interpreter) Load(src []byte) error {
	prog, err := Parse(src)
	if err != nil {
		return err
	}
	in.prog = prog
	in.PC = 0
	return nil
}

// Program returns the loaded instructions.
func (in *Interpreter) Program() []Instr { return in.prog }

// Next returns the instruction at the program counter.
func (in *Interpreter) Next() (Instr, bool) {
	if in.PC < 0 || in.PC >= len(in.prog) {
		return Instr{}, false
	}
	return in.prog[in.PC], true
}

// Steps reports how many instructions have executed.
func (in *Interpreter) Steps() uint64 { return in.steps }

// Feed queues input bytes. The queue is a stack: the last byte fed is the
// first one read.
func (in *Interpreter) Feed(data []byte) {
	in.input = append(in.input, data...)
}

// Pending reports how many input bytes are queued.
func (in *Interpreter) Pending() int { return len(in.input) }

// Done reports whether the program counter ran past the program.
func (in *Interpreter) Done() bool { return in.PC >= len(in.prog) }

// Poll runs until the program writes a byte, starves for input, or ends.
// On input starvation the program counter is left on the ',' so the next
// Poll retries it after Feed.
func (in *Interpreter) Poll() Output {
	for {
		out, ok := in.Step()
		if ok {
			return out
		}
	}
}

// Step executes a single instruction. ok is false when the instruction
// produced nothing for the caller.
func (in *Interpreter) Step() (out Output, ok bool) {
	if in.Done() {
		return Output{Kind: OutputEnd}, true
	}
	ins := in.prog[in.PC]
	in.PC++
	in.steps++
	return in.exec(ins)
}

func (in *Interpreter) exec(ins Instr) (Output, bool) {
	cell := &in.Memory[in.Pos]
	switch ins.Op {
	case OpAdd:
		if int(*cell)+int(ins.Count) > 255 {
			*cell = 255
		} else {
			*cell += ins.Count
		}
	case OpSub:
		if *cell < ins.Count {
			*cell = 0
		} else {
			*cell -= ins.Count
		}
	case OpRight:
		in.Pos = min(in.Pos+int(ins.Count), len(in.Memory)-1)
	case OpLeft:
		in.Pos = max(in.Pos-int(ins.Count), 0)
	case OpOutput:
		return Output{Kind: OutputByte, Byte: *cell}, true
	case OpInput:
		n := len(in.input)
		if n == 0 {
			in.PC--
			return Output{Kind: OutputInput}, true
		}
		*cell = in.input[n-1]
		in.input = in.input[:n-1]
	case OpJump:
		if *cell == 0 {
			in.PC = int(ins.Target)
		}
	case OpJumpBack:
		if *cell != 0 {
			in.PC = int(ins.Target)
		}
	case OpDebug:
		if in.Debug != nil {
			return in.Debug(in)
		}
	}
	return Output{}, false
}

// Window returns up to radius cells on each side of the pointer and the
// index of the first one.
func (in *Interpreter) Window(radius int) (start int, cells []byte) {
	start = max(in.Pos-radius, 0)
	end := min(in.Pos+radius, len(in.Memory))
	return start, in.Memory[start:end]
}
