// Package bf holds a closure-driven Brainfuck emitter and a run-length
// folding interpreter with a poll-style API.
package bf

// Emitter appends Brainfuck instructions to a growing program.
type Emitter struct {
	buf []byte
}

// Construct runs f against a fresh emitter and returns the program text.
// Every program starts with a single '+', which marks the index cell live.
func Construct(f func(*Emitter)) []byte {
	e := &Emitter{buf: make([]byte, 0, 64)}
	e.Increase(1)
	if f != nil {
		f(e)
	}
	return e.buf
}

func (e *Emitter) repeat(sym byte, n uint8) {
	for range n {
		e.buf = append(e.buf, sym)
	}
}

func (e *Emitter) Increase(n uint8)  { e.repeat('+', n) }
func (e *Emitter) Decrease(n uint8)  { e.repeat('-', n) }
func (e *Emitter) MoveRight(n uint8) { e.repeat('>', n) }
func (e *Emitter) MoveLeft(n uint8)  { e.repeat('<', n) }

func (e *Emitter) Output() { e.buf = append(e.buf, '.') }
func (e *Emitter) Input()  { e.buf = append(e.buf, ',') }

// Debug emits the '?' breakpoint instruction.
func (e *Emitter) Debug() { e.buf = append(e.buf, '?') }

// Loop wraps whatever inner emits in a '[' ']' pair.
func (e *Emitter) Loop(inner func(*Emitter)) {
	e.buf = append(e.buf, '[')
	inner(e)
	e.buf = append(e.buf, ']')
}

// LoopValue is Loop for bodies that compute a value while emitting; the
// value is handed back to the caller once the loop is closed.
func LoopValue[T any](e *Emitter, inner func(*Emitter) T) T {
	e.buf = append(e.buf, '[')
	v := inner(e)
	e.buf = append(e.buf, ']')
	return v
}

// Len reports the number of instruction bytes emitted so far.
func (e *Emitter) Len() int { return len(e.buf) }

// Text returns a program that writes text. It works in the cell right of
// the index cell, clearing it before each byte.
func Text(text []byte) []byte {
	return Construct(func(e *Emitter) {
		e.MoveRight(1)
		for _, b := range text {
			e.Loop(func(e *Emitter) { e.Decrease(1) })
			e.Increase(b)
			e.Output()
		}
	})
}
