package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"graphir/internal/bf"
)

// Action is what the user chose when the debugger closed.
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionContinue
	ActionStep
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionContinue:
		return "continue"
	case ActionStep:
		return "step"
	}
	return "none"
}

type debugKeys struct {
	Quit     key.Binding
	Continue key.Binding
	Step     key.Binding
}

func (k debugKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Continue, k.Step}
}

func (k debugKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultDebugKeys = debugKeys{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Continue: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "continue")),
	Step:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "step")),
}

// windowRadius is how many cells either side of the pointer are shown.
const windowRadius = 5

// DebugModel shows the interpreter state at a breakpoint and waits for a key.
type DebugModel struct {
	in     *bf.Interpreter
	keys   debugKeys
	help   help.Model
	width  int
	action Action
}

// NewDebugModel returns a Bubble Tea model paused on in.
func NewDebugModel(in *bf.Interpreter) *DebugModel {
	return &DebugModel{
		in:    in,
		keys:  defaultDebugKeys,
		help:  help.New(),
		width: 80,
	}
}

// Action returns the key the user chose, ActionNone while still open.
func (m *DebugModel) Action() Action { return m.action }

func (m *DebugModel) Init() tea.Cmd { return nil }

func (m *DebugModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.action = ActionQuit
			return m, tea.Quit
		case key.Matches(msg, m.keys.Continue):
			m.action = ActionContinue
			return m, tea.Quit
		case key.Matches(msg, m.keys.Step):
			m.action = ActionStep
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.help.Width = msg.Width
		}
	}
	return m, nil
}

var (
	debugTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	debugBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	pointerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

func (m *DebugModel) View() string {
	var b strings.Builder
	b.WriteString(debugTitleStyle.Render("debug"))
	b.WriteString("\n")

	inner := max(m.width-4, 20)
	lines := []string{
		truncate("Memory: "+m.memoryLine(), inner),
		fmt.Sprintf("PC: %d", m.in.PC),
		fmt.Sprintf("Position: %d", m.in.Pos),
		"Instruction: " + m.nextLine(),
	}
	b.WriteString(debugBoxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *DebugModel) memoryLine() string {
	start, cells := m.in.Window(windowRadius)
	parts := make([]string, len(cells))
	for i, c := range cells {
		cell := fmt.Sprintf("%d", c)
		if start+i == m.in.Pos {
			cell = pointerStyle.Render("[" + cell + "]")
		}
		parts[i] = cell
	}
	return strings.Join(parts, " ")
}

func (m *DebugModel) nextLine() string {
	next, ok := m.in.Next()
	if !ok {
		return "<end>"
	}
	return next.String()
}

// Debugger pauses a bf program on every '?' until the user continues.
// Continuing with 'c' turns off every later pause for the rest of the run;
// 's' executes one instruction and pauses again at the next '?'.
type Debugger struct {
	input  io.Reader
	output io.Writer
	// continuing disables further pauses after 'c'.
	continuing bool
	// Err keeps the first terminal failure; the program keeps running.
	Err error
}

// NewDebugger returns a debugger drawing on output and reading keys from input.
func NewDebugger(input io.Reader, output io.Writer) *Debugger {
	return &Debugger{input: input, output: output}
}

// Hook returns the bf.DebugHook backed by this debugger.
func (d *Debugger) Hook() bf.DebugHook {
	return func(in *bf.Interpreter) (bf.Output, bool) {
		if d.continuing {
			return bf.Output{}, false
		}
		model := NewDebugModel(in)
		program := tea.NewProgram(model, tea.WithInput(d.input), tea.WithOutput(d.output), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			if d.Err == nil {
				d.Err = err
			}
			return bf.Output{}, false
		}
		return d.resume(in, model.Action())
	}
}

func (d *Debugger) resume(in *bf.Interpreter, action Action) (bf.Output, bool) {
	switch action {
	case ActionContinue:
		d.continuing = true
		return in.Step()
	case ActionStep:
		return in.Step()
	}
	return bf.Output{}, false
}
