package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"graphir/internal/eval"
)

type progressModel struct {
	title   string
	events  <-chan eval.RowEvent
	spinner spinner.Model
	prog    progress.Model
	rows    []rowItem
	width   int
	done    bool
}

type rowItem struct {
	label  string
	status string
	result string
}

type rowMsg eval.RowEvent
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders the rows of a
// parallel evaluation as they start and finish. labels names each row.
func NewProgressModel(title string, labels []string, events <-chan eval.RowEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	rows := make([]rowItem, len(labels))
	for i, label := range labels {
		rows[i] = rowItem{label: label, status: "queued"}
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		rows:    rows,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rowMsg:
		cmd := m.applyEvent(eval.RowEvent(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = "done: " + header
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-12-4, 20)
	for _, row := range m.rows {
		line := row.label
		if row.result != "" {
			line += " = " + row.result
		}
		status := styleStatus(row.status).Render(fmt.Sprintf("%9s", row.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(line, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return rowMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev eval.RowEvent) tea.Cmd {
	if ev.Index < 0 || ev.Index >= len(m.rows) {
		return nil
	}
	row := &m.rows[ev.Index]
	switch {
	case !ev.Done:
		row.status = "running"
	case ev.Err != nil:
		row.status = "error"
		row.result = ev.Err.Error()
	default:
		row.status = "done"
		row.result = ev.Result.String()
	}

	finished := 0
	for _, r := range m.rows {
		if r.status == "done" || r.status == "error" {
			finished++
		}
	}
	return m.prog.SetPercent(float64(finished) / float64(len(m.rows)))
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "running":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
