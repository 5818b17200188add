package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	objr "github.com/drewcrawford/objr"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	classStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	rt      objr.Runtime
	kind    string
	input   textinput.Model
	history []report
}

func newInteractiveModel(rt objr.Runtime, fake bool) *interactiveModel {
	kind := "host runtime"
	if fake {
		kind = "simulated runtime"
	}
	ti := textinput.New()
	ti.Placeholder = "NSDate [selector]"
	ti.Prompt = "probe> "
	ti.Width = 48
	ti.Focus()
	return &interactiveModel{rt: rt, kind: kind, input: ti}
}

type probeMsg struct {
	r report
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) probe(className, selName string) tea.Cmd {
	return func() tea.Msg {
		return probeMsg{r: runProbe(m.rt, className, selName)}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			fields := strings.Fields(m.input.Value())
			if len(fields) == 0 {
				return m, nil
			}
			className := fields[0]
			selName := ""
			if len(fields) > 1 {
				selName = fields[1]
			}
			m.input.SetValue("")
			return m, m.probe(className, selName)
		}

	case probeMsg:
		m.history = append(m.history, msg.r)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("objcprobe"))
	b.WriteString(" ")
	b.WriteString(m.kind)
	b.WriteString("\n\n")

	for _, r := range m.history {
		b.WriteString(m.formatReport(r))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter probe • esc quit"))
	return b.String()
}

func (m *interactiveModel) formatReport(r report) string {
	if r.err != nil {
		return classStyle.Render(r.class) + " " + errorStyle.Render(fmt.Sprintf("%v", r.err))
	}
	line := classStyle.Render(r.class) + " " + handleStyle.Render(r.classHandle.String())
	if r.description != "" {
		line += " " + r.description
	}
	if r.selector != "" {
		line += fmt.Sprintf(" responds(%s)=%v", r.selector, r.responds)
	}
	return line
}

func runInteractive(rt objr.Runtime, fake bool) error {
	p := tea.NewProgram(newInteractiveModel(rt, fake), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
