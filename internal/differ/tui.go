// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrSelectionAborted is returned when the picker is quit without choosing.
var ErrSelectionAborted = errors.New("selection aborted")

// Choice is one selectable tag.
type Choice struct {
	ID    string
	Label string
}

// SelectTags lets the user pick two tags interactively. The picks are
// returned in list order, so the earlier tag is the diff baseline.
func SelectTags(choices []Choice) ([]Choice, error) {
	if len(choices) < 2 {
		return nil, fmt.Errorf("need at least two tags to select from, have %d", len(choices))
	}
	final, err := tea.NewProgram(newPicker(choices)).Run()
	if err != nil {
		return nil, err
	}
	m := final.(picker)
	if !m.done {
		return nil, ErrSelectionAborted
	}
	return m.picked(), nil
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Go     key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Go, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Go:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "diff")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type picker struct {
	choices  []Choice
	cursor   int
	selected map[int]bool
	done     bool
	help     help.Model
}

func newPicker(choices []Choice) picker {
	return picker{choices: choices, selected: map[int]bool{}, help: help.New()}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(k, keys.Quit):
		m.selected = map[int]bool{}
		return m, tea.Quit
	case key.Matches(k, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(k, keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case key.Matches(k, keys.Toggle):
		sel := make(map[int]bool, len(m.selected)+1)
		for i := range m.selected {
			sel[i] = true
		}
		if sel[m.cursor] {
			delete(sel, m.cursor)
		} else if len(sel) < 2 {
			sel[m.cursor] = true
		}
		m.selected = sel
	case key.Matches(k, keys.Go):
		if len(m.selected) == 2 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m picker) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select two tags to diff:"))
	b.WriteString("\n")
	for i, c := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = cursorStyle.Render(">")
		}
		mark := "[ ]"
		if m.selected[i] {
			mark = selectedStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "%s %s %-24s %s\n", cursor, mark, c.ID, c.Label)
	}
	b.WriteString("\n" + m.help.View(keys) + "\n")
	return b.String()
}

func (m picker) picked() []Choice {
	var out []Choice
	for i, c := range m.choices {
		if m.selected[i] {
			out = append(out, c)
		}
	}
	return out
}
