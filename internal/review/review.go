// Package review implements the interactive pre-commit reviewer
// (--interactive): a focused bubbletea component with its own
// Init/Update/View, driven by WindowSizeMsg and key events, reporting
// its outcome through a field read after the program exits rather than
// a callback.
package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unxed/patchctl/internal/diag"
)

// FileReview is one file's before/after pair, ready to be diffed and
// shown to the operator.
type FileReview struct {
	RelPath string
	Before  string
	After   string
}

// Decision is the operator's verdict once the program exits.
type Decision int

const (
	DecisionPending Decision = iota
	DecisionCommit
	DecisionAbort
)

var (
	listStyle      = lipgloss.NewStyle().PaddingRight(2)
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model is the reviewer's bubbletea model: a file list on the left, a
// scrollable unified diff of the selected file on the right.
type Model struct {
	files    []FileReview
	diffs    []string
	cursor   int
	viewport viewport.Model
	decision Decision
	ready    bool
}

// NewModel renders each file's unified diff up front and returns a
// Model positioned on the first file.
func NewModel(files []FileReview) Model {
	diffs := make([]string, len(files))
	for i, f := range files {
		text, err := diag.UnifiedDiffText(f.RelPath, f.Before, f.After)
		if err != nil {
			text = fmt.Sprintf("(failed to render diff: %v)", err)
		}
		diffs[i] = text
	}
	return Model{files: files, diffs: diffs}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		listWidth := 28
		vpWidth := msg.Width - listWidth - 4
		if vpWidth < 20 {
			vpWidth = 20
		}
		vpHeight := msg.Height - 4
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(vpWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = vpWidth
			m.viewport.Height = vpHeight
		}
		m.syncViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "y":
			m.decision = DecisionCommit
			return m, tea.Quit
		case "n", "ctrl+c", "q", "esc":
			m.decision = DecisionAbort
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.syncViewport()
			}
		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
				m.syncViewport()
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) syncViewport() {
	if !m.ready || len(m.diffs) == 0 {
		return
	}
	m.viewport.SetContent(m.diffs[m.cursor])
	m.viewport.GotoTop()
}

func (m Model) View() string {
	if !m.ready {
		return "loading review…"
	}

	var list strings.Builder
	for i, f := range m.files {
		line := f.RelPath
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		list.WriteString(line + "\n")
	}

	header := headerStyle.Render(fmt.Sprintf("patchctl review — %d file(s) changed", len(m.files)))
	help := helpStyle.Render("↑/↓ select file · y commit · n/esc abort")

	body := lipgloss.JoinHorizontal(lipgloss.Top, listStyle.Render(list.String()), m.viewport.View())
	return header + "\n\n" + body + "\n" + help
}

// Decision returns the operator's verdict. A program that exits before
// any y/n/ctrl+c key — a Kill from the host process, say — leaves this
// at DecisionPending, which callers must treat as an abort.
func (m Model) Decision() Decision {
	return m.decision
}
